package providers

import (
	"github.com/go-home-io/lightmgr/plugins/bus"
	"github.com/go-home-io/lightmgr/plugins/common"
	"github.com/go-home-io/lightmgr/plugins/driver"
	"github.com/go-home-io/lightmgr/plugins/light/enums"
	"github.com/go-home-io/lightmgr/systems"
)

// ISettingsProvider defines settings loader provider logic.
type ISettingsProvider interface {
	SystemLogger() common.ILoggerProvider
	PluginLogger(system systems.SystemType, provider string) common.ILoggerProvider
	Bus() bus.IControlBus
	Cron() ICronProvider
	Validator() IValidatorProvider
	DutyDriver() driver.IDutyDriver
	PinDriver() driver.IPinDriver
	Fader() driver.IFadeController
	NodeSettings() *NodeSettings
	Close()
}

// NodeChannel describes single PWM channel bound to a pin.
type NodeChannel struct {
	Pin     string `validate:"required,pin"`
	Channel uint32
}

// NodeSettings has configured data for lights managed by this instance.
type NodeSettings struct {
	Group      int32  `validate:"gte=0"`
	ID         uint16 `validate:"gt=0,lt=65535"`
	Descr      string
	Channels   []NodeChannel `validate:"dive"`
	Switch     string `validate:"omitempty,pin"`
	ActiveLow  bool
	Curve      enums.Curve `validate:"curve"`
	Share      enums.PowerShare
	Engine     driver.FadeEngine
	Power      float32 `default:"1" validate:"gte=0"`
	FadeTime   int32   `default:"1000" validate:"gte=0"`
	Initial    uint8   `validate:"percent"`
	ReportSpec string
	Watch      []int32
	Filters    []string
	Demo       bool
}
