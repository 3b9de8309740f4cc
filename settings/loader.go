// Package settings is responsible for parsing start-up options and wiring shared services.
package settings

import (
	"sort"
	"strings"

	"github.com/go-home-io/lightmgr/plugins/bus"
	"github.com/go-home-io/lightmgr/plugins/common"
	"github.com/go-home-io/lightmgr/plugins/driver"
	"github.com/go-home-io/lightmgr/plugins/light/enums"
	"github.com/go-home-io/lightmgr/providers"
	"github.com/go-home-io/lightmgr/systems"
	ebus "github.com/go-home-io/lightmgr/systems/bus"
	"github.com/go-home-io/lightmgr/systems/fader"
	"github.com/go-home-io/lightmgr/systems/logger"
	"github.com/go-home-io/lightmgr/systems/pwm"
	"github.com/go-home-io/lightmgr/utils"
	"github.com/pkg/errors"
	"periph.io/x/host/v3"
)

const (
	// Logger system.
	logSystem = "settings"

	driverSim    = "sim"
	driverPeriph = "periph"
	engineAuto   = "auto"
)

// StartUpOptions defines arguments allowed by the system.
type StartUpOptions struct {
	Driver   string            `short:"d" long:"driver" choice:"sim" choice:"periph" default:"sim" description:"Duty driver."`
	Channels uint32            `long:"channels" default:"8" description:"Number of PWM channels."`
	Bits     uint8             `long:"bits" default:"13" description:"PWM resolution, bits."`
	Freq     uint32            `long:"freq" default:"5000" description:"PWM frequency, Hz."`
	Pins     map[string]uint32 `short:"p" long:"pin" description:"PWM pin bound to the channel, pin:channel."`

	Switch    string `long:"switch" description:"On/off pin."`
	ActiveLow bool   `long:"active-low" description:"On/off pin is active low."`

	Curve   string  `long:"curve" default:"cie1931" description:"Luma curve."`
	Share   string  `long:"share" default:"phaseshift" description:"Power share policy of the composite light."`
	Fade    string  `long:"fade" choice:"auto" choice:"none" choice:"hardware" choice:"software" default:"auto" description:"Fade engine."`
	Power   float32 `long:"power" default:"1" description:"Max power of a single channel, W."`
	Initial uint8   `long:"initial" description:"Initial brightness of the composite light, percent."`

	Group  int32    `short:"g" long:"group" default:"1" description:"Own control bus group."`
	ID     uint16   `long:"id" default:"1" description:"Node id."`
	Descr  string   `long:"descr" description:"Node description."`
	Report string   `long:"report" default:"@every 30s" description:"State report schedule."`
	Watch  []int32  `short:"w" long:"watch" description:"Groups to monitor."`
	Filter []string `long:"filter" description:"Monitored nodes filter."`

	LogLevel string `short:"l" long:"level" default:"info" description:"Log level."`
	Demo     bool   `long:"demo" description:"Run demo sequence and exit."`
}

// System settings.
type settingsProvider struct {
	logger     common.ILoggerProvider
	cron       providers.ICronProvider
	validator  providers.IValidatorProvider
	bus        bus.IControlBus
	dutyDriver driver.IDutyDriver
	pinDriver  driver.IPinDriver
	fader      driver.IFadeController
	node       *providers.NodeSettings
	closer     func()
}

// Load parses options and constructs shared services.
func Load(options *StartUpOptions) (providers.ISettingsProvider, error) {
	s := &settingsProvider{
		logger: logger.NewConsoleLogger(&logger.ConstructConsoleLogger{Level: options.LogLevel}),
	}

	s.validator = utils.NewValidator(s.logger)

	node, err := s.parseNode(options)
	if err != nil {
		return nil, err
	}

	s.node = node
	err = s.loadDriver(options)
	if err != nil {
		return nil, err
	}

	s.cron = utils.NewCron()
	_, err = s.cron.AddFunc("@every 10s", s.logger.Flush)
	if err != nil {
		return nil, errors.Wrap(err, "logger flush schedule")
	}

	s.bus = ebus.NewControlBus(&ebus.ConstructBus{
		Logger:    s.PluginLogger(systems.SysBus, "local"),
		QueueSize: 32,
	})

	s.fader = fader.NewFadeController(&fader.ConstructFadeController{
		Driver: s.dutyDriver,
		Logger: s.PluginLogger(systems.SysFader, node.Engine.String()),
	})

	s.logger.Info("Settings loaded", common.LogSystemToken, logSystem, "driver", options.Driver,
		common.LogGroupToken, utils.Itoa32(node.Group), "channels", utils.Utoa32(uint32(len(node.Channels))))
	return s, nil
}

// Converts options into lights settings.
func (s *settingsProvider) parseNode(options *StartUpOptions) (*providers.NodeSettings, error) {
	node := &providers.NodeSettings{
		Group:      options.Group,
		ID:         options.ID,
		Descr:      options.Descr,
		Channels:   make([]providers.NodeChannel, 0, len(options.Pins)),
		Switch:     options.Switch,
		ActiveLow:  options.ActiveLow,
		Power:      options.Power,
		Initial:    options.Initial,
		ReportSpec: options.Report,
		Watch:      options.Watch,
		Filters:    options.Filter,
		Demo:       options.Demo,
	}

	for k, v := range options.Pins {
		node.Channels = append(node.Channels, providers.NodeChannel{Pin: k, Channel: v})
	}

	sort.Slice(node.Channels, func(i, j int) bool {
		return node.Channels[i].Channel < node.Channels[j].Channel
	})

	var err error
	node.Curve, err = enums.CurveString(options.Curve)
	if err != nil {
		return nil, err
	}

	node.Share, err = enums.PowerShareString(options.Share)
	if err != nil {
		return nil, err
	}

	if strings.EqualFold(options.Fade, engineAuto) {
		node.Engine = driver.EngineHardware
		if options.Driver == driverPeriph {
			node.Engine = driver.EngineSoftware
		}
	} else {
		node.Engine, err = driver.FadeEngineString(options.Fade)
		if err != nil {
			return nil, err
		}
	}

	if !s.validator.Validate(node) {
		return nil, &utils.ErrInvalidConfig{}
	}

	return node, nil
}

// Constructs duty and pin drivers.
func (s *settingsProvider) loadDriver(options *StartUpOptions) error {
	switch options.Driver {
	case driverPeriph:
		if _, err := host.Init(); err != nil {
			return errors.Wrap(err, "periph host init")
		}

		ctor := &pwm.ConstructPeriphDriver{
			Logger:     s.PluginLogger(systems.SysDriver, driverPeriph),
			Channels:   options.Channels,
			Resolution: options.Bits,
			Frequency:  options.Freq,
		}
		if !s.validator.Validate(ctor) {
			return &utils.ErrInvalidConfig{}
		}

		d := pwm.NewPeriphDriver(ctor)
		s.dutyDriver = d
		s.pinDriver = d
	default:
		ctor := &pwm.ConstructSimDriver{
			Logger:     s.PluginLogger(systems.SysDriver, driverSim),
			Channels:   options.Channels,
			Resolution: options.Bits,
			Frequency:  options.Freq,
		}
		if !s.validator.Validate(ctor) {
			return &utils.ErrInvalidConfig{}
		}

		d := pwm.NewSimDriver(ctor)
		s.dutyDriver = d
		s.pinDriver = d
		s.closer = d.Close
	}

	return nil
}
