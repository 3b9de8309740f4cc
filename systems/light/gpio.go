package light

import (
	"github.com/go-home-io/lightmgr/plugins/common"
	"github.com/go-home-io/lightmgr/plugins/driver"
	"github.com/go-home-io/lightmgr/plugins/light"
	"github.com/go-home-io/lightmgr/plugins/light/enums"
	"github.com/pkg/errors"
)

// On/off light on a digital output.
type gpioLight struct {
	*generic
	drv   driver.IPinDriver
	pin   string
	level bool
}

// ConstructGPIOLight has data required for a new GPIO light.
type ConstructGPIOLight struct {
	Logger common.ILoggerProvider `validate:"required"`
	Driver driver.IPinDriver      `validate:"required"`
	Pin    string                 `validate:"required,pin"`
	Power  float32                `default:"1" validate:"gte=0"`
	// ActiveLow inverts output level.
	ActiveLow bool
}

// NewGPIOLight constructs a new constant light, output is switched off.
func NewGPIOLight(ctor *ConstructGPIOLight) (light.ILight, error) {
	l := &gpioLight{
		generic: newGeneric(enums.LightConstant, enums.CurveBinary, ctor.Power, ctor.Logger),
		drv:     ctor.Driver,
		pin:     ctor.Pin,
		level:   !ctor.ActiveLow,
	}
	l.impl = l
	l.self = l

	err := ctor.Driver.PinStart(ctor.Pin)
	if err != nil {
		return nil, errors.Wrap(err, "pin start")
	}

	err = ctor.Driver.PinSet(ctor.Pin, !l.level)
	if err != nil {
		return nil, errors.Wrap(err, "pin set")
	}

	return l, nil
}

func (l *gpioLight) value() int32 {
	if l.drv.PinGet(l.pin) == l.activeLevel() {
		return 1
	}

	return 0
}

func (l *gpioLight) maxValue() int32 {
	return 1
}

func (l *gpioLight) setValue(value int32) bool {
	on := value > 0
	err := l.drv.PinSet(l.pin, on == l.activeLevel())
	if err != nil {
		l.logger.Debug("Pin change rejected, dropping", common.LogSystemToken, logSystem,
			common.LogPinToken, l.pin, common.LogErrorToken, err.Error())
		return false
	}

	l.notify()
	return true
}

func (l *gpioLight) fadeValue(value int32, duration int32) bool {
	return l.setValue(value)
}

func (l *gpioLight) currentPower() float32 {
	if l.value() > 0 {
		return l.MaxPower()
	}

	return 0
}

func (l *gpioLight) activeLevel() bool {
	l.Lock()
	defer l.Unlock()
	return l.level
}

// Changes logic level keeping logical on/off state.
func (l *gpioLight) setActiveLevel(level bool) bool {
	on := l.value() > 0
	l.Lock()
	l.level = level
	l.Unlock()

	err := l.drv.PinSet(l.pin, on == level)
	if err != nil {
		l.logger.Error("Failed to apply logic level", err, common.LogSystemToken, logSystem,
			common.LogPinToken, l.pin)
		return false
	}

	return true
}
