package light

import (
	"github.com/go-home-io/lightmgr/plugins/common"
	"github.com/go-home-io/lightmgr/plugins/driver"
	"github.com/go-home-io/lightmgr/plugins/light"
	"github.com/go-home-io/lightmgr/plugins/light/enums"
	"github.com/go-home-io/lightmgr/utils"
	"github.com/pkg/errors"
)

// Phase-shift capable member, used by composite lights.
type phaseShifter interface {
	DutyShift() int32
	setPhase(shift int32) bool
	shiftPhase(duty int32, shift int32) bool
}

// PWM dimmable light.
type pwmLight struct {
	*generic
	drv     driver.IDutyDriver
	fader   driver.IFadeController
	channel uint32
}

// ConstructPWMLight has data required for a new PWM light.
type ConstructPWMLight struct {
	Logger  common.ILoggerProvider `validate:"required"`
	Driver  driver.IDutyDriver     `validate:"required"`
	Channel uint32
	Pin     string      `validate:"pin"`
	Curve   enums.Curve `validate:"curve"`
	Power   float32     `default:"1" validate:"gte=0"`
	// Fader is optional, light changes values immediately without it.
	Fader  driver.IFadeController
	Engine driver.FadeEngine
}

// NewPWMLight constructs a new dimmable light on a PWM channel.
// Channel is started right away, failed fader attachment degrades to immediate changes.
func NewPWMLight(ctor *ConstructPWMLight) (light.IDimmableLight, error) {
	l := &pwmLight{
		generic: newGeneric(enums.LightDimmable, ctor.Curve, ctor.Power, ctor.Logger),
		drv:     ctor.Driver,
		channel: ctor.Channel,
	}
	l.impl = l
	l.self = l

	err := ctor.Driver.ChannelStart(ctor.Channel, ctor.Pin)
	if err != nil {
		return nil, errors.Wrap(err, "channel start")
	}

	if ctor.Fader != nil {
		err = ctor.Fader.SetFader(ctor.Channel, ctor.Engine, l.onFade)
		if err != nil {
			ctor.Logger.Warn("Failed to attach fader, fading is disabled", common.LogSystemToken, logSystem,
				common.LogChannelToken, utils.Utoa32(ctor.Channel), common.LogErrorToken, err.Error())
		} else {
			l.fader = ctor.Fader
		}
	}

	return l, nil
}

// Channel returns PWM channel.
func (l *pwmLight) Channel() uint32 {
	return l.channel
}

// DutyShift returns current PWM phase offset.
func (l *pwmLight) DutyShift() int32 {
	return l.drv.ChannelGetPhase(l.channel)
}

// SetDutyShift changes PWM phase offset, duty is preserved.
func (l *pwmLight) SetDutyShift(shift int32) bool {
	return l.setPhase(shift)
}

// SetDutyAndShift changes duty and PWM phase offset at once.
func (l *pwmLight) SetDutyAndShift(duty int32, shift int32) bool {
	if !l.shiftPhase(duty, shift) {
		return false
	}

	l.notify()
	return true
}

// SetPWM changes channel resolution and frequency, if driver supports it.
func (l *pwmLight) SetPWM(resolution uint8, freq uint32) error {
	rd, ok := l.drv.(driver.IResolutionDriver)
	if !ok {
		return &driver.ErrDriverRejected{Channel: l.channel, Reason: "resolution change is not supported"}
	}

	return rd.ChannelSetPWM(l.channel, resolution, freq)
}

func (l *pwmLight) value() int32 {
	return l.drv.ChannelGetDuty(l.channel)
}

func (l *pwmLight) maxValue() int32 {
	return l.drv.ChannelGetMaxDuty(l.channel)
}

func (l *pwmLight) setValue(value int32) bool {
	err := l.drv.ChannelSetDutyAndPhase(l.channel, value, l.drv.ChannelGetPhase(l.channel))
	if err != nil {
		l.logger.Debug("Duty change rejected, dropping", common.LogSystemToken, logSystem,
			common.LogChannelToken, utils.Utoa32(l.channel), common.LogErrorToken, err.Error())
		return false
	}

	l.notify()
	return true
}

// Fades to the value, falls back to immediate change if fade was rejected.
// Change callback fires on fade end.
func (l *pwmLight) fadeValue(value int32, duration int32) bool {
	if nil == l.fader || duration <= 0 {
		return l.setValue(value)
	}

	started, err := l.fader.FadeByTime(l.channel, value, duration)
	if err != nil {
		l.logger.Debug("Fade rejected, setting value", common.LogSystemToken, logSystem,
			common.LogChannelToken, utils.Utoa32(l.channel), common.LogErrorToken, err.Error())
		return l.setValue(value)
	}

	if !started {
		l.notify()
	}

	return true
}

func (l *pwmLight) onFade(slot uint32, event driver.FadeEvent) {
	if driver.FadeEnd == event {
		l.notify()
	}
}

func (l *pwmLight) setPhase(shift int32) bool {
	return l.shiftPhase(l.drv.ChannelGetDuty(l.channel), shift)
}

func (l *pwmLight) shiftPhase(duty int32, shift int32) bool {
	max := l.maxValue()
	err := l.drv.ChannelSetDutyAndPhase(l.channel, utils.ClampInt32(duty, 0, max), utils.ClampInt32(shift, 0, max))
	if err != nil {
		l.logger.Debug("Phase change rejected", common.LogSystemToken, logSystem,
			common.LogChannelToken, utils.Utoa32(l.channel), common.LogErrorToken, err.Error())
		return false
	}

	return true
}
