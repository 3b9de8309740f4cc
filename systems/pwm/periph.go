package pwm

import (
	"strconv"
	"sync"

	"github.com/go-home-io/lightmgr/plugins/common"
	"github.com/go-home-io/lightmgr/plugins/driver"
	"github.com/go-home-io/lightmgr/utils"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
)

// PinLookup resolves pin by its name.
type PinLookup func(name string) gpio.PinIO

// ConstructPeriphDriver has data required for a new periph.io backed driver.
type ConstructPeriphDriver struct {
	Logger     common.ILoggerProvider `validate:"required"`
	Channels   uint32                 `default:"8" validate:"gt=0,lte=32"`
	Resolution uint8                  `default:"13" validate:"gt=0,lte=20"`
	Frequency  uint32                 `default:"5000" validate:"gt=0"`
	Lookup     PinLookup
}

// PeriphDriver is a duty and pin driver on top of periph.io GPIO.
// Fades are not supported by hardware, software engine should be used.
type PeriphDriver interface {
	driver.IDutyDriver
	driver.IResolutionDriver
	driver.IPinDriver
}

type periphChannel struct {
	pin     gpio.PinIO
	maxDuty int32
	freq    uint32
	duty    int32
	phase   int32
}

type periphDriver struct {
	sync.Mutex
	logger   common.ILoggerProvider
	lookup   PinLookup
	channels []*periphChannel
	pins     map[string]gpio.PinIO
}

// NewPeriphDriver constructs a new periph.io driver.
// host.Init must be called before.
func NewPeriphDriver(ctor *ConstructPeriphDriver) PeriphDriver {
	lookup := ctor.Lookup
	if nil == lookup {
		lookup = gpioreg.ByName
	}

	d := &periphDriver{
		logger:   ctor.Logger,
		lookup:   lookup,
		channels: make([]*periphChannel, ctor.Channels),
		pins:     make(map[string]gpio.PinIO),
	}

	for ii := range d.channels {
		d.channels[ii] = &periphChannel{
			maxDuty: maxDutyFor(ctor.Resolution),
			freq:    ctor.Frequency,
		}
	}

	return d
}

// Channels returns number of channels.
func (d *periphDriver) Channels() uint32 {
	return uint32(len(d.channels))
}

// ChannelStart binds channel to a GPIO pin and turns it off.
func (d *periphDriver) ChannelStart(channel uint32, pin string) error {
	d.Lock()
	defer d.Unlock()

	ch, err := d.get(channel)
	if err != nil {
		return err
	}

	p := d.lookup(pin)
	if nil == p {
		return &driver.ErrUnknownPin{Pin: pin}
	}

	ch.pin = p
	ch.duty = 0
	if err := p.Out(gpio.Low); err != nil {
		return &driver.ErrDriverRejected{Channel: channel, Reason: err.Error()}
	}

	d.logger.Debug("Channel started", common.LogChannelToken, strconv.Itoa(int(channel)),
		common.LogPinToken, pin)
	return nil
}

// ChannelSetDutyAndPhase sets duty immediately.
// Phase is stored only since GPIO PWM doesn't support it.
func (d *periphDriver) ChannelSetDutyAndPhase(channel uint32, duty int32, phase int32) error {
	d.Lock()
	defer d.Unlock()

	ch, err := d.get(channel)
	if err != nil {
		return err
	}

	if nil == ch.pin {
		return &driver.ErrDriverRejected{Channel: channel, Reason: "channel is not started"}
	}

	duty = utils.ClampInt32(duty, 0, ch.maxDuty)
	if err := d.apply(ch, duty); err != nil {
		return &driver.ErrDriverRejected{Channel: channel, Reason: err.Error()}
	}

	ch.duty = duty
	ch.phase = utils.ClampInt32(phase, 0, ch.maxDuty)
	return nil
}

// ChannelGetDuty returns current duty.
func (d *periphDriver) ChannelGetDuty(channel uint32) int32 {
	d.Lock()
	defer d.Unlock()

	ch, err := d.get(channel)
	if err != nil {
		return 0
	}

	return ch.duty
}

// ChannelGetPhase returns stored phase.
func (d *periphDriver) ChannelGetPhase(channel uint32) int32 {
	d.Lock()
	defer d.Unlock()

	ch, err := d.get(channel)
	if err != nil {
		return 0
	}

	return ch.phase
}

// ChannelGetMaxDuty returns channel resolution.
func (d *periphDriver) ChannelGetMaxDuty(channel uint32) int32 {
	d.Lock()
	defer d.Unlock()

	ch, err := d.get(channel)
	if err != nil {
		return 0
	}

	return ch.maxDuty
}

// ChannelSetPWM changes resolution and frequency, duty is rescaled and re-applied.
func (d *periphDriver) ChannelSetPWM(channel uint32, resolution uint8, freq uint32) error {
	d.Lock()
	defer d.Unlock()

	ch, err := d.get(channel)
	if err != nil {
		return err
	}

	if resolution == 0 || resolution > 20 || freq == 0 {
		return &driver.ErrDriverRejected{Channel: channel, Reason: "unsupported pwm settings"}
	}

	newMax := maxDutyFor(resolution)
	if ch.maxDuty > 0 {
		ch.duty = int32(int64(ch.duty) * int64(newMax) / int64(ch.maxDuty))
		ch.phase = int32(int64(ch.phase) * int64(newMax) / int64(ch.maxDuty))
	}
	ch.maxDuty = newMax
	ch.freq = freq

	if nil == ch.pin {
		return nil
	}

	if err := d.apply(ch, ch.duty); err != nil {
		return &driver.ErrDriverRejected{Channel: channel, Reason: err.Error()}
	}

	return nil
}

// PinStart registers a new digital output, set to low.
func (d *periphDriver) PinStart(pin string) error {
	d.Lock()
	defer d.Unlock()

	p := d.lookup(pin)
	if nil == p {
		return &driver.ErrUnknownPin{Pin: pin}
	}

	if err := p.Out(gpio.Low); err != nil {
		return err
	}

	d.pins[pin] = p
	return nil
}

// PinSet sets digital output level.
func (d *periphDriver) PinSet(pin string, level bool) error {
	d.Lock()
	defer d.Unlock()

	p, ok := d.pins[pin]
	if !ok {
		return &driver.ErrUnknownPin{Pin: pin}
	}

	return p.Out(gpio.Level(level))
}

// PinGet reads digital output level.
func (d *periphDriver) PinGet(pin string) bool {
	d.Lock()
	defer d.Unlock()

	p, ok := d.pins[pin]
	if !ok {
		return false
	}

	return bool(p.Read())
}

// Edge duties are driven as plain levels.
func (d *periphDriver) apply(ch *periphChannel, duty int32) error {
	switch {
	case duty <= 0:
		return ch.pin.Out(gpio.Low)
	case duty >= ch.maxDuty:
		return ch.pin.Out(gpio.High)
	}

	return ch.pin.PWM(toPeriphDuty(duty, ch.maxDuty), physic.Frequency(ch.freq)*physic.Hertz)
}

func (d *periphDriver) get(channel uint32) (*periphChannel, error) {
	if channel >= uint32(len(d.channels)) {
		return nil, &driver.ErrInvalidChannel{Channel: channel}
	}

	return d.channels[channel], nil
}

// Converts channel duty into periph.io duty.
func toPeriphDuty(duty int32, maxDuty int32) gpio.Duty {
	if maxDuty <= 0 {
		return 0
	}

	return gpio.Duty(int64(duty) * int64(gpio.DutyMax) / int64(maxDuty))
}
