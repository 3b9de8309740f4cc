// Package pwm provides duty drivers backing dimmable and constant lights.
package pwm

import (
	"strconv"
	"sync"
	"time"

	"github.com/go-home-io/lightmgr/plugins/common"
	"github.com/go-home-io/lightmgr/plugins/driver"
	"github.com/go-home-io/lightmgr/utils"
)

const (
	// Logger system.
	logSystem = "pwm"
)

// Simulated channel state.
type simChannel struct {
	started bool
	pin     string
	maxDuty int32
	freq    uint32
	duty    int32
	phase   int32

	fading    bool
	fadeFrom  int32
	fadeTo    int32
	fadeStart time.Time
	fadeTime  time.Duration
	timer     *time.Timer

	isrEnabled bool
	isr        driver.ISRHandler
}

// Simulated LEDC-like peripheral.
// Fade keeps channel busy until it's over and then fires fade interrupt.
type simDriver struct {
	sync.Mutex
	logger   common.ILoggerProvider
	channels []*simChannel
	pins     map[string]bool
	closed   bool
}

// ConstructSimDriver has data required for a new simulated driver.
type ConstructSimDriver struct {
	Logger     common.ILoggerProvider `validate:"required"`
	Channels   uint32                 `default:"8" validate:"gt=0,lte=32"`
	Resolution uint8                  `default:"13" validate:"gt=0,lte=20"`
	Frequency  uint32                 `default:"5000" validate:"gt=0"`
}

// SimDriver is a duty, fade and pin driver without real hardware.
type SimDriver interface {
	driver.IFadeDriver
	driver.IResolutionDriver
	driver.IPinDriver
	Close()
}

// NewSimDriver constructs a new simulated driver.
func NewSimDriver(ctor *ConstructSimDriver) SimDriver {
	d := &simDriver{
		logger:   ctor.Logger,
		channels: make([]*simChannel, ctor.Channels),
		pins:     make(map[string]bool),
	}

	for ii := range d.channels {
		d.channels[ii] = &simChannel{
			maxDuty: maxDutyFor(ctor.Resolution),
			freq:    ctor.Frequency,
		}
	}

	return d
}

// Channels returns number of channels.
func (d *simDriver) Channels() uint32 {
	return uint32(len(d.channels))
}

// ChannelStart binds channel to a pin.
func (d *simDriver) ChannelStart(channel uint32, pin string) error {
	d.Lock()
	defer d.Unlock()

	ch, err := d.get(channel)
	if err != nil {
		return err
	}

	ch.started = true
	ch.pin = pin
	d.logger.Debug("Channel started", common.LogChannelToken, strconv.Itoa(int(channel)),
		common.LogPinToken, pin)
	return nil
}

// ChannelSetDutyAndPhase sets duty and phase immediately.
// While fade is in progress only phase change towards the fade target is accepted.
func (d *simDriver) ChannelSetDutyAndPhase(channel uint32, duty int32, phase int32) error {
	d.Lock()
	defer d.Unlock()

	ch, err := d.started(channel)
	if err != nil {
		return err
	}

	duty = utils.ClampInt32(duty, 0, ch.maxDuty)
	phase = utils.ClampInt32(phase, 0, ch.maxDuty)

	if ch.fading {
		if duty != ch.fadeTo {
			return &driver.ErrDriverRejected{Channel: channel, Reason: "fade in progress"}
		}

		ch.phase = phase
		return nil
	}

	ch.duty = duty
	ch.phase = phase
	return nil
}

// ChannelGetDuty returns current duty, interpolated if channel is fading.
func (d *simDriver) ChannelGetDuty(channel uint32) int32 {
	d.Lock()
	defer d.Unlock()

	ch, err := d.get(channel)
	if err != nil {
		return 0
	}

	if !ch.fading || ch.fadeTime <= 0 {
		return ch.duty
	}

	passed := time.Since(ch.fadeStart)
	if passed >= ch.fadeTime {
		return ch.fadeTo
	}

	return ch.fadeFrom + int32(int64(ch.fadeTo-ch.fadeFrom)*int64(passed)/int64(ch.fadeTime))
}

// ChannelGetPhase returns current phase.
func (d *simDriver) ChannelGetPhase(channel uint32) int32 {
	d.Lock()
	defer d.Unlock()

	ch, err := d.get(channel)
	if err != nil {
		return 0
	}

	return ch.phase
}

// ChannelGetMaxDuty returns channel resolution.
func (d *simDriver) ChannelGetMaxDuty(channel uint32) int32 {
	d.Lock()
	defer d.Unlock()

	ch, err := d.get(channel)
	if err != nil {
		return 0
	}

	return ch.maxDuty
}

// ChannelSetPWM changes channel resolution and frequency, duty is rescaled.
func (d *simDriver) ChannelSetPWM(channel uint32, resolution uint8, freq uint32) error {
	d.Lock()
	defer d.Unlock()

	ch, err := d.get(channel)
	if err != nil {
		return err
	}

	if ch.fading {
		return &driver.ErrDriverRejected{Channel: channel, Reason: "fade in progress"}
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
	return nil
}

// ChannelEnableFadeInterrupt installs or removes fade-end interrupt handler.
func (d *simDriver) ChannelEnableFadeInterrupt(channel uint32, enable bool, isr driver.ISRHandler) error {
	d.Lock()
	defer d.Unlock()

	ch, err := d.get(channel)
	if err != nil {
		return err
	}

	ch.isrEnabled = enable
	if enable {
		ch.isr = isr
	} else {
		ch.isr = nil
	}

	return nil
}

// ChannelRequestFade starts hardware-like linear fade.
func (d *simDriver) ChannelRequestFade(channel uint32, duty int32, durationMs int32) error {
	d.Lock()
	defer d.Unlock()

	ch, err := d.started(channel)
	if err != nil {
		return err
	}

	if ch.fading {
		return &driver.ErrDriverRejected{Channel: channel, Reason: "fade in progress"}
	}

	if d.closed {
		return &driver.ErrDriverRejected{Channel: channel, Reason: "driver closed"}
	}

	if durationMs < 0 {
		durationMs = 0
	}

	ch.fading = true
	ch.fadeFrom = ch.duty
	ch.fadeTo = utils.ClampInt32(duty, 0, ch.maxDuty)
	ch.fadeStart = time.Now()
	ch.fadeTime = time.Duration(durationMs) * time.Millisecond
	ch.timer = time.AfterFunc(ch.fadeTime, func() {
		d.fadeOver(channel)
	})

	return nil
}

// PinStart registers a new digital output, set to low.
func (d *simDriver) PinStart(pin string) error {
	d.Lock()
	defer d.Unlock()

	d.pins[pin] = false
	return nil
}

// PinSet sets digital output level.
func (d *simDriver) PinSet(pin string, level bool) error {
	d.Lock()
	defer d.Unlock()

	if _, ok := d.pins[pin]; !ok {
		return &driver.ErrUnknownPin{Pin: pin}
	}

	d.pins[pin] = level
	return nil
}

// PinGet returns digital output level.
func (d *simDriver) PinGet(pin string) bool {
	d.Lock()
	defer d.Unlock()

	return d.pins[pin]
}

// Close stops all pending fades, no interrupts will be fired afterwards.
func (d *simDriver) Close() {
	d.Lock()
	defer d.Unlock()

	d.closed = true
	for _, ch := range d.channels {
		if ch.timer != nil {
			ch.timer.Stop()
		}

		ch.isrEnabled = false
		ch.isr = nil
	}
}

// Completes fade and fires interrupt outside of the lock.
func (d *simDriver) fadeOver(channel uint32) {
	d.Lock()
	ch := d.channels[channel]
	if !ch.fading {
		d.Unlock()
		return
	}

	ch.duty = ch.fadeTo
	ch.fading = false
	ch.timer = nil
	var isr driver.ISRHandler
	if ch.isrEnabled && !d.closed {
		isr = ch.isr
	}
	d.Unlock()

	if isr != nil {
		isr(channel)
	}
}

func (d *simDriver) get(channel uint32) (*simChannel, error) {
	if channel >= uint32(len(d.channels)) {
		return nil, &driver.ErrInvalidChannel{Channel: channel}
	}

	return d.channels[channel], nil
}

func (d *simDriver) started(channel uint32) (*simChannel, error) {
	ch, err := d.get(channel)
	if err != nil {
		return nil, err
	}

	if !ch.started {
		return nil, &driver.ErrDriverRejected{Channel: channel, Reason: "channel is not started"}
	}

	return ch, nil
}

// Maximum duty for the given resolution in bits.
func maxDutyFor(resolution uint8) int32 {
	if resolution == 0 {
		return 0
	}

	if resolution > 30 {
		resolution = 30
	}

	return int32(1)<<resolution - 1
}
