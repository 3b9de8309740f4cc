//+build !release

package mocks

import (
	"sync"

	"github.com/go-home-io/lightmgr/plugins/driver"
)

// FakeDutyCall has recorded duty request.
type FakeDutyCall struct {
	Channel  uint32
	Duty     int32
	Phase    int32
	Duration int32
	IsFade   bool
}

// Fake duty driver, fades are applied immediately and interrupts are fired manually.
type fakeDutyDriver struct {
	sync.Mutex
	max     []int32
	duty    []int32
	phase   []int32
	started []bool
	isr     map[uint32]driver.ISRHandler
	pins    map[string]bool

	calls      []FakeDutyCall
	rejectFade bool
	rejectSet  bool
}

func (d *fakeDutyDriver) Channels() uint32 {
	return uint32(len(d.max))
}

func (d *fakeDutyDriver) ChannelStart(channel uint32, pin string) error {
	d.Lock()
	defer d.Unlock()

	if channel >= uint32(len(d.max)) {
		return &driver.ErrInvalidChannel{Channel: channel}
	}

	d.started[channel] = true
	return nil
}

func (d *fakeDutyDriver) ChannelSetDutyAndPhase(channel uint32, duty int32, phase int32) error {
	d.Lock()
	defer d.Unlock()

	if channel >= uint32(len(d.max)) {
		return &driver.ErrInvalidChannel{Channel: channel}
	}

	if d.rejectSet {
		return &driver.ErrDriverRejected{Channel: channel, Reason: "fake"}
	}

	d.duty[channel] = duty
	d.phase[channel] = phase
	d.calls = append(d.calls, FakeDutyCall{Channel: channel, Duty: duty, Phase: phase})
	return nil
}

func (d *fakeDutyDriver) ChannelGetDuty(channel uint32) int32 {
	d.Lock()
	defer d.Unlock()

	if channel >= uint32(len(d.max)) {
		return 0
	}

	return d.duty[channel]
}

func (d *fakeDutyDriver) ChannelGetPhase(channel uint32) int32 {
	d.Lock()
	defer d.Unlock()

	if channel >= uint32(len(d.max)) {
		return 0
	}

	return d.phase[channel]
}

func (d *fakeDutyDriver) ChannelGetMaxDuty(channel uint32) int32 {
	if channel >= uint32(len(d.max)) {
		return 0
	}

	return d.max[channel]
}

func (d *fakeDutyDriver) ChannelEnableFadeInterrupt(channel uint32, enable bool, isr driver.ISRHandler) error {
	d.Lock()
	defer d.Unlock()

	if channel >= uint32(len(d.max)) {
		return &driver.ErrInvalidChannel{Channel: channel}
	}

	if enable {
		d.isr[channel] = isr
	} else {
		delete(d.isr, channel)
	}

	return nil
}

func (d *fakeDutyDriver) ChannelRequestFade(channel uint32, duty int32, durationMs int32) error {
	d.Lock()
	defer d.Unlock()

	if channel >= uint32(len(d.max)) {
		return &driver.ErrInvalidChannel{Channel: channel}
	}

	if d.rejectFade {
		return &driver.ErrDriverRejected{Channel: channel, Reason: "fake"}
	}

	d.duty[channel] = duty
	d.calls = append(d.calls, FakeDutyCall{Channel: channel, Duty: duty, Phase: d.phase[channel],
		Duration: durationMs, IsFade: true})
	return nil
}

func (d *fakeDutyDriver) PinStart(pin string) error {
	d.Lock()
	defer d.Unlock()

	d.pins[pin] = false
	return nil
}

func (d *fakeDutyDriver) PinSet(pin string, level bool) error {
	d.Lock()
	defer d.Unlock()

	if _, ok := d.pins[pin]; !ok {
		return &driver.ErrUnknownPin{Pin: pin}
	}

	d.pins[pin] = level
	return nil
}

func (d *fakeDutyDriver) PinGet(pin string) bool {
	d.Lock()
	defer d.Unlock()

	return d.pins[pin]
}

// Interrupt simulates fade-end interrupt for the channel.
func (d *fakeDutyDriver) Interrupt(channel uint32) bool {
	d.Lock()
	isr, ok := d.isr[channel]
	d.Unlock()

	if !ok {
		return false
	}

	isr(channel)
	return true
}

// InterruptEnabled checks whether interrupt handler is installed.
func (d *fakeDutyDriver) InterruptEnabled(channel uint32) bool {
	d.Lock()
	defer d.Unlock()

	_, ok := d.isr[channel]
	return ok
}

// Calls returns copy of recorded duty requests.
func (d *fakeDutyDriver) Calls() []FakeDutyCall {
	d.Lock()
	defer d.Unlock()

	return append([]FakeDutyCall(nil), d.calls...)
}

// ResetCalls clears recorded duty requests.
func (d *fakeDutyDriver) ResetCalls() {
	d.Lock()
	defer d.Unlock()

	d.calls = nil
}

// Reject forces driver to fail fade and/or duty requests.
func (d *fakeDutyDriver) Reject(fade bool, set bool) {
	d.Lock()
	defer d.Unlock()

	d.rejectFade = fade
	d.rejectSet = set
}

// FakeNewDutyDriver creates a fake fade-capable driver with per-channel max duty.
func FakeNewDutyDriver(maxDuty ...int32) *fakeDutyDriver {
	return &fakeDutyDriver{
		max:     append([]int32(nil), maxDuty...),
		duty:    make([]int32, len(maxDuty)),
		phase:   make([]int32, len(maxDuty)),
		started: make([]bool, len(maxDuty)),
		isr:     make(map[uint32]driver.ISRHandler),
		pins:    make(map[string]bool),
	}
}

// Fake driver without fade capability.
type fakePlainDriver struct {
	d *fakeDutyDriver
}

func (p *fakePlainDriver) Channels() uint32 {
	return p.d.Channels()
}

func (p *fakePlainDriver) ChannelStart(channel uint32, pin string) error {
	return p.d.ChannelStart(channel, pin)
}

func (p *fakePlainDriver) ChannelSetDutyAndPhase(channel uint32, duty int32, phase int32) error {
	return p.d.ChannelSetDutyAndPhase(channel, duty, phase)
}

func (p *fakePlainDriver) ChannelGetDuty(channel uint32) int32 {
	return p.d.ChannelGetDuty(channel)
}

func (p *fakePlainDriver) ChannelGetPhase(channel uint32) int32 {
	return p.d.ChannelGetPhase(channel)
}

func (p *fakePlainDriver) ChannelGetMaxDuty(channel uint32) int32 {
	return p.d.ChannelGetMaxDuty(channel)
}

// FakeNewPlainDriver creates a fake driver which has no fade capability.
// Returned recorder observes every call.
func FakeNewPlainDriver(maxDuty ...int32) (driver.IDutyDriver, *fakeDutyDriver) {
	d := FakeNewDutyDriver(maxDuty...)
	return &fakePlainDriver{d: d}, d
}
