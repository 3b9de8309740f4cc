// Package fader bridges fade-end interrupts to light callbacks.
package fader

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-home-io/lightmgr/plugins/common"
	"github.com/go-home-io/lightmgr/plugins/driver"
	"github.com/go-home-io/lightmgr/utils"
	"github.com/pkg/errors"
)

const (
	// Logger system.
	logSystem = "fader"
	// Maximum number of slots, limited by the events bitset.
	maxSlots = 32
	// Default software fade resolution.
	defaultTick = 20 * time.Millisecond
)

// Single channel slot.
type fadeSlot struct {
	engine driver.IFadeEngine
	cb     driver.FadeCallback
	isrOn  bool
}

// Fade controller implementation.
// Interrupt handler only sets bits and wakes the consumer goroutine,
// callbacks are invoked from the consumer.
type provider struct {
	sync.Mutex
	logger  common.ILoggerProvider
	drv     driver.IDutyDriver
	fadeDrv driver.IFadeDriver
	tick    time.Duration

	slots []*fadeSlot
	mask  uint32

	events uint32
	wake   chan struct{}
	done   chan struct{}
	wg     sync.WaitGroup
	closed bool
}

// ConstructFadeController has data required for a new fade controller.
type ConstructFadeController struct {
	Driver driver.IDutyDriver     `validate:"required"`
	Logger common.ILoggerProvider `validate:"required"`
	// Mask selects slots owned by this controller, zero means every slot.
	Mask uint32
	// Tick is software engine resolution.
	Tick time.Duration
}

// NewFadeController constructs a new fade controller.
// Hardware engine is available only if driver implements driver.IFadeDriver.
func NewFadeController(ctor *ConstructFadeController) driver.IFadeController {
	n := ctor.Driver.Channels()
	if n > maxSlots {
		n = maxSlots
	}

	mask := ctor.Mask
	if 0 == mask {
		mask = ^uint32(0)
	}

	if n < maxSlots {
		mask &= uint32(1)<<n - 1
	}

	p := &provider{
		logger: ctor.Logger,
		drv:    ctor.Driver,
		tick:   ctor.Tick,
		slots:  make([]*fadeSlot, n),
		mask:   mask,
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}

	if p.tick <= 0 {
		p.tick = defaultTick
	}

	for ii := range p.slots {
		p.slots[ii] = &fadeSlot{}
	}

	if fd, ok := ctor.Driver.(driver.IFadeDriver); ok {
		p.fadeDrv = fd
	} else {
		p.logger.Info("Driver has no hardware fade support", common.LogSystemToken, logSystem)
	}

	p.wg.Add(1)
	go p.consume()

	return p
}

// Slots returns number of channel slots.
func (p *provider) Slots() uint32 {
	return uint32(len(p.slots))
}

// SetFader attaches fade engine and callback to the slot.
// Interrupt activation is idempotent, nil callback keeps existing one.
func (p *provider) SetFader(slot uint32, engine driver.FadeEngine, cb driver.FadeCallback) error {
	p.Lock()
	defer p.Unlock()

	if p.closed {
		return &ErrClosed{}
	}

	s, err := p.get(slot)
	if err != nil {
		return err
	}

	if cb != nil {
		s.cb = cb
	}

	if s.engine != nil && s.engine.Kind() == engine {
		return nil
	}

	switch engine {
	case driver.EngineNone:
		p.dropEngine(slot, s)
		return nil
	case driver.EngineHardware:
		if nil == p.fadeDrv {
			return &driver.ErrNoFadeSupport{}
		}

		if !s.isrOn {
			err = p.fadeDrv.ChannelEnableFadeInterrupt(slot, true, p.isr)
			if err != nil {
				return errors.Wrap(err, "fade interrupt")
			}
			s.isrOn = true
		}

		p.replaceEngine(s, &hwEngine{drv: p.fadeDrv, channel: slot})
	case driver.EngineSoftware:
		p.replaceEngine(s, &swEngine{drv: p.drv, channel: slot, tick: p.tick, signal: p.isr})
	default:
		return &ErrUnknownEngine{}
	}

	p.logger.Debug("Fader attached", common.LogSystemToken, logSystem,
		common.LogChannelToken, utils.Utoa32(slot), "engine", engine.String())
	return nil
}

// Detach disables fade interrupt and removes both engine and callback.
func (p *provider) Detach(slot uint32) error {
	p.Lock()
	defer p.Unlock()

	s, err := p.get(slot)
	if err != nil {
		return err
	}

	p.dropEngine(slot, s)
	s.cb = nil
	return nil
}

// FadeByTime requests fade on the slot.
// Without engine duty is set immediately and false is returned.
// Fade start callback is invoked before return.
func (p *provider) FadeByTime(slot uint32, duty int32, durationMs int32) (bool, error) {
	p.Lock()
	s, err := p.get(slot)
	if err != nil {
		p.Unlock()
		return false, err
	}

	engine := s.engine
	cb := s.cb
	closed := p.closed
	p.Unlock()

	if nil == engine || closed || durationMs <= 0 {
		return false, p.noFade(slot, duty)
	}

	err = engine.Fade(duty, durationMs)
	if err != nil {
		return false, errors.Wrap(err, "fade request")
	}

	if cb != nil {
		cb(slot, driver.FadeStart)
	}

	return true, nil
}

// Close stops consumer and releases every slot.
func (p *provider) Close() {
	p.Lock()
	if p.closed {
		p.Unlock()
		return
	}

	p.closed = true
	for ii, s := range p.slots {
		p.dropEngine(uint32(ii), s)
	}
	p.Unlock()

	close(p.done)
	p.wg.Wait()
}

// Sets duty without fading, phase is preserved.
func (p *provider) noFade(slot uint32, duty int32) error {
	err := p.drv.ChannelSetDutyAndPhase(slot, duty, p.drv.ChannelGetPhase(slot))
	if err != nil {
		return errors.Wrap(err, "no-fade duty")
	}

	return nil
}

// Interrupt handler: maps channel to slot bit and wakes consumer.
// Must not block or allocate.
func (p *provider) isr(channel uint32) {
	if channel >= uint32(len(p.slots)) {
		return
	}

	bit := uint32(1) << channel
	if 0 == bit&p.mask {
		return
	}

	for {
		old := atomic.LoadUint32(&p.events)
		if atomic.CompareAndSwapUint32(&p.events, old, old|bit) {
			break
		}
	}

	select {
	case p.wake <- struct{}{}:
	default:
	}
}

// Atomically takes and clears every pending bit of the mask.
func (p *provider) takeEvents() uint32 {
	for {
		old := atomic.LoadUint32(&p.events)
		if atomic.CompareAndSwapUint32(&p.events, old, old&^p.mask) {
			return old & p.mask
		}
	}
}

// Consumer loop, delivers fade end events in ascending slot order.
func (p *provider) consume() {
	defer p.wg.Done()
	for {
		select {
		case <-p.done:
			return
		case <-p.wake:
		}

		p.cycle()
	}
}

// Single wake cycle.
func (p *provider) cycle() {
	bits := p.takeEvents()
	for ii := uint32(0); bits != 0; ii++ {
		if bits&1 != 0 {
			p.deliver(ii)
		}
		bits >>= 1
	}
}

func (p *provider) deliver(slot uint32) {
	p.Lock()
	cb := p.slots[slot].cb
	p.Unlock()

	if cb != nil {
		cb(slot, driver.FadeEnd)
	}
}

func (p *provider) get(slot uint32) (*fadeSlot, error) {
	if slot >= uint32(len(p.slots)) || 0 == (uint32(1)<<slot)&p.mask {
		return nil, &driver.ErrInvalidChannel{Channel: slot}
	}

	return p.slots[slot], nil
}

func (p *provider) replaceEngine(s *fadeSlot, e driver.IFadeEngine) {
	if s.engine != nil {
		s.engine.Close()
	}

	s.engine = e
}

func (p *provider) dropEngine(slot uint32, s *fadeSlot) {
	if s.engine != nil {
		s.engine.Close()
		s.engine = nil
	}

	if s.isrOn && p.fadeDrv != nil {
		err := p.fadeDrv.ChannelEnableFadeInterrupt(slot, false, nil)
		if err != nil {
			p.logger.Error("Failed to disable fade interrupt", err, common.LogSystemToken, logSystem,
				common.LogChannelToken, utils.Utoa32(slot))
		}
		s.isrOn = false
	}
}
