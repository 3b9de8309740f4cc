package fader

import (
	"sync"
	"time"

	"github.com/go-home-io/lightmgr/plugins/driver"
)

// Hardware linear fade engine.
type hwEngine struct {
	drv     driver.IFadeDriver
	channel uint32
}

// Kind returns engine type.
func (e *hwEngine) Kind() driver.FadeEngine {
	return driver.EngineHardware
}

// Fade requests hardware fade.
func (e *hwEngine) Fade(duty int32, durationMs int32) error {
	return e.drv.ChannelRequestFade(e.channel, duty, durationMs)
}

// Close does nothing, interrupt is handled by controller.
func (e *hwEngine) Close() {
}

// Software linear fade engine.
// Interpolates duty on a ticker and signals completion the same way hardware does.
type swEngine struct {
	sync.Mutex
	drv     driver.IDutyDriver
	channel uint32
	tick    time.Duration
	signal  driver.ISRHandler
	cancel  chan struct{}
}

// Kind returns engine type.
func (e *swEngine) Kind() driver.FadeEngine {
	return driver.EngineSoftware
}

// Fade starts interpolation goroutine, only one fade per channel is allowed.
func (e *swEngine) Fade(duty int32, durationMs int32) error {
	e.Lock()
	defer e.Unlock()

	if e.cancel != nil {
		return &driver.ErrDriverRejected{Channel: e.channel, Reason: "fade in progress"}
	}

	from := e.drv.ChannelGetDuty(e.channel)
	steps := int64(time.Duration(durationMs)*time.Millisecond) / int64(e.tick)
	if steps < 1 {
		steps = 1
	}

	cancel := make(chan struct{})
	e.cancel = cancel
	go e.run(from, duty, steps, cancel)
	return nil
}

// Close stops running fade without signalling.
func (e *swEngine) Close() {
	e.Lock()
	defer e.Unlock()

	if e.cancel != nil {
		close(e.cancel)
		e.cancel = nil
	}
}

// Interpolation loop.
func (e *swEngine) run(from int32, to int32, steps int64, cancel chan struct{}) {
	ticker := time.NewTicker(e.tick)
	defer ticker.Stop()

	for ii := int64(1); ii <= steps; ii++ {
		select {
		case <-cancel:
			return
		case <-ticker.C:
		}

		duty := from + int32(int64(to-from)*ii/steps)
		// nolint: errcheck
		e.drv.ChannelSetDutyAndPhase(e.channel, duty, e.drv.ChannelGetPhase(e.channel))
	}

	e.Lock()
	if e.cancel != cancel {
		e.Unlock()
		return
	}
	e.cancel = nil
	e.Unlock()

	e.signal(e.channel)
}
