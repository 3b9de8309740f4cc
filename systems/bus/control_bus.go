// Package bus contains local control bus and its wire messages.
package bus

import (
	"sync"
	"time"

	"github.com/go-home-io/lightmgr/plugins/bus"
	"github.com/go-home-io/lightmgr/plugins/common"
	"github.com/google/uuid"
)

const (
	// Logs representation.
	logSystem = "control_bus"
)

// ConstructBus holds values required for a new control bus.
// Handlers are called from the dispatcher goroutine. Publishing from a handler
// with a non-zero timeout blocks delivery while the queue is full.
type ConstructBus struct {
	Logger    common.ILoggerProvider `validate:"required"`
	QueueSize int                    `default:"32" validate:"gt=0"`
}

// Single subscription.
type subscription struct {
	handle  bus.SubscriptionHandle
	class   bus.MessageClass
	group   int32
	handler bus.Handler
}

// In-process control bus.
// Every message is delivered by a single dispatcher goroutine in subscription order.
type provider struct {
	sync.RWMutex
	logger common.ILoggerProvider
	subs   []*subscription
	queue  chan *bus.Message
	done   chan struct{}
	wg     sync.WaitGroup
	closed bool
}

// NewControlBus constructs a new control bus and starts dispatcher.
func NewControlBus(ctor *ConstructBus) bus.IControlBus {
	size := ctor.QueueSize
	if size <= 0 {
		size = 32
	}

	p := &provider{
		logger: ctor.Logger,
		subs:   make([]*subscription, 0),
		queue:  make(chan *bus.Message, size),
		done:   make(chan struct{}),
	}

	p.wg.Add(1)
	go p.dispatch()
	return p
}

// Publish enqueues a message, waiting up to timeout for a free slot.
// Zero timeout never blocks.
func (p *provider) Publish(class bus.MessageClass, group int32, payload []byte, timeout time.Duration) error {
	p.RLock()
	closed := p.closed
	p.RUnlock()

	if closed {
		return &ErrBusClosed{}
	}

	msg := &bus.Message{
		Class:   class,
		Group:   group,
		Payload: append([]byte(nil), payload...),
	}

	if timeout <= 0 {
		select {
		case p.queue <- msg:
			return nil
		default:
			return &ErrQueueFull{}
		}
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case p.queue <- msg:
		return nil
	case <-p.done:
		return &ErrBusClosed{}
	case <-timer.C:
		return &ErrQueueFull{}
	}
}

// Subscribe registers handler for the class and group.
// GroupAny receives messages of every group.
func (p *provider) Subscribe(class bus.MessageClass, group int32, handler bus.Handler) (bus.SubscriptionHandle, error) {
	if nil == handler {
		return "", &ErrNilHandler{}
	}

	p.Lock()
	defer p.Unlock()

	if p.closed {
		return "", &ErrBusClosed{}
	}

	s := &subscription{
		handle:  bus.SubscriptionHandle(uuid.New().String()),
		class:   class,
		group:   group,
		handler: handler,
	}
	p.subs = append(p.subs, s)

	p.logger.Debug("New subscription", common.LogSystemToken, logSystem,
		common.LogClassToken, class.String(), "handle", string(s.handle))
	return s.handle, nil
}

// Unsubscribe removes subscription, unknown handles and closed bus are ignored.
func (p *provider) Unsubscribe(handle bus.SubscriptionHandle) {
	p.Lock()
	defer p.Unlock()

	for ii, v := range p.subs {
		if v.handle == handle {
			p.subs = append(p.subs[:ii], p.subs[ii+1:]...)
			return
		}
	}
}

// Close stops dispatcher, pending messages are discarded.
func (p *provider) Close() {
	p.Lock()
	if p.closed {
		p.Unlock()
		return
	}

	p.closed = true
	p.subs = nil
	p.Unlock()

	close(p.done)
	p.wg.Wait()
	p.logger.Debug("Control bus closed", common.LogSystemToken, logSystem)
}

// Dispatcher loop.
func (p *provider) dispatch() {
	defer p.wg.Done()
	for {
		select {
		case <-p.done:
			return
		case msg := <-p.queue:
			p.deliver(msg)
		}
	}
}

// Delivers message to matching subscriptions outside of the lock.
func (p *provider) deliver(msg *bus.Message) {
	p.RLock()
	handlers := make([]bus.Handler, 0, len(p.subs))
	for _, v := range p.subs {
		if v.class == msg.Class && (v.group == msg.Group || bus.GroupAny == v.group) {
			handlers = append(handlers, v.handler)
		}
	}
	p.RUnlock()

	for _, h := range handlers {
		h(msg)
	}
}
