//+build !release

package mocks

import (
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/go-home-io/lightmgr/plugins/bus"
)

type fakeSub struct {
	handle  bus.SubscriptionHandle
	class   bus.MessageClass
	group   int32
	handler bus.Handler
}

// Fake control bus with synchronous delivery.
type fakeBus struct {
	sync.Mutex
	subs         []*fakeSub
	published    []*bus.Message
	timeouts     []time.Duration
	unsubscribed []bus.SubscriptionHandle
	nextID       int
	closed       bool
	failPublish  bool
}

func (b *fakeBus) Publish(class bus.MessageClass, group int32, payload []byte, timeout time.Duration) error {
	b.Lock()
	if b.closed || b.failPublish {
		b.Unlock()
		return errors.New("publish failed")
	}

	msg := &bus.Message{Class: class, Group: group, Payload: append([]byte(nil), payload...)}
	b.published = append(b.published, msg)
	b.timeouts = append(b.timeouts, timeout)
	handlers := make([]bus.Handler, 0)
	for _, v := range b.subs {
		if v.class == class && (v.group == group || bus.GroupAny == v.group) {
			handlers = append(handlers, v.handler)
		}
	}
	b.Unlock()

	for _, h := range handlers {
		h(msg)
	}

	return nil
}

func (b *fakeBus) Subscribe(class bus.MessageClass, group int32, handler bus.Handler) (bus.SubscriptionHandle, error) {
	b.Lock()
	defer b.Unlock()

	if b.closed {
		return "", errors.New("bus is closed")
	}

	b.nextID++
	s := &fakeSub{
		handle:  bus.SubscriptionHandle(strconv.Itoa(b.nextID)),
		class:   class,
		group:   group,
		handler: handler,
	}
	b.subs = append(b.subs, s)
	return s.handle, nil
}

func (b *fakeBus) Unsubscribe(handle bus.SubscriptionHandle) {
	b.Lock()
	defer b.Unlock()

	b.unsubscribed = append(b.unsubscribed, handle)
	for ii, v := range b.subs {
		if v.handle == handle {
			b.subs = append(b.subs[:ii], b.subs[ii+1:]...)
			return
		}
	}
}

func (b *fakeBus) Close() {
	b.Lock()
	defer b.Unlock()

	b.closed = true
	b.subs = nil
}

// Published returns every published message.
func (b *fakeBus) Published() []*bus.Message {
	b.Lock()
	defer b.Unlock()

	return append([]*bus.Message(nil), b.published...)
}

// ResetPublished clears published messages.
func (b *fakeBus) ResetPublished() {
	b.Lock()
	defer b.Unlock()

	b.published = nil
	b.timeouts = nil
}

// Timeouts returns publish timeouts in the order of published messages.
func (b *fakeBus) Timeouts() []time.Duration {
	b.Lock()
	defer b.Unlock()

	return append([]time.Duration(nil), b.timeouts...)
}

// Unsubscribed returns handles in the order they were removed.
func (b *fakeBus) Unsubscribed() []bus.SubscriptionHandle {
	b.Lock()
	defer b.Unlock()

	return append([]bus.SubscriptionHandle(nil), b.unsubscribed...)
}

// Subscriptions returns number of active subscriptions.
func (b *fakeBus) Subscriptions() int {
	b.Lock()
	defer b.Unlock()

	return len(b.subs)
}

// FailPublish forces publish errors.
func (b *fakeBus) FailPublish(fail bool) {
	b.Lock()
	defer b.Unlock()

	b.failPublish = fail
}

// FakeNewBus creates a fake control bus.
func FakeNewBus() *fakeBus {
	return &fakeBus{}
}
