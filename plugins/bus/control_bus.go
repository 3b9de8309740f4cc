package bus

import "time"

// Message is a single control bus delivery.
type Message struct {
	Class   MessageClass
	Group   int32
	Payload []byte
}

// Handler receives messages of the subscription.
// Handlers are invoked from a single dispatcher goroutine.
type Handler func(msg *Message)

// SubscriptionHandle identifies single subscription.
type SubscriptionHandle string

// IControlBus defines publish/subscribe channel shared by event nodes.
type IControlBus interface {
	Publish(class MessageClass, group int32, payload []byte, timeout time.Duration) error
	Subscribe(class MessageClass, group int32, handler Handler) (SubscriptionHandle, error)
	Unsubscribe(handle SubscriptionHandle)
	Close()
}
