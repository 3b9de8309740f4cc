package providers

import (
	"github.com/go-home-io/lightmgr/plugins/bus"
	"github.com/go-home-io/lightmgr/plugins/light"
)

// EventSubscription describes single event node subscription.
type EventSubscription struct {
	Class      bus.MessageClass
	Group      int32
	Permission bus.Permission
}

// IEventNodeProvider defines addressable light reachable through the control bus.
type IEventNodeProvider interface {
	ID() uint16
	Group() int32
	Descr() string
	Light() light.ILight
	GrpSubscribe(group int32, perm bus.Permission) error
	EvtSubscribe(class bus.MessageClass, group int32, perm bus.Permission) error
	Subscriptions() []EventSubscription
	SetFallback(func(msg *bus.Message))
	StateReport()
	Close()
}
