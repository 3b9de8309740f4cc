package providers

import "github.com/go-home-io/lightmgr/plugins/light"

// NodeState holds latest state observed from a single node.
type NodeState struct {
	Group    int32
	ID       uint16
	Descr    string
	State    light.State
	LastSeen int64
}

// IStateMonitorProvider defines observer of light state broadcasts.
type IStateMonitorProvider interface {
	Watch(group int32) error
	Get(group int32, id uint16) (*NodeState, bool)
	Nodes() []*NodeState
	OnChange(func(state *NodeState))
	Close()
}
