package bus

import (
	"github.com/go-home-io/lightmgr/plugins/bus"
	"github.com/go-home-io/lightmgr/plugins/light"
	"github.com/go-home-io/lightmgr/plugins/light/enums"
	"github.com/go-home-io/lightmgr/utils"
)

// MessageTTL defines how long message is considered valid, in seconds.
const MessageTTL = 10

// Peers holds source and destination node ids.
type Peers struct {
	_ struct{} `cbor:",toarray"`

	Src uint16
	Dst uint16
}

// Header is a common part of every control bus message.
type Header struct {
	_ struct{} `cbor:",toarray"`

	Event    enums.EventID
	ID       Peers
	SendTime int64
}

// CommandMessage carries brightness command.
// NoOverride in Scale or Duration and zero Step mean node defaults.
type CommandMessage struct {
	_ struct{} `cbor:",toarray"`

	Header   Header
	Value    int32
	Step     int32
	Scale    int32 `validate:"gte=-1,ne=0"`
	Duration int32 `validate:"gte=-1"`
}

// ServiceMessage carries echo and state requests.
type ServiceMessage struct {
	_ struct{} `cbor:",toarray"`

	Header Header
	Value  uint32
}

// StateMessage carries light state.
type StateMessage struct {
	_ struct{} `cbor:",toarray"`

	Header Header
	Descr  string
	State  light.State
}

// NewHeader constructs a new message header.
func NewHeader(event enums.EventID, src uint16, dst uint16) Header {
	return Header{
		Event:    event,
		ID:       Peers{Src: src, Dst: dst},
		SendTime: utils.TimeNow(),
	}
}

// NewCommandMessage constructs a new command without overrides.
func NewCommandMessage(event enums.EventID, src uint16, dst uint16, value int32) *CommandMessage {
	return &CommandMessage{
		Header:   NewHeader(event, src, dst),
		Value:    value,
		Scale:    light.NoOverride,
		Duration: light.NoOverride,
	}
}

// NewServiceMessage constructs a new service message.
func NewServiceMessage(event enums.EventID, src uint16, dst uint16, value uint32) *ServiceMessage {
	return &ServiceMessage{
		Header: NewHeader(event, src, dst),
		Value:  value,
	}
}

// NewStateMessage constructs a new state message.
func NewStateMessage(event enums.EventID, src uint16, descr string, state *light.State) *StateMessage {
	m := &StateMessage{
		Header: NewHeader(event, src, bus.IDBroadcast),
		Descr:  descr,
	}

	if state != nil {
		m.State = *state
	}

	return m
}
