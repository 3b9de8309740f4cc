package enums

import "fmt"

// EventID describes enum with known light events carried by the control bus.
type EventID uint8

const (
	// EvtNoop describes empty event.
	EvtNoop EventID = iota
	// EvtGoValue describes absolute value command.
	EvtGoValue
	// EvtGoValueScaled describes scaled value command.
	EvtGoValueScaled
	// EvtGoMax describes full brightness command.
	EvtGoMax
	// EvtGoMin describes minimal brightness command.
	EvtGoMin
	// EvtGoOn describes turning on command.
	EvtGoOn
	// EvtGoOff describes turning off command.
	EvtGoOff
	// EvtGoToggle describes toggling command.
	EvtGoToggle
	// EvtGoIncr describes default step increment command.
	EvtGoIncr
	// EvtGoDecr describes default step decrement command.
	EvtGoDecr
	// EvtGoStep describes raw step command.
	EvtGoStep
	// EvtGoStepScaled describes scaled step command.
	EvtGoStepScaled
	// EvtStateReport describes periodic or requested state report.
	EvtStateReport
	// EvtStateUpdate describes state report caused by value change.
	EvtStateUpdate
	// EvtEchoRq describes echo request.
	EvtEchoRq
	// EvtEchoRpl describes echo reply.
	EvtEchoRpl
	// EvtGetState describes state request.
	EvtGetState
)

var eventNames = []string{"noop", "go-value", "go-value-scaled", "go-max", "go-min", "go-on", "go-off",
	"go-toggle", "go-incr", "go-decr", "go-step", "go-step-scaled", "state-report", "state-update",
	"echo-rq", "echo-rpl", "get-state"}

// String returns event name.
func (i EventID) String() string {
	if int(i) >= len(eventNames) {
		return fmt.Sprintf("EventID(%d)", i)
	}

	return eventNames[i]
}

// EventIDString returns event from its name.
func EventIDString(s string) (EventID, error) {
	ii := indexOf(eventNames, s)
	if ii < 0 {
		return EvtNoop, &ErrUnknownValue{Enum: "EventID", Value: s}
	}

	return EventID(ii), nil
}

// IsCommand checks whether event is a brightness command.
func (i EventID) IsCommand() bool {
	return i >= EvtGoValue && i <= EvtGoStepScaled
}
