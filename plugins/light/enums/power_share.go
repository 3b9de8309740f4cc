package enums

import "fmt"

// PowerShare describes how a composite light distributes a single value across members.
type PowerShare uint8

const (
	// ShareIncremental fills members one after another in insertion order.
	ShareIncremental PowerShare = iota
	// ShareEqual drives every member with the same value.
	ShareEqual
	// SharePhaseShift drives every member with the same value and spreads PWM phases.
	SharePhaseShift
)

var powerShareNames = []string{"incremental", "equal", "phaseshift"}

// String returns power share name.
func (i PowerShare) String() string {
	if int(i) >= len(powerShareNames) {
		return fmt.Sprintf("PowerShare(%d)", i)
	}

	return powerShareNames[i]
}

// PowerShareString returns power share from its name.
func PowerShareString(s string) (PowerShare, error) {
	ii := indexOf(powerShareNames, s)
	if ii < 0 {
		return ShareIncremental, &ErrUnknownValue{Enum: "PowerShare", Value: s}
	}

	return PowerShare(ii), nil
}
