// Package systems contains light manager systems implementation.
package systems

import "fmt"

// SystemType is an enum describing known system types.
type SystemType int

const (
	// SysLightManager describes top-level wiring system.
	SysLightManager SystemType = iota
	// SysLogger describes logger system.
	SysLogger
	// SysBus describes control bus system.
	SysBus
	// SysDriver describes duty or pin driver system.
	SysDriver
	// SysFader describes fade controller system.
	SysFader
	// SysLight describes light sources system.
	SysLight
	// SysEclo describes event node system.
	SysEclo
	// SysMonitor describes state monitor system.
	SysMonitor
)

var systemTypeNames = []string{"light-manager", "logger", "bus", "driver", "fader", "light", "eclo", "monitor"}

// String returns system name.
func (i SystemType) String() string {
	if i < 0 || int(i) >= len(systemTypeNames) {
		return fmt.Sprintf("SystemType(%d)", i)
	}

	return systemTypeNames[i]
}
