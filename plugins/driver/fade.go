package driver

import (
	"fmt"
	"strings"
)

// FadeEngine describes enum with known fade engines.
type FadeEngine uint8

const (
	// EngineNone describes absent engine, values are set immediately.
	EngineNone FadeEngine = iota
	// EngineHardware describes linear fade executed by PWM peripheral.
	EngineHardware
	// EngineSoftware describes linear fade interpolated by a timer goroutine.
	EngineSoftware
)

var fadeEngineNames = []string{"none", "hardware", "software"}

// String returns engine name.
func (i FadeEngine) String() string {
	if int(i) >= len(fadeEngineNames) {
		return fmt.Sprintf("FadeEngine(%d)", i)
	}

	return fadeEngineNames[i]
}

// FadeEngineString returns engine from its name.
func FadeEngineString(s string) (FadeEngine, error) {
	s = strings.TrimSpace(s)
	for ii, v := range fadeEngineNames {
		if strings.EqualFold(v, s) {
			return FadeEngine(ii), nil
		}
	}

	return EngineNone, fmt.Errorf("unknown fade engine %s", s)
}

// FadeEvent describes fade notification type.
type FadeEvent uint8

const (
	// FadeStart is delivered synchronously when fade was accepted.
	FadeStart FadeEvent = iota
	// FadeEnd is delivered asynchronously when fade is over.
	FadeEnd
)

// String returns event name.
func (i FadeEvent) String() string {
	switch i {
	case FadeStart:
		return "fade-start"
	case FadeEnd:
		return "fade-end"
	}

	return fmt.Sprintf("FadeEvent(%d)", i)
}

// FadeCallback is invoked for every fade event of a channel slot.
type FadeCallback func(slot uint32, event FadeEvent)

// IFadeEngine defines single channel fade engine.
type IFadeEngine interface {
	Kind() FadeEngine
	Fade(duty int32, durationMs int32) error
	Close()
}

// IFadeController defines owner of per-channel fade engines.
type IFadeController interface {
	Slots() uint32
	SetFader(slot uint32, engine FadeEngine, cb FadeCallback) error
	Detach(slot uint32) error
	FadeByTime(slot uint32, duty int32, durationMs int32) (bool, error)
	Close()
}
