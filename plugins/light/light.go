// Package light contains light source definitions shared by every light manager system.
package light

import (
	"github.com/go-home-io/lightmgr/plugins/light/enums"
)

const (
	// NoOverride instructs light to use its own default for a parameter.
	NoOverride = -1
	// DefaultFadeTime describes default fade duration, in milliseconds.
	DefaultFadeTime = 1000
	// DefaultScale describes default brightness scale.
	DefaultScale = 100
	// DefaultStep describes default increment step, measured in scale units.
	DefaultStep = 10
)

// OnChangeCallback is invoked after every committed value change.
type OnChangeCallback func(ILight)

// ILight defines single logical light source.
// Values are raw driver units within [0, MaxValue()], scaled values are
// curve-mapped onto an arbitrary external scale.
// Every duration, scale and step argument accepts NoOverride.
type ILight interface {
	Kind() enums.LightKind

	GoValue(value int32, duration int32)
	GoValueScaled(value int32, scale int32, duration int32)
	GoStep(step int32, duration int32)
	GoStepScaled(step int32, scale int32, duration int32)
	GoMax(duration int32)
	GoMin(duration int32)
	GoOn(duration int32)
	GoOff(duration int32)
	GoToggle(duration int32)
	GoIncr(duration int32)
	GoDecr(duration int32)
	Pwr(on bool, duration int32)

	Value() int32
	MaxValue() int32
	ValueScaled(scale int32) int32

	Curve() enums.Curve
	SetCurve(enums.Curve) enums.Curve
	MaxPower() float32
	SetMaxPower(float32) float32
	CurrentPower() float32
	ActiveLevel() bool
	SetActiveLevel(bool) bool

	Defaults() Defaults
	SetDefaults(Defaults)

	State() *State

	OnChangeAttach(OnChangeCallback)
	OnChangeDetach()
}

// Defaults has per-instance values used when caller passes NoOverride.
type Defaults struct {
	FadeTime int32 `yaml:"fade_time" default:"1000" validate:"gte=0"`
	Scale    int32 `yaml:"scale" default:"100" validate:"gt=0"`
	Step     int32 `yaml:"step" default:"10" validate:"gt=0"`
}

// NewDefaults returns standard light defaults.
func NewDefaults() Defaults {
	return Defaults{
		FadeTime: DefaultFadeTime,
		Scale:    DefaultScale,
		Step:     DefaultStep,
	}
}

// IDimmableLight defines PWM-backed dimmable light with phase-shift support.
type IDimmableLight interface {
	ILight
	Channel() uint32
	DutyShift() int32
	SetDutyShift(shift int32) bool
	SetDutyAndShift(duty int32, shift int32) bool
	SetPWM(resolution uint8, freq uint32) error
}

// ICompositeLight defines light unit which aggregates other lights.
type ICompositeLight interface {
	ILight
	SubKind() enums.LightKind
	PowerShare() enums.PowerShare
	AddLight(id uint8, l ILight) error
	Light(id uint8) (ILight, bool)
	Members() []uint8
}
