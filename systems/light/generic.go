// Package light implements light sources and composite lights.
package light

import (
	"sync"

	"github.com/go-home-io/lightmgr/plugins/common"
	"github.com/go-home-io/lightmgr/plugins/light"
	"github.com/go-home-io/lightmgr/plugins/light/enums"
	"github.com/go-home-io/lightmgr/systems/luma"
	"github.com/go-home-io/lightmgr/utils"
)

const (
	// Logger system.
	logSystem = "light"
)

// Raw value access implemented by every light variant.
// Values are never curve-mapped at this level.
type backend interface {
	setValue(value int32) bool
	fadeValue(value int32, duration int32) bool
	value() int32
	maxValue() int32
}

// Optional backend overriding default power calculation.
type powerBackend interface {
	currentPower() float32
}

// Optional backend with configurable active logic level.
type levelBackend interface {
	activeLevel() bool
	setActiveLevel(bool) bool
}

// Optional backend handling curve changes itself.
type curveBackend interface {
	setCurve(enums.Curve) enums.Curve
}

// Access to raw backend, used by composite lights.
type rawLight interface {
	raw() backend
}

// Shared light behaviour.
// Every brightness operation is expressed through backend calls.
type generic struct {
	sync.Mutex
	kind     enums.LightKind
	curve    enums.Curve
	power    float32
	defaults light.Defaults
	onChange light.OnChangeCallback

	logger common.ILoggerProvider
	impl   backend
	self   light.ILight
}

// Creates a new base, impl and self have to be set by the variant.
func newGeneric(kind enums.LightKind, curve enums.Curve, power float32, logger common.ILoggerProvider) *generic {
	if power < 0 {
		power = 0
	}

	return &generic{
		kind:     kind,
		curve:    curve,
		power:    power,
		defaults: light.NewDefaults(),
		logger:   logger,
	}
}

func (g *generic) raw() backend {
	return g.impl
}

// Kind returns light kind.
func (g *generic) Kind() enums.LightKind {
	return g.kind
}

// GoValue maps value through the curve using full scale and fades to it.
func (g *generic) GoValue(value int32, duration int32) {
	max := g.impl.maxValue()
	if max <= 0 {
		return
	}

	value = utils.ClampInt32(value, 0, max)
	curve := g.Curve()
	if curve != enums.CurveLinear {
		value = luma.Map(curve, value, max, max)
	}

	duration = g.duration(duration)
	g.logger.Debug("Go value", common.LogSystemToken, logSystem, common.LogValueToken, utils.Itoa32(value),
		common.LogDurationToken, utils.Itoa32(duration))
	g.impl.fadeValue(value, duration)
}

// GoValueScaled fades to the value expressed in scale units.
func (g *generic) GoValueScaled(value int32, scale int32, duration int32) {
	max := g.impl.maxValue()
	if max <= 0 {
		return
	}

	scale = g.scale(scale)
	if value >= scale {
		g.GoMax(duration)
		return
	}

	if value <= 0 {
		g.GoOff(duration)
		return
	}

	g.impl.fadeValue(luma.Map(g.Curve(), value, max, scale), g.duration(duration))
}

// GoStep changes raw value by the step, result is clamped to [0, max].
// Curve is not applied.
func (g *generic) GoStep(step int32, duration int32) {
	max := g.impl.maxValue()
	if 0 == step || max <= 0 {
		return
	}

	value := utils.ClampInt32(g.impl.value()+step, 0, max)
	g.impl.fadeValue(value, g.duration(duration))
}

// GoStepScaled changes value by the step measured in scale units.
func (g *generic) GoStepScaled(step int32, scale int32, duration int32) {
	if 0 == step || g.impl.maxValue() <= 0 {
		return
	}

	scale = g.scale(scale)
	cur := g.ValueScaled(scale)
	if cur+step <= 0 {
		g.GoOff(duration)
		return
	}

	g.GoValueScaled(cur+step, scale, duration)
}

// GoMax fades to max value.
func (g *generic) GoMax(duration int32) {
	g.GoValue(g.impl.maxValue(), duration)
}

// GoMin fades to the lowest non-zero value.
// Binary curve has no intermediate values, so its minimum is max.
func (g *generic) GoMin(duration int32) {
	max := g.impl.maxValue()
	if max <= 0 {
		return
	}

	curve := g.Curve()
	value := int32(1)
	if curve != enums.CurveLinear {
		value = luma.Map(curve, 1, max, max)
	}

	if value <= 0 {
		value = 1
		if enums.CurveBinary == curve {
			value = max
		}
	}

	g.impl.fadeValue(value, g.duration(duration))
}

// GoOn turns light on.
func (g *generic) GoOn(duration int32) {
	g.GoMax(duration)
}

// GoOff turns light off.
func (g *generic) GoOff(duration int32) {
	g.GoValue(0, duration)
}

// GoToggle inverts on/off state.
func (g *generic) GoToggle(duration int32) {
	if g.impl.value() > 0 {
		g.GoOff(duration)
	} else {
		g.GoOn(duration)
	}
}

// GoIncr increases brightness by default step.
func (g *generic) GoIncr(duration int32) {
	g.GoStepScaled(g.Defaults().Step, light.NoOverride, duration)
}

// GoDecr decreases brightness by default step.
func (g *generic) GoDecr(duration int32) {
	g.GoStepScaled(-g.Defaults().Step, light.NoOverride, duration)
}

// Pwr turns light on or off.
func (g *generic) Pwr(on bool, duration int32) {
	if on {
		g.GoOn(duration)
	} else {
		g.GoOff(duration)
	}
}

// Value returns raw value.
func (g *generic) Value() int32 {
	return g.impl.value()
}

// MaxValue returns raw max value.
func (g *generic) MaxValue() int32 {
	return g.impl.maxValue()
}

// ValueScaled returns value mapped back to the scale.
func (g *generic) ValueScaled(scale int32) int32 {
	return luma.UnMap(g.Curve(), g.impl.value(), g.impl.maxValue(), g.scale(scale))
}

// Curve returns current luma curve.
func (g *generic) Curve() enums.Curve {
	g.Lock()
	defer g.Unlock()
	return g.curve
}

// SetCurve changes luma curve, binary lights keep their curve.
func (g *generic) SetCurve(curve enums.Curve) enums.Curve {
	if cb, ok := g.impl.(curveBackend); ok {
		return cb.setCurve(curve)
	}

	g.Lock()
	defer g.Unlock()

	if g.kind != enums.LightConstant && curve.IsValid() {
		g.curve = curve
	}

	return g.curve
}

// MaxPower returns rated power.
func (g *generic) MaxPower() float32 {
	g.Lock()
	defer g.Unlock()
	return g.power
}

// SetMaxPower sets rated power, negative values are stored as zero.
func (g *generic) SetMaxPower(p float32) float32 {
	g.Lock()
	defer g.Unlock()

	if p < 0 {
		p = 0
	}

	g.power = p
	return g.power
}

// CurrentPower returns power proportional to the value.
func (g *generic) CurrentPower() float32 {
	if pb, ok := g.impl.(powerBackend); ok {
		return pb.currentPower()
	}

	max := g.impl.maxValue()
	if max <= 0 {
		return 0
	}

	return g.MaxPower() * float32(g.impl.value()) / float32(max)
}

// ActiveLevel returns true if light is active high.
func (g *generic) ActiveLevel() bool {
	if lb, ok := g.impl.(levelBackend); ok {
		return lb.activeLevel()
	}

	return true
}

// SetActiveLevel changes active logic level, if supported.
func (g *generic) SetActiveLevel(level bool) bool {
	if lb, ok := g.impl.(levelBackend); ok {
		return lb.setActiveLevel(level)
	}

	return false
}

// Defaults returns per-instance defaults.
func (g *generic) Defaults() light.Defaults {
	g.Lock()
	defer g.Unlock()
	return g.defaults
}

// SetDefaults updates per-instance defaults, invalid values are replaced with standard ones.
func (g *generic) SetDefaults(d light.Defaults) {
	std := light.NewDefaults()
	if d.FadeTime < 0 {
		d.FadeTime = std.FadeTime
	}

	if d.Scale <= 0 {
		d.Scale = std.Scale
	}

	if d.Step <= 0 {
		d.Step = std.Step
	}

	g.Lock()
	defer g.Unlock()
	g.defaults = d
}

// State returns light snapshot.
func (g *generic) State() *light.State {
	d := g.Defaults()
	return &light.State{
		Kind:        g.kind,
		Curve:       g.Curve(),
		FadeTime:    d.FadeTime,
		Scale:       d.Scale,
		Step:        d.Step,
		Value:       g.Value(),
		MaxValue:    g.MaxValue(),
		ValueScaled: g.ValueScaled(light.NoOverride),
		Power:       g.CurrentPower(),
		MaxPower:    g.MaxPower(),
		ActiveLevel: g.ActiveLevel(),
	}
}

// OnChangeAttach sets the only change callback.
func (g *generic) OnChangeAttach(cb light.OnChangeCallback) {
	g.Lock()
	defer g.Unlock()
	g.onChange = cb
}

// OnChangeDetach removes change callback.
func (g *generic) OnChangeDetach() {
	g.Lock()
	defer g.Unlock()
	g.onChange = nil
}

// Invokes change callback outside of the lock.
func (g *generic) notify() {
	g.Lock()
	cb := g.onChange
	g.Unlock()

	if cb != nil {
		cb(g.self)
	}
}

func (g *generic) duration(duration int32) int32 {
	if duration < 0 {
		return g.Defaults().FadeTime
	}

	return duration
}

func (g *generic) scale(scale int32) int32 {
	if scale <= 0 {
		return g.Defaults().Scale
	}

	return scale
}
