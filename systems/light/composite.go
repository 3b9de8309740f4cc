package light

import (
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/go-home-io/lightmgr/plugins/common"
	"github.com/go-home-io/lightmgr/plugins/light"
	"github.com/go-home-io/lightmgr/plugins/light/enums"
	"github.com/go-home-io/lightmgr/utils"
)

// Composite member.
type member struct {
	id    uint8
	light light.ILight
	raw   backend
}

// Light unit aggregating other lights of the same kind.
type compositeLight struct {
	*generic
	subKind enums.LightKind
	share   enums.PowerShare

	mu          sync.RWMutex
	members     []*member
	combinedMax int32

	fanOut  int32
	changed int32
}

// ConstructCompositeLight has data required for a new composite light.
type ConstructCompositeLight struct {
	Logger  common.ILoggerProvider `validate:"required"`
	SubKind enums.LightKind
	Share   enums.PowerShare
}

// NewCompositeLight constructs a new empty composite light.
// Curve is taken from the first added member.
func NewCompositeLight(ctor *ConstructCompositeLight) light.ICompositeLight {
	c := &compositeLight{
		generic: newGeneric(enums.LightComposite, enums.CurveLinear, 0, ctor.Logger),
		subKind: ctor.SubKind,
		share:   ctor.Share,
	}
	c.impl = c
	c.self = c

	return c
}

// SubKind returns kind of every member.
func (c *compositeLight) SubKind() enums.LightKind {
	return c.subKind
}

// PowerShare returns value distribution policy.
func (c *compositeLight) PowerShare() enums.PowerShare {
	return c.share
}

// AddLight takes ownership of the light.
// Light's change callback is taken over by the composite.
func (c *compositeLight) AddLight(id uint8, l light.ILight) error {
	rl, ok := l.(rawLight)
	if !ok {
		return &ErrForeignLight{}
	}

	if l.Kind() != c.subKind {
		return &ErrKindMismatch{Expected: c.subKind.String(), Actual: l.Kind().String()}
	}

	c.mu.Lock()
	for _, v := range c.members {
		if v.id == id {
			c.mu.Unlock()
			return &ErrDuplicateMember{ID: id}
		}
	}

	max := l.MaxValue()
	if c.share != enums.ShareIncremental && len(c.members) > 0 && max != c.combinedMax {
		c.mu.Unlock()
		return &ErrMaxValueMismatch{Expected: c.combinedMax, Actual: max}
	}

	first := 0 == len(c.members)
	c.members = append(c.members, &member{id: id, light: l, raw: rl.raw()})
	switch c.share {
	case enums.ShareEqual, enums.SharePhaseShift:
		if first {
			c.combinedMax = max
		}
	default:
		c.combinedMax += max
	}
	c.mu.Unlock()

	c.Lock()
	if first {
		c.curve = l.Curve()
	}

	if c.share == enums.ShareIncremental && l.Curve() == enums.CurveBinary {
		c.curve = enums.CurveLinear
	}

	c.power += l.MaxPower()
	c.Unlock()

	l.OnChangeAttach(c.memberChanged)
	c.logger.Debug("Member added", common.LogSystemToken, logSystem,
		common.LogMemberToken, strconv.Itoa(int(id)), common.LogLightKindToken, l.Kind().String())
	return nil
}

// Light returns member by its id.
func (c *compositeLight) Light(id uint8) (light.ILight, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, v := range c.members {
		if v.id == id {
			return v.light, true
		}
	}

	return nil, false
}

// Members returns member ids in insertion order.
func (c *compositeLight) Members() []uint8 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ids := make([]uint8, len(c.members))
	for ii, v := range c.members {
		ids[ii] = v.id
	}

	return ids
}

func (c *compositeLight) snapshot() []*member {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]*member(nil), c.members...)
}

func (c *compositeLight) value() int32 {
	members := c.snapshot()
	if 0 == len(members) {
		return 0
	}

	if c.share != enums.ShareIncremental {
		return members[0].light.Value()
	}

	sum := int32(0)
	for _, v := range members {
		sum += v.light.Value()
	}

	return sum
}

func (c *compositeLight) maxValue() int32 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.combinedMax
}

func (c *compositeLight) currentPower() float32 {
	members := c.snapshot()
	if 0 == len(members) {
		return 0
	}

	if enums.ShareEqual == c.share {
		return members[0].light.CurrentPower() * float32(len(members))
	}

	sum := float32(0)
	for _, v := range members {
		sum += v.light.CurrentPower()
	}

	return sum
}

// Constant sub-kind keeps its curve, otherwise curve is propagated to members.
func (c *compositeLight) setCurve(curve enums.Curve) enums.Curve {
	if enums.LightConstant == c.subKind || !curve.IsValid() {
		return c.Curve()
	}

	c.Lock()
	c.curve = curve
	c.Unlock()

	for _, v := range c.snapshot() {
		v.light.SetCurve(curve)
	}

	return curve
}

func (c *compositeLight) setValue(value int32) bool {
	return c.fadeValue(value, 0)
}

// Distributes value across members.
// Members changes are collapsed into a single notification.
func (c *compositeLight) fadeValue(value int32, duration int32) bool {
	members := c.snapshot()
	if 0 == len(members) {
		return false
	}

	atomic.StoreInt32(&c.changed, 0)
	atomic.StoreInt32(&c.fanOut, 1)

	switch c.share {
	case enums.ShareEqual:
		c.goEqual(members, value, duration)
	case enums.SharePhaseShift:
		c.goPhaseShift(members, value, duration)
	default:
		c.goIncremental(members, value, duration)
	}

	atomic.StoreInt32(&c.fanOut, 0)
	if 1 == atomic.SwapInt32(&c.changed, 0) {
		c.notify()
	}

	return true
}

// Fills members one by one.
func (c *compositeLight) goIncremental(members []*member, value int32, duration int32) {
	for _, v := range members {
		max := v.raw.maxValue()
		if value >= max {
			v.raw.fadeValue(max, duration)
			value -= max
			continue
		}

		v.raw.fadeValue(value, duration)
		value = 0
	}
}

func (c *compositeLight) goEqual(members []*member, value int32, duration int32) {
	for _, v := range members {
		v.raw.fadeValue(value, duration)
	}
}

// Spreads PWM phases by the duty value.
// Phase which can't be reached while fade is running is applied after every fade was queued.
func (c *compositeLight) goPhaseShift(members []*member, value int32, duration int32) {
	if members[0].light.Kind() != enums.LightDimmable {
		c.goEqual(members, value, duration)
		return
	}

	deferred := make([]bool, len(members))
	for ii, v := range members {
		ps, ok := v.raw.(phaseShifter)
		if !ok {
			v.raw.fadeValue(value, duration)
			continue
		}

		max := v.raw.maxValue()
		if max <= 0 {
			continue
		}

		shift := int32(int64(value) * int64(ii) % int64(max))
		if 0 == duration {
			if ps.shiftPhase(value, shift) {
				atomic.StoreInt32(&c.changed, 1)
			}
			continue
		}

		if ps.DutyShift()+value > max {
			ps.setPhase(shift)
			v.raw.fadeValue(value, duration)
			continue
		}

		v.raw.fadeValue(value, duration)
		deferred[ii] = true
	}

	for ii, v := range members {
		if !deferred[ii] {
			continue
		}

		max := v.raw.maxValue()
		shift := int32(int64(value) * int64(ii) % int64(max))
		v.raw.(phaseShifter).shiftPhase(value, shift)
		c.logger.Debug("Deferred phase shift", common.LogSystemToken, logSystem,
			common.LogMemberToken, strconv.Itoa(int(v.id)), common.LogValueToken, utils.Itoa32(shift))
	}
}

// Member change callback, collapsed while value is being distributed.
func (c *compositeLight) memberChanged(light.ILight) {
	if 1 == atomic.LoadInt32(&c.fanOut) {
		atomic.StoreInt32(&c.changed, 1)
		return
	}

	c.notify()
}
