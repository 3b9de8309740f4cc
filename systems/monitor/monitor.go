// Package monitor contains light state observer.
package monitor

import (
	"sort"
	"sync"
	"time"

	"github.com/gobwas/glob"
	"github.com/go-home-io/lightmgr/plugins/bus"
	"github.com/go-home-io/lightmgr/plugins/common"
	"github.com/go-home-io/lightmgr/plugins/light"
	"github.com/go-home-io/lightmgr/providers"
	ebus "github.com/go-home-io/lightmgr/systems/bus"
	"github.com/go-home-io/lightmgr/utils"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
)

const (
	// Logger system.
	logSystem = "monitor"
)

// Power readings are floats and may jitter.
var stateCmpOptions = []cmp.Option{
	cmpopts.IgnoreUnexported(light.State{}),
	cmpopts.EquateApprox(0, 0.001),
}

// ConstructMonitor has data required for a new state monitor.
type ConstructMonitor struct {
	Bus    bus.IControlBus        `validate:"required"`
	Logger common.ILoggerProvider `validate:"required"`
	TTL    time.Duration          `default:"5m"`
	// Filters are "<group>.<node>" or description glob patterns, empty list accepts everything.
	Filters []string
}

// State monitor provider.
type provider struct {
	sync.Mutex
	bus      bus.IControlBus
	logger   common.ILoggerProvider
	cache    *cache.Cache
	filters  []glob.Glob
	groups   map[int32]bus.SubscriptionHandle
	onChange func(state *providers.NodeState)
	closed   bool
}

// NewStateMonitor constructs a new state monitor.
func NewStateMonitor(ctor *ConstructMonitor) (providers.IStateMonitorProvider, error) {
	ttl := ctor.TTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	p := &provider{
		bus:     ctor.Bus,
		logger:  ctor.Logger,
		cache:   cache.New(ttl, 2*ttl),
		filters: make([]glob.Glob, 0, len(ctor.Filters)),
		groups:  make(map[int32]bus.SubscriptionHandle),
	}

	for _, v := range ctor.Filters {
		g, err := glob.Compile(v)
		if err != nil {
			return nil, errors.Wrap(err, "filter compile failed")
		}

		p.filters = append(p.filters, g)
	}

	return p, nil
}

// Watch subscribes to state broadcasts of the group.
// Repeated calls are ignored.
func (p *provider) Watch(group int32) error {
	p.Lock()
	defer p.Unlock()

	if _, ok := p.groups[group]; ok {
		return nil
	}

	handle, err := p.bus.Subscribe(bus.ClassState, group, p.onState)
	if err != nil {
		return errors.Wrap(err, "subscribe failed")
	}

	p.groups[group] = handle
	return nil
}

// Get returns latest known state of the node.
func (p *provider) Get(group int32, id uint16) (*providers.NodeState, bool) {
	v, ok := p.cache.Get(utils.NodeKey(group, id))
	if !ok {
		return nil, false
	}

	return v.(*providers.NodeState), true
}

// Nodes returns every non-expired node state ordered by group and id.
func (p *provider) Nodes() []*providers.NodeState {
	items := p.cache.Items()
	res := make([]*providers.NodeState, 0, len(items))
	for _, v := range items {
		res = append(res, v.Object.(*providers.NodeState))
	}

	sort.Slice(res, func(i, j int) bool {
		if res[i].Group != res[j].Group {
			return res[i].Group < res[j].Group
		}

		return res[i].ID < res[j].ID
	})

	return res
}

// OnChange sets callback invoked when node state differs from the previous one.
func (p *provider) OnChange(cb func(state *providers.NodeState)) {
	p.Lock()
	defer p.Unlock()

	p.onChange = cb
}

// Close unsubscribes from every group.
func (p *provider) Close() {
	p.Lock()
	defer p.Unlock()

	if p.closed {
		return
	}

	p.closed = true
	for _, v := range p.groups {
		p.bus.Unsubscribe(v)
	}

	p.groups = nil
}

// Handles state broadcast.
func (p *provider) onState(msg *bus.Message) {
	st, err := ebus.DecodeState(msg.Payload)
	if err != nil {
		p.logger.Debug("Skipping state message", common.LogSystemToken, logSystem,
			common.LogErrorToken, err.Error())
		return
	}

	key := utils.NodeKey(msg.Group, st.Header.ID.Src)
	if !p.accepts(key, st.Descr) {
		return
	}

	ns := &providers.NodeState{
		Group:    msg.Group,
		ID:       st.Header.ID.Src,
		Descr:    st.Descr,
		State:    st.State,
		LastSeen: utils.TimeNow(),
	}

	old, ok := p.cache.Get(key)
	p.cache.Set(key, ns, cache.DefaultExpiration)
	if ok && cmp.Equal(old.(*providers.NodeState).State, ns.State, stateCmpOptions...) {
		return
	}

	p.logger.Debug("Node state changed", common.LogSystemToken, logSystem, common.LogNodeToken, key,
		common.LogValueToken, utils.Itoa32(ns.State.Value))

	p.Lock()
	cb := p.onChange
	p.Unlock()

	if cb != nil {
		cb(ns)
	}
}

func (p *provider) accepts(key string, descr string) bool {
	if 0 == len(p.filters) {
		return true
	}

	for _, v := range p.filters {
		if v.Match(key) || v.Match(descr) {
			return true
		}
	}

	return false
}
