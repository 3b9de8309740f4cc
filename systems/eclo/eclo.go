// Package eclo contains event nodes which make lights reachable through the control bus.
package eclo

import (
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-home-io/lightmgr/plugins/bus"
	"github.com/go-home-io/lightmgr/plugins/common"
	"github.com/go-home-io/lightmgr/plugins/light"
	"github.com/go-home-io/lightmgr/plugins/light/enums"
	"github.com/go-home-io/lightmgr/providers"
	ebus "github.com/go-home-io/lightmgr/systems/bus"
	"github.com/go-home-io/lightmgr/utils"
)

const (
	// Logger system.
	logSystem = "eclo"

	// Default publish timeout.
	defaultPublishTimeout = 100 * time.Millisecond
)

// ConstructEclo has data required for a new event node.
type ConstructEclo struct {
	Light  light.ILight           `validate:"required"`
	Bus    bus.IControlBus        `validate:"required"`
	Logger common.ILoggerProvider `validate:"required"`
	// Own group, subscribed with read-write permission.
	Group int32 `validate:"gte=0"`
	ID    uint16
	Descr string

	// Validator checks inbound commands, if set.
	Validator providers.IValidatorProvider
	// Cron and ReportSpec enable periodic state reports.
	Cron           providers.ICronProvider
	ReportSpec     string
	PublishTimeout time.Duration
}

// Single registration on the bus.
type subscription struct {
	providers.EventSubscription
	handle bus.SubscriptionHandle
}

// Event node provider.
type provider struct {
	sync.Mutex
	light     light.ILight
	bus       bus.IControlBus
	logger    common.ILoggerProvider
	validator providers.IValidatorProvider
	cron      providers.ICronProvider
	cronID    int
	hasCron   bool

	id      uint16
	group   int32
	descr   string
	timeout time.Duration

	subs     []*subscription
	fallback func(msg *bus.Message)
	closed   bool

	// Number of bus handlers in progress.
	handling int32
}

// NewEventNode constructs a new event node.
// Node subscribes to its own group right away and starts publishing light changes.
func NewEventNode(ctor *ConstructEclo) (providers.IEventNodeProvider, error) {
	if nil == ctor.Light {
		return nil, &ErrNoLight{}
	}

	descr := ctor.Descr
	if "" == descr {
		descr = fmt.Sprintf("eclo-%d", ctor.ID)
	}

	timeout := ctor.PublishTimeout
	if timeout <= 0 {
		timeout = defaultPublishTimeout
	}

	p := &provider{
		light:     ctor.Light,
		bus:       ctor.Bus,
		logger:    ctor.Logger,
		validator: ctor.Validator,
		cron:      ctor.Cron,
		id:        ctor.ID,
		group:     ctor.Group,
		descr:     utils.NormalizeName(descr),
		timeout:   timeout,
		subs:      make([]*subscription, 0),
	}

	err := p.GrpSubscribe(ctor.Group, bus.PermReadWrite)
	if err != nil {
		p.Close()
		return nil, err
	}

	if p.cron != nil && ctor.ReportSpec != "" {
		p.cronID, err = p.cron.AddFunc(ctor.ReportSpec, p.StateReport)
		if err != nil {
			p.Close()
			return nil, err
		}
		p.hasCron = true
	}

	p.light.OnChangeAttach(p.onChange)
	p.logger.Info("Event node started", common.LogSystemToken, logSystem, common.LogNodeToken, p.descr,
		common.LogGroupToken, utils.Itoa32(p.group))
	return p, nil
}

// ID returns node id.
func (p *provider) ID() uint16 {
	return p.id
}

// Group returns own group.
func (p *provider) Group() int32 {
	return p.group
}

// Descr returns node mnemonic.
func (p *provider) Descr() string {
	return p.descr
}

// Light returns owned light.
func (p *provider) Light() light.ILight {
	return p.light
}

// GrpSubscribe subscribes to commands and services of the group.
// Both classes are attempted, first error is returned.
func (p *provider) GrpSubscribe(group int32, perm bus.Permission) error {
	errCmd := p.EvtSubscribe(bus.ClassCommand, group, perm)
	errSrv := p.EvtSubscribe(bus.ClassService, group, perm)
	if errCmd != nil {
		return errCmd
	}

	return errSrv
}

// EvtSubscribe registers single class and group pair.
// Repeated pair is rejected.
func (p *provider) EvtSubscribe(class bus.MessageClass, group int32, perm bus.Permission) error {
	p.Lock()
	defer p.Unlock()

	if p.closed {
		return &ErrNodeClosed{}
	}

	for _, v := range p.subs {
		if v.Class == class && v.Group == group {
			err := &ErrDuplicateSubscription{Class: class, Group: group}
			p.logger.Warn("Duplicate subscription", common.LogSystemToken, logSystem,
				common.LogNodeToken, p.descr, common.LogErrorToken, err.Error())
			return err
		}
	}

	sub := &subscription{
		EventSubscription: providers.EventSubscription{
			Class:      class,
			Group:      group,
			Permission: perm,
		},
	}

	var handler bus.Handler
	switch class {
	case bus.ClassCommand:
		handler = func(msg *bus.Message) { p.onCommand(sub, msg) }
	case bus.ClassService:
		handler = func(msg *bus.Message) { p.onService(sub, msg) }
	default:
		handler = p.unmatched
	}

	handle, err := p.bus.Subscribe(class, group, handler)
	if err != nil {
		p.logger.Error("Failed to subscribe", err, common.LogSystemToken, logSystem,
			common.LogNodeToken, p.descr, common.LogClassToken, class.String())
		return err
	}

	sub.handle = handle
	p.subs = append(p.subs, sub)
	p.logger.Debug("Subscribed", common.LogSystemToken, logSystem, common.LogNodeToken, p.descr,
		common.LogClassToken, class.String(), common.LogGroupToken, utils.Itoa32(group), "permission", perm.String())
	return nil
}

// Subscriptions returns registered pairs in registration order.
func (p *provider) Subscriptions() []providers.EventSubscription {
	p.Lock()
	defer p.Unlock()

	res := make([]providers.EventSubscription, 0, len(p.subs))
	for _, v := range p.subs {
		res = append(res, v.EventSubscription)
	}

	return res
}

// SetFallback sets callback for messages node can't handle.
func (p *provider) SetFallback(cb func(msg *bus.Message)) {
	p.Lock()
	defer p.Unlock()

	p.fallback = cb
}

// StateReport publishes current state to every writable group.
func (p *provider) StateReport() {
	p.publishState(enums.EvtStateReport)
}

// Close releases every bus registration in registration order.
func (p *provider) Close() {
	p.Lock()
	if p.closed {
		p.Unlock()
		return
	}

	p.closed = true
	subs := p.subs
	p.subs = nil
	p.Unlock()

	p.light.OnChangeDetach()
	if p.hasCron {
		p.cron.RemoveFunc(p.cronID)
	}

	for _, v := range subs {
		p.bus.Unsubscribe(v.handle)
	}

	p.logger.Debug("Event node closed", common.LogSystemToken, logSystem, common.LogNodeToken, p.descr)
}

// Applies inbound command.
func (p *provider) onCommand(sub *subscription, msg *bus.Message) {
	if !sub.Permission.CanRead() {
		return
	}

	atomic.AddInt32(&p.handling, 1)
	defer atomic.AddInt32(&p.handling, -1)

	cmd, err := ebus.DecodeCommand(msg.Payload)
	if err != nil {
		p.logger.Debug("Failed to decode command", common.LogSystemToken, logSystem,
			common.LogNodeToken, p.descr, common.LogErrorToken, err.Error())
		p.unmatched(msg)
		return
	}

	dst := cmd.Header.ID.Dst
	if dst != p.id && dst != bus.IDBroadcast && dst != bus.IDAnonymous {
		p.unmatched(msg)
		return
	}

	if !cmd.Header.Event.IsCommand() {
		p.unmatched(msg)
		return
	}

	if p.validator != nil && !p.validator.Validate(cmd) {
		p.logger.Warn("Command validation failed", common.LogSystemToken, logSystem,
			common.LogNodeToken, p.descr, common.LogEventToken, cmd.Header.Event.String())
		return
	}

	p.logger.Debug("Applying command", common.LogSystemToken, logSystem, common.LogNodeToken, p.descr,
		common.LogEventToken, cmd.Header.Event.String(), common.LogValueToken, utils.Itoa32(cmd.Value))
	p.apply(cmd)
}

// Maps command onto light operation.
func (p *provider) apply(cmd *ebus.CommandMessage) {
	l := p.light
	d := cmd.Duration

	switch cmd.Header.Event {
	case enums.EvtGoValue:
		l.GoValue(cmd.Value, d)
	case enums.EvtGoValueScaled:
		l.GoValueScaled(cmd.Value, cmd.Scale, d)
	case enums.EvtGoMax:
		l.GoMax(d)
	case enums.EvtGoMin:
		l.GoMin(d)
	case enums.EvtGoOn:
		l.GoOn(d)
	case enums.EvtGoOff:
		l.GoOff(d)
	case enums.EvtGoToggle:
		l.GoToggle(d)
	case enums.EvtGoIncr:
		l.GoIncr(d)
	case enums.EvtGoDecr:
		l.GoDecr(d)
	case enums.EvtGoStep:
		l.GoStep(p.step(cmd), d)
	case enums.EvtGoStepScaled:
		l.GoStepScaled(p.step(cmd), cmd.Scale, d)
	}
}

func (p *provider) step(cmd *ebus.CommandMessage) int32 {
	if 0 == cmd.Step {
		return p.light.Defaults().Step
	}

	return cmd.Step
}

// Handles echo and state requests.
func (p *provider) onService(sub *subscription, msg *bus.Message) {
	if !sub.Permission.CanRead() {
		return
	}

	atomic.AddInt32(&p.handling, 1)
	defer atomic.AddInt32(&p.handling, -1)

	srv, err := ebus.DecodeService(msg.Payload)
	if err != nil {
		p.unmatched(msg)
		return
	}

	dst := srv.Header.ID.Dst
	if dst != p.id && dst != bus.IDBroadcast {
		p.unmatched(msg)
		return
	}

	switch srv.Header.Event {
	case enums.EvtEchoRq:
		if !sub.Permission.CanWrite() {
			return
		}

		reply := ebus.NewServiceMessage(enums.EvtEchoRpl, p.id, srv.Header.ID.Src, srv.Value)
		p.publish(bus.ClassService, msg.Group, reply)
	case enums.EvtGetState:
		if !sub.Permission.CanWrite() {
			return
		}

		p.publish(bus.ClassState, msg.Group,
			ebus.NewStateMessage(enums.EvtStateReport, p.id, p.descr, p.light.State()))
	default:
		p.unmatched(msg)
	}
}

// Light change listener.
func (p *provider) onChange(light.ILight) {
	p.publishState(enums.EvtStateUpdate)
}

// Publishes state to every group node can write to.
func (p *provider) publishState(event enums.EventID) {
	groups := p.writeGroups()
	if 0 == len(groups) {
		return
	}

	msg := ebus.NewStateMessage(event, p.id, p.descr, p.light.State())
	for _, g := range groups {
		p.publish(bus.ClassState, g, msg)
	}
}

// Unique writable groups in registration order.
func (p *provider) writeGroups() []int32 {
	p.Lock()
	defer p.Unlock()

	if p.closed {
		return nil
	}

	res := make([]int32, 0)
	seen := make(map[int32]bool)
	for _, v := range p.subs {
		if !v.Permission.CanWrite() || seen[v.Group] {
			continue
		}

		seen[v.Group] = true
		res = append(res, v.Group)
	}

	return res
}

// Publishes encoded message.
// Bus handlers run on the dispatcher, so messages sent from them never wait for queue space.
func (p *provider) publish(class bus.MessageClass, group int32, msg interface{}) {
	data, err := ebus.Encode(msg)
	if err != nil {
		p.logger.Error("Failed to encode message", err, common.LogSystemToken, logSystem,
			common.LogNodeToken, p.descr)
		return
	}

	timeout := p.timeout
	if atomic.LoadInt32(&p.handling) > 0 {
		timeout = 0
	}

	err = p.bus.Publish(class, group, data, timeout)
	if err != nil {
		p.logger.Warn("Failed to publish message", common.LogSystemToken, logSystem,
			common.LogNodeToken, p.descr, common.LogClassToken, class.String(),
			common.LogGroupToken, strconv.Itoa(int(group)), common.LogErrorToken, err.Error())
	}
}

// Forwards message to the fallback, if any.
func (p *provider) unmatched(msg *bus.Message) {
	p.Lock()
	cb := p.fallback
	p.Unlock()

	if cb != nil {
		cb(msg)
	}
}
