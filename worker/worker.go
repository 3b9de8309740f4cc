// Package worker contains light manager wiring logic.
package worker

import (
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/go-home-io/lightmgr/plugins/bus"
	"github.com/go-home-io/lightmgr/plugins/common"
	"github.com/go-home-io/lightmgr/plugins/light"
	"github.com/go-home-io/lightmgr/plugins/light/enums"
	"github.com/go-home-io/lightmgr/providers"
	"github.com/go-home-io/lightmgr/systems"
	ebus "github.com/go-home-io/lightmgr/systems/bus"
	"github.com/go-home-io/lightmgr/systems/eclo"
	lights "github.com/go-home-io/lightmgr/systems/light"
	"github.com/go-home-io/lightmgr/systems/monitor"
	"github.com/go-home-io/lightmgr/utils"
	"github.com/pkg/errors"
)

const (
	// Default logger system.
	logSystem = "worker"
)

// Single demo step.
type demoStep struct {
	event enums.EventID
	value int32
	scale int32
}

var demoSequence = []demoStep{
	{enums.EvtGoOn, 0, light.NoOverride},
	{enums.EvtGoValueScaled, 25, 100},
	{enums.EvtGoIncr, 0, light.NoOverride},
	{enums.EvtGoDecr, 0, light.NoOverride},
	{enums.EvtGoToggle, 0, light.NoOverride},
	{enums.EvtGoToggle, 0, light.NoOverride},
	{enums.EvtGoOff, 0, light.NoOverride},
}

// LightManager owns lights and their event nodes.
type LightManager struct {
	Settings providers.ISettingsProvider
	Logger   common.ILoggerProvider

	composite light.ICompositeLight
	nodes     []providers.IEventNodeProvider
	monitor   providers.IStateMonitorProvider

	stop     chan struct{}
	stopOnce sync.Once
}

// NewLightManager constructs lights, event nodes and state monitor.
// settings holds parsed options and all necessary helper-providers.
func NewLightManager(settings providers.ISettingsProvider) (*LightManager, error) {
	node := settings.NodeSettings()
	if 0 == len(node.Channels) && "" == node.Switch {
		return nil, &ErrNoLights{}
	}

	w := &LightManager{
		Settings: settings,
		Logger:   settings.SystemLogger(),
		nodes:    make([]providers.IEventNodeProvider, 0),
		stop:     make(chan struct{}),
	}

	err := w.loadComposite(node)
	if err == nil {
		err = w.loadSwitch(node)
	}

	if err == nil {
		err = w.loadMonitor(node)
	}

	if err != nil {
		w.teardown()
		return nil, err
	}

	return w, nil
}

// Start runs demo or blocks until stop signal.
func (w *LightManager) Start() {
	node := w.Settings.NodeSettings()
	w.Logger.Info("Successfully started light manager", common.LogSystemToken, logSystem,
		common.LogGroupToken, utils.Itoa32(node.Group))

	if node.Demo {
		w.RunDemo(time.Duration(node.FadeTime)*time.Millisecond + 200*time.Millisecond)
		w.Stop()
		return
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(c)

	select {
	case <-c:
		w.Logger.Info("Received stop command, exiting", common.LogSystemToken, logSystem)
	case <-w.stop:
	}

	w.Stop()
}

// Stop releases every node and shared service.
func (w *LightManager) Stop() {
	w.stopOnce.Do(func() {
		close(w.stop)
		w.teardown()
	})
}

// Nodes returns event nodes.
func (w *LightManager) Nodes() []providers.IEventNodeProvider {
	return w.nodes
}

// Monitor returns state monitor.
func (w *LightManager) Monitor() providers.IStateMonitorProvider {
	return w.monitor
}

// RunDemo publishes demo commands to own group and logs observed states.
func (w *LightManager) RunDemo(pause time.Duration) {
	node := w.Settings.NodeSettings()
	for _, v := range demoSequence {
		cmd := ebus.NewCommandMessage(v.event, bus.IDAnonymous, bus.IDBroadcast, v.value)
		cmd.Scale = v.scale

		data, err := ebus.Encode(cmd)
		if err != nil {
			w.Logger.Error("Failed to encode demo command", err, common.LogSystemToken, logSystem)
			return
		}

		err = w.Settings.Bus().Publish(bus.ClassCommand, node.Group, data, time.Second)
		if err != nil {
			w.Logger.Error("Failed to publish demo command", err, common.LogSystemToken, logSystem)
			return
		}

		time.Sleep(pause)
		for _, st := range w.monitor.Nodes() {
			w.Logger.Info("Demo step", common.LogSystemToken, logSystem, common.LogEventToken, v.event.String(),
				"state", eclo.FormatState(st.Descr, &st.State))
		}
	}
}

// Builds composite light from PWM channels.
func (w *LightManager) loadComposite(node *providers.NodeSettings) error {
	if 0 == len(node.Channels) {
		return nil
	}

	defaults := light.NewDefaults()
	defaults.FadeTime = node.FadeTime

	cCtor := &lights.ConstructCompositeLight{
		Logger:  w.Settings.PluginLogger(systems.SysLight, "composite"),
		SubKind: enums.LightDimmable,
		Share:   node.Share,
	}
	if err := w.validate(cCtor); err != nil {
		return err
	}

	w.composite = lights.NewCompositeLight(cCtor)
	for ii, v := range node.Channels {
		ctor := &lights.ConstructPWMLight{
			Logger:  w.Settings.PluginLogger(systems.SysLight, v.Pin),
			Driver:  w.Settings.DutyDriver(),
			Channel: v.Channel,
			Pin:     v.Pin,
			Curve:   node.Curve,
			Power:   node.Power,
			Fader:   w.Settings.Fader(),
			Engine:  node.Engine,
		}
		if err := w.validate(ctor); err != nil {
			return err
		}

		l, err := lights.NewPWMLight(ctor)
		if err != nil {
			return errors.Wrap(err, "pwm light")
		}

		l.SetDefaults(defaults)
		err = w.composite.AddLight(uint8(ii), l)
		if err != nil {
			return errors.Wrap(err, "composite member")
		}
	}

	w.composite.SetDefaults(defaults)
	if node.Initial > 0 {
		w.composite.GoValueScaled(int32(node.Initial), 100, 0)
	}

	return w.addNode(w.composite, node.ID, node.Descr)
}

// Builds on/off light.
func (w *LightManager) loadSwitch(node *providers.NodeSettings) error {
	if "" == node.Switch {
		return nil
	}

	ctor := &lights.ConstructGPIOLight{
		Logger:    w.Settings.PluginLogger(systems.SysLight, node.Switch),
		Driver:    w.Settings.PinDriver(),
		Pin:       node.Switch,
		Power:     node.Power,
		ActiveLow: node.ActiveLow,
	}
	if err := w.validate(ctor); err != nil {
		return err
	}

	l, err := lights.NewGPIOLight(ctor)
	if err != nil {
		return errors.Wrap(err, "gpio light")
	}

	id := node.ID
	if len(node.Channels) > 0 {
		id++
	}

	return w.addNode(l, id, "")
}

func (w *LightManager) addNode(l light.ILight, id uint16, descr string) error {
	node := w.Settings.NodeSettings()
	ctor := &eclo.ConstructEclo{
		Light:      l,
		Bus:        w.Settings.Bus(),
		Logger:     w.Settings.PluginLogger(systems.SysEclo, utils.NodeKey(node.Group, id)),
		Group:      node.Group,
		ID:         id,
		Descr:      descr,
		Validator:  w.Settings.Validator(),
		Cron:       w.Settings.Cron(),
		ReportSpec: node.ReportSpec,
	}
	if err := w.validate(ctor); err != nil {
		return err
	}

	n, err := eclo.NewEventNode(ctor)
	if err != nil {
		return errors.Wrap(err, "event node")
	}

	n.SetFallback(func(msg *bus.Message) {
		w.Logger.Debug("Unmatched message", common.LogSystemToken, logSystem,
			common.LogNodeToken, n.Descr(), common.LogClassToken, msg.Class.String())
	})

	w.nodes = append(w.nodes, n)
	return nil
}

// Builds state monitor, own group is watched if nothing else is configured.
func (w *LightManager) loadMonitor(node *providers.NodeSettings) error {
	m, err := monitor.NewStateMonitor(&monitor.ConstructMonitor{
		Bus:     w.Settings.Bus(),
		Logger:  w.Settings.PluginLogger(systems.SysMonitor, "state"),
		Filters: node.Filters,
	})
	if err != nil {
		return err
	}

	w.monitor = m
	groups := node.Watch
	if 0 == len(groups) {
		groups = []int32{node.Group}
	}

	for _, v := range groups {
		if err := m.Watch(v); err != nil {
			return err
		}
	}

	m.OnChange(func(st *providers.NodeState) {
		w.Logger.Debug("Observed state change", common.LogSystemToken, logSystem,
			common.LogNodeToken, utils.NodeKey(st.Group, st.ID), common.LogValueToken, utils.Itoa32(st.State.Value))
	})

	return nil
}

// Applies default values and validates constructor.
func (w *LightManager) validate(ctor interface{}) error {
	if !w.Settings.Validator().Validate(ctor) {
		return &utils.ErrInvalidConfig{}
	}

	return nil
}

func (w *LightManager) teardown() {
	for _, v := range w.nodes {
		v.Close()
	}

	if w.monitor != nil {
		w.monitor.Close()
	}

	w.Settings.Close()
	w.Logger.Info("Light manager stopped", common.LogSystemToken, logSystem)
}
