package eclo

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-home-io/lightmgr/mocks"
	"github.com/go-home-io/lightmgr/plugins/bus"
	"github.com/go-home-io/lightmgr/plugins/light"
	"github.com/go-home-io/lightmgr/plugins/light/enums"
	"github.com/go-home-io/lightmgr/providers"
	ebus "github.com/go-home-io/lightmgr/systems/bus"
	lights "github.com/go-home-io/lightmgr/systems/light"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type ecloSuite struct {
	suite.Suite

	bus   interface {
		bus.IControlBus
		Published() []*bus.Message
		ResetPublished()
		Unsubscribed() []bus.SubscriptionHandle
		Subscriptions() int
		Timeouts() []time.Duration
	}
	cron  interface {
		providers.ICronProvider
		Fire()
		Jobs() int
	}
	light light.IDimmableLight
	node  providers.IEventNodeProvider

	mu       sync.Mutex
	fallback []*bus.Message
}

func (e *ecloSuite) SetupTest() {
	var err error
	logger := mocks.FakeNewLogger(nil)

	e.light, err = lights.NewPWMLight(&lights.ConstructPWMLight{
		Logger: logger,
		Driver: mocks.FakeNewDutyDriver(1023),
		Pin:    "p0",
		Curve:  enums.CurveLinear,
		Power:  2,
	})
	require.NoError(e.T(), err)

	e.bus = mocks.FakeNewBus()
	e.cron = mocks.FakeNewCron()
	e.fallback = nil

	e.node, err = NewEventNode(&ConstructEclo{
		Light:      e.light,
		Bus:        e.bus,
		Logger:     logger,
		Group:      1,
		ID:         7,
		Validator:  mocks.FakeNewValidator(true),
		Cron:       e.cron,
		ReportSpec: "@every 10s",
	})
	require.NoError(e.T(), err)

	e.node.SetFallback(func(msg *bus.Message) {
		e.mu.Lock()
		defer e.mu.Unlock()
		e.fallback = append(e.fallback, msg)
	})
}

func (e *ecloSuite) TearDownTest() {
	e.node.Close()
}

func (e *ecloSuite) send(class bus.MessageClass, group int32, msg interface{}) {
	data, err := ebus.Encode(msg)
	require.NoError(e.T(), err)
	require.NoError(e.T(), e.bus.Publish(class, group, data, 0))
}

func (e *ecloSuite) command(event enums.EventID, dst uint16, value int32) *ebus.CommandMessage {
	return ebus.NewCommandMessage(event, 3, dst, value)
}

func (e *ecloSuite) fallbacks() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.fallback)
}

// Returns state messages with their groups.
func (e *ecloSuite) states() (map[int32]*ebus.StateMessage, int) {
	res := make(map[int32]*ebus.StateMessage)
	cnt := 0
	for _, v := range e.bus.Published() {
		if v.Class != bus.ClassState {
			continue
		}

		msg, err := ebus.DecodeState(v.Payload)
		require.NoError(e.T(), err)
		res[v.Group] = msg
		cnt++
	}

	return res, cnt
}

// Tests default description and own group subscription.
func (e *ecloSuite) TestConstruct() {
	assert.Equal(e.T(), "eclo-7", e.node.Descr())
	assert.Equal(e.T(), uint16(7), e.node.ID())
	assert.Equal(e.T(), int32(1), e.node.Group())
	assert.Equal(e.T(), e.light, e.node.Light())
	assert.Equal(e.T(), []providers.EventSubscription{
		{Class: bus.ClassCommand, Group: 1, Permission: bus.PermReadWrite},
		{Class: bus.ClassService, Group: 1, Permission: bus.PermReadWrite},
	}, e.node.Subscriptions())
	assert.Equal(e.T(), 1, e.cron.Jobs())
}

// Tests command application and state update.
func (e *ecloSuite) TestCommand() {
	e.send(bus.ClassCommand, 1, e.command(enums.EvtGoValue, 7, 500))
	assert.Equal(e.T(), int32(500), e.light.Value())

	states, cnt := e.states()
	require.Equal(e.T(), 1, cnt)
	assert.Equal(e.T(), enums.EvtStateUpdate, states[1].Header.Event)
	assert.Equal(e.T(), uint16(7), states[1].Header.ID.Src)
	assert.Equal(e.T(), int32(500), states[1].State.Value)
	assert.Equal(e.T(), "eclo-7", states[1].Descr)
}

// Tests command mapping.
func (e *ecloSuite) TestCommandMapping() {
	data := []struct {
		event    enums.EventID
		value    int32
		step     int32
		scale    int32
		expected int32
	}{
		{enums.EvtGoMax, 0, 0, light.NoOverride, 1023},
		{enums.EvtGoOff, 0, 0, light.NoOverride, 0},
		{enums.EvtGoToggle, 0, 0, light.NoOverride, 1023},
		{enums.EvtGoToggle, 0, 0, light.NoOverride, 0},
		{enums.EvtGoMin, 0, 0, light.NoOverride, 1},
		{enums.EvtGoOn, 0, 0, light.NoOverride, 1023},
		{enums.EvtGoValueScaled, 50, 0, 100, 512},
		{enums.EvtGoValue, 100, 0, light.NoOverride, 100},
		{enums.EvtGoStep, 0, 23, light.NoOverride, 123},
		{enums.EvtGoStep, 0, 0, light.NoOverride, 133},
		{enums.EvtGoStep, 0, -33, light.NoOverride, 100},
	}

	for _, v := range data {
		cmd := e.command(v.event, bus.IDBroadcast, v.value)
		cmd.Step = v.step
		cmd.Scale = v.scale
		e.send(bus.ClassCommand, 1, cmd)
		assert.Equal(e.T(), v.expected, e.light.Value(), "%s", v.event.String())
	}
}

// Tests that command without read permission is ignored.
func (e *ecloSuite) TestNoReadPermission() {
	require.NoError(e.T(), e.node.GrpSubscribe(2, bus.PermWrite))
	e.send(bus.ClassCommand, 2, e.command(enums.EvtGoValue, 7, 300))

	assert.Equal(e.T(), int32(0), e.light.Value())
	_, cnt := e.states()
	assert.Equal(e.T(), 0, cnt)
}

// Tests that state is published only to writable groups.
func (e *ecloSuite) TestWriteGroups() {
	require.NoError(e.T(), e.node.GrpSubscribe(2, bus.PermRead))
	require.NoError(e.T(), e.node.GrpSubscribe(3, bus.PermWrite))
	require.NoError(e.T(), e.node.GrpSubscribe(4, bus.PermNone))

	e.send(bus.ClassCommand, 2, e.command(enums.EvtGoMax, 7, 0))
	assert.Equal(e.T(), int32(1023), e.light.Value())

	states, cnt := e.states()
	assert.Equal(e.T(), 2, cnt)
	assert.Contains(e.T(), states, int32(1))
	assert.Contains(e.T(), states, int32(3))

	e.send(bus.ClassCommand, 4, e.command(enums.EvtGoOff, 7, 0))
	assert.Equal(e.T(), int32(1023), e.light.Value())
}

// Tests destination filtering.
func (e *ecloSuite) TestDestination() {
	e.send(bus.ClassCommand, 1, e.command(enums.EvtGoValue, 8, 300))
	assert.Equal(e.T(), int32(0), e.light.Value())
	assert.Equal(e.T(), 1, e.fallbacks())

	e.send(bus.ClassCommand, 1, e.command(enums.EvtGoValue, bus.IDBroadcast, 300))
	assert.Equal(e.T(), int32(300), e.light.Value())

	e.send(bus.ClassCommand, 1, e.command(enums.EvtGoValue, bus.IDAnonymous, 200))
	assert.Equal(e.T(), int32(200), e.light.Value())
}

// Tests echo request.
func (e *ecloSuite) TestEcho() {
	e.send(bus.ClassService, 1, ebus.NewServiceMessage(enums.EvtEchoRq, 3, 7, 42))

	var reply *ebus.ServiceMessage
	for _, v := range e.bus.Published() {
		msg, err := ebus.DecodeService(v.Payload)
		if err == nil && v.Class == bus.ClassService && msg.Header.Event == enums.EvtEchoRpl {
			reply = msg
			assert.Equal(e.T(), int32(1), v.Group)
		}
	}

	require.NotNil(e.T(), reply)
	assert.Equal(e.T(), uint16(7), reply.Header.ID.Src)
	assert.Equal(e.T(), uint16(3), reply.Header.ID.Dst)
	assert.Equal(e.T(), uint32(42), reply.Value)

	e.bus.ResetPublished()
	e.send(bus.ClassService, 1, ebus.NewServiceMessage(enums.EvtEchoRq, 3, 9, 42))
	assert.Equal(e.T(), 1, len(e.bus.Published()))
}

// Tests state request.
func (e *ecloSuite) TestGetState() {
	e.light.GoValue(100, 0)
	e.bus.ResetPublished()

	e.send(bus.ClassService, 1, ebus.NewServiceMessage(enums.EvtGetState, 3, bus.IDBroadcast, 0))
	states, cnt := e.states()
	require.Equal(e.T(), 1, cnt)
	assert.Equal(e.T(), enums.EvtStateReport, states[1].Header.Event)
	assert.Equal(e.T(), int32(100), states[1].State.Value)
	assert.Equal(e.T(), enums.LightDimmable, states[1].State.Kind)
}

// Tests that messages sent from bus handlers don't wait for the queue.
func (e *ecloSuite) TestHandlerPublishTimeout() {
	e.bus.ResetPublished()
	e.send(bus.ClassService, 1, ebus.NewServiceMessage(enums.EvtEchoRq, 3, 7, 1))
	e.send(bus.ClassService, 1, ebus.NewServiceMessage(enums.EvtGetState, 3, 7, 0))
	e.send(bus.ClassCommand, 1, e.command(enums.EvtGoMax, 7, 0))
	require.Equal(e.T(), 6, len(e.bus.Timeouts()))
	for _, v := range e.bus.Timeouts() {
		assert.Equal(e.T(), time.Duration(0), v)
	}

	e.bus.ResetPublished()
	e.cron.Fire()
	e.light.GoOff(0)
	assert.Equal(e.T(), []time.Duration{defaultPublishTimeout, defaultPublishTimeout}, e.bus.Timeouts())
}

// Tests duplicate subscriptions.
func (e *ecloSuite) TestDuplicate() {
	err := e.node.GrpSubscribe(1, bus.PermRead)
	assert.IsType(e.T(), &ErrDuplicateSubscription{}, err)

	require.NoError(e.T(), e.node.EvtSubscribe(bus.ClassCommand, 5, bus.PermRead))
	err = e.node.EvtSubscribe(bus.ClassCommand, 5, bus.PermReadWrite)
	assert.IsType(e.T(), &ErrDuplicateSubscription{}, err)
	assert.Equal(e.T(), 3, len(e.node.Subscriptions()))
}

// Tests fallback on unknown and corrupted messages.
func (e *ecloSuite) TestFallback() {
	e.send(bus.ClassCommand, 1, e.command(enums.EvtStateReport, 7, 0))
	assert.Equal(e.T(), 1, e.fallbacks())

	require.NoError(e.T(), e.bus.Publish(bus.ClassCommand, 1, []byte{0xff}, 0))
	assert.Equal(e.T(), 2, e.fallbacks())

	e.send(bus.ClassService, 1, ebus.NewServiceMessage(enums.EvtNoop, 3, 7, 0))
	assert.Equal(e.T(), 3, e.fallbacks())
	assert.Equal(e.T(), int32(0), e.light.Value())
}

// Tests periodic reports.
func (e *ecloSuite) TestCron() {
	e.cron.Fire()

	states, cnt := e.states()
	require.Equal(e.T(), 1, cnt)
	assert.Equal(e.T(), enums.EvtStateReport, states[1].Header.Event)
}

// Tests teardown order.
func (e *ecloSuite) TestClose() {
	require.NoError(e.T(), e.node.GrpSubscribe(2, bus.PermRead))
	e.node.Close()
	e.node.Close()

	assert.Equal(e.T(), []bus.SubscriptionHandle{"1", "2", "3", "4"}, e.bus.Unsubscribed())
	assert.Equal(e.T(), 0, e.bus.Subscriptions())
	assert.Equal(e.T(), 0, e.cron.Jobs())

	e.light.GoMax(0)
	_, cnt := e.states()
	assert.Equal(e.T(), 0, cnt)
	assert.IsType(e.T(), &ErrNodeClosed{}, e.node.GrpSubscribe(3, bus.PermRead))
}

// Tests event node.
func TestEventNode(t *testing.T) {
	suite.Run(t, new(ecloSuite))
}

// Tests closing node after the bus.
func TestCloseAfterBus(t *testing.T) {
	l, err := lights.NewPWMLight(&lights.ConstructPWMLight{
		Logger: mocks.FakeNewLogger(nil),
		Driver: mocks.FakeNewDutyDriver(255),
		Pin:    "p0",
	})
	require.NoError(t, err)

	b := ebus.NewControlBus(&ebus.ConstructBus{Logger: mocks.FakeNewLogger(nil), QueueSize: 4})
	node, err := NewEventNode(&ConstructEclo{
		Light:  l,
		Bus:    b,
		Logger: mocks.FakeNewLogger(nil),
		ID:     1,
		Descr:  "Kitchen Strip",
	})
	require.NoError(t, err)
	assert.Equal(t, "kitchen_strip", node.Descr())

	b.Close()
	assert.NotPanics(t, node.Close)
}

// Tests rejected commands.
func TestValidationFailed(t *testing.T) {
	l, err := lights.NewPWMLight(&lights.ConstructPWMLight{
		Logger: mocks.FakeNewLogger(nil),
		Driver: mocks.FakeNewDutyDriver(255),
		Pin:    "p0",
	})
	require.NoError(t, err)

	b := mocks.FakeNewBus()
	node, err := NewEventNode(&ConstructEclo{
		Light:     l,
		Bus:       b,
		Logger:    mocks.FakeNewLogger(nil),
		ID:        1,
		Validator: mocks.FakeNewValidator(false),
	})
	require.NoError(t, err)
	defer node.Close()

	data, err := ebus.Encode(ebus.NewCommandMessage(enums.EvtGoMax, 2, 1, 0))
	require.NoError(t, err)
	require.NoError(t, b.Publish(bus.ClassCommand, 0, data, 0))
	assert.Equal(t, int32(0), l.Value())
}

// Tests that construction requires a light.
func TestNoLight(t *testing.T) {
	_, err := NewEventNode(&ConstructEclo{Bus: mocks.FakeNewBus(), Logger: mocks.FakeNewLogger(nil)})
	assert.IsType(t, &ErrNoLight{}, err)
}

// Tests state printer.
func TestFormatState(t *testing.T) {
	out := FormatState("eclo-1", &light.State{Kind: enums.LightDimmable, Curve: enums.CurveCIE1931,
		Value: 10, MaxValue: 1023})

	assert.True(t, strings.Contains(out, "descr: eclo-1"), out)
	assert.True(t, strings.Contains(out, "kind: dimmable"), out)
	assert.True(t, strings.Contains(out, "value: 10"), out)
	assert.True(t, strings.Contains(out, "max_value: 1023"), out)
	assert.Equal(t, "", FormatState("x", nil))
}
