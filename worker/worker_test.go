package worker

import (
	"testing"

	"github.com/go-home-io/lightmgr/mocks"
	"github.com/go-home-io/lightmgr/plugins/bus"
	"github.com/go-home-io/lightmgr/plugins/driver"
	"github.com/go-home-io/lightmgr/plugins/light/enums"
	"github.com/go-home-io/lightmgr/providers"
	ebus "github.com/go-home-io/lightmgr/systems/bus"
	"github.com/go-home-io/lightmgr/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getNode() *providers.NodeSettings {
	return &providers.NodeSettings{
		Group: 1,
		ID:    1,
		Channels: []providers.NodeChannel{
			{Pin: "p0", Channel: 0},
			{Pin: "p1", Channel: 1},
		},
		Switch: "sw",
		Curve:  enums.CurveLinear,
		Share:  enums.ShareEqual,
		Engine: driver.EngineNone,
		Power:  1,
	}
}

// Tests lights and nodes wiring.
func TestNewLightManager(t *testing.T) {
	s := mocks.FakeNewSettings(getNode(), 2, 1023)
	w, err := NewLightManager(s)
	require.NoError(t, err)
	defer w.Stop()

	require.Equal(t, 2, len(w.Nodes()))
	assert.Equal(t, uint16(1), w.Nodes()[0].ID())
	assert.Equal(t, enums.LightComposite, w.Nodes()[0].Light().Kind())
	assert.Equal(t, uint16(2), w.Nodes()[1].ID())
	assert.Equal(t, enums.LightConstant, w.Nodes()[1].Light().Kind())

	data, err := ebus.Encode(ebus.NewCommandMessage(enums.EvtGoMax, 0, bus.IDBroadcast, 0))
	require.NoError(t, err)
	require.NoError(t, s.FakeBus().Publish(bus.ClassCommand, 1, data, 0))

	assert.Equal(t, int32(1023), s.FakeDriver().ChannelGetDuty(0))
	assert.Equal(t, int32(1023), s.FakeDriver().ChannelGetDuty(1))
	assert.True(t, s.FakeDriver().PinGet("sw"))

	nodes := w.Monitor().Nodes()
	require.Equal(t, 2, len(nodes))
	assert.Equal(t, int32(1023), nodes[0].State.Value)
}

// Tests demo sequence.
func TestDemo(t *testing.T) {
	s := mocks.FakeNewSettings(getNode(), 2, 1023)
	w, err := NewLightManager(s)
	require.NoError(t, err)

	w.RunDemo(0)
	assert.Equal(t, int32(0), s.FakeDriver().ChannelGetDuty(0))
	assert.False(t, s.FakeDriver().PinGet("sw"))
	assert.Equal(t, 2, len(w.Monitor().Nodes()))

	w.Stop()
	w.Stop()
	assert.True(t, s.IsClosed())
}

// Tests wrong configurations.
func TestWrongConfig(t *testing.T) {
	node := getNode()
	node.Channels = nil
	node.Switch = ""
	_, err := NewLightManager(mocks.FakeNewSettings(node, 2, 1023))
	assert.IsType(t, &ErrNoLights{}, err)

	node = getNode()
	node.Channels[1].Channel = 5
	s := mocks.FakeNewSettings(node, 2, 1023)
	_, err = NewLightManager(s)
	assert.Error(t, err)
	assert.True(t, s.IsClosed())

	node = getNode()
	node.Filters = []string{"[a-"}
	_, err = NewLightManager(mocks.FakeNewSettings(node, 2, 1023))
	assert.Error(t, err)
}

// Tests switch-only configuration.
func TestSwitchOnly(t *testing.T) {
	node := getNode()
	node.Channels = nil
	w, err := NewLightManager(mocks.FakeNewSettings(node, 0, 0))
	require.NoError(t, err)
	defer w.Stop()

	require.Equal(t, 1, len(w.Nodes()))
	assert.Equal(t, uint16(1), w.Nodes()[0].ID())
}

// Tests that light and node constructors are validated.
func TestConstructorValidation(t *testing.T) {
	s := mocks.FakeNewSettings(getNode(), 2, 1023)
	s.SetValidator(utils.NewValidator(mocks.FakeNewLogger(nil)))
	w, err := NewLightManager(s)
	require.NoError(t, err)
	w.Stop()

	data := []struct {
		update func(*providers.NodeSettings)
		name   string
	}{
		{func(n *providers.NodeSettings) { n.Channels[0].Pin = "p-0" }, "pwm pin"},
		{func(n *providers.NodeSettings) { n.Curve = enums.Curve(42) }, "curve"},
		{func(n *providers.NodeSettings) { n.Switch = "sw 1" }, "switch pin"},
		{func(n *providers.NodeSettings) { n.Group = -2 }, "group"},
	}

	for _, v := range data {
		node := getNode()
		v.update(node)
		s := mocks.FakeNewSettings(node, 2, 1023)
		s.SetValidator(utils.NewValidator(mocks.FakeNewLogger(nil)))

		_, err := NewLightManager(s)
		assert.IsType(t, &utils.ErrInvalidConfig{}, err, v.name)
		assert.True(t, s.IsClosed(), v.name)
	}
}

// Tests initial brightness.
func TestInitialBrightness(t *testing.T) {
	node := getNode()
	node.Initial = 50
	s := mocks.FakeNewSettings(node, 2, 1023)
	w, err := NewLightManager(s)
	require.NoError(t, err)
	defer w.Stop()

	assert.True(t, w.Nodes()[0].Light().Value() > 0)
	assert.True(t, w.Nodes()[0].Light().Value() < 1023)
	assert.False(t, s.FakeDriver().PinGet("sw"))
}
