package settings

import (
	"testing"

	"github.com/go-home-io/lightmgr/mocks"
	"github.com/go-home-io/lightmgr/plugins/driver"
	"github.com/go-home-io/lightmgr/plugins/light/enums"
	"github.com/go-home-io/lightmgr/providers"
	"github.com/go-home-io/lightmgr/utils"
	"github.com/jessevdk/go-flags"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getOptions(t *testing.T, args ...string) *StartUpOptions {
	options := &StartUpOptions{}
	_, err := flags.ParseArgs(options, args)
	require.NoError(t, err)
	return options
}

// Tests command line defaults.
func TestOptions(t *testing.T) {
	o := getOptions(t, "--pin", "GPIO19:1", "-p", "GPIO18:0", "-g", "3", "--demo", "-w", "1", "-w", "2")

	assert.Equal(t, "sim", o.Driver)
	assert.Equal(t, uint32(8), o.Channels)
	assert.Equal(t, uint8(13), o.Bits)
	assert.Equal(t, "cie1931", o.Curve)
	assert.Equal(t, "phaseshift", o.Share)
	assert.Equal(t, int32(3), o.Group)
	assert.Equal(t, map[string]uint32{"GPIO18": 0, "GPIO19": 1}, o.Pins)
	assert.Equal(t, []int32{1, 2}, o.Watch)
	assert.True(t, o.Demo)
}

// Tests wrong driver name.
func TestWrongDriverOption(t *testing.T) {
	_, err := flags.ParseArgs(&StartUpOptions{}, []string{"--driver", "unknown"})
	assert.Error(t, err)
}

// Tests settings loading with simulated driver.
func TestLoad(t *testing.T) {
	o := getOptions(t, "-p", "GPIO19:1", "-p", "GPIO18:0", "--curve", "linear", "--share", "equal",
		"--channels", "4", "--bits", "10", "-l", "error")

	s, err := Load(o)
	require.NoError(t, err)
	defer s.Close()

	node := s.NodeSettings()
	assert.Equal(t, []providers.NodeChannel{{Pin: "GPIO18", Channel: 0}, {Pin: "GPIO19", Channel: 1}}, node.Channels)
	assert.Equal(t, enums.CurveLinear, node.Curve)
	assert.Equal(t, enums.ShareEqual, node.Share)
	assert.Equal(t, driver.EngineHardware, node.Engine)
	assert.Equal(t, int32(1000), node.FadeTime)
	assert.Equal(t, float32(1), node.Power)

	assert.Equal(t, uint32(4), s.DutyDriver().Channels())
	assert.Equal(t, int32(1023), s.DutyDriver().ChannelGetMaxDuty(0))
	assert.NotNil(t, s.PinDriver())
	assert.NotNil(t, s.Fader())
	assert.NotNil(t, s.Bus())
	assert.NotNil(t, s.Cron())
	assert.NotNil(t, s.Validator())
	assert.NotNil(t, s.SystemLogger())
}

// Tests wrong settings.
func TestLoadErrors(t *testing.T) {
	data := []struct {
		args []string
		name string
	}{
		{[]string{"--curve", "wrong"}, "curve"},
		{[]string{"--share", "wrong"}, "share"},
		{[]string{"-p", "GPIO-18:0"}, "pin"},
		{[]string{"--bits", "25"}, "bits"},
		{[]string{"--id", "0"}, "id"},
		{[]string{"--initial", "120"}, "initial"},
	}

	for _, v := range data {
		_, err := Load(getOptions(t, append(v.args, "-l", "error")...))
		assert.Error(t, err, v.name)
	}
}

// Tests fade engine selection.
func TestFadeEngine(t *testing.T) {
	data := []struct {
		args   []string
		engine driver.FadeEngine
	}{
		{[]string{"--fade", "none"}, driver.EngineNone},
		{[]string{"--fade", "software"}, driver.EngineSoftware},
		{[]string{"--driver", "periph"}, driver.EngineSoftware},
	}

	for _, v := range data {
		s := &settingsProvider{validator: utils.NewValidator(mocks.FakeNewLogger(nil))}
		node, err := s.parseNode(getOptions(t, v.args...))
		require.NoError(t, err)
		assert.Equal(t, v.engine, node.Engine)
	}
}
