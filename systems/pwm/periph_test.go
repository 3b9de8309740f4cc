package pwm

import (
	"testing"

	"github.com/go-home-io/lightmgr/mocks"
	"github.com/go-home-io/lightmgr/plugins/driver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpiotest"
	"periph.io/x/conn/v3/physic"
)

func getPeriph() (PeriphDriver, map[string]*gpiotest.Pin) {
	pins := map[string]*gpiotest.Pin{
		"GPIO18": {N: "GPIO18"},
		"GPIO19": {N: "GPIO19"},
	}

	d := NewPeriphDriver(&ConstructPeriphDriver{
		Logger:     mocks.FakeNewLogger(nil),
		Channels:   2,
		Resolution: 8,
		Frequency:  1000,
		Lookup: func(name string) gpio.PinIO {
			p, ok := pins[name]
			if !ok {
				return nil
			}
			return p
		},
	})

	return d, pins
}

// Tests duty conversion.
func TestPeriphDuty(t *testing.T) {
	d, pins := getPeriph()
	require.NoError(t, d.ChannelStart(0, "GPIO18"))

	data := []struct {
		duty  int32
		level gpio.Level
		pwm   gpio.Duty
	}{
		{0, gpio.Low, 0},
		{255, gpio.High, 0},
		{300, gpio.High, 0},
	}

	for _, v := range data {
		pins["GPIO18"].D = 0
		require.NoError(t, d.ChannelSetDutyAndPhase(0, v.duty, 0))
		assert.Equal(t, v.level, pins["GPIO18"].L, "level %d", v.duty)
		assert.Equal(t, v.pwm, pins["GPIO18"].D, "pwm %d", v.duty)
	}

	require.NoError(t, d.ChannelSetDutyAndPhase(0, 51, 7))
	assert.Equal(t, gpio.Duty(int64(51)*int64(gpio.DutyMax)/255), pins["GPIO18"].D)
	assert.Equal(t, physic.Frequency(1000)*physic.Hertz, pins["GPIO18"].F)
	assert.Equal(t, int32(51), d.ChannelGetDuty(0))
	assert.Equal(t, int32(7), d.ChannelGetPhase(0))
}

// Tests unknown pins and channels.
func TestPeriphErrors(t *testing.T) {
	d, _ := getPeriph()

	assert.IsType(t, &driver.ErrUnknownPin{}, d.ChannelStart(0, "GPIO1"))
	assert.IsType(t, &driver.ErrInvalidChannel{}, d.ChannelStart(2, "GPIO18"))
	assert.IsType(t, &driver.ErrDriverRejected{}, d.ChannelSetDutyAndPhase(1, 10, 0))
	assert.IsType(t, &driver.ErrUnknownPin{}, d.PinSet("GPIO18", true))
	assert.IsType(t, &driver.ErrUnknownPin{}, d.PinStart("GPIO1"))
}

// Tests digital output.
func TestPeriphPins(t *testing.T) {
	d, pins := getPeriph()

	require.NoError(t, d.PinStart("GPIO19"))
	require.NoError(t, d.PinSet("GPIO19", true))
	assert.Equal(t, gpio.High, pins["GPIO19"].L)
	assert.True(t, d.PinGet("GPIO19"))
	require.NoError(t, d.PinSet("GPIO19", false))
	assert.False(t, d.PinGet("GPIO19"))
}

// Tests resolution change.
func TestPeriphSetPWM(t *testing.T) {
	d, _ := getPeriph()

	require.NoError(t, d.ChannelStart(1, "GPIO19"))
	require.NoError(t, d.ChannelSetDutyAndPhase(1, 255, 0))
	require.NoError(t, d.ChannelSetPWM(1, 10, 2000))
	assert.Equal(t, int32(1023), d.ChannelGetMaxDuty(1))
	assert.Equal(t, int32(1023), d.ChannelGetDuty(1))
}
