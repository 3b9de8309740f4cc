package enums

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Tests that names are parsed back into the same values.
func TestNamesRoundTrip(t *testing.T) {
	for ii := CurveBinary; ii <= CurveSquare; ii++ {
		c, err := CurveString(ii.String())
		assert.NoError(t, err, ii.String())
		assert.Equal(t, ii, c)
	}

	for ii := LightGeneric; ii <= LightComposite; ii++ {
		k, err := LightKindString(ii.String())
		assert.NoError(t, err, ii.String())
		assert.Equal(t, ii, k)
	}

	for ii := EvtNoop; ii <= EvtGetState; ii++ {
		e, err := EventIDString(ii.String())
		assert.NoError(t, err, ii.String())
		assert.Equal(t, ii, e)
	}

	p, err := PowerShareString(" PhaseShift ")
	assert.NoError(t, err)
	assert.Equal(t, SharePhaseShift, p)
}

// Tests unknown names and values.
func TestUnknownNames(t *testing.T) {
	_, err := CurveString("gamma")
	assert.IsType(t, &ErrUnknownValue{}, err)
	assert.Equal(t, "Curve(42)", Curve(42).String())
	assert.False(t, Curve(42).IsValid())
	assert.Equal(t, "LightKind(9)", LightKind(9).String())
}

// Tests command events detection.
func TestIsCommand(t *testing.T) {
	data := []struct {
		in       EventID
		expected bool
	}{
		{EvtNoop, false},
		{EvtGoValue, true},
		{EvtGoStepScaled, true},
		{EvtStateUpdate, false},
		{EvtEchoRq, false},
	}

	for _, v := range data {
		assert.Equal(t, v.expected, v.in.IsCommand(), v.in.String())
	}
}
