package utils

import (
	"testing"

	"github.com/go-home-io/lightmgr/mocks"
	"github.com/go-home-io/lightmgr/plugins/light/enums"
	"github.com/stretchr/testify/assert"
)

type testStruct struct {
	Percent uint8       `validate:"percent"`
	Curve   enums.Curve `validate:"curve"`
	Pin     string      `validate:"pin" default:"GPIO18"`
	Scale   int32       `validate:"gt=0" default:"100"`
}

// Tests success validation.
func TestSuccessValidation(t *testing.T) {
	in := []*testStruct{
		{
			Percent: 0,
			Curve:   enums.CurveBinary,
			Pin:     "GPIO12",
		},
		{
			Percent: 100,
			Curve:   enums.CurveSquare,
			Pin:     "P1_33",
		},
	}

	validator := NewValidator(mocks.FakeNewLogger(nil))
	for _, v := range in {
		assert.True(t, validator.Validate(v), v.Pin)
	}
}

// Tests that defaults are applied.
func TestDefaults(t *testing.T) {
	validator := NewValidator(mocks.FakeNewLogger(nil))
	d := &testStruct{}
	assert.True(t, validator.Validate(d))
	assert.Equal(t, "GPIO18", d.Pin)
	assert.Equal(t, int32(100), d.Scale)
}

// Tests validation without pointer.
func TestNotPointer(t *testing.T) {
	validator := NewValidator(mocks.FakeNewLogger(nil))
	d := testStruct{
		Pin: "GPIO12",
	}

	assert.False(t, validator.Validate(d))
}

// Tests incorrect data.
func TestFailedValidation(t *testing.T) {
	in := []*testStruct{
		{
			Percent: 120,
		},
		{
			Curve: enums.Curve(17),
		},
		{
			Pin: "GPIO 12",
		},
		{
			Scale: -1,
		},
	}

	validator := NewValidator(mocks.FakeNewLogger(nil))
	for k, v := range in {
		assert.False(t, validator.Validate(v), "%d", k)
	}
}
