package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// Tests that we're returning current time.
func TestTimeNow(t *testing.T) {
	assert.InDelta(t, time.Now().UTC().Unix(), TimeNow(), 1)
}

// Tests clamping.
func TestClampInt32(t *testing.T) {
	data := []struct {
		in       int32
		expected int32
	}{
		{-5, 0},
		{0, 0},
		{50, 50},
		{100, 100},
		{150, 100},
	}

	for _, v := range data {
		assert.Equal(t, v.expected, ClampInt32(v.in, 0, 100), Itoa32(v.in))
	}
}

// Tests descriptions normalization.
func TestNormalizeName(t *testing.T) {
	data := map[string]string{
		"Kitchen Light":  "kitchen_light",
		" hall.strip ":   "hall_strip",
		"bath%2":         "bath_2",
		"eclo-3":         "eclo-3",
		"светильник$5":   "светильник_5",
	}

	for k, v := range data {
		assert.Equal(t, v, NormalizeName(k), k)
	}
}

// Tests node key format.
func TestNodeKey(t *testing.T) {
	assert.Equal(t, "3.12", NodeKey(3, 12))
	assert.Equal(t, "-1.0", NodeKey(-1, 0))
	assert.Equal(t, "42", Utoa32(42))
}
