package utils

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// Tests that un-register works as expected.
func TestCron(t *testing.T) {
	prov := NewCron()
	var called int32
	var id int
	id, _ = prov.AddFunc("@every 1s", func() {
		if 2 == atomic.AddInt32(&called, 1) {
			prov.RemoveFunc(id)
		}
	})

	time.Sleep(4 * time.Second)
	assert.Equal(t, int32(2), atomic.LoadInt32(&called))
}

// Tests wrong schedule.
func TestCronWrongSpec(t *testing.T) {
	prov := NewCron()
	_, err := prov.AddFunc("every second", func() {})
	assert.Error(t, err)
}
