package bus

import (
	"sync"
	"testing"
	"time"

	"github.com/fortytw2/leaktest"
	"github.com/go-home-io/lightmgr/mocks"
	"github.com/go-home-io/lightmgr/plugins/bus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Collects delivered payloads.
type collector struct {
	sync.Mutex
	got []string
}

func (c *collector) handler(prefix string) bus.Handler {
	return func(msg *bus.Message) {
		c.Lock()
		defer c.Unlock()
		c.got = append(c.got, prefix+string(msg.Payload))
	}
}

func (c *collector) items() []string {
	c.Lock()
	defer c.Unlock()
	return append([]string(nil), c.got...)
}

func getBus(size int) bus.IControlBus {
	return NewControlBus(&ConstructBus{
		Logger:    mocks.FakeNewLogger(nil),
		QueueSize: size,
	})
}

// Tests class and group matching.
func TestRouting(t *testing.T) {
	b := getBus(8)
	defer b.Close()
	c := &collector{}

	_, err := b.Subscribe(bus.ClassCommand, 1, c.handler("g1:"))
	require.NoError(t, err)
	_, err = b.Subscribe(bus.ClassCommand, bus.GroupAny, c.handler("any:"))
	require.NoError(t, err)
	_, err = b.Subscribe(bus.ClassState, 1, c.handler("state:"))
	require.NoError(t, err)

	require.NoError(t, b.Publish(bus.ClassCommand, 1, []byte("a"), time.Second))
	require.NoError(t, b.Publish(bus.ClassCommand, 2, []byte("b"), time.Second))

	assert.Eventually(t, func() bool { return len(c.items()) == 3 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"g1:a", "any:a", "any:b"}, c.items())
}

// Tests that unsubscribed handler is not called.
func TestUnsubscribe(t *testing.T) {
	b := getBus(8)
	defer b.Close()
	c := &collector{}

	h, err := b.Subscribe(bus.ClassService, 3, c.handler("x:"))
	require.NoError(t, err)
	_, err = b.Subscribe(bus.ClassService, 3, c.handler("y:"))
	require.NoError(t, err)

	b.Unsubscribe(h)
	b.Unsubscribe("unknown")

	require.NoError(t, b.Publish(bus.ClassService, 3, []byte("1"), 0))
	assert.Eventually(t, func() bool { return len(c.items()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"y:1"}, c.items())
}

// Tests that publisher gets an error on a full queue.
func TestQueueFull(t *testing.T) {
	b := getBus(1)
	defer b.Close()

	block := make(chan struct{})
	started := make(chan struct{}, 1)
	_, err := b.Subscribe(bus.ClassCommand, 1, func(*bus.Message) {
		select {
		case started <- struct{}{}:
		default:
		}
		<-block
	})
	require.NoError(t, err)

	require.NoError(t, b.Publish(bus.ClassCommand, 1, []byte("1"), 0))
	<-started
	require.NoError(t, b.Publish(bus.ClassCommand, 1, []byte("2"), 0))

	err = b.Publish(bus.ClassCommand, 1, []byte("3"), 0)
	assert.IsType(t, &ErrQueueFull{}, err)

	err = b.Publish(bus.ClassCommand, 1, []byte("4"), 20*time.Millisecond)
	assert.IsType(t, &ErrQueueFull{}, err)

	close(block)
}

// Tests that payload is copied on publish.
func TestPayloadCopy(t *testing.T) {
	b := getBus(4)
	defer b.Close()
	c := &collector{}

	_, err := b.Subscribe(bus.ClassState, 0, c.handler(""))
	require.NoError(t, err)

	payload := []byte("abc")
	require.NoError(t, b.Publish(bus.ClassState, 0, payload, time.Second))
	payload[0] = 'z'

	assert.Eventually(t, func() bool { return len(c.items()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, "abc", c.items()[0])
}

// Tests closed bus.
func TestClose(t *testing.T) {
	defer leaktest.Check(t)()
	b := getBus(4)
	b.Close()
	b.Close()

	assert.IsType(t, &ErrBusClosed{}, b.Publish(bus.ClassState, 0, nil, 0))
	_, err := b.Subscribe(bus.ClassState, 0, func(*bus.Message) {})
	assert.IsType(t, &ErrBusClosed{}, err)
	b.Unsubscribe("any")
}

// Tests nil handler.
func TestNilHandler(t *testing.T) {
	b := getBus(4)
	defer b.Close()

	_, err := b.Subscribe(bus.ClassState, 0, nil)
	assert.IsType(t, &ErrNilHandler{}, err)
}
