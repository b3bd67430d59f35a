package ws

import (
	"sync"
	"testing"

	"negotiation-service/src/pkg/log"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	mu     sync.Mutex
	events []Event
	closed bool
}

func (f *fakeConn) WriteJSON(v interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, v.(Event))
	return nil
}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func newTestHub() *Hub {
	// level above ERROR keeps the logger silent without a logrus instance
	return NewHub(log.Log{LogLevel: 3})
}

func TestRegisterNewestWins(t *testing.T) {
	hub := newTestHub()
	first := &fakeConn{}
	second := &fakeConn{}

	hub.Register("user-1", "conn-1", first)
	hub.Register("user-1", "conn-2", second)

	connID, ok := hub.Lookup("user-1")
	require.True(t, ok)
	assert.Equal(t, "conn-2", connID)
	assert.True(t, first.closed, "previous connection must be terminated")
	assert.Equal(t, 1, hub.ActiveCount(), "at most one session per user")
}

func TestUnregisterStaleDoesNotEvictReconnect(t *testing.T) {
	hub := newTestHub()
	hub.Register("user-1", "conn-1", &fakeConn{})
	hub.Register("user-1", "conn-2", &fakeConn{})

	// disconnect of the evicted socket arrives late
	hub.Unregister("conn-1")

	connID, ok := hub.Lookup("user-1")
	require.True(t, ok)
	assert.Equal(t, "conn-2", connID)
}

func TestUnregisterRemovesUser(t *testing.T) {
	hub := newTestHub()
	hub.Register("user-1", "conn-1", &fakeConn{})
	hub.Unregister("conn-1")

	assert.False(t, hub.IsOnline("user-1"))
	assert.Equal(t, 0, hub.ActiveCount())

	// idempotent
	hub.Unregister("conn-1")
}

func TestSendDeliversEnvelope(t *testing.T) {
	hub := newTestHub()
	conn := &fakeConn{}
	hub.Register("user-1", "conn-1", conn)

	delivered := hub.Send("user-1", "newMessage", map[string]string{"id": "m1"})

	require.True(t, delivered)
	require.Len(t, conn.events, 1)
	assert.Equal(t, "newMessage", conn.events[0].Event)
}

func TestSendOfflineIsBestEffort(t *testing.T) {
	hub := newTestHub()
	assert.False(t, hub.Send("ghost", "newMessage", nil))
}
