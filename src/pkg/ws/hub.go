package ws

import (
	"fmt"
	"sync"

	"negotiation-service/src/pkg/log"
)

// Conn is the minimal surface of a live websocket connection. The gateway
// wraps the real connection; tests substitute a fake.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// Event is the outbound envelope every live delivery uses.
type Event struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data,omitempty"`
}

type session struct {
	connID string
	userID string
	conn   Conn
	mu     sync.Mutex
}

func (s *session) send(event string, data interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteJSON(Event{Event: event, Data: data})
}

// Hub is the presence directory: at most one live connection per user id.
// Process-local by design; it does not survive a restart and does not scale
// beyond one process without a shared backing store.
type Hub struct {
	log    log.Log
	mu     sync.RWMutex
	byUser map[string]*session
	byConn map[string]string
}

func NewHub(logger log.Log) *Hub {
	return &Hub{
		log:    logger,
		byUser: make(map[string]*session),
		byConn: make(map[string]string),
	}
}

// Register binds userID to conn. A previous live connection for the same
// user is closed and replaced: newest wins, one active session per user.
func (h *Hub) Register(userID, connID string, conn Conn) {
	var evicted Conn

	h.mu.Lock()
	if prev, ok := h.byUser[userID]; ok && prev.connID != connID {
		delete(h.byConn, prev.connID)
		evicted = prev.conn
	}
	h.byUser[userID] = &session{connID: connID, userID: userID, conn: conn}
	h.byConn[connID] = userID
	h.mu.Unlock()

	if evicted != nil {
		_ = evicted.Close()
		h.log.Info("ws-hub", "evicted previous connection", "Register", userID)
	}
}

// Unregister removes the directory entry for connID. Removal is keyed by
// connection id match: if the user reconnected under a new connection, the
// stale disconnect must not evict the new one.
func (h *Hub) Unregister(connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	userID, ok := h.byConn[connID]
	if !ok {
		return
	}
	delete(h.byConn, connID)
	if cur, ok := h.byUser[userID]; ok && cur.connID == connID {
		delete(h.byUser, userID)
	}
}

// Lookup returns the live connection id for userID, if any.
func (h *Hub) Lookup(userID string) (string, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	s, ok := h.byUser[userID]
	if !ok {
		return "", false
	}
	return s.connID, true
}

func (h *Hub) IsOnline(userID string) bool {
	_, ok := h.Lookup(userID)
	return ok
}

// Send delivers an event to userID's live connection. Best effort: an
// offline target or a write failure returns false, never an error.
func (h *Hub) Send(userID, event string, data interface{}) bool {
	h.mu.RLock()
	s, ok := h.byUser[userID]
	h.mu.RUnlock()
	if !ok {
		return false
	}

	if err := s.send(event, data); err != nil {
		h.log.Warn("ws-hub", fmt.Sprintf("write failed: %v", err), event, userID)
		return false
	}
	return true
}

// ActiveCount returns the number of registered users.
func (h *Hub) ActiveCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.byUser)
}
