package connections

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// TimeoutConfig holds the various timeout settings for WebSocket connections
type TimeoutConfig struct {
	PongWait   time.Duration
	PingPeriod time.Duration
	WriteWait  time.Duration
}

// DefaultTimeouts provides sensible default timeout values
var DefaultTimeouts = TimeoutConfig{
	PongWait:   30 * time.Second,
	PingPeriod: 27 * time.Second, // (PongWait * 9) / 10
	WriteWait:  10 * time.Second,
}

// Conn is a websocket connection owned by one session. Writes are
// serialized; gorilla/websocket allows only one concurrent writer.
type Conn struct {
	ws        *websocket.Conn
	sessionID string
	writeWait time.Duration

	writeMu sync.Mutex
}

func (c *Conn) SessionID() string {
	return c.sessionID
}

// WriteJSON sends v as one text frame.
func (c *Conn) WriteJSON(v interface{}) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err := c.ws.SetWriteDeadline(time.Now().Add(c.writeWait)); err != nil {
		return err
	}
	return c.ws.WriteJSON(v)
}

// Ping sends a ping control frame.
func (c *Conn) Ping() error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	return c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(c.writeWait))
}

// Close sends a close frame and closes the underlying connection.
func (c *Conn) Close() error {
	c.writeMu.Lock()
	_ = c.ws.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
		time.Now().Add(c.writeWait),
	)
	c.writeMu.Unlock()
	return c.ws.Close()
}

// Manager handles WebSocket connection lifecycle
type Manager struct {
	connections sync.Map

	mu       sync.RWMutex
	timeouts TimeoutConfig
}

// NewManager creates a new connection manager with the specified timeouts
func NewManager(timeouts TimeoutConfig) *Manager {
	return &Manager{
		timeouts: timeouts,
	}
}

// AddConnection registers ws for sessionID and returns its managed wrapper.
func (m *Manager) AddConnection(ws *websocket.Conn, sessionID string) *Conn {
	conn := &Conn{
		ws:        ws,
		sessionID: sessionID,
		writeWait: m.GetTimeouts().WriteWait,
	}
	m.connections.Store(conn, struct{}{})
	log.Debug().Str("session_id", sessionID).Int("connections", m.GetConnectionCount()).Msg("WebSocket connection added")
	return conn
}

// RemoveConnection removes a WebSocket connection
func (m *Manager) RemoveConnection(conn *Conn) {
	m.connections.Delete(conn)
}

// GetConnectionCount returns the current number of active connections
func (m *Manager) GetConnectionCount() int {
	count := 0
	m.connections.Range(func(key, value interface{}) bool {
		count++
		return true
	})
	return count
}

// SessionConnectionCount returns the number of open connections of one
// session.
func (m *Manager) SessionConnectionCount(sessionID string) int {
	count := 0
	m.connections.Range(func(key, value interface{}) bool {
		if key.(*Conn).sessionID == sessionID {
			count++
		}
		return true
	})
	return count
}

// CloseAll closes every registered connection.
func (m *Manager) CloseAll() {
	m.connections.Range(func(key, value interface{}) bool {
		conn := key.(*Conn)
		if err := conn.Close(); err != nil {
			log.Debug().Err(err).Str("session_id", conn.sessionID).Msg("Error closing WebSocket connection")
		}
		m.connections.Delete(conn)
		return true
	})
}

// GetTimeouts returns the current timeout configuration
func (m *Manager) GetTimeouts() TimeoutConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.timeouts
}

// SetTimeouts updates the timeout configuration
func (m *Manager) SetTimeouts(timeouts TimeoutConfig) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timeouts = timeouts
}
