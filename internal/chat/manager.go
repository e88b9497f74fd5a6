// Package chat owns the single real-time publish/subscribe channel behind
// the chat widget. One Manager exists per authenticated browser session; it
// is torn down and recreated wholesale when the owning socket closes or the
// credentials change, never multiplexed.
package chat

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ems-platform/web-client/internal/domain"
	"github.com/ems-platform/web-client/internal/events"
)

// Status is the connection lifecycle state.
type Status string

const (
	StatusDisconnected Status = "DISCONNECTED"
	StatusConnecting   Status = "CONNECTING"
	StatusConnected    Status = "CONNECTED"
)

// BrokerConn is one established broker session, already subscribed to the
// broadcast topic. Listen's channel closes when the connection drops.
type BrokerConn interface {
	Listen() <-chan []byte
	Publish(body []byte) error
	Close() error
}

// Dialer establishes a broker session authenticated by the given token. A
// failed handshake is indistinguishable from a transport refusal to callers.
type Dialer func(ctx context.Context, token string) (BrokerConn, error)

// Manager drives one broker connection through
// DISCONNECTED -> CONNECTING -> CONNECTED, retrying dropped connections at a
// fixed interval until torn down.
type Manager struct {
	dial           Dialer
	token          string
	sender         string
	reconnectDelay time.Duration
	logger         *zap.Logger
	dispatcher     events.Dispatcher
	sessionID      string

	mu      sync.Mutex
	status  Status
	conn    BrokerConn
	started bool

	done     chan struct{}
	messages chan domain.ChatMessage
}

// NewManager builds a manager for one authenticated session. The sender name
// is stamped on outbound messages; the broker is the trust authority and may
// override it.
func NewManager(dial Dialer, token, sender string, reconnectDelay time.Duration, logger *zap.Logger, dispatcher events.Dispatcher, sessionID string) *Manager {
	return &Manager{
		dial:           dial,
		token:          token,
		sender:         sender,
		reconnectDelay: reconnectDelay,
		logger:         logger,
		dispatcher:     dispatcher,
		sessionID:      sessionID,
		status:         StatusDisconnected,
		done:           make(chan struct{}),
		messages:       make(chan domain.ChatMessage, 64),
	}
}

// Connect starts the connection loop. Without both a token and an
// authenticated sender the manager stays DISCONNECTED and makes no attempt.
func (m *Manager) Connect() {
	if m.token == "" || m.sender == "" {
		return
	}
	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return
	}
	m.started = true
	m.mu.Unlock()
	go m.run()
}

// Messages is the observed inbound sequence, in arrival order. Duplicates
// are possible and passed through.
func (m *Manager) Messages() <-chan domain.ChatMessage {
	return m.messages
}

// Done closes when the manager has been torn down.
func (m *Manager) Done() <-chan struct{} {
	return m.done
}

// Status returns the current connection state.
func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// Publish sends a chat message to the inbound destination. While not
// connected it is a no-op: the page disables the action, and a stale click
// must not surface an error.
func (m *Manager) Publish(content string) error {
	m.mu.Lock()
	conn := m.conn
	status := m.status
	m.mu.Unlock()
	if status != StatusConnected || conn == nil {
		return nil
	}

	body, err := json.Marshal(domain.ChatMessage{
		Sender:    m.sender,
		Content:   content,
		Timestamp: time.Now().Format("2006-01-02T15:04:05"),
	})
	if err != nil {
		return err
	}
	return conn.Publish(body)
}

// Teardown deactivates the connection and stops all retries unconditionally.
func (m *Manager) Teardown() {
	m.mu.Lock()
	select {
	case <-m.done:
	default:
		close(m.done)
	}
	conn := m.conn
	m.conn = nil
	m.status = StatusDisconnected
	m.mu.Unlock()
	if conn != nil {
		_ = conn.Close()
	}
}

func (m *Manager) run() {
	for {
		if m.tornDown() {
			return
		}
		m.setStatus(StatusConnecting)

		conn, err := m.dial(context.Background(), m.token)
		if err != nil {
			m.logger.Warn("chat connect failed", zap.Error(err))
			m.setStatus(StatusDisconnected)
			events.Emit(context.Background(), m.dispatcher, events.EventChatDropped, m.sessionID, m.sender,
				events.ChatDroppedPayload{Reason: err.Error()})
			if !m.waitReconnect() {
				return
			}
			continue
		}

		m.mu.Lock()
		if m.tornDown() {
			// Teardown may have raced the CONNECTING transition; the final
			// state after teardown is DISCONNECTED no matter who wrote last.
			m.status = StatusDisconnected
			m.mu.Unlock()
			_ = conn.Close()
			return
		}
		m.conn = conn
		m.status = StatusConnected
		m.mu.Unlock()
		events.Emit(context.Background(), m.dispatcher, events.EventChatConnected, m.sessionID, m.sender, nil)

		m.pump(conn)

		_ = conn.Close()
		m.mu.Lock()
		m.conn = nil
		m.mu.Unlock()
		m.setStatus(StatusDisconnected)
		events.Emit(context.Background(), m.dispatcher, events.EventChatDropped, m.sessionID, m.sender, nil)

		if !m.waitReconnect() {
			return
		}
	}
}

// pump forwards inbound payloads until the connection drops or teardown.
func (m *Manager) pump(conn BrokerConn) {
	for {
		select {
		case <-m.done:
			return
		case raw, ok := <-conn.Listen():
			if !ok {
				return
			}
			var msg domain.ChatMessage
			if err := json.Unmarshal(raw, &msg); err != nil {
				m.logger.Warn("chat payload discarded", zap.Error(err))
				continue
			}
			select {
			case m.messages <- msg:
			case <-m.done:
				return
			}
		}
	}
}

// waitReconnect sleeps the fixed delay; false means teardown arrived first.
func (m *Manager) waitReconnect() bool {
	select {
	case <-m.done:
		return false
	case <-time.After(m.reconnectDelay):
		return true
	}
}

func (m *Manager) tornDown() bool {
	select {
	case <-m.done:
		return true
	default:
		return false
	}
}

func (m *Manager) setStatus(s Status) {
	m.mu.Lock()
	m.status = s
	m.mu.Unlock()
}
