package events

import (
	"time"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventSessionStarted EventType = "session_started"
	EventSessionCleared EventType = "session_cleared"
	EventSessionExpired EventType = "session_expired"
	EventChatConnected  EventType = "chat_connected"
	EventChatDropped    EventType = "chat_dropped"
)

// Event represents a session or chat lifecycle event emitted by the web
// layer and the transport client.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SessionID string      `json:"session_id,omitempty"`
	Username  string      `json:"username,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// SessionStartedPayload payload.
type SessionStartedPayload struct {
	Role string `json:"role"`
}

// SessionExpiredPayload payload.
type SessionExpiredPayload struct {
	Path string `json:"path,omitempty"`
}

// ChatDroppedPayload payload.
type ChatDroppedPayload struct {
	Reason string `json:"reason,omitempty"`
}
