package domain

// ChatMessage is one broadcast chat payload. Timestamp is the backend's
// local date-time string; the broker is the trust authority for Sender and
// may override it. Recipient is reserved for direct messages and usually
// absent.
type ChatMessage struct {
	Sender    string `json:"sender"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
	Recipient string `json:"recipient,omitempty"`
}
