package web

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/ems-platform/web-client/internal/chat"
	"github.com/ems-platform/web-client/internal/events"
	"github.com/ems-platform/web-client/internal/web/view"
)

const (
	chatTokenKey   = "chat_token"
	chatSenderKey  = "chat_sender"
	chatSessionKey = "chat_session_id"
)

// ChatHandler serves the chat page and bridges the browser websocket onto the
// backend message broker. Each accepted socket owns its own broker manager;
// closing the socket tears the manager down with it.
type ChatHandler struct {
	dial       chat.Dialer
	views      *view.Engine
	logger     *zap.Logger
	dispatcher events.Dispatcher
	reconnect  time.Duration
}

// NewChatHandler constructs the handler.
func NewChatHandler(dial chat.Dialer, views *view.Engine, logger *zap.Logger, dispatcher events.Dispatcher, reconnect time.Duration) *ChatHandler {
	return &ChatHandler{dial: dial, views: views, logger: logger, dispatcher: dispatcher, reconnect: reconnect}
}

// Page renders the chat screen.
func (h *ChatHandler) Page(c *fiber.Ctx) error {
	return h.views.Render(c, "chat", pageData(c, "Chat", nil))
}

// Upgrade gates the websocket endpoint. Session data is copied into locals
// here because the upgraded connection no longer sees the request context.
func (h *ChatHandler) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	sess := SessionFromCtx(c)
	if sess == nil || !sess.Authenticated() {
		return fiber.ErrUnauthorized
	}
	sender := ""
	if user := sess.User(); user != nil {
		sender = user.Username
	}
	c.Locals(chatTokenKey, sess.Token())
	c.Locals(chatSenderKey, sender)
	c.Locals(chatSessionKey, sess.ID)
	return c.Next()
}

// Socket is the upgraded websocket loop. Inbound broker messages are written
// out as JSON frames; inbound browser frames become publishes. The read loop
// runs on this goroutine so returning closes everything.
func (h *ChatHandler) Socket(conn *websocket.Conn) {
	token, _ := conn.Locals(chatTokenKey).(string)
	sender, _ := conn.Locals(chatSenderKey).(string)
	sessionID, _ := conn.Locals(chatSessionKey).(string)

	mgr := chat.NewManager(h.dial, token, sender, h.reconnect, h.logger, h.dispatcher, sessionID)
	defer mgr.Teardown()
	mgr.Connect()

	go func() {
		for {
			select {
			case <-mgr.Done():
				return
			case msg, ok := <-mgr.Messages():
				if !ok {
					return
				}
				if err := conn.WriteJSON(msg); err != nil {
					mgr.Teardown()
					return
				}
			}
		}
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var frame struct {
			Content string `json:"content"`
		}
		if err := json.Unmarshal(raw, &frame); err != nil || frame.Content == "" {
			continue
		}
		if err := mgr.Publish(frame.Content); err != nil {
			h.logger.Warn("chat publish failed", zap.Error(err))
		}
	}
}
