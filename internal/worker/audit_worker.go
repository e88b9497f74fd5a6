package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/ems-platform/web-client/internal/events"
)

// AuditWorker writes session and chat lifecycle events to the log so operators
// can follow sign-ins, expiries and broker churn without backend access.
type AuditWorker struct {
	logger *zap.Logger
}

// NewAuditWorker creates the worker.
func NewAuditWorker(logger *zap.Logger) *AuditWorker {
	return &AuditWorker{logger: logger}
}

// RegisterHandlers subscribes to events.
func (w *AuditWorker) RegisterHandlers(dispatcher events.Dispatcher) {
	if dispatcher == nil {
		return
	}
	dispatcher.Subscribe(events.EventSessionStarted, w.handleSessionStarted)
	dispatcher.Subscribe(events.EventSessionCleared, w.handleSessionCleared)
	dispatcher.Subscribe(events.EventSessionExpired, w.handleSessionExpired)
	dispatcher.Subscribe(events.EventChatConnected, w.handleChatConnected)
	dispatcher.Subscribe(events.EventChatDropped, w.handleChatDropped)
}

func (w *AuditWorker) handleSessionStarted(ctx context.Context, event events.Event) error {
	w.logger.Info("SessionStarted",
		zap.String("session_id", event.SessionID),
		zap.String("username", event.Username))
	return nil
}

func (w *AuditWorker) handleSessionCleared(ctx context.Context, event events.Event) error {
	w.logger.Info("SessionCleared",
		zap.String("session_id", event.SessionID),
		zap.String("username", event.Username))
	return nil
}

func (w *AuditWorker) handleSessionExpired(ctx context.Context, event events.Event) error {
	w.logger.Warn("SessionExpired",
		zap.String("session_id", event.SessionID),
		zap.String("username", event.Username))
	return nil
}

func (w *AuditWorker) handleChatConnected(ctx context.Context, event events.Event) error {
	w.logger.Info("ChatConnected",
		zap.String("session_id", event.SessionID),
		zap.String("username", event.Username))
	return nil
}

func (w *AuditWorker) handleChatDropped(ctx context.Context, event events.Event) error {
	w.logger.Info("ChatDropped",
		zap.String("session_id", event.SessionID),
		zap.String("username", event.Username),
		zap.Any("payload", event.Payload))
	return nil
}

// StartAuditWorker registers audit handlers.
func StartAuditWorker(dispatcher events.Dispatcher, logger *zap.Logger) {
	NewAuditWorker(logger).RegisterHandlers(dispatcher)
}
