package web

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/ems-platform/web-client/internal/domain"
	"github.com/ems-platform/web-client/internal/emsapi"
	"github.com/ems-platform/web-client/internal/web/view"
)

// AttendanceHandler serves the dashboard clock widget and the history page.
type AttendanceHandler struct {
	api    *emsapi.Client
	views  *view.Engine
	logger *zap.Logger
}

// NewAttendanceHandler constructs the handler.
func NewAttendanceHandler(api *emsapi.Client, views *view.Engine, logger *zap.Logger) *AttendanceHandler {
	return &AttendanceHandler{api: api, views: views, logger: logger}
}

// Dashboard renders today's attendance state with check-in/out actions.
func (h *AttendanceHandler) Dashboard(c *fiber.Ctx) error {
	history, err := h.api.AttendanceHistory(c.UserContext(), SessionFromCtx(c))
	if err != nil {
		return err
	}

	today := time.Now().Format("2006-01-02")
	var record domain.Attendance
	for _, entry := range history {
		if strings.HasPrefix(entry.Date, today) {
			record = entry
			break
		}
	}
	return h.views.Render(c, "dashboard", pageData(c, "Dashboard", record))
}

// History renders the personal attendance table.
func (h *AttendanceHandler) History(c *fiber.Ctx) error {
	history, err := h.api.AttendanceHistory(c.UserContext(), SessionFromCtx(c))
	if err != nil {
		return err
	}
	return h.views.Render(c, "attendance", pageData(c, "My attendance", history))
}

// CheckIn opens today's record and flashes the backend's reply verbatim.
func (h *AttendanceHandler) CheckIn(c *fiber.Ctx) error {
	message, err := h.api.CheckIn(c.UserContext(), SessionFromCtx(c))
	if err != nil && isUnauthorized(err) {
		return err
	}
	flashResult(c, message, err)
	return c.Redirect("/dashboard", fiber.StatusFound)
}

// CheckOut closes today's record.
func (h *AttendanceHandler) CheckOut(c *fiber.Ctx) error {
	message, err := h.api.CheckOut(c.UserContext(), SessionFromCtx(c))
	if err != nil && isUnauthorized(err) {
		return err
	}
	flashResult(c, message, err)
	return c.Redirect("/dashboard", fiber.StatusFound)
}

// AutoCheckout accepts the page-unload beacon and forwards it to the backend
// without holding the response open. Best effort only: the browser is
// already navigating away and never sees the outcome.
func (h *AttendanceHandler) AutoCheckout(c *fiber.Ctx) error {
	sess := SessionFromCtx(c)
	token := sess.Token()
	if token == "" {
		return c.SendStatus(fiber.StatusNoContent)
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := h.api.AutoCheckout(ctx, emsapi.Bearer(token)); err != nil {
			h.logger.Debug("auto checkout failed", zap.Error(err))
		}
	}()
	return c.SendStatus(fiber.StatusNoContent)
}
