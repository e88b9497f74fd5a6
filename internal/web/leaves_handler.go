package web

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/ems-platform/web-client/internal/domain"
	"github.com/ems-platform/web-client/internal/emsapi"
	"github.com/ems-platform/web-client/internal/web/view"
)

// LeavesHandler serves the personal leave screen and the review screen for
// managers and admins.
type LeavesHandler struct {
	api   *emsapi.Client
	views *view.Engine
}

// NewLeavesHandler constructs the handler.
func NewLeavesHandler(api *emsapi.Client, views *view.Engine) *LeavesHandler {
	return &LeavesHandler{api: api, views: views}
}

// MyLeaves renders the apply form plus the caller's requests.
func (h *LeavesHandler) MyLeaves(c *fiber.Ctx) error {
	leaves, err := h.api.MyLeaves(c.UserContext(), SessionFromCtx(c))
	if err != nil {
		return err
	}
	return h.views.Render(c, "leaves", pageData(c, "My leaves", leaves))
}

// Apply submits a leave application after local validation.
func (h *LeavesHandler) Apply(c *fiber.Ctx) error {
	application := emsapi.LeaveApplication{
		StartDate: c.FormValue("startDate"),
		EndDate:   c.FormValue("endDate"),
		Type:      domain.LeaveType(c.FormValue("type")),
		Reason:    c.FormValue("reason"),
	}

	sess := SessionFromCtx(c)
	switch {
	case application.StartDate == "" || application.EndDate == "":
		sess.AddFlash("error", "Start and end dates are required.")
	case application.EndDate < application.StartDate:
		sess.AddFlash("error", "The end date cannot be before the start date.")
	case !application.Type.Valid():
		sess.AddFlash("error", "Unknown leave type.")
	case application.Reason == "":
		sess.AddFlash("error", "A reason is required.")
	default:
		message, err := h.api.ApplyLeave(c.UserContext(), sess, application)
		if err != nil && isUnauthorized(err) {
			return err
		}
		flashResult(c, message, err)
	}
	return c.Redirect("/leaves", fiber.StatusFound)
}

// Review renders every leave request for approval.
func (h *LeavesHandler) Review(c *fiber.Ctx) error {
	leaves, err := h.api.AllLeaves(c.UserContext(), SessionFromCtx(c))
	if err != nil {
		return err
	}
	return h.views.Render(c, "leaves_review", pageData(c, "Leave review", leaves))
}

// Approve approves one request.
func (h *LeavesHandler) Approve(c *fiber.Ctx) error {
	return h.review(c, h.api.ApproveLeave)
}

// Reject rejects one request.
func (h *LeavesHandler) Reject(c *fiber.Ctx) error {
	return h.review(c, h.api.RejectLeave)
}

func (h *LeavesHandler) review(c *fiber.Ctx, action func(ctx context.Context, ts emsapi.TokenSource, id int64) (string, error)) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		SessionFromCtx(c).AddFlash("error", "Unknown leave request.")
		return c.Redirect("/leaves/review", fiber.StatusFound)
	}

	message, err := action(c.UserContext(), SessionFromCtx(c), id)
	if err != nil && isUnauthorized(err) {
		return err
	}
	flashResult(c, message, err)
	return c.Redirect("/leaves/review", fiber.StatusFound)
}
