package web

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/ems-platform/web-client/internal/emsapi"
	"github.com/ems-platform/web-client/internal/web/view"
)

// UsersHandler serves the admin user-management screen.
type UsersHandler struct {
	api   *emsapi.Client
	views *view.Engine
}

// NewUsersHandler constructs the handler.
func NewUsersHandler(api *emsapi.Client, views *view.Engine) *UsersHandler {
	return &UsersHandler{api: api, views: views}
}

// List renders every registered account.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	users, err := h.api.AllUsers(c.UserContext(), SessionFromCtx(c))
	if err != nil {
		return err
	}
	return h.views.Render(c, "admin_users", pageData(c, "User administration", users))
}

// Approve activates a pending account.
func (h *UsersHandler) Approve(c *fiber.Ctx) error {
	return h.act(c, h.api.ApproveUser)
}

// Delete removes an account.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	return h.act(c, h.api.DeleteUser)
}

func (h *UsersHandler) act(c *fiber.Ctx, action func(ctx context.Context, ts emsapi.TokenSource, id int64) (string, error)) error {
	sess := SessionFromCtx(c)

	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		sess.AddFlash("error", "Unknown user.")
		return c.Redirect("/admin/users", fiber.StatusFound)
	}

	message, err := action(c.UserContext(), sess, id)
	if err != nil && isUnauthorized(err) {
		return err
	}
	flashResult(c, message, err)
	return c.Redirect("/admin/users", fiber.StatusFound)
}
