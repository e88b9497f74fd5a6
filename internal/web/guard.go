package web

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ems-platform/web-client/internal/domain"
)

// RequireAuth gates a page on an authenticated session. Unauthenticated
// visitors are redirected to the login entry point before any protected
// content renders.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := SessionFromCtx(c)
		if sess == nil || !sess.Authenticated() {
			return c.Redirect("/login", fiber.StatusFound)
		}
		return c.Next()
	}
}

// RequireRole gates a page on its declared role requirement. ADMIN satisfies
// every requirement; any other role must match exactly. The client-side role
// is UX gating only: the backend re-checks authorization on every call.
func RequireRole(required domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := SessionFromCtx(c)
		if sess == nil || !sess.Authenticated() {
			return c.Redirect("/login", fiber.StatusFound)
		}
		if !sess.Role().Satisfies(required) {
			return c.Redirect("/403", fiber.StatusFound)
		}
		return c.Next()
	}
}
