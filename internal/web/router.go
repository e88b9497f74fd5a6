package web

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/ems-platform/web-client/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health     *HealthHandler
	Auth       *AuthHandler
	Attendance *AttendanceHandler
	Leaves     *LeavesHandler
	Payroll    *PayrollHandler
	Users      *UsersHandler
	Profile    *ProfileHandler
	Chat       *ChatHandler
}

// RegisterRoutes wires every screen, form action and socket endpoint. Public
// routes carry no guard; everything below the auth block requires a session,
// with role guards layered on the reviewer and admin screens.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/counters", cfg.Health.Counters)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/dashboard", fiber.StatusFound)
	})
	app.Get("/login", cfg.Auth.ShowLogin)
	app.Post("/login", cfg.Auth.HandleLogin)
	app.Get("/register", cfg.Auth.ShowRegister)
	app.Post("/register", cfg.Auth.HandleRegister)
	app.Get("/forgot-password", cfg.Auth.ShowForgotPassword)
	app.Post("/forgot-password", cfg.Auth.HandleForgotPassword)
	app.Get("/reset-password", cfg.Auth.ShowResetPassword)
	app.Post("/reset-password", cfg.Auth.HandleResetPassword)
	app.Get("/403", cfg.Auth.ShowForbidden)

	// The auto-checkout beacon authenticates from the stored token and must
	// stay reachable while a page is unloading, so it skips the redirect guard.
	app.Post("/attendance/auto-checkout", cfg.Attendance.AutoCheckout)

	authed := app.Group("", RequireAuth())
	authed.Get("/first-login", cfg.Auth.ShowFirstLogin)
	authed.Post("/first-login", cfg.Auth.HandleFirstLogin)
	authed.Post("/logout", cfg.Auth.HandleLogout)

	authed.Get("/dashboard", cfg.Attendance.Dashboard)
	authed.Get("/attendance", cfg.Attendance.History)
	authed.Post("/attendance/check-in", cfg.Attendance.CheckIn)
	authed.Post("/attendance/check-out", cfg.Attendance.CheckOut)

	authed.Get("/leaves", cfg.Leaves.MyLeaves)
	authed.Post("/leaves/apply", cfg.Leaves.Apply)

	reviewer := authed.Group("", RequireRole(domain.RoleManager))
	reviewer.Get("/leaves/review", cfg.Leaves.Review)
	reviewer.Post("/leaves/approve/:id", cfg.Leaves.Approve)
	reviewer.Post("/leaves/reject/:id", cfg.Leaves.Reject)

	authed.Get("/payroll", cfg.Payroll.MyPayrolls)
	authed.Get("/payroll/slip/:id", cfg.Payroll.SalarySlip)

	admin := authed.Group("/admin", RequireRole(domain.RoleAdmin))
	admin.Get("/payroll", cfg.Payroll.AdminPayrolls)
	admin.Post("/payroll", cfg.Payroll.CreatePayroll)
	admin.Get("/users", cfg.Users.List)
	admin.Post("/users/approve/:id", cfg.Users.Approve)
	admin.Post("/users/delete/:id", cfg.Users.Delete)

	authed.Get("/profile", cfg.Profile.Show)
	authed.Post("/profile", cfg.Profile.Update)
	authed.Post("/profile/photo", cfg.Profile.UploadPhoto)

	authed.Get("/chat", cfg.Chat.Page)
	authed.Get("/chat/ws", cfg.Chat.Upgrade, websocket.New(cfg.Chat.Socket))
}
