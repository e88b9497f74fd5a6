package web

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/ems-platform/web-client/internal/emsapi"
	"github.com/ems-platform/web-client/internal/events"
	"github.com/ems-platform/web-client/internal/web/view"
)

// AuthHandler serves login, registration and password recovery.
type AuthHandler struct {
	api        *emsapi.Client
	views      *view.Engine
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(api *emsapi.Client, views *view.Engine, dispatcher events.Dispatcher, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{api: api, views: views, dispatcher: dispatcher, logger: logger}
}

// ShowLogin renders the login form, or skips straight to the dashboard for
// an already-authenticated session.
func (h *AuthHandler) ShowLogin(c *fiber.Ctx) error {
	if sess := SessionFromCtx(c); sess != nil && sess.Authenticated() {
		return c.Redirect("/dashboard", fiber.StatusFound)
	}
	return h.views.Render(c, "login", pageData(c, "Login", nil))
}

// HandleLogin exchanges credentials for a token, fetches the profile with
// it, and establishes the session.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	username := c.FormValue("username")
	password := c.FormValue("password")
	if username == "" || password == "" {
		data := pageData(c, "Login", nil)
		data.Error = "Email and password are required."
		return h.views.Render(c, "login", data)
	}

	ctx := c.UserContext()
	auth, err := h.api.Login(ctx, username, password)
	if err != nil {
		data := pageData(c, "Login", nil)
		data.Error = loginErrorMessage(err)
		return h.views.Render(c, "login", data)
	}

	profile, err := h.api.Me(ctx, emsapi.Bearer(auth.Token))
	if err != nil {
		data := pageData(c, "Login", nil)
		data.Error = "Signed in, but your profile could not be loaded. Please try again."
		return h.views.Render(c, "login", data)
	}

	sess := SessionFromCtx(c)
	if err := sess.SetAuth(auth.Token, profile); err != nil {
		h.logger.Warn("issued token rejected by role decode", zap.Error(err))
		data := pageData(c, "Login", nil)
		data.Error = "Sign-in failed, please try again."
		return h.views.Render(c, "login", data)
	}
	events.Emit(ctx, h.dispatcher, events.EventSessionStarted, sess.ID, profile.Username,
		events.SessionStartedPayload{Role: string(sess.Role())})

	if auth.MustResetPassword {
		return c.Redirect("/first-login", fiber.StatusFound)
	}
	return c.Redirect("/dashboard", fiber.StatusFound)
}

// ShowRegister renders the self-registration form.
func (h *AuthHandler) ShowRegister(c *fiber.Ctx) error {
	return h.views.Render(c, "register", pageData(c, "Register", nil))
}

// HandleRegister submits a registration. Password complexity is checked
// before any network call.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	reg := emsapi.RegistrationRequest{
		Name:          c.FormValue("name"),
		Username:      c.FormValue("username"),
		Password:      c.FormValue("password"),
		ContactNumber: c.FormValue("contactNumber"),
		Department:    c.FormValue("department"),
		Designation:   c.FormValue("designation"),
	}

	data := pageData(c, "Register", nil)
	if reg.Name == "" || reg.Username == "" {
		data.Error = "Name and email are required."
		return h.views.Render(c, "register", data)
	}
	if !validPassword(reg.Password) {
		data.Error = "Password must be at least 8 characters with upper case, lower case and a digit."
		return h.views.Render(c, "register", data)
	}

	message, err := h.api.Register(c.UserContext(), reg)
	if err != nil {
		data.Error = loginErrorMessage(err)
		return h.views.Render(c, "register", data)
	}
	flashResult(c, message, nil)
	return c.Redirect("/login", fiber.StatusFound)
}

// ShowForgotPassword renders the reset-request form.
func (h *AuthHandler) ShowForgotPassword(c *fiber.Ctx) error {
	return h.views.Render(c, "forgot_password", pageData(c, "Forgot password", nil))
}

// HandleForgotPassword requests a reset email and always shows the backend's
// neutral confirmation.
func (h *AuthHandler) HandleForgotPassword(c *fiber.Ctx) error {
	username := c.FormValue("username")
	if username == "" {
		data := pageData(c, "Forgot password", nil)
		data.Error = "Email is required."
		return h.views.Render(c, "forgot_password", data)
	}

	message, err := h.api.ForgotPassword(c.UserContext(), username)
	flashResult(c, message, err)
	return c.Redirect("/login", fiber.StatusFound)
}

// ShowResetPassword renders the reset form, optionally pre-filling the token
// from the emailed link.
func (h *AuthHandler) ShowResetPassword(c *fiber.Ctx) error {
	return h.views.Render(c, "reset_password", pageData(c, "Reset password", c.Query("token")))
}

// HandleResetPassword completes a password reset.
func (h *AuthHandler) HandleResetPassword(c *fiber.Ctx) error {
	return h.resetPassword(c, "reset_password", "Reset password", "/login")
}

// ShowFirstLogin renders the forced password change for first-time logins.
func (h *AuthHandler) ShowFirstLogin(c *fiber.Ctx) error {
	return h.views.Render(c, "first_login", pageData(c, "Set a new password", nil))
}

// HandleFirstLogin completes the forced first-login password change.
func (h *AuthHandler) HandleFirstLogin(c *fiber.Ctx) error {
	return h.resetPassword(c, "first_login", "Set a new password", "/dashboard")
}

func (h *AuthHandler) resetPassword(c *fiber.Ctx, template, title, successTarget string) error {
	token := c.FormValue("token")
	newPassword := c.FormValue("newPassword")
	confirm := c.FormValue("confirmPassword")

	data := pageData(c, title, nil)
	if token == "" {
		data.Error = "The reset token is required."
		return h.views.Render(c, template, data)
	}
	if newPassword != confirm {
		data.Error = "Passwords do not match."
		return h.views.Render(c, template, data)
	}
	if !validPassword(newPassword) {
		data.Error = "Password must be at least 8 characters with upper case, lower case and a digit."
		return h.views.Render(c, template, data)
	}

	message, err := h.api.ResetPassword(c.UserContext(), token, newPassword)
	if err != nil {
		data.Error = loginErrorMessage(err)
		return h.views.Render(c, template, data)
	}
	flashResult(c, message, nil)
	return c.Redirect(successTarget, fiber.StatusFound)
}

// HandleLogout checks out the day's attendance best effort, clears the
// session and returns to login.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	ctx := c.UserContext()
	sess := SessionFromCtx(c)
	username := ""
	if sess.User() != nil {
		username = sess.User().Username
	}

	if err := h.api.Logout(ctx, sess); err != nil && !isUnauthorized(err) {
		h.logger.Warn("backend logout failed", zap.Error(err))
	}
	sess.Clear()
	events.Emit(ctx, h.dispatcher, events.EventSessionCleared, sess.ID, username, nil)
	sess.AddFlash("info", "You have been signed out.")
	return c.Redirect("/login", fiber.StatusFound)
}

// ShowForbidden renders the access-denied page.
func (h *AuthHandler) ShowForbidden(c *fiber.Ctx) error {
	return h.views.Render(c, "forbidden", pageData(c, "Access denied", nil))
}

// loginErrorMessage keeps backend refusals verbatim and collapses transport
// problems into a retry suggestion.
func loginErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	if domainErr := asDomainError(err); domainErr != nil {
		switch domainErr.Code {
		case "UPSTREAM_REJECTED", "VALIDATION_FAILED":
			return domainErr.Message
		case "UNAUTHORIZED", "FORBIDDEN":
			return "Invalid email or password."
		}
	}
	return "The server could not be reached, please try again."
}
