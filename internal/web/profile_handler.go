package web

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/ems-platform/web-client/internal/domain"
	"github.com/ems-platform/web-client/internal/emsapi"
	"github.com/ems-platform/web-client/internal/web/view"
)

// ProfileHandler serves the self-service profile screen.
type ProfileHandler struct {
	api    *emsapi.Client
	views  *view.Engine
	logger *zap.Logger
}

// NewProfileHandler constructs the handler.
func NewProfileHandler(api *emsapi.Client, views *view.Engine, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{api: api, views: views, logger: logger}
}

// Show renders the caller's profile.
func (h *ProfileHandler) Show(c *fiber.Ctx) error {
	profile, err := h.api.Me(c.UserContext(), SessionFromCtx(c))
	if err != nil {
		return err
	}
	return h.views.Render(c, "profile", pageData(c, "My profile", profile))
}

// Update saves edits to the caller's own record.
func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	sess := SessionFromCtx(c)

	update := domain.ProfileUpdate{
		Name:                   strings.TrimSpace(c.FormValue("name")),
		Username:               strings.TrimSpace(c.FormValue("username")),
		ContactNumber:          strings.TrimSpace(c.FormValue("contactNumber")),
		Department:             strings.TrimSpace(c.FormValue("department")),
		Designation:            strings.TrimSpace(c.FormValue("designation")),
		EmergencyContactName:   strings.TrimSpace(c.FormValue("emergencyContactName")),
		EmergencyContactNumber: strings.TrimSpace(c.FormValue("emergencyContactNumber")),
	}
	if update.Name == "" || update.Username == "" {
		sess.AddFlash("error", "Name and username are required.")
		return c.Redirect("/profile", fiber.StatusFound)
	}

	if _, err := h.api.UpdateProfile(c.UserContext(), sess, update); err != nil {
		if isUnauthorized(err) {
			return err
		}
		flashResult(c, "", err)
		return c.Redirect("/profile", fiber.StatusFound)
	}
	sess.AddFlash("success", "Profile updated.")
	return c.Redirect("/profile", fiber.StatusFound)
}

// UploadPhoto forwards a new profile picture to the backend.
func (h *ProfileHandler) UploadPhoto(c *fiber.Ctx) error {
	sess := SessionFromCtx(c)

	header, err := c.FormFile("file")
	if err != nil {
		sess.AddFlash("error", "Choose an image to upload.")
		return c.Redirect("/profile", fiber.StatusFound)
	}
	file, err := header.Open()
	if err != nil {
		h.logger.Warn("opening uploaded photo failed", zap.Error(err))
		sess.AddFlash("error", "Could not read the uploaded file.")
		return c.Redirect("/profile", fiber.StatusFound)
	}
	defer file.Close()

	message, err := h.api.UploadPhoto(c.UserContext(), sess, header.Filename, file)
	if err != nil && isUnauthorized(err) {
		return err
	}
	flashResult(c, message, err)
	return c.Redirect("/profile", fiber.StatusFound)
}
