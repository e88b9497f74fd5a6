package web

import (
	"errors"
	"net/http"
	"unicode"

	"github.com/gofiber/fiber/v2"

	"github.com/ems-platform/web-client/internal/web/view"
	apperrors "github.com/ems-platform/web-client/pkg/util"
)

// pageData assembles the shared template values for the current request.
func pageData(c *fiber.Ctx, title string, data any) view.Data {
	d := view.Data{Title: title, CurrentPath: c.Path(), Data: data}
	if sess := SessionFromCtx(c); sess != nil {
		d.User = sess.User()
		d.Role = sess.Role()
		d.Flash = sess.PopFlash()
	}
	return d
}

// flashResult queues the outcome of a form action for the next page render.
// Backend refusals and validation problems show their message verbatim;
// anything else collapses to a generic retry suggestion.
func flashResult(c *fiber.Ctx, message string, err error) {
	sess := SessionFromCtx(c)
	if sess == nil {
		return
	}
	if err == nil {
		sess.AddFlash("info", message)
		return
	}

	var domainErr *apperrors.DomainError
	if errors.As(err, &domainErr) {
		switch domainErr.Code {
		case "UPSTREAM_REJECTED", "VALIDATION_FAILED":
			sess.AddFlash("error", domainErr.Message)
			return
		case "UNAUTHORIZED":
			sess.AddFlash("error", "Your session has expired, please sign in again.")
			return
		}
	}
	sess.AddFlash("error", "Something went wrong, please try again.")
}

func asDomainError(err error) *apperrors.DomainError {
	var domainErr *apperrors.DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// isUnauthorized reports whether the error is the global session-expiry case.
func isUnauthorized(err error) bool {
	var domainErr *apperrors.DomainError
	return errors.As(err, &domainErr) && domainErr.HTTPStatus == http.StatusUnauthorized
}

// validPassword applies the backend's complexity rule locally so obvious
// mistakes never leave the browser: at least eight characters with an upper
// case letter, a lower case letter and a digit.
func validPassword(password string) bool {
	if len(password) < 8 {
		return false
	}
	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return upper && lower && digit
}
