// Package web is the browser-facing surface: screens, form handlers, the
// session-loading pipeline, and the chat socket bridge.
package web

import (
	"context"
	"errors"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/ems-platform/web-client/internal/emsapi"
	"github.com/ems-platform/web-client/internal/observability"
	"github.com/ems-platform/web-client/internal/session"
	apperrors "github.com/ems-platform/web-client/pkg/util"
)

const sessionLocalsKey = "ems_session"

// RegisterMiddlewares attaches global middlewares such as error handling and
// logging. The session loader sits outside the error handler so flashes queued
// during error conversion still reach the commit.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, timeout time.Duration, sessionLoader fiber.Handler) {
	if timeout > 0 {
		app.Use(requestTimeoutMiddleware(timeout))
	}
	app.Use(sessionLoader)
	app.Use(errorHandlingMiddleware(logger, metrics))
	app.Use(observability.RequestLogger(logger, metrics))
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// errorHandlingMiddleware converts errors that escape a handler into redirects
// or a plain error page. Authorization failures route back to login; everything
// else lands on a banner rather than a crash.
func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewInternalError(nil)
			}
			if err == nil {
				return
			}
			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				err = apperrors.NewDomainError("HTTP_ERROR", fiberErr.Message, fiberErr.Code, nil)
			}
			domainErr := apperrors.ToDomainError(err)
			if metrics != nil {
				metrics.RecordError(c.Path(), c.Method(), domainErr.Code)
			}
			if domainErr.HTTPStatus >= http.StatusInternalServerError {
				logger.Error("request failed", zap.String("path", c.Path()), zap.Error(domainErr))
			}

			switch domainErr.HTTPStatus {
			case http.StatusUnauthorized:
				if sess := SessionFromCtx(c); sess != nil {
					sess.AddFlash("error", "Your session has expired, please sign in again.")
				}
				err = c.Redirect("/login", fiber.StatusFound)
			case http.StatusForbidden:
				err = c.Redirect("/403", fiber.StatusFound)
			default:
				c.Status(domainErr.HTTPStatus)
				err = c.SendString(domainErr.Message)
			}
		}()
		return c.Next()
	}
}

// SessionLoader resolves the browser session for every request, rehydrates a
// persisted token into a fresh profile, and commits the durable slot after
// the handler runs. The session travels in request locals so handlers and
// the transport client share one injected instance.
func SessionLoader(manager *session.Manager, api *emsapi.Client, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		sess, err := manager.Load(ctx, c.Cookies(manager.CookieName()))
		if err != nil {
			logger.Error("session load failed", zap.Error(err))
			sess, _ = manager.Load(ctx, "")
		}

		// A stored token without an established profile is exchanged for a
		// fresh one; any failure discards the token. Expired, invalid and
		// revoked tokens are handled uniformly. A session without a stored
		// token makes no backend call here.
		if sess.Token() != "" && !sess.Authenticated() {
			profile, err := api.Me(ctx, sess)
			if err != nil {
				sess.Clear()
			} else if err := sess.SetAuth(sess.Token(), profile); err != nil {
				logger.Warn("stored token rejected", zap.Error(err))
				sess.Clear()
			}
		}

		c.Locals(sessionLocalsKey, sess)
		handlerErr := c.Next()

		commitCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := manager.Commit(commitCtx, sess); err != nil {
			logger.Error("session commit failed", zap.Error(err))
		}
		c.Cookie(&fiber.Cookie{
			Name:     manager.CookieName(),
			Value:    sess.ID,
			Path:     "/",
			Expires:  time.Now().Add(manager.TTL()),
			HTTPOnly: true,
			Secure:   manager.Secure(),
			SameSite: "Strict",
		})
		return handlerErr
	}
}

// SessionFromCtx retrieves the request's session.
func SessionFromCtx(c *fiber.Ctx) *session.Session {
	sess, _ := c.Locals(sessionLocalsKey).(*session.Session)
	return sess
}
