// Package emsapi is the HTTP client for the remote EMS backend. Every record
// the web client shows lives behind this API; nothing is stored locally.
// Outbound requests carry the session bearer token, and a 401 response clears
// the owning session before the error reaches the caller.
package emsapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/ems-platform/web-client/internal/config"
	"github.com/ems-platform/web-client/internal/events"
	"github.com/ems-platform/web-client/pkg/util"
)

// TokenSource supplies the bearer credential for outbound calls and absorbs
// the side effect of the backend rejecting it. Sessions implement it; Clear
// must be idempotent because several requests can fail in the same tick.
type TokenSource interface {
	Token() string
	Clear()
}

type staticToken string

func (t staticToken) Token() string { return string(t) }
func (t staticToken) Clear()        {}

// Bearer wraps a raw token for calls made before a session is established,
// such as the profile fetch that completes a login.
func Bearer(token string) TokenSource { return staticToken(token) }

// Client talks to the EMS REST API.
type Client struct {
	baseURL    string
	http       *http.Client
	logger     *zap.Logger
	dispatcher events.Dispatcher
}

// NewClient constructs the backend client.
func NewClient(cfg config.BackendConfig, logger *zap.Logger, dispatcher events.Dispatcher) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		http:       &http.Client{Timeout: cfg.Timeout()},
		logger:     logger,
		dispatcher: dispatcher,
	}
}

const maxErrorBody = 4 << 10

func (c *Client) newRequest(ctx context.Context, ts TokenSource, method, path string, body io.Reader, contentType string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, util.NewInternalError(err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if ts != nil {
		if token := ts.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	return req, nil
}

// send executes the request and maps the response status to the error
// taxonomy. A 401 clears the token source exactly once before the error
// propagates; the session itself stays idempotent under repeated clears.
func (c *Client) send(req *http.Request, ts TokenSource) (*http.Response, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("backend unreachable", zap.String("path", req.URL.Path), zap.Error(err))
		return nil, util.NewUpstreamUnavailable(err)
	}

	if resp.StatusCode < http.StatusBadRequest {
		return resp, nil
	}

	message := readBodyMessage(resp)
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		if ts != nil {
			ts.Clear()
		}
		events.Emit(req.Context(), c.dispatcher, events.EventSessionExpired, "", "",
			events.SessionExpiredPayload{Path: req.URL.Path})
		return nil, util.NewUnauthorized("session expired")
	case http.StatusForbidden:
		return nil, util.NewForbidden("not allowed")
	case http.StatusNotFound:
		return nil, util.NewNotFound("resource", nil)
	case http.StatusBadRequest:
		if message == "" {
			message = "request rejected"
		}
		return nil, util.NewUpstreamRejected(message)
	default:
		c.logger.Warn("backend error",
			zap.String("path", req.URL.Path),
			zap.Int("status", resp.StatusCode),
			zap.String("body", message),
		)
		return nil, util.NewDomainError("UPSTREAM_ERROR",
			"the server could not process the request, please try again",
			http.StatusBadGateway, nil)
	}
}

// doJSON performs a request with optional JSON body, decoding a JSON reply
// into out when out is non-nil.
func (c *Client) doJSON(ctx context.Context, ts TokenSource, method, path string, in, out any) error {
	var body io.Reader
	contentType := ""
	if in != nil {
		encoded, err := json.Marshal(in)
		if err != nil {
			return util.NewInternalError(err)
		}
		body = bytes.NewReader(encoded)
		contentType = "application/json"
	}

	req, err := c.newRequest(ctx, ts, method, path, body, contentType)
	if err != nil {
		return err
	}
	resp, err := c.send(req, ts)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return util.NewInternalError(fmt.Errorf("decode %s %s: %w", method, path, err))
	}
	return nil
}

// doText performs a request whose successful reply is a plain-text message,
// which several backend endpoints return for display verbatim.
func (c *Client) doText(ctx context.Context, ts TokenSource, method, path string, in any) (string, error) {
	var body io.Reader
	contentType := ""
	if in != nil {
		encoded, err := json.Marshal(in)
		if err != nil {
			return "", util.NewInternalError(err)
		}
		body = bytes.NewReader(encoded)
		contentType = "application/json"
	}

	req, err := c.newRequest(ctx, ts, method, path, body, contentType)
	if err != nil {
		return "", err
	}
	resp, err := c.send(req, ts)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	message, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return "", util.NewInternalError(err)
	}
	return strings.TrimSpace(string(message)), nil
}

// doPlain performs a request whose body is the bare string as text/plain.
// A few backend endpoints bind the raw request body to a string parameter, so
// JSON quoting would corrupt the value.
func (c *Client) doPlain(ctx context.Context, ts TokenSource, method, path, body string) (string, error) {
	req, err := c.newRequest(ctx, ts, method, path, strings.NewReader(body), "text/plain")
	if err != nil {
		return "", err
	}
	resp, err := c.send(req, ts)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	message, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return "", util.NewInternalError(err)
	}
	return strings.TrimSpace(string(message)), nil
}

// doRaw performs a request returning the raw body and content type, used for
// proxied downloads such as salary-slip PDFs.
func (c *Client) doRaw(ctx context.Context, ts TokenSource, method, path string) ([]byte, string, error) {
	req, err := c.newRequest(ctx, ts, method, path, nil, "")
	if err != nil {
		return nil, "", err
	}
	resp, err := c.send(req, ts)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", util.NewInternalError(err)
	}
	return data, resp.Header.Get("Content-Type"), nil
}

func readBodyMessage(resp *http.Response) string {
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return ""
	}
	text := strings.TrimSpace(string(raw))
	// Some endpoints wrap error text in a JSON string or object.
	var asString string
	if json.Unmarshal(raw, &asString) == nil {
		return strings.TrimSpace(asString)
	}
	var asObject struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(raw, &asObject) == nil {
		if asObject.Message != "" {
			return asObject.Message
		}
		if asObject.Error != "" {
			return asObject.Error
		}
	}
	return text
}
