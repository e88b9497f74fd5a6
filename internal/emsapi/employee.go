package emsapi

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/ems-platform/web-client/internal/domain"
	"github.com/ems-platform/web-client/pkg/util"
)

// Me fetches the profile belonging to the token. This call doubles as token
// validation during rehydration: any failure means the stored token is dead.
func (c *Client) Me(ctx context.Context, ts TokenSource) (*domain.Profile, error) {
	var profile domain.Profile
	if err := c.doJSON(ctx, ts, http.MethodGet, "/employee/me", nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateProfile edits the caller's own record and returns the saved copy.
func (c *Client) UpdateProfile(ctx context.Context, ts TokenSource, update domain.ProfileUpdate) (*domain.Profile, error) {
	var profile domain.Profile
	if err := c.doJSON(ctx, ts, http.MethodPut, "/employee/update", update, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// UploadPhoto forwards a profile picture as multipart form data.
func (c *Client) UploadPhoto(ctx context.Context, ts TokenSource, filename string, file io.Reader) (string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", util.NewInternalError(err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", util.NewInternalError(err)
	}
	if err := writer.Close(); err != nil {
		return "", util.NewInternalError(err)
	}

	req, err := c.newRequest(ctx, ts, http.MethodPost, "/employee/upload-photo", &buf, writer.FormDataContentType())
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
	return string(message), nil
}
