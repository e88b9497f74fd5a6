package emsapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ems-platform/web-client/internal/domain"
)

// AllUsers returns every registered account. Admin only.
func (c *Client) AllUsers(ctx context.Context, ts TokenSource) ([]domain.Profile, error) {
	var users []domain.Profile
	if err := c.doJSON(ctx, ts, http.MethodGet, "/users/all", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// ApproveUser activates a pending registration. Admin only.
func (c *Client) ApproveUser(ctx context.Context, ts TokenSource, id int64) (string, error) {
	return c.doText(ctx, ts, http.MethodPost, fmt.Sprintf("/users/approve/%d", id), nil)
}

// DeleteUser removes an account. Admin only.
func (c *Client) DeleteUser(ctx context.Context, ts TokenSource, id int64) (string, error) {
	return c.doText(ctx, ts, http.MethodDelete, fmt.Sprintf("/users/delete/%d", id), nil)
}
