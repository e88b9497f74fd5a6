package emsapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ems-platform/web-client/internal/domain"
)

// LeaveApplication is the outbound payload for a new leave request.
type LeaveApplication struct {
	StartDate string           `json:"startDate"`
	EndDate   string           `json:"endDate"`
	Type      domain.LeaveType `json:"type"`
	Reason    string           `json:"reason"`
}

// ApplyLeave submits a leave application.
func (c *Client) ApplyLeave(ctx context.Context, ts TokenSource, leave LeaveApplication) (string, error) {
	return c.doText(ctx, ts, http.MethodPost, "/leaves/apply", leave)
}

// MyLeaves returns the caller's own leave requests.
func (c *Client) MyLeaves(ctx context.Context, ts TokenSource) ([]domain.LeaveRequest, error) {
	var leaves []domain.LeaveRequest
	if err := c.doJSON(ctx, ts, http.MethodGet, "/leaves/my-leaves", nil, &leaves); err != nil {
		return nil, err
	}
	return leaves, nil
}

// AllLeaves returns every leave request. Admin and manager only; the backend
// enforces that regardless of the client-side gate.
func (c *Client) AllLeaves(ctx context.Context, ts TokenSource) ([]domain.LeaveRequest, error) {
	var leaves []domain.LeaveRequest
	if err := c.doJSON(ctx, ts, http.MethodGet, "/leaves/all", nil, &leaves); err != nil {
		return nil, err
	}
	return leaves, nil
}

// ApproveLeave approves the request with the given ID.
func (c *Client) ApproveLeave(ctx context.Context, ts TokenSource, id int64) (string, error) {
	return c.doText(ctx, ts, http.MethodPost, fmt.Sprintf("/leaves/approve/%d", id), nil)
}

// RejectLeave rejects the request with the given ID.
func (c *Client) RejectLeave(ctx context.Context, ts TokenSource, id int64) (string, error) {
	return c.doText(ctx, ts, http.MethodPost, fmt.Sprintf("/leaves/reject/%d", id), nil)
}
