package emsapi

import (
	"context"
	"net/http"

	"github.com/ems-platform/web-client/internal/domain"
)

// AttendanceHistory returns the caller's attendance records.
func (c *Client) AttendanceHistory(ctx context.Context, ts TokenSource) ([]domain.Attendance, error) {
	var records []domain.Attendance
	if err := c.doJSON(ctx, ts, http.MethodGet, "/attendance/history", nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// CheckIn opens today's attendance record. The backend replies with a
// display message, including refusals like an existing check-in.
func (c *Client) CheckIn(ctx context.Context, ts TokenSource) (string, error) {
	return c.doText(ctx, ts, http.MethodPost, "/attendance/check-in", nil)
}

// CheckOut closes today's attendance record.
func (c *Client) CheckOut(ctx context.Context, ts TokenSource) (string, error) {
	return c.doText(ctx, ts, http.MethodPost, "/attendance/check-out", nil)
}

// AutoCheckout fires the page-unload checkout notification. Callers treat it
// as best effort and ignore the result.
func (c *Client) AutoCheckout(ctx context.Context, ts TokenSource) error {
	_, err := c.doText(ctx, ts, http.MethodPost, "/attendance/auto-checkout", nil)
	return err
}
