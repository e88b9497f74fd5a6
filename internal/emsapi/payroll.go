package emsapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ems-platform/web-client/internal/domain"
)

// PayrollCreate is the outbound payload for a new payroll entry.
type PayrollCreate struct {
	EmployeeID int64   `json:"employeeId"`
	Month      int     `json:"month"`
	Year       int     `json:"year"`
	Salary     float64 `json:"salary"`
	Bonus      float64 `json:"bonus,omitempty"`
	Deductions float64 `json:"deductions,omitempty"`
}

// MySalary returns the caller's payroll entries.
func (c *Client) MySalary(ctx context.Context, ts TokenSource) ([]domain.Payroll, error) {
	var payrolls []domain.Payroll
	if err := c.doJSON(ctx, ts, http.MethodGet, "/payroll/my-salary", nil, &payrolls); err != nil {
		return nil, err
	}
	return payrolls, nil
}

// AllPayrolls returns every payroll entry. Admin only.
func (c *Client) AllPayrolls(ctx context.Context, ts TokenSource) ([]domain.Payroll, error) {
	var payrolls []domain.Payroll
	if err := c.doJSON(ctx, ts, http.MethodGet, "/payroll/all", nil, &payrolls); err != nil {
		return nil, err
	}
	return payrolls, nil
}

// CreatePayroll records a payroll entry. Admin only.
func (c *Client) CreatePayroll(ctx context.Context, ts TokenSource, payroll PayrollCreate) (string, error) {
	return c.doText(ctx, ts, http.MethodPost, "/payroll/create", payroll)
}

// SalarySlip downloads the generated slip for a payroll entry. The PDF is
// produced by the backend and proxied through unmodified.
func (c *Client) SalarySlip(ctx context.Context, ts TokenSource, id int64) ([]byte, string, error) {
	return c.doRaw(ctx, ts, http.MethodGet, fmt.Sprintf("/payroll/slip/%d", id))
}
