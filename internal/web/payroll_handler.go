package web

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/ems-platform/web-client/internal/emsapi"
	"github.com/ems-platform/web-client/internal/web/view"
)

// PayrollHandler serves the personal payroll screen, slip downloads and the
// admin payroll screen.
type PayrollHandler struct {
	api   *emsapi.Client
	views *view.Engine
}

// NewPayrollHandler constructs the handler.
func NewPayrollHandler(api *emsapi.Client, views *view.Engine) *PayrollHandler {
	return &PayrollHandler{api: api, views: views}
}

// MyPayrolls renders the caller's payroll entries.
func (h *PayrollHandler) MyPayrolls(c *fiber.Ctx) error {
	payrolls, err := h.api.MySalary(c.UserContext(), SessionFromCtx(c))
	if err != nil {
		return err
	}
	return h.views.Render(c, "payroll", pageData(c, "My payrolls", payrolls))
}

// SalarySlip proxies the backend-generated PDF through unmodified.
func (h *PayrollHandler) SalarySlip(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		SessionFromCtx(c).AddFlash("error", "Unknown payroll entry.")
		return c.Redirect("/payroll", fiber.StatusFound)
	}

	data, contentType, err := h.api.SalarySlip(c.UserContext(), SessionFromCtx(c), id)
	if err != nil {
		if isUnauthorized(err) {
			return err
		}
		flashResult(c, "", err)
		return c.Redirect("/payroll", fiber.StatusFound)
	}

	if contentType == "" {
		contentType = "application/pdf"
	}
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="salary-slip.pdf"`)
	return c.Send(data)
}

// AdminPayrolls renders every payroll entry with the create form.
func (h *PayrollHandler) AdminPayrolls(c *fiber.Ctx) error {
	payrolls, err := h.api.AllPayrolls(c.UserContext(), SessionFromCtx(c))
	if err != nil {
		return err
	}
	return h.views.Render(c, "admin_payroll", pageData(c, "Payroll administration", payrolls))
}

// CreatePayroll records a new payroll entry.
func (h *PayrollHandler) CreatePayroll(c *fiber.Ctx) error {
	sess := SessionFromCtx(c)

	employeeID, err := strconv.ParseInt(c.FormValue("employeeId"), 10, 64)
	month, monthErr := strconv.Atoi(c.FormValue("month"))
	year, yearErr := strconv.Atoi(c.FormValue("year"))
	salary, salaryErr := strconv.ParseFloat(c.FormValue("salary"), 64)
	if err != nil || monthErr != nil || yearErr != nil || salaryErr != nil || month < 1 || month > 12 {
		sess.AddFlash("error", "Employee, month, year and salary must all be valid numbers.")
		return c.Redirect("/admin/payroll", fiber.StatusFound)
	}
	bonus, _ := strconv.ParseFloat(c.FormValue("bonus"), 64)
	deductions, _ := strconv.ParseFloat(c.FormValue("deductions"), 64)

	message, err := h.api.CreatePayroll(c.UserContext(), sess, emsapi.PayrollCreate{
		EmployeeID: employeeID,
		Month:      month,
		Year:       year,
		Salary:     salary,
		Bonus:      bonus,
		Deductions: deductions,
	})
	if err != nil && isUnauthorized(err) {
		return err
	}
	flashResult(c, message, err)
	return c.Redirect("/admin/payroll", fiber.StatusFound)
}
