package domain

// Payroll is one salary entry for an employee month.
type Payroll struct {
	ID         int64   `json:"id"`
	EmployeeID int64   `json:"employeeId"`
	Month      int     `json:"month"`
	Year       int     `json:"year"`
	Salary     float64 `json:"salary"`
	Bonus      float64 `json:"bonus,omitempty"`
	Deductions float64 `json:"deductions,omitempty"`
}
