package domain

// Attendance is one clock-in/clock-out record for an employee day.
// CheckOut stays empty while the employee is still clocked in.
type Attendance struct {
	ID         int64  `json:"id"`
	EmployeeID int64  `json:"employeeId"`
	Date       string `json:"date"`
	CheckIn    string `json:"checkIn,omitempty"`
	CheckOut   string `json:"checkOut,omitempty"`
}

// ClockedIn reports whether the record is an open check-in.
func (a Attendance) ClockedIn() bool {
	return a.CheckIn != "" && a.CheckOut == ""
}
