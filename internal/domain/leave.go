package domain

// LeaveType enumerates the leave categories the backend accepts.
type LeaveType string

const (
	LeaveSick   LeaveType = "SICK"
	LeaveCasual LeaveType = "CASUAL"
	LeaveEarned LeaveType = "EARNED"
	LeaveUnpaid LeaveType = "UNPAID"
)

// Valid reports whether the type is one of the accepted categories.
func (t LeaveType) Valid() bool {
	switch t {
	case LeaveSick, LeaveCasual, LeaveEarned, LeaveUnpaid:
		return true
	}
	return false
}

// LeaveStatus is the review state of a request.
type LeaveStatus string

const (
	LeavePending  LeaveStatus = "PENDING"
	LeaveApproved LeaveStatus = "APPROVED"
	LeaveRejected LeaveStatus = "REJECTED"
)

// LeaveRequest is a leave application as the backend returns it.
type LeaveRequest struct {
	ID         int64       `json:"id"`
	EmployeeID int64       `json:"employeeId,omitempty"`
	StartDate  string      `json:"startDate"`
	EndDate    string      `json:"endDate"`
	Type       LeaveType   `json:"type"`
	Reason     string      `json:"reason"`
	Status     LeaveStatus `json:"status"`
	AppliedOn  string      `json:"appliedOn,omitempty"`
}
