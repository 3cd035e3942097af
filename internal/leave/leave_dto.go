package leave

type CreateLeaveRequest struct {
	LeaveType   string `json:"leaveType" binding:"required"`
	FromDate    string `json:"fromDate" binding:"required"`
	ToDate      string `json:"toDate" binding:"required"`
	Description string `json:"description" binding:"required"`
}

type DecideLeaveRequest struct {
	Status string `json:"status" binding:"required,oneof=approved rejected"`
}

type LeaveResponse struct {
	ID           string  `json:"id"`
	EmployeeID   string  `json:"employeeId"`
	LeaveType    string  `json:"leaveType"`
	FromDate     string  `json:"fromDate"`
	ToDate       string  `json:"toDate"`
	Description  string  `json:"description"`
	AppliedDate  string  `json:"appliedDate"`
	Status       string  `json:"status"`
	ApprovedBy   *string `json:"approvedBy,omitempty"`
	ApprovedDate *string `json:"approvedDate,omitempty"`
}
