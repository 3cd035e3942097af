package employee

type EmployeeResponse struct {
	ID         string  `json:"id"`
	FullName   string  `json:"fullName"`
	Email      string  `json:"email"`
	Department string  `json:"department,omitempty"`
	Position   string  `json:"position,omitempty"`
	Salary     float64 `json:"salary"`
	HireDate   string  `json:"hireDate,omitempty"`
}
