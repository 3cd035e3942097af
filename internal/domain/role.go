package domain

// Role is the closed set of principals the application knows about.
// Authorization decisions compare against this enum and nothing else.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)

// Valid reports whether r is one of the declared roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleEmployee
}

// HomePath is the role-appropriate landing page, used when a signed-in
// user reaches a screen their role does not satisfy.
func (r Role) HomePath() string {
	if r == RoleAdmin {
		return "/admin-dashboard"
	}
	return "/employee-dashboard"
}
