// Package gate decides whether the current session may enter a screen.
// Decisions are pure functions of the session snapshot and the screen's
// role requirements; the server re-checks every call regardless.
package gate

import (
	"go-ems/internal/domain"
	"go-ems/internal/portal/session"
)

type Decision string

const (
	// Admit lets the navigation proceed.
	Admit Decision = "admit"
	// RedirectLogin sends an unauthenticated visitor to the sign-in screen.
	RedirectLogin Decision = "redirect_login"
	// RedirectHome bounces an authenticated user whose role is not allowed
	// to their own dashboard.
	RedirectHome Decision = "redirect_home"
)

const LoginPath = "/login"

// Routes maps each protected path to the roles allowed to enter it. A path
// absent from the table is public.
var Routes = map[string][]domain.Role{
	"/admin-dashboard":    {domain.RoleAdmin},
	"/employee-dashboard": {domain.RoleAdmin, domain.RoleEmployee},
}

// RequiredRoles returns the allowed roles for path and whether the path is
// protected at all.
func RequiredRoles(path string) ([]domain.Role, bool) {
	roles, ok := Routes[path]
	return roles, ok
}

// Decide evaluates one navigation attempt. A session still verifying is
// treated as not yet authenticated: the caller should hold navigation until
// the session settles rather than act on this answer.
func Decide(state session.State, allowed []domain.Role) Decision {
	if len(allowed) == 0 {
		return Admit
	}

	if state.Status != session.StatusAuthenticated || state.User == nil {
		return RedirectLogin
	}

	for _, role := range allowed {
		if state.User.Role == role {
			return Admit
		}
	}

	return RedirectHome
}

// DecidePath is Decide against the route table.
func DecidePath(state session.State, path string) Decision {
	allowed, protected := RequiredRoles(path)
	if !protected {
		return Admit
	}
	return Decide(state, allowed)
}

// HomePath returns where RedirectHome should land for the session's role.
func HomePath(state session.State) string {
	if state.User == nil {
		return LoginPath
	}
	return state.User.Role.HomePath()
}
