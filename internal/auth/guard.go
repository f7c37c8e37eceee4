package auth

import (
	"strings"

	"github.com/restopos/restopos/internal/domain"
)

// Route tables for the guard. Auth routes are login pages an authenticated
// user gets bounced away from; common private routes are reachable by any
// authenticated role.
var (
	authRoutes = []string{"/super-admin/login", "/admin/login", "/staff/login"}

	commonPrivateRoutes = []string{"/change-password", "/profile"}

	rolePrefixes = map[domain.Role][]string{
		domain.RoleSuperAdmin: {"/super-admin"},
		domain.RoleAdmin:      {"/admin"},
		domain.RoleStaff:      {"/staff"},
	}

	roleHome = map[domain.Role]string{
		domain.RoleSuperAdmin: "/super-admin/dashboard",
		domain.RoleAdmin:      "/admin/dashboard",
		domain.RoleStaff:      "/staff/pos",
	}
)

type DecisionKind int

const (
	DecisionAllow DecisionKind = iota
	DecisionRedirect
)

type Decision struct {
	Kind   DecisionKind
	Target string // redirect target, empty when allowed
	Claims *Claims
}

func allow(c *Claims) Decision { return Decision{Kind: DecisionAllow, Claims: c} }

func redirect(target string) Decision {
	return Decision{Kind: DecisionRedirect, Target: target}
}

// Decide is the route guard: pure function of (path, raw token). An empty
// rawToken means no session cookie was present.
func Decide(path, rawToken string) Decision {
	if rawToken == "" {
		if isAuthRoute(path) || path == "/" {
			return allow(nil)
		}
		return redirect("/")
	}

	claims, err := DecodeClaims(rawToken)
	if err != nil {
		// Malformed token is the same as no session.
		return redirect("/")
	}

	role, err := domain.ParseRole(claims.Role)
	if err != nil {
		return redirect("/")
	}

	// An authenticated user has no business on a login page.
	if isAuthRoute(path) {
		return redirect(roleHome[role])
	}

	if isCommonPrivateRoute(path) {
		return allow(claims)
	}

	for _, prefix := range rolePrefixes[role] {
		if strings.HasPrefix(path, prefix) {
			return allow(claims)
		}
	}
	return redirect(roleHome[role])
}

func isAuthRoute(path string) bool {
	for _, r := range authRoutes {
		if path == r {
			return true
		}
	}
	return false
}

func isCommonPrivateRoute(path string) bool {
	for _, r := range commonPrivateRoutes {
		if path == r {
			return true
		}
	}
	return false
}

// RoleHome reports the dashboard path a role lands on after login.
func RoleHome(role domain.Role) string {
	return roleHome[role]
}
