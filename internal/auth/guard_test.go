package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restopos/restopos/internal/domain"
)

func tokenWithRole(t *testing.T, role string) string {
	t.Helper()
	issuer := NewTokenIssuer("test-secret", time.Hour)
	token, err := issuer.Issue(&domain.User{
		ID:     uuid.New(),
		ShopID: uuid.New(),
		Role:   domain.Role(role),
	})
	require.NoError(t, err)
	return token
}

func TestDecide_NoToken(t *testing.T) {
	tests := []struct {
		name string
		path string
		want Decision
	}{
		{"root is public", "/", Decision{Kind: DecisionAllow}},
		{"login pages are public", "/admin/login", Decision{Kind: DecisionAllow}},
		{"staff login is public", "/staff/login", Decision{Kind: DecisionAllow}},
		{"dashboard needs a session", "/admin/dashboard", Decision{Kind: DecisionRedirect, Target: "/"}},
		{"pos needs a session", "/staff/pos", Decision{Kind: DecisionRedirect, Target: "/"}},
		{"change-password needs a session", "/change-password", Decision{Kind: DecisionRedirect, Target: "/"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decide(tt.path, "")
			assert.Equal(t, tt.want.Kind, got.Kind)
			assert.Equal(t, tt.want.Target, got.Target)
		})
	}
}

func TestDecide_AuthenticatedLeavesLoginPages(t *testing.T) {
	tests := []struct {
		role string
		want string
	}{
		{"SUPER_ADMIN", "/super-admin/dashboard"},
		{"ADMIN", "/admin/dashboard"},
		{"STAFF", "/staff/pos"},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			got := Decide("/admin/login", tokenWithRole(t, tt.role))
			assert.Equal(t, DecisionRedirect, got.Kind)
			assert.Equal(t, tt.want, got.Target)
		})
	}
}

func TestDecide_RolePrefixes(t *testing.T) {
	tests := []struct {
		name   string
		role   string
		path   string
		kind   DecisionKind
		target string
	}{
		{"admin on own dashboard", "ADMIN", "/admin/dashboard", DecisionAllow, ""},
		{"admin on staff pos bounces home", "ADMIN", "/staff/pos", DecisionRedirect, "/admin/dashboard"},
		{"staff on admin orders bounces home", "STAFF", "/admin/orders", DecisionRedirect, "/staff/pos"},
		{"super admin on shops", "SUPER_ADMIN", "/super-admin/shops", DecisionAllow, ""},
		{"super admin on admin pages bounces home", "SUPER_ADMIN", "/admin/products", DecisionRedirect, "/super-admin/dashboard"},
		{"staff on pos", "STAFF", "/staff/pos", DecisionAllow, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decide(tt.path, tokenWithRole(t, tt.role))
			assert.Equal(t, tt.kind, got.Kind)
			assert.Equal(t, tt.target, got.Target)
		})
	}
}

func TestDecide_CommonPrivateRoutesAllowAnyRole(t *testing.T) {
	for _, role := range []string{"SUPER_ADMIN", "ADMIN", "STAFF"} {
		for _, path := range []string{"/change-password", "/profile"} {
			got := Decide(path, tokenWithRole(t, role))
			assert.Equal(t, DecisionAllow, got.Kind, "%s should reach %s", role, path)
		}
	}
}

func TestDecide_MalformedTokenIsUnauthenticated(t *testing.T) {
	got := Decide("/admin/dashboard", "not-a-jwt")
	assert.Equal(t, DecisionRedirect, got.Kind)
	assert.Equal(t, "/", got.Target)
}

func TestDecide_UnknownRoleRedirectsToRoot(t *testing.T) {
	// Forge a structurally valid token with a role outside the enum.
	claims := Claims{Role: "INTERN"}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	raw, err := token.SignedString([]byte("whatever"))
	require.NoError(t, err)

	got := Decide("/admin/dashboard", raw)
	assert.Equal(t, DecisionRedirect, got.Kind)
	assert.Equal(t, "/", got.Target)
}

func TestDecide_AllowCarriesClaims(t *testing.T) {
	got := Decide("/staff/pos", tokenWithRole(t, "STAFF"))
	require.Equal(t, DecisionAllow, got.Kind)
	require.NotNil(t, got.Claims)
	assert.Equal(t, "STAFF", got.Claims.Role)
	assert.NotEmpty(t, got.Claims.SessionID)
}
