package auth

import (
	"context"
	"net/http"

	"github.com/restopos/restopos/internal/domain"
)

type contextKey int

const claimsKey contextKey = 0

// ClaimsFromContext returns the session claims the middleware stored, or nil
// for unauthenticated requests.
func ClaimsFromContext(ctx context.Context) *Claims {
	claims, _ := ctx.Value(claimsKey).(*Claims)
	return claims
}

// WithClaims stores session claims on the context. Exposed for handler tests.
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// Guard runs the route guard decision against every request, redirecting or
// passing through with the decoded claims on the context.
func Guard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var raw string
		if cookie, err := r.Cookie(CookieName); err == nil {
			raw = cookie.Value
		}

		decision := Decide(r.URL.Path, raw)
		if decision.Kind == DecisionRedirect {
			http.Redirect(w, r, decision.Target, http.StatusSeeOther)
			return
		}

		if decision.Claims != nil {
			r = r.WithContext(WithClaims(r.Context(), decision.Claims))
		}
		next.ServeHTTP(w, r)
	})
}

// Authenticate verifies the token cookie for API requests and stores the
// claims. Unlike Guard it answers 401 instead of redirecting.
func Authenticate(issuer *TokenIssuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(CookieName)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			claims, err := issuer.Verify(cookie.Value)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// RequireRole gates an API subtree to the given roles.
func RequireRole(roles ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := ClaimsFromContext(r.Context())
			if claims == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			for _, role := range roles {
				if claims.Role == role.String() {
					next.ServeHTTP(w, r)
					return
				}
			}
			http.Error(w, "forbidden", http.StatusForbidden)
		})
	}
}
