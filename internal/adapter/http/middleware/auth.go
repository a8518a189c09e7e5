package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/iho/partybook/internal/infrastructure/auth"
)

// ContextKey is the type for context keys set by this package.
type ContextKey string

// OwnerContextKey is the context key for the authenticated owner name.
const OwnerContextKey ContextKey = "owner"

// Auth verifies the Bearer token on each request. The ledger has a single
// owner, so the claims carry only a name.
func Auth(jwtManager *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "missing authorization header", http.StatusUnauthorized)
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				http.Error(w, "invalid authorization header format", http.StatusUnauthorized)
				return
			}

			claims, err := jwtManager.Verify(parts[1])
			if err != nil {
				http.Error(w, "invalid or expired token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), OwnerContextKey, claims.Name)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OwnerFromContext extracts the authenticated owner name from context.
func OwnerFromContext(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(OwnerContextKey).(string)
	return name, ok
}
