package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

// errNoToken means the request carried no bearer token at all (as opposed to
// an invalid one). Both cases produce the same 401.
var errNoToken = errors.New("auth: missing bearer token")

// contextKey is an unexported type used for context keys in this package.
// Using a package-private type prevents collisions: only this package can
// create a key of type contextKey, so only this package can read or write
// the identity stored in a request context.
type contextKey string

const identityKey contextKey = "identity"

// RequireAuth is a middleware that enforces authentication on protected routes.
//
// It reads the JWT from the Authorization header ("Bearer <token>"),
// validates it, and stores the bearer's Identity in the request context.
// A missing or invalid token short-circuits with 401 Unauthorized.
//
// The middleware trusts the token's claims as-is — in particular the role is
// whatever it was at login, not whatever the users table says now (see the
// package comment on staleness).
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := extractIdentity(r, tokens)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":"unauthorized","message":"valid authentication required"}`))
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IdentityFromContext retrieves the authenticated caller from the request
// context.
//
// Returns (Identity{}, false) on routes that didn't run RequireAuth.
//
// Usage in handlers:
//
//	id, ok := auth.IdentityFromContext(r.Context())
//	if !ok {
//	    // anonymous request
//	}
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok && id.UserID != ""
}

// extractIdentity reads and validates the bearer token from the
// Authorization header.
func extractIdentity(r *http.Request, tokens *TokenService) (Identity, error) {
	header := r.Header.Get("Authorization")
	tokenStr, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || tokenStr == "" {
		return Identity{}, errNoToken
	}

	return tokens.Validate(tokenStr)
}
