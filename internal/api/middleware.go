/**
 * @description
 * This package provides middleware for the HTTP server, specifically for
 * bearer-token authentication of Mini App requests.
 */
package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/Pailon/PayPlanner/internal/auth"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// userContextKey stores the verified token payload in the request context.
const userContextKey contextKey = "sessionUser"

// AuthMiddleware validates the bearer access token and injects its payload
// into the request context. Every failure maps to a bare 401 so callers
// cannot distinguish a missing header from a bad signature or an expired
// token.
func AuthMiddleware(issuer *auth.TokenIssuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				respondWithError(w, http.StatusUnauthorized, "Missing or invalid authorization header")
				return
			}

			payload, err := issuer.VerifyAccessToken(strings.TrimPrefix(authHeader, "Bearer "))
			if err != nil {
				respondWithError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, payload)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext retrieves the verified token payload from the request
// context.
func UserFromContext(ctx context.Context) (auth.TokenPayload, bool) {
	payload, ok := ctx.Value(userContextKey).(auth.TokenPayload)
	return payload, ok
}
