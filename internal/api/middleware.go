package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/Adithecoder/SocialM-sub001/internal/auth"
)

type contextKey string

const claimsContextKey contextKey = "claims"

// BearerAuth validates the Authorization header with the token manager and
// puts the claims on the request context.
func BearerAuth(tokens *auth.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeJSON(w, http.StatusUnauthorized, messageResponse{Message: "unauthorized"})
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				writeJSON(w, http.StatusUnauthorized, messageResponse{Message: "invalid authorization header"})
				return
			}

			claims, err := tokens.Verify(parts[1])
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, messageResponse{Message: "invalid token"})
				return
			}

			ctx := context.WithValue(r.Context(), claimsContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext retrieves the verified token claims from the context.
func ClaimsFromContext(ctx context.Context) (*auth.TokenClaims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(*auth.TokenClaims)
	return claims, ok
}
