package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/kaizendigilabs/coffee-shop-pwa/internal/api/shared"
	"github.com/kaizendigilabs/coffee-shop-pwa/internal/platform/backend"
)

// AuthMiddleware extracts the caller's backend access token from the
// Authorization header and attaches it to the request context. The token is
// the hosted backend's credential, not one this service issued, so no
// signature verification happens here. The middleware only rejects tokens
// that are malformed or already expired, which saves a doomed round trip to
// the backend. Real authentication is the backend's call.
type AuthMiddleware struct {
	now func() time.Time
}

// NewAuthMiddleware creates a new AuthMiddleware.
func NewAuthMiddleware() *AuthMiddleware {
	return &AuthMiddleware{now: time.Now}
}

// RequireToken validates the bearer token's shape and expiry and adds it to
// the request context for handlers to forward to the backend.
func (m *AuthMiddleware) RequireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Authorization header required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid authorization format")
			return
		}
		token := parts[1]

		if err := backend.CheckToken(token, m.now()); err != nil {
			switch {
			case errors.Is(err, backend.ErrTokenExpired):
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Token expired")
			default:
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
			}
			return
		}

		ctx := shared.SetAccessToken(r.Context(), token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetAccessToken extracts the backend access token from the request context.
// Returns the token and a boolean indicating if it was found.
func GetAccessToken(r *http.Request) (string, bool) {
	return shared.GetAccessToken(r.Context())
}
