package middleware

import (
	"net/http"

	"github.com/coverdesk/coverdesk/internal/api/response"
)

// RequireAdmin returns middleware that rejects non-admin principals with 403.
// It runs before any handler, so a non-admin is rejected Forbidden even when
// the target record does not exist.
func RequireAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := GetRequestID(r.Context())

			principal := GetPrincipal(r.Context())
			if principal == nil {
				response.Err(w, http.StatusUnauthorized, "UNAUTHORIZED", "Bearer token is required", requestID)
				return
			}

			if !principal.IsAdmin() {
				response.Err(w, http.StatusForbidden, "FORBIDDEN", "Admin access required", requestID)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
