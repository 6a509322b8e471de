package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/coverdesk/coverdesk/internal/api/response"
	"github.com/coverdesk/coverdesk/internal/auth"
)

const principalKey contextKey = "principal"

// Authenticator resolves a bearer token to a Principal.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*auth.Principal, error)
}

// Auth is middleware that extracts the Authorization bearer token and
// resolves it to a Principal. Malformed, expired, or unknown-subject tokens
// all collapse to the same 401 so callers cannot probe which check failed.
func Auth(svc Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := GetRequestID(r.Context())

			header := r.Header.Get("Authorization")
			if header == "" {
				response.Err(w, http.StatusUnauthorized, "UNAUTHORIZED", "Bearer token is required", requestID)
				return
			}

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				response.Err(w, http.StatusUnauthorized, "UNAUTHORIZED", "Could not validate credentials", requestID)
				return
			}

			principal, err := svc.Authenticate(r.Context(), token)
			if err != nil {
				if errors.Is(err, auth.ErrInvalidToken) {
					response.Err(w, http.StatusUnauthorized, "UNAUTHORIZED", "Could not validate credentials", requestID)
					return
				}
				response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Authentication failed", requestID)
				return
			}

			recordPrincipal(r.Context(), principal)
			ctx := context.WithValue(r.Context(), principalKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetPrincipal retrieves the authenticated Principal from the request context.
func GetPrincipal(ctx context.Context) *auth.Principal {
	if p, ok := ctx.Value(principalKey).(*auth.Principal); ok {
		return p
	}
	return nil
}

// WithPrincipal returns a context carrying the given principal. Used by
// handler tests to simulate an authenticated request.
func WithPrincipal(ctx context.Context, p *auth.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}
