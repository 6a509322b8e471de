package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/coverdesk/coverdesk/internal/auth"
)

const logPrincipalKey contextKey = "logPrincipal"

// principalHolder lets the Auth middleware, which runs deeper in the chain,
// report the resolved principal back to the request logger.
type principalHolder struct {
	principal *auth.Principal
}

func recordPrincipal(ctx context.Context, p *auth.Principal) {
	if h, ok := ctx.Value(logPrincipalKey).(*principalHolder); ok {
		h.principal = p
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Logger is middleware that emits one structured log line per request with
// method, path, status, duration, and the resolved principal (if any).
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		holder := &principalHolder{}
		ctx := context.WithValue(r.Context(), logPrincipalKey, holder)

		next.ServeHTTP(recorder, r.WithContext(ctx))

		attrs := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", recorder.status,
			"duration", time.Since(start).String(),
			"requestId", GetRequestID(ctx),
		}
		if holder.principal != nil {
			attrs = append(attrs, "principal", holder.principal.Username, "role", string(holder.principal.Role))
		}
		slog.Info("request", attrs...)
	})
}
