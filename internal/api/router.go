package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/coverdesk/coverdesk/internal/api/handler"
	"github.com/coverdesk/coverdesk/internal/api/middleware"
	"github.com/coverdesk/coverdesk/internal/auth"
	"github.com/coverdesk/coverdesk/internal/observability"
	"github.com/coverdesk/coverdesk/internal/policy"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	AuthService *auth.Service
	PolicyRepo  policy.Repository
	DBPinger    handler.DBPinger
	Metrics     *observability.Metrics
	OpenAPISpec []byte
	Version     string
}

// NewRouter creates and configures a Chi router with all middleware and routes.
// The admin gate is mounted on the mutation routes ahead of the handlers, so
// a non-admin caller is rejected Forbidden before existence is ever checked.
func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery)
	// Permissive CORS for browser frontends. The API is token-authenticated,
	// so cross-origin reads carry no ambient credentials.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))
	r.Use(middleware.SecureHeaders())
	r.Use(middleware.Logger)
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware)
	}

	healthHandler := handler.NewHealthHandler(deps.DBPinger, deps.Version)
	r.Get("/health", healthHandler.ServeHTTP)
	r.Method("GET", "/metrics", deps.Metrics.Handler())

	if len(deps.OpenAPISpec) > 0 {
		openapiHandler := handler.NewOpenAPIHandler(deps.OpenAPISpec)
		r.Get("/openapi.json", openapiHandler.ServeHTTP)
	}

	authHandler := handler.NewAuthHandler(deps.AuthService, deps.Metrics)
	r.Post("/register", authHandler.Register)
	r.Post("/login", authHandler.Login)
	r.Post("/login-json", authHandler.LoginJSON)

	policyHandler := handler.NewPolicyHandler(deps.PolicyRepo, deps.Metrics)
	r.Route("/policies", func(r chi.Router) {
		r.Use(middleware.Auth(deps.AuthService))
		r.Get("/", policyHandler.List)
		r.Post("/", policyHandler.Create)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin())
			r.Put("/{id}", policyHandler.Replace)
			r.Patch("/{id}", policyHandler.Update)
			r.Delete("/{id}", policyHandler.Delete)
		})
	})

	return r
}
