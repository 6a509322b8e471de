package api_test

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sigs.k8s.io/yaml"

	apispec "github.com/coverdesk/coverdesk/api"
	"github.com/coverdesk/coverdesk/internal/api"
	"github.com/coverdesk/coverdesk/internal/auth"
	"github.com/coverdesk/coverdesk/internal/observability"
)

// openAPISpec is the minimal structure needed to extract paths from the
// document.
type openAPISpec struct {
	Paths map[string]map[string]interface{} `json:"paths"`
}

type route struct {
	method string
	path   string
}

func TestOpenAPISpec_RoutesCoverAllPaths(t *testing.T) {
	t.Parallel()

	specJSON, err := yaml.YAMLToJSON(apispec.OpenAPISpec)
	require.NoError(t, err, "embedded document must convert to JSON")

	var spec openAPISpec
	require.NoError(t, yaml.Unmarshal(specJSON, &spec), "document JSON must unmarshal")

	specRoutes := extractSpecRoutes(t, spec)
	require.NotEmpty(t, specRoutes, "document should define at least one route")

	issuer := auth.NewTokenIssuer("coverage-test-secret", 30*time.Minute)
	authService := auth.NewService(&memoryCredRepo{users: make(map[string]auth.Credential)}, issuer, 4)

	router := api.NewRouter(api.RouterDeps{
		AuthService: authService,
		PolicyRepo:  newMemoryPolicyRepo(),
		DBPinger:    &fakePinger{},
		Metrics:     observability.NewMetrics(),
		OpenAPISpec: apispec.OpenAPISpec,
		Version:     "test",
	})

	chiRoutes := extractChiRoutes(t, router)
	require.NotEmpty(t, chiRoutes, "router should have at least one route")

	for _, sr := range specRoutes {
		t.Run(fmt.Sprintf("spec_%s_%s_has_route", sr.method, sr.path), func(t *testing.T) {
			assert.Contains(t, chiRoutes, sr, "document route %s %s not registered", sr.method, sr.path)
		})
	}

	for _, cr := range chiRoutes {
		t.Run(fmt.Sprintf("route_%s_%s_documented", cr.method, cr.path), func(t *testing.T) {
			assert.Contains(t, specRoutes, cr, "registered route %s %s missing from document", cr.method, cr.path)
		})
	}
}

func extractSpecRoutes(t *testing.T, spec openAPISpec) []route {
	t.Helper()
	var routes []route
	for path, methods := range spec.Paths {
		for method := range methods {
			routes = append(routes, route{
				method: strings.ToUpper(method),
				path:   path,
			})
		}
	}
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].path == routes[j].path {
			return routes[i].method < routes[j].method
		}
		return routes[i].path < routes[j].path
	})
	return routes
}

func extractChiRoutes(t *testing.T, r *chi.Mux) []route {
	t.Helper()
	var routes []route
	walkFunc := func(method, routePath string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		// Chi subroutes carry trailing slashes (e.g. /policies/) while the
		// document uses /policies; strip for comparison.
		normalized := strings.TrimRight(routePath, "/")
		if normalized == "" {
			normalized = "/"
		}
		routes = append(routes, route{method: method, path: normalized})
		return nil
	}
	require.NoError(t, chi.Walk(r, walkFunc))
	return routes
}
