package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/coverdesk/coverdesk/internal/api/middleware"
	"github.com/coverdesk/coverdesk/internal/auth"
)

func requestWithPrincipal(p *auth.Principal) *http.Request {
	req := httptest.NewRequest(http.MethodDelete, "/policies/1", nil)
	if p != nil {
		req = req.WithContext(middleware.WithPrincipal(req.Context(), p))
	}
	return req
}

func TestRequireAdmin_NoPrincipal(t *testing.T) {
	t.Parallel()

	handler := middleware.RequireAdmin()(okHandler())
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, requestWithPrincipal(nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAdmin_NonAdminForbidden(t *testing.T) {
	t.Parallel()

	handler := middleware.RequireAdmin()(okHandler())
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, requestWithPrincipal(&auth.Principal{Username: "bob", Role: auth.RoleUser}))

	assert.Equal(t, http.StatusForbidden, w.Code)
	env := parseErrorResponse(t, w)
	apiErr := env["error"].(map[string]interface{})
	assert.Equal(t, "FORBIDDEN", apiErr["code"])
	assert.Equal(t, "Admin access required", apiErr["message"])
}

func TestRequireAdmin_AdminAllowed(t *testing.T) {
	t.Parallel()

	handler := middleware.RequireAdmin()(okHandler())
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, requestWithPrincipal(&auth.Principal{Username: "root", Role: auth.RoleAdmin}))

	assert.Equal(t, http.StatusOK, w.Code)
}
