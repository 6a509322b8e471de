package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/coverdesk/coverdesk/internal/api/handler"
	"github.com/coverdesk/coverdesk/internal/auth"
	"github.com/coverdesk/coverdesk/internal/observability"
)

// memoryCredRepo is an in-memory auth.CredentialRepository for handler tests.
type memoryCredRepo struct {
	mu    sync.Mutex
	users map[string]auth.Credential
}

func newMemoryCredRepo() *memoryCredRepo {
	return &memoryCredRepo{users: make(map[string]auth.Credential)}
}

func (r *memoryCredRepo) Create(_ context.Context, cred *auth.Credential) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.users[cred.Username]; exists {
		return auth.ErrDuplicateUsername
	}
	r.users[cred.Username] = *cred
	return nil
}

func (r *memoryCredRepo) Find(_ context.Context, username string) (*auth.Credential, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cred, ok := r.users[username]
	if !ok {
		return nil, auth.ErrUserNotFound
	}
	return &cred, nil
}

func newAuthHandler() *handler.AuthHandler {
	issuer := auth.NewTokenIssuer("handler-test-secret", 30*time.Minute)
	svc := auth.NewService(newMemoryCredRepo(), issuer, 4)
	return handler.NewAuthHandler(svc, observability.NewMetrics())
}

func registerBody(username, password, role string) []byte {
	body, _ := json.Marshal(map[string]string{
		"username": username,
		"password": password,
		"role":     role,
	})
	return body
}

func TestRegister_Success(t *testing.T) {
	t.Parallel()

	h := newAuthHandler()
	req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader(registerBody("alice", "s3cret", "user")))
	w := httptest.NewRecorder()

	h.Register(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := decodeData(t, w)
	assert.NotEmpty(t, data["accessToken"])
	assert.Equal(t, "bearer", data["tokenType"])
}

func TestRegister_DuplicateUsername(t *testing.T) {
	t.Parallel()

	h := newAuthHandler()

	req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader(registerBody("alice", "s3cret", "user")))
	h.Register(httptest.NewRecorder(), req)

	// Second registration with the same username, different password.
	req = httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader(registerBody("alice", "other", "admin")))
	w := httptest.NewRecorder()
	h.Register(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	apiErr := decodeError(t, w)
	assert.Equal(t, "DUPLICATE_USERNAME", apiErr["code"])
	assert.Equal(t, "Username already exists", apiErr["message"])
}

func TestRegister_InvalidRole(t *testing.T) {
	t.Parallel()

	h := newAuthHandler()

	for _, role := range []string{"superadmin", "Admin", "USER", "root"} {
		req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader(registerBody("alice", "s3cret", role)))
		w := httptest.NewRecorder()
		h.Register(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, "role %q", role)
	}
}

func TestRegister_ValidationErrors(t *testing.T) {
	t.Parallel()

	h := newAuthHandler()

	tests := []struct {
		name string
		body map[string]string
	}{
		{"missing username", map[string]string{"password": "x", "role": "user"}},
		{"missing password", map[string]string{"username": "alice", "role": "user"}},
		{"missing role", map[string]string{"username": "alice", "password": "x"}},
		{"username too long", map[string]string{"username": strings.Repeat("a", 101), "password": "x", "role": "user"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, _ := json.Marshal(tt.body)
			req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader(body))
			w := httptest.NewRecorder()
			h.Register(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			apiErr := decodeError(t, w)
			assert.Equal(t, "VALIDATION_ERROR", apiErr["code"])
		})
	}
}

func TestLogin_FormEncoded(t *testing.T) {
	t.Parallel()

	h := newAuthHandler()

	req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader(registerBody("alice", "s3cret", "user")))
	h.Register(httptest.NewRecorder(), req)

	form := url.Values{}
	form.Set("username", "alice")
	form.Set("password", "s3cret")
	req = httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()

	h.Login(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.NotEmpty(t, data["accessToken"])
	assert.Equal(t, "bearer", data["tokenType"])
}

func TestLoginJSON_Success(t *testing.T) {
	t.Parallel()

	h := newAuthHandler()

	req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader(registerBody("alice", "s3cret", "user")))
	h.Register(httptest.NewRecorder(), req)

	body, _ := json.Marshal(map[string]string{"username": "alice", "password": "s3cret"})
	req = httptest.NewRequest(http.MethodPost, "/login-json", bytes.NewReader(body))
	w := httptest.NewRecorder()

	h.LoginJSON(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.NotEmpty(t, data["accessToken"])
}

func TestLogin_WrongPassword(t *testing.T) {
	t.Parallel()

	h := newAuthHandler()

	req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader(registerBody("alice", "s3cret", "user")))
	h.Register(httptest.NewRecorder(), req)

	body, _ := json.Marshal(map[string]string{"username": "alice", "password": "wrong"})
	req = httptest.NewRequest(http.MethodPost, "/login-json", bytes.NewReader(body))
	w := httptest.NewRecorder()

	h.LoginJSON(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	apiErr := decodeError(t, w)
	assert.Equal(t, "INVALID_CREDENTIALS", apiErr["code"])
	assert.Equal(t, "Incorrect username or password", apiErr["message"])
}

func TestLogin_UnknownUser(t *testing.T) {
	t.Parallel()

	h := newAuthHandler()

	body, _ := json.Marshal(map[string]string{"username": "ghost", "password": "whatever"})
	req := httptest.NewRequest(http.MethodPost, "/login-json", bytes.NewReader(body))
	w := httptest.NewRecorder()

	h.LoginJSON(w, req)

	// Unknown user and wrong password are indistinguishable to the caller.
	assert.Equal(t, http.StatusBadRequest, w.Code)
	apiErr := decodeError(t, w)
	assert.Equal(t, "INVALID_CREDENTIALS", apiErr["code"])
}

func TestLogin_MissingFields(t *testing.T) {
	t.Parallel()

	h := newAuthHandler()

	body, _ := json.Marshal(map[string]string{"username": "alice"})
	req := httptest.NewRequest(http.MethodPost, "/login-json", bytes.NewReader(body))
	w := httptest.NewRecorder()

	h.LoginJSON(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	apiErr := decodeError(t, w)
	assert.Equal(t, "VALIDATION_ERROR", apiErr["code"])
}
