package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/coverdesk/coverdesk/internal/api/middleware"
	"github.com/coverdesk/coverdesk/internal/api/response"
	"github.com/coverdesk/coverdesk/internal/api/validation"
	"github.com/coverdesk/coverdesk/internal/auth"
	"github.com/coverdesk/coverdesk/internal/observability"
)

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// tokenResponse carries a freshly issued bearer token.
type tokenResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"`
}

// AuthHandler handles registration and login endpoints.
type AuthHandler struct {
	authService *auth.Service
	metrics     *observability.Metrics
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *auth.Service, metrics *observability.Metrics) *AuthHandler {
	return &AuthHandler{authService: authService, metrics: metrics}
}

// Register handles POST /register. The role is caller-supplied but must be
// one of the closed set; it can never be changed afterwards.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateRegisterRequest(validation.RegisterRequest{
		Username: req.Username,
		Password: req.Password,
		Role:     req.Role,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	role, err := auth.ParseRole(req.Role)
	if err != nil {
		response.Err(w, http.StatusBadRequest, "VALIDATION_ERROR", "role must be either \"user\" or \"admin\"", requestID)
		return
	}

	token, err := h.authService.Register(r.Context(), req.Username, req.Password, role)
	if err != nil {
		if errors.Is(err, auth.ErrDuplicateUsername) {
			h.metrics.RecordAuthEvent("register_duplicate", req.Role)
			response.Err(w, http.StatusBadRequest, "DUPLICATE_USERNAME", "Username already exists", requestID)
			return
		}
		slog.Error("failed to register user", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to register", requestID)
		return
	}

	h.metrics.RecordAuthEvent("register_success", req.Role)
	response.Success(w, http.StatusCreated, tokenResponse{AccessToken: token, TokenType: "bearer"}, requestID)
}

// Login handles POST /login with a form-encoded body.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	if err := r.ParseForm(); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_FORM", "Request body must be form-encoded", requestID)
		return
	}

	h.login(w, r, loginRequest{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
	}, requestID)
}

// LoginJSON handles POST /login-json with a JSON body.
func (h *AuthHandler) LoginJSON(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	h.login(w, r, req, requestID)
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request, req loginRequest, requestID string) {
	fieldErrors := validation.ValidateLoginRequest(validation.LoginRequest{
		Username: req.Username,
		Password: req.Password,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	token, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			h.metrics.RecordAuthEvent("login_failure", "unknown")
			response.Err(w, http.StatusBadRequest, "INVALID_CREDENTIALS", "Incorrect username or password", requestID)
			return
		}
		slog.Error("failed to log in user", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to log in", requestID)
		return
	}

	h.metrics.RecordAuthEvent("login_success", "unknown")
	response.Success(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"}, requestID)
}
