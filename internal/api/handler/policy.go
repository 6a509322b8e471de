package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/coverdesk/coverdesk/internal/api/middleware"
	"github.com/coverdesk/coverdesk/internal/api/response"
	"github.com/coverdesk/coverdesk/internal/api/validation"
	"github.com/coverdesk/coverdesk/internal/observability"
	"github.com/coverdesk/coverdesk/internal/policy"
)

// createPolicyRequest is the request body for POST /policies. There is no
// owner field: the owner is always the authenticated caller.
type createPolicyRequest struct {
	Name    string  `json:"name"`
	Details *string `json:"details,omitempty"`
}

// replacePolicyRequest is the request body for PUT /policies/{id}. A full
// replace supplies every mutable field, including the owner.
type replacePolicyRequest struct {
	Name    string  `json:"name"`
	Details *string `json:"details,omitempty"`
	Owner   string  `json:"owner"`
}

// updatePolicyRequest is the request body for PATCH /policies/{id}. Absent
// fields retain their prior value; an explicit empty string overwrites.
type updatePolicyRequest struct {
	Name    *string `json:"name,omitempty"`
	Details *string `json:"details,omitempty"`
	Owner   *string `json:"owner,omitempty"`
}

// policyResponse is the API representation of a policy record.
type policyResponse struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Details string `json:"details"`
	Owner   string `json:"owner"`
}

func toPolicyResponse(p *policy.Policy) policyResponse {
	resp := policyResponse{
		ID:    p.ID,
		Name:  p.Name,
		Owner: p.Owner,
	}
	if p.Details != nil {
		resp.Details = *p.Details
	}
	return resp
}

// PolicyHandler handles policy CRUD endpoints.
type PolicyHandler struct {
	repo    policy.Repository
	metrics *observability.Metrics
}

// NewPolicyHandler creates a new PolicyHandler.
func NewPolicyHandler(repo policy.Repository, metrics *observability.Metrics) *PolicyHandler {
	return &PolicyHandler{repo: repo, metrics: metrics}
}

// List handles GET /policies. Admins see every record; everyone else sees
// only records they own.
func (h *PolicyHandler) List(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	principal := middleware.GetPrincipal(r.Context())

	var filter policy.ListFilter
	if !principal.IsAdmin() {
		filter.Owner = &principal.Username
	}

	policies, err := h.repo.List(r.Context(), filter)
	if err != nil {
		slog.Error("failed to list policies", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list policies", requestID)
		return
	}

	items := make([]policyResponse, 0, len(policies))
	for i := range policies {
		items = append(items, toPolicyResponse(&policies[i]))
	}

	h.metrics.RecordPolicyOperation("list", string(principal.Role))
	response.Success(w, http.StatusOK, items, requestID)
}

// Create handles POST /policies. The owner is forced to the caller's
// username regardless of anything in the request body.
func (h *PolicyHandler) Create(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	principal := middleware.GetPrincipal(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req createPolicyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateCreatePolicyRequest(validation.CreatePolicyRequest{Name: req.Name})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	p := &policy.Policy{
		Name:    req.Name,
		Details: req.Details,
		Owner:   principal.Username,
	}
	if err := h.repo.Create(r.Context(), p); err != nil {
		slog.Error("failed to create policy", "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create policy", requestID)
		return
	}

	h.metrics.RecordPolicyOperation("create", string(principal.Role))
	response.Success(w, http.StatusCreated, toPolicyResponse(p), requestID)
}

// Replace handles PUT /policies/{id}. Admin only; the route's admin gate has
// already run. A replace may reassign the owner.
func (h *PolicyHandler) Replace(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	principal := middleware.GetPrincipal(r.Context())

	id, ok := h.parseID(w, r, requestID)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req replacePolicyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateReplacePolicyRequest(validation.ReplacePolicyRequest{
		Name:  req.Name,
		Owner: req.Owner,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	p, err := h.repo.Replace(r.Context(), id, req.Name, req.Details, req.Owner)
	if err != nil {
		if errors.Is(err, policy.ErrNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Policy not found", requestID)
			return
		}
		slog.Error("failed to replace policy", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to replace policy", requestID)
		return
	}

	h.metrics.RecordPolicyOperation("replace", string(principal.Role))
	response.Success(w, http.StatusOK, toPolicyResponse(p), requestID)
}

// Update handles PATCH /policies/{id}. Admin only. Only fields present in
// the body are applied.
func (h *PolicyHandler) Update(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	principal := middleware.GetPrincipal(r.Context())

	id, ok := h.parseID(w, r, requestID)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	var req updatePolicyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	p, err := h.repo.Update(r.Context(), id, policy.UpdateFields{
		Name:    req.Name,
		Details: req.Details,
		Owner:   req.Owner,
	})
	if err != nil {
		if errors.Is(err, policy.ErrNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Policy not found", requestID)
			return
		}
		slog.Error("failed to update policy", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update policy", requestID)
		return
	}

	h.metrics.RecordPolicyOperation("patch", string(principal.Role))
	response.Success(w, http.StatusOK, toPolicyResponse(p), requestID)
}

// Delete handles DELETE /policies/{id}. Admin only.
func (h *PolicyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	principal := middleware.GetPrincipal(r.Context())

	id, ok := h.parseID(w, r, requestID)
	if !ok {
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		if errors.Is(err, policy.ErrNotFound) {
			response.Err(w, http.StatusNotFound, "NOT_FOUND", "Policy not found", requestID)
			return
		}
		slog.Error("failed to delete policy", "error", err, "id", id)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete policy", requestID)
		return
	}

	h.metrics.RecordPolicyOperation("delete", string(principal.Role))
	response.NoContent(w)
}

func (h *PolicyHandler) parseID(w http.ResponseWriter, r *http.Request, requestID string) (int64, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id < 1 {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", "id must be a positive integer", requestID)
		return 0, false
	}
	return id, true
}
