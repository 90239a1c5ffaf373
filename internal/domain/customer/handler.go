package customer

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/enablehub/enable-api/internal/pkg/credentials"
	"github.com/enablehub/enable-api/internal/pkg/errorhandler"
	"github.com/enablehub/enable-api/internal/pkg/response"
	"github.com/enablehub/enable-api/internal/pkg/validator"
)

// Handler handles customer HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates customer handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create handles POST /customers
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}

	if fieldErrors := validator.Validate(req); fieldErrors != nil {
		response.ValidationError(w, fieldErrors)
		return
	}

	created, err := h.service.Create(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrDuplicateEmail):
			response.Conflict(w, "email already in use")
		case errors.Is(err, credentials.ErrPinExhausted):
			errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "PIN_EXHAUSTED", "Failed to allocate customer code", err)
		default:
			errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create customer", err)
		}
		return
	}

	response.Created(w, created)
}

// GetByID handles GET /customers/{id}
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid customer ID")
		return
	}

	c, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "customer not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, c)
}

// List handles GET /customers
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	limit := 20
	offset := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= 100 {
			limit = v
		}
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		if v, err := strconv.Atoi(o); err == nil && v >= 0 {
			offset = v
		}
	}

	customers, total, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		response.InternalError(w)
		return
	}

	page := offset/limit + 1
	pages := (total + limit - 1) / limit
	response.WithMeta(w, customers, response.Meta{
		Total:   total,
		Page:    page,
		Limit:   limit,
		Pages:   pages,
		HasNext: offset+limit < total,
		HasPrev: offset > 0,
	})
}

// Update handles PATCH /customers/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid customer ID")
		return
	}

	var req UpdateCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}

	if fieldErrors := validator.Validate(req); fieldErrors != nil {
		response.ValidationError(w, fieldErrors)
		return
	}

	c, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.NotFound(w, "customer not found")
		case errors.Is(err, ErrDuplicateEmail):
			response.Conflict(w, "email already in use")
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, c)
}

// UpdateMembership handles PATCH /customers/{id}/membership
func (h *Handler) UpdateMembership(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid customer ID")
		return
	}

	var req UpdateMembershipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}

	if fieldErrors := validator.Validate(req); fieldErrors != nil {
		response.ValidationError(w, fieldErrors)
		return
	}

	m, err := h.service.UpdateMembership(r.Context(), id, &req)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "membership not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, m)
}

// IssueCredential handles POST /customers/{id}/credentials
func (h *Handler) IssueCredential(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid customer ID")
		return
	}

	var req IssueCredentialRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}

	if fieldErrors := validator.Validate(req); fieldErrors != nil {
		response.ValidationError(w, fieldErrors)
		return
	}

	result, err := h.service.IssueCredential(r.Context(), id, req.Type)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.NotFound(w, "customer not found")
		case errors.Is(err, ErrInvalidCredentialType):
			response.BadRequest(w, "credential type must be password or pin")
		case errors.Is(err, credentials.ErrPinExhausted):
			errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "PIN_EXHAUSTED", "Failed to allocate customer code", err)
		default:
			errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to issue credential", err)
		}
		return
	}

	response.OK(w, result)
}

// Delete handles DELETE /customers/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid customer ID")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "customer not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, map[string]bool{"success": true})
}
