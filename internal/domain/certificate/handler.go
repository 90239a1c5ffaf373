package certificate

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/enablehub/enable-api/internal/pkg/errorhandler"
	"github.com/enablehub/enable-api/internal/pkg/response"
	"github.com/enablehub/enable-api/internal/pkg/validator"
)

// Handler handles certificate HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates certificate handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Issue handles POST /certificates
func (h *Handler) Issue(w http.ResponseWriter, r *http.Request) {
	var req IssueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}

	if fieldErrors := validator.Validate(req); fieldErrors != nil {
		response.ValidationError(w, fieldErrors)
		return
	}

	certs, err := h.service.Issue(r.Context(), &req)
	if err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to issue certificates", err)
		return
	}

	response.Created(w, certs)
}

// List handles GET /certificates, optionally filtered by ?customer_id=
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	if raw := r.URL.Query().Get("customer_id"); raw != "" {
		customerID, err := uuid.Parse(raw)
		if err != nil {
			response.BadRequest(w, "Invalid customer ID")
			return
		}
		certs, err := h.service.ListByCustomer(r.Context(), customerID)
		if err != nil {
			response.InternalError(w)
			return
		}
		response.OK(w, certs)
		return
	}

	certs, err := h.service.ListAll(r.Context())
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, certs)
}

// Get handles GET /certificates/{hash}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	hash := chi.URLParam(r, "hash")

	c, err := h.service.GetByHash(r.Context(), hash)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "certificate not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, c)
}

// Download handles POST /certificates/{hash}/download
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	hash := chi.URLParam(r, "hash")

	c, err := h.service.RecordDownload(r.Context(), hash)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "certificate not found")
			return
		}
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to record download", err)
		return
	}

	response.OK(w, c)
}
