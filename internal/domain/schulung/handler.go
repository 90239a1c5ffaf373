package schulung

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

// Handler handles schulung HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates schulung handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ListSerien handles GET /schulungen/serien
func (h *Handler) ListSerien(w http.ResponseWriter, r *http.Request) {
	serien, err := h.service.ListSerien(r.Context())
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, serien)
}

// CreateSerie handles POST /schulungen/serien
func (h *Handler) CreateSerie(w http.ResponseWriter, r *http.Request) {
	var req CreateSerieRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}

	if fieldErrors := validator.Validate(req); fieldErrors != nil {
		response.ValidationError(w, fieldErrors)
		return
	}

	serie, err := h.service.CreateSerie(r.Context(), &req)
	if err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create serie", err)
		return
	}

	response.Created(w, serie)
}

// ListSchulungen handles GET /schulungen/serien/{serieId}
func (h *Handler) ListSchulungen(w http.ResponseWriter, r *http.Request) {
	serieID, err := uuid.Parse(chi.URLParam(r, "serieId"))
	if err != nil {
		response.BadRequest(w, "Invalid serie ID")
		return
	}

	schulungen, err := h.service.ListSchulungen(r.Context(), serieID)
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, schulungen)
}

// CreateSchulung handles POST /schulungen
func (h *Handler) CreateSchulung(w http.ResponseWriter, r *http.Request) {
	var req CreateSchulungRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}

	if fieldErrors := validator.Validate(req); fieldErrors != nil {
		response.ValidationError(w, fieldErrors)
		return
	}

	schulung, err := h.service.CreateSchulung(r.Context(), &req)
	if err != nil {
		if errors.Is(err, ErrSerieNotFound) {
			response.NotFound(w, "serie not found")
			return
		}
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create schulung", err)
		return
	}

	response.Created(w, schulung)
}

// Assign handles POST /customers/{id}/schulungen
func (h *Handler) Assign(w http.ResponseWriter, r *http.Request) {
	customerID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid customer ID")
		return
	}

	var req AssignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}

	if fieldErrors := validator.Validate(req); fieldErrors != nil {
		response.ValidationError(w, fieldErrors)
		return
	}

	a, err := h.service.Assign(r.Context(), customerID, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrSchulungNotFound):
			response.NotFound(w, "schulung not found")
		case errors.Is(err, ErrAlreadyAssigned):
			response.Conflict(w, "schulung already assigned")
		default:
			errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to assign schulung", err)
		}
		return
	}

	response.Created(w, a)
}

// ListAssignments handles GET /customers/{id}/schulungen
func (h *Handler) ListAssignments(w http.ResponseWriter, r *http.Request) {
	customerID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid customer ID")
		return
	}

	assignments, err := h.service.ListAssignments(r.Context(), customerID)
	if err != nil {
		response.InternalError(w)
		return
	}
	response.OK(w, assignments)
}

// UpdateAssignmentStatus handles PATCH /customers/{id}/schulungen/{assignmentId}/status
func (h *Handler) UpdateAssignmentStatus(w http.ResponseWriter, r *http.Request) {
	customerID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid customer ID")
		return
	}
	assignmentID, err := uuid.Parse(chi.URLParam(r, "assignmentId"))
	if err != nil {
		response.BadRequest(w, "Invalid assignment ID")
		return
	}

	var req UpdateAssignmentStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}

	if fieldErrors := validator.Validate(req); fieldErrors != nil {
		response.ValidationError(w, fieldErrors)
		return
	}

	a, err := h.service.UpdateAssignmentStatus(r.Context(), customerID, assignmentID, &req)
	if err != nil {
		if errors.Is(err, ErrAssignmentNotFound) {
			response.NotFound(w, "assignment not found")
			return
		}
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update assignment", err)
		return
	}

	response.OK(w, a)
}
