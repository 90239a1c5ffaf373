package ledger

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

// Handler handles ledger HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates ledger handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Book handles POST /customers/{id}/points
func (h *Handler) Book(w http.ResponseWriter, r *http.Request) {
	customerID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid customer ID")
		return
	}

	var req BookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}

	if fieldErrors := validator.Validate(req); fieldErrors != nil {
		response.ValidationError(w, fieldErrors)
		return
	}

	t, err := h.service.Book(r.Context(), customerID, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrCustomerNotFound):
			response.NotFound(w, "customer not found")
		case errors.Is(err, ErrInvalidPoints):
			response.BadRequest(w, "points must be a non-negative number and date must be valid")
		default:
			errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to book points", err)
		}
		return
	}

	response.Created(w, t)
}

// List handles GET /customers/{id}/points
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	customerID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid customer ID")
		return
	}

	transactions, err := h.service.List(r.Context(), customerID)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, transactions)
}

// Edit handles PATCH /customers/{id}/points/{txId}
func (h *Handler) Edit(w http.ResponseWriter, r *http.Request) {
	customerID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid customer ID")
		return
	}
	txID, err := uuid.Parse(chi.URLParam(r, "txId"))
	if err != nil {
		response.BadRequest(w, "Invalid transaction ID")
		return
	}

	var req EditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}

	if fieldErrors := validator.Validate(req); fieldErrors != nil {
		response.ValidationError(w, fieldErrors)
		return
	}

	t, err := h.service.Edit(r.Context(), customerID, txID, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound), errors.Is(err, ErrCustomerNotFound):
			response.NotFound(w, "transaction not found")
		case errors.Is(err, ErrInvalidPoints):
			response.BadRequest(w, "points must be a non-negative number and date must be valid")
		default:
			errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update transaction", err)
		}
		return
	}

	response.OK(w, t)
}

// Delete handles DELETE /customers/{id}/points/{txId}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	customerID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid customer ID")
		return
	}
	txID, err := uuid.Parse(chi.URLParam(r, "txId"))
	if err != nil {
		response.BadRequest(w, "Invalid transaction ID")
		return
	}

	if err := h.service.Delete(r.Context(), customerID, txID); err != nil {
		switch {
		case errors.Is(err, ErrNotFound), errors.Is(err, ErrCustomerNotFound):
			response.NotFound(w, "transaction not found")
		default:
			errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete transaction", err)
		}
		return
	}

	response.OK(w, map[string]bool{"success": true})
}
