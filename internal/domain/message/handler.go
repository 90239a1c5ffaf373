package message

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/enablehub/enable-api/internal/middleware"
	"github.com/enablehub/enable-api/internal/pkg/errorhandler"
	"github.com/enablehub/enable-api/internal/pkg/jwt"
	"github.com/enablehub/enable-api/internal/pkg/response"
	"github.com/enablehub/enable-api/internal/pkg/validator"
)

// Handler handles message HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates message handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Send handles POST /customers/{id}/messages. Admins write outgoing
// messages; customers write incoming ones.
func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	customerID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid customer ID")
		return
	}

	var req SendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}

	if fieldErrors := validator.Validate(req); fieldErrors != nil {
		response.ValidationError(w, fieldErrors)
		return
	}

	direction := DirectionIncoming
	if middleware.GetRole(r.Context()) == jwt.RoleAdmin {
		direction = DirectionOutgoing
	}

	m, err := h.service.Send(r.Context(), customerID, direction, &req)
	if err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to send message", err)
		return
	}

	response.Created(w, m)
}

// List handles GET /customers/{id}/messages
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	customerID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid customer ID")
		return
	}

	messages, err := h.service.List(r.Context(), customerID)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, messages)
}

// MarkRead handles POST /customers/{id}/messages/{messageId}/read.
// Admins flip the admin-side flag, customers their own.
func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	customerID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid customer ID")
		return
	}
	messageID, err := uuid.Parse(chi.URLParam(r, "messageId"))
	if err != nil {
		response.BadRequest(w, "Invalid message ID")
		return
	}

	if middleware.GetRole(r.Context()) == jwt.RoleAdmin {
		err = h.service.MarkRead(r.Context(), customerID, messageID)
	} else {
		err = h.service.MarkCustomerRead(r.Context(), customerID, messageID)
	}
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "message not found")
			return
		}
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to mark message read", err)
		return
	}

	response.OK(w, map[string]bool{"success": true})
}

// MarkAllRead handles POST /customers/{id}/messages/read-all (customer side)
func (h *Handler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	customerID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid customer ID")
		return
	}

	if err := h.service.MarkAllCustomerRead(r.Context(), customerID); err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to mark messages read", err)
		return
	}

	response.OK(w, map[string]bool{"success": true})
}

// GetUnreadCount handles GET /customers/{id}/messages/unread-count
func (h *Handler) GetUnreadCount(w http.ResponseWriter, r *http.Request) {
	customerID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid customer ID")
		return
	}

	var count int
	if middleware.GetRole(r.Context()) == jwt.RoleAdmin {
		count, err = h.service.GetUnreadCount(r.Context(), customerID)
	} else {
		count, err = h.service.GetCustomerUnreadCount(r.Context(), customerID)
	}
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, UnreadCountResponse{Count: count})
}
