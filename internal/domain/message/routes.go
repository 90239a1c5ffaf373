package message

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns the message router, mounted under /customers/{id}/messages
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Get("/", h.List)
	r.Post("/", h.Send)
	r.Get("/unread-count", h.GetUnreadCount)
	r.Post("/read-all", h.MarkAllRead)
	r.Post("/{messageId}/read", h.MarkRead)

	return r
}
