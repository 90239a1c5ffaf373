package ledger

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns the ledger router, mounted under /customers/{id}/points.
// Booking, editing and deleting are admin actions; customers read their own
// history through the same list endpoint.
func (h *Handler) Routes(authMiddleware, adminOnly func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Get("/", h.List)

	r.Group(func(r chi.Router) {
		r.Use(adminOnly)
		r.Post("/", h.Book)
		r.Patch("/{txId}", h.Edit)
		r.Delete("/{txId}", h.Delete)
	})

	return r
}
