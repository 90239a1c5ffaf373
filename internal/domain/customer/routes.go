package customer

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns customer router. All customer management is admin-only.
func (h *Handler) Routes(authMiddleware, adminOnly func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)
	r.Use(adminOnly)

	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.GetByID)
	r.Patch("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Patch("/{id}/membership", h.UpdateMembership)
	r.Post("/{id}/credentials", h.IssueCredential)

	return r
}
