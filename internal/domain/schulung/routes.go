package schulung

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// CatalogRoutes returns the catalog router, mounted under /schulungen
func (h *Handler) CatalogRoutes(authMiddleware, adminOnly func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Get("/serien", h.ListSerien)
	r.Get("/serien/{serieId}", h.ListSchulungen)

	r.Group(func(r chi.Router) {
		r.Use(adminOnly)
		r.Post("/", h.CreateSchulung)
		r.Post("/serien", h.CreateSerie)
	})

	return r
}

// AssignmentRoutes returns the assignment router, mounted under
// /customers/{id}/schulungen. Customers move their own assignments; only
// admins hand out new ones.
func (h *Handler) AssignmentRoutes(authMiddleware, adminOnly func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Get("/", h.ListAssignments)
	r.Patch("/{assignmentId}/status", h.UpdateAssignmentStatus)

	r.Group(func(r chi.Router) {
		r.Use(adminOnly)
		r.Post("/", h.Assign)
	})

	return r
}
