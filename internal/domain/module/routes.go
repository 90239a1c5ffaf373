package module

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns the module router, mounted under /modules. Board changes
// are admin actions; testing and acceptance are customer actions.
func (h *Handler) Routes(authMiddleware, adminOnly func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Get("/", h.List)
	r.Get("/{id}", h.Get)

	// Customer-side workflow
	r.Post("/{id}/complete-test", h.CompleteTest)
	r.Post("/{id}/accept", h.Accept)
	r.Post("/{id}/reject", h.Reject)
	r.Post("/{id}/criteria/{criterionId}/toggle", h.ToggleCriterion)
	r.Post("/{id}/feedback", h.AddFeedback)

	r.Group(func(r chi.Router) {
		r.Use(adminOnly)
		r.Post("/", h.Create)
		r.Patch("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
		r.Post("/{id}/status", h.UpdateStatus)
		r.Post("/{id}/request-acceptance", h.RequestAcceptance)
		r.Post("/{id}/criteria", h.AddCriterion)
	})

	return r
}
