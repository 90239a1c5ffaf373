package certificate

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns the certificate router, mounted under /certificates.
// Issuance is an admin action; lookup and download are open to all
// authenticated users.
func (h *Handler) Routes(authMiddleware, adminOnly func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Get("/", h.List)
	r.Get("/{hash}", h.Get)
	r.Post("/{hash}/download", h.Download)

	r.Group(func(r chi.Router) {
		r.Use(adminOnly)
		r.Post("/", h.Issue)
	})

	return r
}
