package auth

import (
	"github.com/go-chi/chi/v5"
)

// Routes returns the auth router, mounted under /auth. All endpoints are
// public; the refresh token itself is the credential.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/login", h.LoginCustomer)
	r.Post("/admin/login", h.LoginAdmin)
	r.Post("/refresh", h.Refresh)
	r.Post("/logout", h.Logout)

	return r
}
