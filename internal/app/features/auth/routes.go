// internal/app/features/auth/routes.go
package auth

import (
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/register", h.HandleRegister)
	r.Post("/login", h.HandleLogin)
	r.Post("/logout", h.HandleLogout)

	r.Group(func(pr chi.Router) {
		pr.Use(h.Sessions.RequireSignedIn)
		pr.Get("/profile", h.HandleProfile)
	})

	return r
}
