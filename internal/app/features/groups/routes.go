// internal/app/features/groups/routes.go
package groups

import (
	"github.com/go-chi/chi/v5"

	"github.com/taskhive/taskhive/internal/app/system/auth"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	// Everything under /api/groups requires authentication.
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Post("/", h.HandleCreateGroup)
		pr.Get("/", h.HandleListGroups)

		pr.Get("/{id}", h.HandleGetGroup)
		pr.Put("/{id}", h.HandleUpdateGroup)
		pr.Delete("/{id}", h.HandleDeleteGroup)

		// Membership (owner only)
		pr.Post("/{id}/members", h.HandleAddMember)
		pr.Delete("/{id}/members/{userID}", h.HandleRemoveMember)
	})

	return r
}
