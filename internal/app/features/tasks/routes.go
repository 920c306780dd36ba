// internal/app/features/tasks/routes.go
package tasks

import (
	"github.com/go-chi/chi/v5"

	"github.com/taskhive/taskhive/internal/app/system/auth"
)

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	// Everything under /api/tasks requires authentication.
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Post("/", h.HandleCreateTask)
		pr.Get("/", h.HandleListTasks)

		pr.Get("/{id}", h.HandleGetTask)
		pr.Put("/{id}", h.HandleUpdateTask)
		pr.Delete("/{id}", h.HandleDeleteTask)

		pr.Patch("/{id}/complete", h.HandleToggleComplete)
	})

	return r
}
