// internal/app/features/tasks/complete.go
package tasks

import (
	"context"
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/taskhive/taskhive/internal/app/policy/taskpolicy"
	"github.com/taskhive/taskhive/internal/app/system/authz"
	"github.com/taskhive/taskhive/internal/app/system/httpjson"
	"github.com/taskhive/taskhive/internal/app/system/timeouts"
	membershipstore "github.com/taskhive/taskhive/internal/app/store/memberships"
	taskstore "github.com/taskhive/taskhive/internal/app/store/tasks"
)

// HandleToggleComplete handles PATCH /api/tasks/{id}/complete. Who may
// toggle depends on the access level: private → creator, group → any
// member of the shared group, public → any signed-in user. The flip
// itself is a single server-side negation, so concurrent toggles never
// lose a write.
func (h *Handler) HandleToggleComplete(w http.ResponseWriter, r *http.Request) {
	uid, ok := authz.UserID(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "Not authorized, no session")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	t, ok := h.loadTask(ctx, w, r)
	if !ok {
		return
	}

	allowed, err := taskpolicy.CanCompleteDB(ctx, membershipstore.New(h.DB), uid, t)
	if err != nil {
		h.Log.Warn("membership check failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "A database error occurred")
		return
	}
	if !allowed {
		httpjson.Error(w, http.StatusForbidden, "Not authorized to complete this task")
		return
	}

	updated, err := taskstore.New(h.DB).ToggleCompleted(ctx, t.ID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			httpjson.Error(w, http.StatusNotFound, "Task not found")
			return
		}
		h.Log.Warn("toggle completed failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "A database error occurred")
		return
	}

	detail, err := h.taskDetail(ctx, updated)
	if err != nil {
		h.Log.Warn("resolve task after toggle", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "A database error occurred")
		return
	}
	httpjson.Write(w, http.StatusOK, detail)
}
