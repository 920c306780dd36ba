// internal/app/features/tasks/view.go
package tasks

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/taskhive/taskhive/internal/app/policy/taskpolicy"
	"github.com/taskhive/taskhive/internal/app/system/authz"
	"github.com/taskhive/taskhive/internal/app/system/httpjson"
	"github.com/taskhive/taskhive/internal/app/system/timeouts"
	membershipstore "github.com/taskhive/taskhive/internal/app/store/memberships"
	taskstore "github.com/taskhive/taskhive/internal/app/store/tasks"
	"github.com/taskhive/taskhive/internal/domain/models"
)

// loadTask parses the {id} route param and loads the task. On failure
// it writes the response and reports ok=false.
func (h *Handler) loadTask(ctx context.Context, w http.ResponseWriter, r *http.Request) (models.Task, bool) {
	taskID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusNotFound, "Task not found")
		return models.Task{}, false
	}

	t, err := taskstore.New(h.DB).GetByID(ctx, taskID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			httpjson.Error(w, http.StatusNotFound, "Task not found")
			return models.Task{}, false
		}
		h.Log.Warn("GetByID(task)", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "A database error occurred")
		return models.Task{}, false
	}
	return t, true
}

// HandleGetTask handles GET /api/tasks/{id}. Visibility follows the
// task's access level.
func (h *Handler) HandleGetTask(w http.ResponseWriter, r *http.Request) {
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

	allowed, err := taskpolicy.CanViewDB(ctx, membershipstore.New(h.DB), uid, t)
	if err != nil {
		h.Log.Warn("membership check failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "A database error occurred")
		return
	}
	if !allowed {
		httpjson.Error(w, http.StatusForbidden, "Not authorized to view this task")
		return
	}

	detail, err := h.taskDetail(ctx, t)
	if err != nil {
		h.Log.Warn("resolve task detail", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "A database error occurred")
		return
	}
	httpjson.Write(w, http.StatusOK, detail)
}
