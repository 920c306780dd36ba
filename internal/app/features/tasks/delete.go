// internal/app/features/tasks/delete.go
package tasks

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/taskhive/taskhive/internal/app/system/authz"
	"github.com/taskhive/taskhive/internal/app/system/httpjson"
	"github.com/taskhive/taskhive/internal/app/system/timeouts"
	taskstore "github.com/taskhive/taskhive/internal/app/store/tasks"
)

// HandleDeleteTask handles DELETE /api/tasks/{id}. Creator only; the
// ownership check rides inside the store's conditional delete.
func (h *Handler) HandleDeleteTask(w http.ResponseWriter, r *http.Request) {
	uid, ok := authz.UserID(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "Not authorized, no session")
		return
	}

	taskID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusNotFound, "Task not found")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := taskstore.New(h.DB).DeleteByCreator(ctx, taskID, uid); err != nil {
		switch {
		case errors.Is(err, taskstore.ErrNotCreator):
			httpjson.Error(w, http.StatusForbidden, "Not authorized to update this task")
		case err == mongo.ErrNoDocuments:
			httpjson.Error(w, http.StatusNotFound, "Task not found")
		default:
			h.Log.Warn("delete task failed", zap.Error(err))
			httpjson.Error(w, http.StatusInternalServerError, "A database error occurred")
		}
		return
	}

	httpjson.Message(w, "Task removed")
}
