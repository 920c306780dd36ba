// internal/app/features/tasks/update.go
package tasks

import (
	"context"
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/taskhive/taskhive/internal/app/policy/taskpolicy"
	"github.com/taskhive/taskhive/internal/app/system/authz"
	"github.com/taskhive/taskhive/internal/app/system/htmlsanitize"
	"github.com/taskhive/taskhive/internal/app/system/httpjson"
	"github.com/taskhive/taskhive/internal/app/system/timeouts"
	taskstore "github.com/taskhive/taskhive/internal/app/store/tasks"
	"github.com/taskhive/taskhive/internal/domain/models"
)

type updateTaskRequest struct {
	Title        *string  `json:"title"`
	Description  *string  `json:"description"`
	ResourceLink *string  `json:"resourceLink"`
	Tags         []string `json:"tags"`
	Priority     *string  `json:"priority"`
	AccessLevel  *string  `json:"accessLevel"`
	SharedWith   *string  `json:"sharedWith"`
	Completed    *bool    `json:"completed"`
}

// HandleUpdateTask handles PUT /api/tasks/{id}. Creator only. Absent
// fields keep their current values. Moving a task to group access needs
// a target group: the one in the patch, or failing that the task's
// current group; either way the requester must be a member.
func (h *Handler) HandleUpdateTask(w http.ResponseWriter, r *http.Request) {
	uid, ok := authz.UserID(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "Not authorized, no session")
		return
	}

	var req updateTaskRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	t, ok := h.loadTask(ctx, w, r)
	if !ok {
		return
	}
	if !taskpolicy.CanManage(uid, t) {
		httpjson.Error(w, http.StatusForbidden, "Not authorized to update this task")
		return
	}

	params := taskstore.UpdateParams{
		Tags:      req.Tags,
		Priority:  req.Priority,
		Completed: req.Completed,
	}
	if req.Title != nil {
		clean := htmlsanitize.Plain(*req.Title)
		params.Title = &clean
	}
	if req.Description != nil {
		clean := htmlsanitize.Sanitize(*req.Description)
		params.Description = &clean
	}
	if req.ResourceLink != nil {
		clean := htmlsanitize.Plain(*req.ResourceLink)
		params.ResourceLink = &clean
	}

	if req.AccessLevel != nil {
		params.AccessLevel = req.AccessLevel
		if *req.AccessLevel == models.AccessGroup {
			target := ""
			switch {
			case req.SharedWith != nil:
				target = *req.SharedWith
			case t.SharedWith != nil:
				target = t.SharedWith.Hex()
			}
			groupID, ok := h.resolveSharedGroup(ctx, w, uid, target)
			if !ok {
				return
			}
			params.SharedWith = &groupID
		}
	}

	updated, err := taskstore.New(h.DB).UpdateByCreator(ctx, t.ID, uid, params)
	if err != nil {
		switch {
		case errors.Is(err, taskstore.ErrMissingFields),
			errors.Is(err, taskstore.ErrBadPriority),
			errors.Is(err, taskstore.ErrBadAccessLevel),
			errors.Is(err, taskstore.ErrGroupRequired):
			httpjson.Error(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, taskstore.ErrNotCreator):
			httpjson.Error(w, http.StatusForbidden, "Not authorized to update this task")
		case err == mongo.ErrNoDocuments:
			httpjson.Error(w, http.StatusNotFound, "Task not found")
		default:
			h.Log.Warn("update task failed", zap.Error(err))
			httpjson.Error(w, http.StatusInternalServerError, "A database error occurred")
		}
		return
	}

	detail, err := h.taskDetail(ctx, updated)
	if err != nil {
		h.Log.Warn("resolve task after update", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "A database error occurred")
		return
	}
	httpjson.Write(w, http.StatusOK, detail)
}
