// internal/app/features/tasks/create.go
package tasks

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/taskhive/taskhive/internal/app/system/authz"
	"github.com/taskhive/taskhive/internal/app/system/htmlsanitize"
	"github.com/taskhive/taskhive/internal/app/system/httpjson"
	"github.com/taskhive/taskhive/internal/app/system/timeouts"
	taskstore "github.com/taskhive/taskhive/internal/app/store/tasks"
	"github.com/taskhive/taskhive/internal/domain/models"
)

type createTaskRequest struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	ResourceLink string   `json:"resourceLink"`
	Tags         []string `json:"tags"`
	Priority     string   `json:"priority"`
	AccessLevel  string   `json:"accessLevel"`
	SharedWith   string   `json:"sharedWith"`
}

// HandleCreateTask handles POST /api/tasks. A group-level task requires
// a shared group the requester belongs to; for any other level a
// client-supplied sharedWith value is ignored.
func (h *Handler) HandleCreateTask(w http.ResponseWriter, r *http.Request) {
	uid, ok := authz.UserID(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "Not authorized, no session")
		return
	}

	var req createTaskRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	params := taskstore.CreateParams{
		Title:        htmlsanitize.Plain(req.Title),
		Description:  htmlsanitize.Sanitize(req.Description),
		ResourceLink: htmlsanitize.Plain(req.ResourceLink),
		Tags:         req.Tags,
		Priority:     req.Priority,
		AccessLevel:  req.AccessLevel,
	}
	if req.AccessLevel == models.AccessGroup {
		groupID, ok := h.resolveSharedGroup(ctx, w, uid, req.SharedWith)
		if !ok {
			return
		}
		params.SharedWith = &groupID
	}

	t, err := taskstore.New(h.DB).Create(ctx, uid, params)
	if err != nil {
		switch {
		case errors.Is(err, taskstore.ErrMissingFields),
			errors.Is(err, taskstore.ErrBadPriority),
			errors.Is(err, taskstore.ErrBadAccessLevel),
			errors.Is(err, taskstore.ErrGroupRequired):
			httpjson.Error(w, http.StatusBadRequest, err.Error())
		default:
			h.Log.Warn("create task failed", zap.Error(err))
			httpjson.Error(w, http.StatusInternalServerError, "A database error occurred")
		}
		return
	}

	detail, err := h.taskDetail(ctx, t)
	if err != nil {
		h.Log.Warn("resolve task after create", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "A database error occurred")
		return
	}
	httpjson.Write(w, http.StatusCreated, detail)
}
