// internal/app/features/tasks/list.go
package tasks

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/taskhive/taskhive/internal/app/system/authz"
	"github.com/taskhive/taskhive/internal/app/system/httpjson"
	"github.com/taskhive/taskhive/internal/app/system/timeouts"
	membershipstore "github.com/taskhive/taskhive/internal/app/store/memberships"
	taskstore "github.com/taskhive/taskhive/internal/app/store/tasks"
)

// HandleListTasks handles GET /api/tasks: everything the requester
// created, everything public, and everything shared with a group they
// belong to. One query, so a task matching several of those rules still
// appears exactly once.
func (h *Handler) HandleListTasks(w http.ResponseWriter, r *http.Request) {
	uid, ok := authz.UserID(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "Not authorized, no session")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	groupIDs, err := membershipstore.New(h.DB).GroupIDsForUser(ctx, uid)
	if err != nil {
		h.Log.Warn("GroupIDsForUser", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "A database error occurred")
		return
	}

	ts, err := taskstore.New(h.DB).ListVisible(ctx, uid, groupIDs)
	if err != nil {
		h.Log.Warn("ListVisible", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "A database error occurred")
		return
	}

	details, err := h.taskDetails(ctx, ts)
	if err != nil {
		h.Log.Warn("resolve task list", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "A database error occurred")
		return
	}
	httpjson.Write(w, http.StatusOK, details)
}
