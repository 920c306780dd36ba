// internal/app/features/groups/delete.go
package groups

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
	groupstore "github.com/taskhive/taskhive/internal/app/store/groups"
	membershipstore "github.com/taskhive/taskhive/internal/app/store/memberships"
	taskstore "github.com/taskhive/taskhive/internal/app/store/tasks"
)

// HandleDeleteGroup handles DELETE /api/groups/{id}. Owner only. After
// the group document goes away its membership rows are cleaned up and
// tasks shared with it drop back to private so they stay reachable by
// their creators.
func (h *Handler) HandleDeleteGroup(w http.ResponseWriter, r *http.Request) {
	uid, ok := authz.UserID(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "Not authorized, no session")
		return
	}

	groupID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusNotFound, "Group not found")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	if err := groupstore.New(h.DB).DeleteByOwner(ctx, groupID, uid); err != nil {
		switch {
		case errors.Is(err, groupstore.ErrNotOwner):
			httpjson.Error(w, http.StatusForbidden, "Not authorized to update this group")
		case err == mongo.ErrNoDocuments:
			httpjson.Error(w, http.StatusNotFound, "Group not found")
		default:
			h.Log.Warn("delete group failed", zap.Error(err))
			httpjson.Error(w, http.StatusInternalServerError, "A database error occurred")
		}
		return
	}

	// Cascade. The group document is already gone, so any failure here
	// leaves stragglers that the read paths ignore; log and report the
	// delete as done.
	if _, err := membershipstore.New(h.DB).DeleteByGroup(ctx, groupID); err != nil {
		h.Log.Warn("delete group memberships", zap.String("group_id", groupID.Hex()), zap.Error(err))
	}
	if _, err := taskstore.New(h.DB).DemoteSharedToPrivate(ctx, groupID); err != nil {
		h.Log.Warn("demote shared tasks", zap.String("group_id", groupID.Hex()), zap.Error(err))
	}

	httpjson.Message(w, "Group removed")
}
