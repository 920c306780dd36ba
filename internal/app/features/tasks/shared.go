// internal/app/features/tasks/shared.go
package tasks

import (
	"context"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/taskhive/taskhive/internal/app/system/httpjson"
	groupstore "github.com/taskhive/taskhive/internal/app/store/groups"
	membershipstore "github.com/taskhive/taskhive/internal/app/store/memberships"
)

// resolveSharedGroup validates a client-supplied group reference for a
// group-level task: the id must parse, the group must exist, and the
// requester must be a member. On failure it writes the response and
// reports ok=false.
func (h *Handler) resolveSharedGroup(ctx context.Context, w http.ResponseWriter, uid primitive.ObjectID, sharedWith string) (primitive.ObjectID, bool) {
	groupID, err := primitive.ObjectIDFromHex(sharedWith)
	if err != nil {
		httpjson.Error(w, http.StatusNotFound, "Group not found")
		return primitive.NilObjectID, false
	}

	if _, err := groupstore.New(h.DB).GetByID(ctx, groupID); err != nil {
		if err == mongo.ErrNoDocuments {
			httpjson.Error(w, http.StatusNotFound, "Group not found")
			return primitive.NilObjectID, false
		}
		h.Log.Warn("GetByID(group)", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "A database error occurred")
		return primitive.NilObjectID, false
	}

	isMember, err := membershipstore.New(h.DB).Exists(ctx, groupID, uid)
	if err != nil {
		h.Log.Warn("membership check failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "A database error occurred")
		return primitive.NilObjectID, false
	}
	if !isMember {
		httpjson.Error(w, http.StatusForbidden, "You are not a member of this group")
		return primitive.NilObjectID, false
	}
	return groupID, true
}
