// internal/app/features/groups/list.go
package groups

import (
	"context"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/taskhive/taskhive/internal/app/system/authz"
	"github.com/taskhive/taskhive/internal/app/system/httpjson"
	"github.com/taskhive/taskhive/internal/app/system/timeouts"
	groupstore "github.com/taskhive/taskhive/internal/app/store/groups"
	membershipstore "github.com/taskhive/taskhive/internal/app/store/memberships"
	userstore "github.com/taskhive/taskhive/internal/app/store/users"
	"github.com/taskhive/taskhive/internal/domain/models"
)

// HandleListGroups handles GET /api/groups: every group the caller is a
// member of, with the owner reference resolved.
func (h *Handler) HandleListGroups(w http.ResponseWriter, r *http.Request) {
	uid, ok := authz.UserID(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "Not authorized, no session")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	groupIDs, err := membershipstore.New(h.DB).GroupIDsForUser(ctx, uid)
	if err != nil {
		h.Log.Warn("list memberships failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "A database error occurred")
		return
	}

	gs, err := groupstore.New(h.DB).ByIDs(ctx, groupIDs)
	if err != nil {
		h.Log.Warn("load groups failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "A database error occurred")
		return
	}

	// One batch lookup covers every owner.
	ids := make([]primitive.ObjectID, 0, len(gs))
	for _, g := range gs {
		ids = append(ids, g.OwnerID)
	}
	refs, err := userstore.New(h.DB).RefsByIDs(ctx, ids)
	if err != nil {
		h.Log.Warn("resolve owners failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "A database error occurred")
		return
	}

	out := make([]models.GroupDetail, 0, len(gs))
	for _, g := range gs {
		out = append(out, models.GroupDetail{Group: g, Owner: refs[g.OwnerID]})
	}
	httpjson.Write(w, http.StatusOK, out)
}
