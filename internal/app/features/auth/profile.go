// internal/app/features/auth/profile.go
package auth

import (
	"context"
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/taskhive/taskhive/internal/app/system/authz"
	"github.com/taskhive/taskhive/internal/app/system/httpjson"
	"github.com/taskhive/taskhive/internal/app/system/timeouts"
	groupstore "github.com/taskhive/taskhive/internal/app/store/groups"
	membershipstore "github.com/taskhive/taskhive/internal/app/store/memberships"
	userstore "github.com/taskhive/taskhive/internal/app/store/users"
	"github.com/taskhive/taskhive/internal/domain/models"
)

type profileResponse struct {
	models.User
	Groups []models.GroupRef `json:"groups"`
}

// HandleProfile handles GET /api/auth/profile: the signed-in user plus
// every group they belong to.
func (h *Handler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	uid, ok := authz.UserID(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "Not authorized, no session")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := userstore.New(h.DB).GetByID(ctx, uid)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			httpjson.Error(w, http.StatusNotFound, "User not found")
			return
		}
		h.Log.Warn("GetByID(user)", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "A database error occurred")
		return
	}

	groupIDs, err := membershipstore.New(h.DB).GroupIDsForUser(ctx, uid)
	if err != nil {
		h.Log.Warn("GroupIDsForUser", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "A database error occurred")
		return
	}
	gs, err := groupstore.New(h.DB).ByIDs(ctx, groupIDs)
	if err != nil {
		h.Log.Warn("ByIDs(groups)", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "A database error occurred")
		return
	}

	refs := make([]models.GroupRef, 0, len(gs))
	for _, g := range gs {
		refs = append(refs, g.Ref())
	}
	httpjson.Write(w, http.StatusOK, profileResponse{User: *u, Groups: refs})
}
