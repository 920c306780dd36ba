// internal/app/features/groups/view.go
package groups

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/taskhive/taskhive/internal/app/policy/grouppolicy"
	"github.com/taskhive/taskhive/internal/app/system/authz"
	"github.com/taskhive/taskhive/internal/app/system/httpjson"
	"github.com/taskhive/taskhive/internal/app/system/timeouts"
	groupstore "github.com/taskhive/taskhive/internal/app/store/groups"
	membershipstore "github.com/taskhive/taskhive/internal/app/store/memberships"
)

// HandleGetGroup handles GET /api/groups/{id}. Only members may view;
// owner and members come back fully resolved.
func (h *Handler) HandleGetGroup(w http.ResponseWriter, r *http.Request) {
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

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	g, err := groupstore.New(h.DB).GetByID(ctx, groupID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			httpjson.Error(w, http.StatusNotFound, "Group not found")
			return
		}
		h.Log.Warn("GetByID(group)", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "A database error occurred")
		return
	}

	allowed, err := grouppolicy.CanViewDB(ctx, membershipstore.New(h.DB), uid, g)
	if err != nil {
		h.Log.Warn("membership check failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "A database error occurred")
		return
	}
	if !allowed {
		httpjson.Error(w, http.StatusForbidden, "Not authorized to view this group")
		return
	}

	detail, err := h.groupDetail(ctx, g, true)
	if err != nil {
		h.Log.Warn("resolve group detail", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "A database error occurred")
		return
	}
	httpjson.Write(w, http.StatusOK, detail)
}
