// internal/app/features/groups/members.go
package groups

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/taskhive/taskhive/internal/app/policy/grouppolicy"
	"github.com/taskhive/taskhive/internal/app/system/authz"
	"github.com/taskhive/taskhive/internal/app/system/httpjson"
	"github.com/taskhive/taskhive/internal/app/system/normalize"
	"github.com/taskhive/taskhive/internal/app/system/timeouts"
	"github.com/taskhive/taskhive/internal/domain/models"
	groupstore "github.com/taskhive/taskhive/internal/app/store/groups"
	membershipstore "github.com/taskhive/taskhive/internal/app/store/memberships"
	userstore "github.com/taskhive/taskhive/internal/app/store/users"
)

type addMemberRequest struct {
	Email string `json:"email"`
}

// loadGroupForOwner parses the {id} route param, loads the group, and
// checks that the caller owns it. On failure it writes the response
// and reports done=false.
func (h *Handler) loadGroupForOwner(w http.ResponseWriter, r *http.Request, uid primitive.ObjectID) (models.Group, bool) {
	groupID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusNotFound, "Group not found")
		return models.Group{}, false
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	g, err := groupstore.New(h.DB).GetByID(ctx, groupID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			httpjson.Error(w, http.StatusNotFound, "Group not found")
			return models.Group{}, false
		}
		h.Log.Warn("GetByID(group)", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "A database error occurred")
		return models.Group{}, false
	}
	if !grouppolicy.CanManage(uid, g) {
		httpjson.Error(w, http.StatusForbidden, "Not authorized to update this group")
		return models.Group{}, false
	}
	return g, true
}

// HandleAddMember handles POST /api/groups/{id}/members. Owner only.
// The new member is looked up by email; duplicates are rejected by the
// unique membership index rather than a read-then-write check.
func (h *Handler) HandleAddMember(w http.ResponseWriter, r *http.Request) {
	uid, ok := authz.UserID(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "Not authorized, no session")
		return
	}

	g, ok := h.loadGroupForOwner(w, r, uid)
	if !ok {
		return
	}

	var req addMemberRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := userstore.New(h.DB).GetByEmail(ctx, normalize.Email(req.Email))
	if err != nil {
		if err == mongo.ErrNoDocuments {
			httpjson.Error(w, http.StatusNotFound, "User not found")
			return
		}
		h.Log.Warn("GetByEmail", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "A database error occurred")
		return
	}

	err = membershipstore.New(h.DB).Add(ctx, g.ID, u.ID, models.RoleMember)
	if err != nil {
		if errors.Is(err, membershipstore.ErrDuplicateMembership) {
			httpjson.Error(w, http.StatusBadRequest, "User is already a member of this group")
			return
		}
		h.Log.Warn("add member failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "A database error occurred")
		return
	}

	detail, err := h.groupDetail(ctx, g, true)
	if err != nil {
		h.Log.Warn("resolve group after add member", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "A database error occurred")
		return
	}
	httpjson.Write(w, http.StatusOK, detail)
}

// HandleRemoveMember handles DELETE /api/groups/{id}/members/{userID}.
// Owner only. The owner's own row can never be removed; removing a
// user who is not a member is a no-op.
func (h *Handler) HandleRemoveMember(w http.ResponseWriter, r *http.Request) {
	uid, ok := authz.UserID(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "Not authorized, no session")
		return
	}

	g, ok := h.loadGroupForOwner(w, r, uid)
	if !ok {
		return
	}

	memberID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "userID"))
	if err != nil {
		httpjson.Error(w, http.StatusNotFound, "User not found")
		return
	}
	if memberID == g.OwnerID {
		httpjson.Error(w, http.StatusBadRequest, "Cannot remove the group owner")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, err := membershipstore.New(h.DB).Remove(ctx, g.ID, memberID); err != nil {
		h.Log.Warn("remove member failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "A database error occurred")
		return
	}

	detail, err := h.groupDetail(ctx, g, true)
	if err != nil {
		h.Log.Warn("resolve group after remove member", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "A database error occurred")
		return
	}
	httpjson.Write(w, http.StatusOK, detail)
}
