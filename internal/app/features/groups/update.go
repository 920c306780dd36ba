// internal/app/features/groups/update.go
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
	"github.com/taskhive/taskhive/internal/app/system/htmlsanitize"
	"github.com/taskhive/taskhive/internal/app/system/httpjson"
	"github.com/taskhive/taskhive/internal/app/system/timeouts"
	groupstore "github.com/taskhive/taskhive/internal/app/store/groups"
)

type updateGroupRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// HandleUpdateGroup handles PUT /api/groups/{id}. Owner only. Absent
// fields keep their current values; the ownership check rides inside
// the store's conditional update.
func (h *Handler) HandleUpdateGroup(w http.ResponseWriter, r *http.Request) {
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

	var req updateGroupRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name != nil {
		clean := htmlsanitize.Plain(*req.Name)
		req.Name = &clean
	}
	if req.Description != nil {
		clean := htmlsanitize.Sanitize(*req.Description)
		req.Description = &clean
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	g, err := groupstore.New(h.DB).UpdateInfoByOwner(ctx, groupID, uid, req.Name, req.Description)
	if err != nil {
		switch {
		case errors.Is(err, groupstore.ErrNameRequired):
			httpjson.Error(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, groupstore.ErrNotOwner):
			httpjson.Error(w, http.StatusForbidden, "Not authorized to update this group")
		case err == mongo.ErrNoDocuments:
			httpjson.Error(w, http.StatusNotFound, "Group not found")
		default:
			h.Log.Warn("update group failed", zap.Error(err))
			httpjson.Error(w, http.StatusInternalServerError, "A database error occurred")
		}
		return
	}

	detail, err := h.groupDetail(ctx, g, true)
	if err != nil {
		h.Log.Warn("resolve group after update", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "A database error occurred")
		return
	}
	httpjson.Write(w, http.StatusOK, detail)
}
