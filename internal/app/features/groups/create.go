// internal/app/features/groups/create.go
package groups

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/taskhive/taskhive/internal/app/system/authz"
	"github.com/taskhive/taskhive/internal/app/system/htmlsanitize"
	"github.com/taskhive/taskhive/internal/app/system/httpjson"
	"github.com/taskhive/taskhive/internal/app/system/timeouts"
	groupstore "github.com/taskhive/taskhive/internal/app/store/groups"
)

type createGroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// HandleCreateGroup handles POST /api/groups. Any authenticated user
// may create a group; they become its owner and sole member.
func (h *Handler) HandleCreateGroup(w http.ResponseWriter, r *http.Request) {
	uid, ok := authz.UserID(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "Not authorized, no session")
		return
	}

	var req createGroupRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	store := groupstore.New(h.DB)
	g, err := store.Create(ctx, uid,
		htmlsanitize.Plain(req.Name),
		htmlsanitize.Sanitize(req.Description))
	if err != nil {
		if errors.Is(err, groupstore.ErrNameRequired) {
			httpjson.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		h.Log.Warn("create group failed", zap.Error(err))
		httpjson.Error(w, http.StatusBadRequest, "Could not create group")
		return
	}

	detail, err := h.groupDetail(ctx, g, true)
	if err != nil {
		h.Log.Warn("resolve group after create", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "A database error occurred")
		return
	}
	httpjson.Write(w, http.StatusCreated, detail)
}
