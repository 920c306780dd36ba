// internal/app/features/auth/login.go
package auth

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/taskhive/taskhive/internal/app/system/httpjson"
	"github.com/taskhive/taskhive/internal/app/system/timeouts"
	userstore "github.com/taskhive/taskhive/internal/app/store/users"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin handles POST /api/auth/login. Unknown emails and wrong
// passwords get the same answer.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := userstore.New(h.DB).VerifyCredentials(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, userstore.ErrInvalidCredentials) {
			httpjson.Error(w, http.StatusUnauthorized, "Invalid email or password")
			return
		}
		h.Log.Warn("login failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "A database error occurred")
		return
	}

	if err := h.Sessions.SignIn(w, r, u); err != nil {
		h.Log.Warn("sign in", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Could not establish session")
		return
	}
	httpjson.Write(w, http.StatusOK, u)
}
