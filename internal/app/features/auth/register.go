// internal/app/features/auth/register.go
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/taskhive/taskhive/internal/app/system/htmlsanitize"
	"github.com/taskhive/taskhive/internal/app/system/httpjson"
	"github.com/taskhive/taskhive/internal/app/system/timeouts"
	userstore "github.com/taskhive/taskhive/internal/app/store/users"
)

const minPasswordLen = 8

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleRegister handles POST /api/auth/register. A successful
// registration signs the new user in immediately.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	name := htmlsanitize.Plain(req.Name)
	if name == "" || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		httpjson.Error(w, http.StatusBadRequest, "Name, email, and password are required")
		return
	}
	if len(req.Password) < minPasswordLen {
		httpjson.Error(w, http.StatusBadRequest, "Password must be at least 8 characters")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := userstore.New(h.DB).Create(ctx, name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicateEmail) {
			httpjson.Error(w, http.StatusBadRequest, "A user with that email already exists")
			return
		}
		h.Log.Warn("register failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "A database error occurred")
		return
	}

	if err := h.Sessions.SignIn(w, r, &u); err != nil {
		h.Log.Warn("sign in after register", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Could not establish session")
		return
	}
	httpjson.Write(w, http.StatusCreated, u)
}
