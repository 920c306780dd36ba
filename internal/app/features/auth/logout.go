// internal/app/features/auth/logout.go
package auth

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/taskhive/taskhive/internal/app/system/httpjson"
)

// HandleLogout handles POST /api/auth/logout. Logging out without a
// session is fine.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.SignOut(w, r); err != nil {
		h.Log.Warn("sign out", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Could not clear session")
		return
	}
	httpjson.Message(w, "Logged out")
}
