// internal/app/features/auth/handler.go
package auth

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	sysauth "github.com/taskhive/taskhive/internal/app/system/auth"
)

// Handler is the shared dependency container for the auth feature:
// registration, credential sign-in, sign-out, and the profile view.
type Handler struct {
	DB       *mongo.Database
	Sessions *sysauth.SessionManager
	Log      *zap.Logger
}

// NewHandler constructs a new auth Handler.
func NewHandler(db *mongo.Database, sessions *sysauth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Sessions: sessions,
		Log:      logger,
	}
}
