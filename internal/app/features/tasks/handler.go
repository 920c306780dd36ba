// internal/app/features/tasks/handler.go
package tasks

import (
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the tasks feature.
type Handler struct {
	DB  *mongo.Database
	Log *zap.Logger
}

// NewHandler constructs a new tasks Handler.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:  db,
		Log: logger,
	}
}
