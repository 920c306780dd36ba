// internal/domain/models/task.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Access levels control who may view a task.
const (
	AccessPrivate = "private" // creator only
	AccessGroup   = "group"   // creator + members of the SharedWith group
	AccessPublic  = "public"  // any authenticated user
)

// Priorities.
const (
	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"
)

// ValidAccessLevel reports whether s is one of the access level constants.
func ValidAccessLevel(s string) bool {
	return s == AccessPrivate || s == AccessGroup || s == AccessPublic
}

// ValidPriority reports whether s is one of the priority constants.
func ValidPriority(s string) bool {
	return s == PriorityLow || s == PriorityMedium || s == PriorityHigh
}

// Task is a unit of work owned by its creator.
//
// Invariant: SharedWith is non-nil exactly when AccessLevel is "group".
// Every store write that touches AccessLevel also writes SharedWith in
// the same update so the pair can never be observed out of sync.
type Task struct {
	ID           primitive.ObjectID  `bson:"_id" json:"id"`
	Title        string              `bson:"title" json:"title"`
	Description  string              `bson:"description" json:"description"`
	ResourceLink string              `bson:"resource_link" json:"resourceLink"`
	Tags         []string            `bson:"tags" json:"tags"`
	Priority     string              `bson:"priority" json:"priority"`
	Completed    bool                `bson:"completed" json:"completed"`
	AccessLevel  string              `bson:"access_level" json:"accessLevel"`
	SharedWith   *primitive.ObjectID `bson:"shared_with" json:"-"`
	CreatedByID  primitive.ObjectID  `bson:"created_by" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// TaskDetail is a task with its creator and shared group resolved for display.
type TaskDetail struct {
	Task
	CreatedBy  UserRef   `json:"createdBy"`
	SharedWith *GroupRef `json:"sharedWith,omitempty"`
}
