// internal/domain/models/groupmembership.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Membership roles. The group owner's row carries RoleOwner; everyone
// else is RoleMember. Ownership checks use Group.OwnerID, not this field.
const (
	RoleOwner  = "owner"
	RoleMember = "member"
)

// GroupMembership links a user to a group. A unique index on
// (group_id, user_id) makes duplicate adds impossible at the store level.
type GroupMembership struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	GroupID primitive.ObjectID `bson:"group_id" json:"group_id"`
	UserID  primitive.ObjectID `bson:"user_id" json:"user_id"`
	Role    string             `bson:"role" json:"role"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
