// internal/domain/models/group.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Group is a collection of users that tasks can be shared with.
//
// NOTE:
//   - Member lists are not embedded on Group. All membership lives in
//     the group_memberships collection; the owner always has a
//     membership row there as well, so owner ∈ members holds at every
//     observable state.
//   - OwnerID is authoritative for ownership checks. The owner's
//     membership row carries role "owner" for listing purposes only.
type Group struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Name        string             `bson:"name" json:"name"`
	NameCI      string             `bson:"name_ci" json:"-"`
	Description string             `bson:"description" json:"description"`
	OwnerID     primitive.ObjectID `bson:"owner_id" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// GroupRef is the resolved reference shape returned inside tasks (sharedWith).
type GroupRef struct {
	ID   primitive.ObjectID `bson:"_id" json:"_id"`
	Name string             `bson:"name" json:"name"`
}

// Ref returns the reference shape for this group.
func (g Group) Ref() GroupRef {
	return GroupRef{ID: g.ID, Name: g.Name}
}

// GroupDetail is a group with its owner and members resolved for display.
type GroupDetail struct {
	Group
	Owner   UserRef   `json:"owner"`
	Members []UserRef `json:"members,omitempty"`
}
