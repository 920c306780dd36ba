// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an account that can own groups and tasks.
//
// NOTE:
//   - Group membership is not embedded on User. The group_memberships
//     collection is the single source of truth for which groups a user
//     belongs to; derive the list from there.
//   - PasswordHash is never serialized to JSON.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	NameCI       string             `bson:"name_ci" json:"-"` // lowercase, diacritics-stripped
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password_hash,omitempty" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// UserRef is the resolved reference shape returned inside groups and tasks
// (owner, members, createdBy).
type UserRef struct {
	ID    primitive.ObjectID `bson:"_id" json:"_id"`
	Name  string             `bson:"name" json:"name"`
	Email string             `bson:"email" json:"email"`
}

// Ref returns the reference shape for this user.
func (u User) Ref() UserRef {
	return UserRef{ID: u.ID, Name: u.Name, Email: u.Email}
}
