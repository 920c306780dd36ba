// internal/app/store/memberships/membershipstore.go
package membershipstore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/taskhive/taskhive/internal/domain/models"
)

// Store owns the group_memberships collection, the single source of
// truth for which users belong to which groups. Neither User nor Group
// documents embed membership arrays, so the two directions of the
// relation can never diverge.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("group_memberships")}
}

var (
	// ErrDuplicateMembership is returned when the user already belongs to the group.
	ErrDuplicateMembership = errors.New("user is already a member of this group")
	errBadRole             = errors.New(`role must be "owner" or "member"`)
)

// Add creates a membership row. The unique (group_id, user_id) index
// makes this safe under concurrent adds: the loser gets
// ErrDuplicateMembership instead of writing a second row.
func (s *Store) Add(ctx context.Context, groupID, userID primitive.ObjectID, role string) error {
	if role != models.RoleOwner && role != models.RoleMember {
		return errBadRole
	}

	doc := models.GroupMembership{
		GroupID:   groupID,
		UserID:    userID,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, doc); err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateMembership
		}
		return err
	}
	return nil
}

// Remove deletes the membership row for (groupID, userID). Removing the
// owner is the caller's responsibility to forbid; this method only
// touches the relation. Returns the number of rows deleted (0 or 1).
func (s *Store) Remove(ctx context.Context, groupID, userID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"group_id": groupID, "user_id": userID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// Exists checks if a membership exists for the given group and user.
func (s *Store) Exists(ctx context.Context, groupID, userID primitive.ObjectID) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{"group_id": groupID, "user_id": userID}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// GroupIDsForUser returns the IDs of every group the user belongs to,
// in insertion order.
func (s *Store) GroupIDsForUser(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	cur, err := s.c.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var ids []primitive.ObjectID
	for cur.Next(ctx) {
		var m models.GroupMembership
		if err := cur.Decode(&m); err != nil {
			return nil, err
		}
		ids = append(ids, m.GroupID)
	}
	return ids, cur.Err()
}

// UserIDsForGroup returns the IDs of every member of the group, in
// insertion order (the owner first, since creation inserts it first).
func (s *Store) UserIDsForGroup(ctx context.Context, groupID primitive.ObjectID) ([]primitive.ObjectID, error) {
	cur, err := s.c.Find(ctx, bson.M{"group_id": groupID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var ids []primitive.ObjectID
	for cur.Next(ctx) {
		var m models.GroupMembership
		if err := cur.Decode(&m); err != nil {
			return nil, err
		}
		ids = append(ids, m.UserID)
	}
	return ids, cur.Err()
}

// CountByGroup returns the count of memberships for a group.
func (s *Store) CountByGroup(ctx context.Context, groupID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"group_id": groupID})
}

// DeleteByGroup removes all memberships for a group. Part of the
// group-deletion cascade. Returns the number of rows deleted.
func (s *Store) DeleteByGroup(ctx context.Context, groupID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"group_id": groupID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByUser removes all memberships for a user.
// Returns the number of rows deleted.
func (s *Store) DeleteByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
