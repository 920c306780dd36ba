// internal/app/store/groups/groupstore.go
package groupstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/taskhive/taskhive/internal/app/system/normalize"
	"github.com/taskhive/taskhive/internal/domain/models"
)

// Store owns the groups collection. Creation also writes the owner's
// membership row so that owner ∈ members from the first observable
// state; owner-only mutations are expressed as conditional updates with
// the owner in the filter, never as separate read-then-write steps.
type Store struct {
	c           *mongo.Collection
	memberships *mongo.Collection
}

var (
	// ErrNameRequired is returned when the group name is empty after trimming.
	ErrNameRequired = errors.New("group name is required")
	// ErrNotOwner is returned when a mutation is attempted by a member who
	// does not own the group.
	ErrNotOwner = errors.New("only the group owner may modify this group")
)

func New(db *mongo.Database) *Store {
	return &Store{
		c:           db.Collection("groups"),
		memberships: db.Collection("group_memberships"),
	}
}

// GetByID loads a group by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Group, error) {
	var g models.Group
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&g); err != nil {
		return models.Group{}, err
	}
	return g, nil
}

// Create inserts a new group owned by ownerID and the owner's membership
// row. The returned group's membership set is exactly {ownerID}.
func (s *Store) Create(ctx context.Context, ownerID primitive.ObjectID, name, description string) (models.Group, error) {
	name = normalize.Name(name)
	if name == "" {
		return models.Group{}, ErrNameRequired
	}

	now := time.Now().UTC()
	g := models.Group{
		ID:          primitive.NewObjectID(),
		Name:        name,
		NameCI:      text.Fold(name),
		Description: description,
		OwnerID:     ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := s.c.InsertOne(ctx, g); err != nil {
		return models.Group{}, err
	}

	// Owner is automatically a member.
	m := models.GroupMembership{
		GroupID:   g.ID,
		UserID:    ownerID,
		Role:      models.RoleOwner,
		CreatedAt: now,
	}
	if _, err := s.memberships.InsertOne(ctx, m); err != nil {
		// Roll the group back rather than leave one without its owner row.
		_, _ = s.c.DeleteOne(ctx, bson.M{"_id": g.ID})
		return models.Group{}, err
	}
	return g, nil
}

// ByIDs loads the groups with the given IDs. Order follows ids; IDs that
// no longer resolve are skipped.
func (s *Store) ByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Group, error) {
	if len(ids) == 0 {
		return []models.Group{}, nil
	}

	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	byID := make(map[primitive.ObjectID]models.Group, len(ids))
	for cur.Next(ctx) {
		var g models.Group
		if err := cur.Decode(&g); err != nil {
			return nil, err
		}
		byID[g.ID] = g
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}

	out := make([]models.Group, 0, len(byID))
	for _, id := range ids {
		if g, ok := byID[id]; ok {
			out = append(out, g)
		}
	}
	return out, nil
}

// UpdateInfoByOwner applies a name/description patch in a single
// conditional update: the owner check lives in the filter, so a
// concurrent ownership change can never be lost between a read and a
// write. Nil patch fields keep their current values.
//
// Returns mongo.ErrNoDocuments if the group does not exist and
// ErrNotOwner if it exists but requester is not the owner.
func (s *Store) UpdateInfoByOwner(ctx context.Context, id, ownerID primitive.ObjectID, name, description *string) (models.Group, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if name != nil {
		trimmed := normalize.Name(*name)
		if trimmed == "" {
			return models.Group{}, ErrNameRequired
		}
		set["name"] = trimmed
		set["name_ci"] = text.Fold(trimmed)
	}
	// Description can be cleared (set to empty).
	if description != nil {
		set["description"] = *description
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id, "owner_id": ownerID}, bson.M{"$set": set})
	if err != nil {
		return models.Group{}, err
	}
	if res.MatchedCount == 0 {
		return models.Group{}, s.missingOrNotOwner(ctx, id)
	}
	return s.GetByID(ctx, id)
}

// DeleteByOwner removes the group if requester owns it. Membership and
// task cleanup is orchestrated by the caller; this method only deletes
// the group document itself.
//
// Returns mongo.ErrNoDocuments if the group does not exist and
// ErrNotOwner if it exists but requester is not the owner.
func (s *Store) DeleteByOwner(ctx context.Context, id, ownerID primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id, "owner_id": ownerID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return s.missingOrNotOwner(ctx, id)
	}
	return nil
}

// missingOrNotOwner disambiguates a zero-match conditional write:
// the group is either gone (NotFound) or owned by someone else
// (Forbidden).
func (s *Store) missingOrNotOwner(ctx context.Context, id primitive.ObjectID) error {
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Err()
	if err == nil {
		return ErrNotOwner
	}
	return err // mongo.ErrNoDocuments or a real fault
}
