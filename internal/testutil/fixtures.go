package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/taskhive/taskhive/internal/domain/models"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates a test user. The password hash is a placeholder;
// use the user store directly in tests that exercise credentials.
func (f *Fixtures) CreateUser(ctx context.Context, name, email string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:           primitive.NewObjectID(),
		Name:         name,
		NameCI:       text.Fold(name),
		Email:        email,
		PasswordHash: "$2a$10$test-placeholder-hash",
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateGroup creates a test group owned by ownerID, including the
// owner's membership row (owner is always a member).
func (f *Fixtures) CreateGroup(ctx context.Context, name string, ownerID primitive.ObjectID) models.Group {
	f.t.Helper()

	now := time.Now().UTC()
	group := models.Group{
		ID:          primitive.NewObjectID(),
		Name:        name,
		NameCI:      text.Fold(name),
		Description: "Test group description",
		OwnerID:     ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := f.db.Collection("groups").InsertOne(ctx, group); err != nil {
		f.t.Fatalf("failed to create test group: %v", err)
	}
	f.CreateMembership(ctx, group.ID, ownerID, models.RoleOwner)
	return group
}

// CreateMembership creates a membership row linking a user to a group.
func (f *Fixtures) CreateMembership(ctx context.Context, groupID, userID primitive.ObjectID, role string) models.GroupMembership {
	f.t.Helper()

	membership := models.GroupMembership{
		ID:        primitive.NewObjectID(),
		GroupID:   groupID,
		UserID:    userID,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}

	if _, err := f.db.Collection("group_memberships").InsertOne(ctx, membership); err != nil {
		f.t.Fatalf("failed to create test group membership: %v", err)
	}
	return membership
}

// AddMember creates a plain member row for a user in a group.
func (f *Fixtures) AddMember(ctx context.Context, groupID, userID primitive.ObjectID) models.GroupMembership {
	f.t.Helper()
	return f.CreateMembership(ctx, groupID, userID, models.RoleMember)
}

// CreateTask creates a test task. For group access supply sharedWith;
// for other levels pass nil.
func (f *Fixtures) CreateTask(ctx context.Context, title string, creatorID primitive.ObjectID, accessLevel string, sharedWith *primitive.ObjectID) models.Task {
	f.t.Helper()

	if accessLevel != models.AccessGroup {
		sharedWith = nil
	}
	now := time.Now().UTC()
	task := models.Task{
		ID:          primitive.NewObjectID(),
		Title:       title,
		Description: "Test task description",
		Tags:        []string{},
		Priority:    models.PriorityMedium,
		AccessLevel: accessLevel,
		SharedWith:  sharedWith,
		CreatedByID: creatorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := f.db.Collection("tasks").InsertOne(ctx, task); err != nil {
		f.t.Fatalf("failed to create test task: %v", err)
	}
	return task
}
