package groupstore_test

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	groupstore "github.com/taskhive/taskhive/internal/app/store/groups"
	"github.com/taskhive/taskhive/internal/domain/models"
	"github.com/taskhive/taskhive/internal/testutil"
)

func strptr(s string) *string { return &s }

func TestCreate_WritesOwnerMembership(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := groupstore.New(db)
	ownerID := primitive.NewObjectID()

	g, err := store.Create(ctx, ownerID, "  Team  ", "desc")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if g.Name != "Team" {
		t.Errorf("expected trimmed name, got %q", g.Name)
	}
	if g.OwnerID != ownerID {
		t.Errorf("expected owner %v, got %v", ownerID, g.OwnerID)
	}

	var m models.GroupMembership
	err = db.Collection("group_memberships").
		FindOne(ctx, bson.M{"group_id": g.ID, "user_id": ownerID}).Decode(&m)
	if err != nil {
		t.Fatalf("owner membership row missing: %v", err)
	}
	if m.Role != models.RoleOwner {
		t.Errorf("expected role %q, got %q", models.RoleOwner, m.Role)
	}
}

func TestCreate_EmptyName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := groupstore.New(db)
	_, err := store.Create(ctx, primitive.NewObjectID(), "   ", "desc")
	if !errors.Is(err, groupstore.ErrNameRequired) {
		t.Errorf("expected ErrNameRequired, got %v", err)
	}
}

func TestUpdateInfoByOwner(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := groupstore.New(db)
	ownerID := primitive.NewObjectID()
	otherID := primitive.NewObjectID()

	g, err := store.Create(ctx, ownerID, "Team", "old desc")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Non-owner gets ErrNotOwner, not a silent no-op.
	if _, err := store.UpdateInfoByOwner(ctx, g.ID, otherID, strptr("Hijacked"), nil); !errors.Is(err, groupstore.ErrNotOwner) {
		t.Errorf("expected ErrNotOwner, got %v", err)
	}

	// Missing group gets ErrNoDocuments.
	if _, err := store.UpdateInfoByOwner(ctx, primitive.NewObjectID(), ownerID, strptr("X"), nil); err != mongo.ErrNoDocuments {
		t.Errorf("expected ErrNoDocuments, got %v", err)
	}

	// Owner patch applies; nil description keeps the old value.
	updated, err := store.UpdateInfoByOwner(ctx, g.ID, ownerID, strptr("Renamed"), nil)
	if err != nil {
		t.Fatalf("UpdateInfoByOwner failed: %v", err)
	}
	if updated.Name != "Renamed" {
		t.Errorf("expected name %q, got %q", "Renamed", updated.Name)
	}
	if updated.Description != "old desc" {
		t.Errorf("expected description unchanged, got %q", updated.Description)
	}

	// Empty name patch is rejected.
	if _, err := store.UpdateInfoByOwner(ctx, g.ID, ownerID, strptr("  "), nil); !errors.Is(err, groupstore.ErrNameRequired) {
		t.Errorf("expected ErrNameRequired, got %v", err)
	}
}

func TestDeleteByOwner(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := groupstore.New(db)
	ownerID := primitive.NewObjectID()
	otherID := primitive.NewObjectID()

	g, err := store.Create(ctx, ownerID, "Team", "")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := store.DeleteByOwner(ctx, g.ID, otherID); !errors.Is(err, groupstore.ErrNotOwner) {
		t.Errorf("expected ErrNotOwner, got %v", err)
	}
	if err := store.DeleteByOwner(ctx, g.ID, ownerID); err != nil {
		t.Fatalf("DeleteByOwner failed: %v", err)
	}
	if err := store.DeleteByOwner(ctx, g.ID, ownerID); err != mongo.ErrNoDocuments {
		t.Errorf("expected ErrNoDocuments after delete, got %v", err)
	}
}

func TestByIDs_OrderAndMissing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := groupstore.New(db)
	ownerID := primitive.NewObjectID()

	a, _ := store.Create(ctx, ownerID, "A", "")
	b, _ := store.Create(ctx, ownerID, "B", "")
	missing := primitive.NewObjectID()

	got, err := store.ByIDs(ctx, []primitive.ObjectID{b.ID, missing, a.ID})
	if err != nil {
		t.Fatalf("ByIDs failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(got))
	}
	if got[0].ID != b.ID || got[1].ID != a.ID {
		t.Errorf("expected order [B A], got [%s %s]", got[0].Name, got[1].Name)
	}
}
