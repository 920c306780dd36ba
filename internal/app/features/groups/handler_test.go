package groups_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/taskhive/taskhive/internal/app/features/groups"
	"github.com/taskhive/taskhive/internal/domain/models"
	"github.com/taskhive/taskhive/internal/testutil"
)

func newTestHandler(t *testing.T) (*groups.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	handler := groups.NewHandler(db, zap.NewNop())
	fixtures := testutil.NewFixtures(t, db)
	return handler, fixtures
}

func TestHandleCreateGroup_Success(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Alice", "alice@test.com")

	req := testutil.NewAuthenticatedRequest("POST", "/api/groups",
		map[string]string{"name": "Project X", "description": "Secret plans"}, owner)

	rec := httptest.NewRecorder()
	handler.HandleCreateGroup(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}

	var detail models.GroupDetail
	testutil.DecodeJSON(t, rec, &detail)
	if detail.Name != "Project X" {
		t.Errorf("expected name %q, got %q", "Project X", detail.Name)
	}
	if detail.Owner.ID != owner.ID {
		t.Errorf("expected owner %v, got %v", owner.ID, detail.Owner.ID)
	}
	if len(detail.Members) != 1 || detail.Members[0].ID != owner.ID {
		t.Errorf("expected owner as sole member, got %+v", detail.Members)
	}

	// Owner membership row exists with the owner role.
	count, err := fixtures.DB().Collection("group_memberships").CountDocuments(ctx, bson.M{
		"group_id": detail.ID,
		"user_id":  owner.ID,
		"role":     models.RoleOwner,
	})
	if err != nil {
		t.Fatalf("CountDocuments failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 owner membership row, got %d", count)
	}
}

func TestHandleCreateGroup_EmptyName(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Alice", "alice@test.com")

	req := testutil.NewAuthenticatedRequest("POST", "/api/groups",
		map[string]string{"name": "   ", "description": "no name"}, owner)

	rec := httptest.NewRecorder()
	handler.HandleCreateGroup(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestHandleListGroups_MemberOnly(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateUser(ctx, "Alice", "alice@test.com")
	bob := fixtures.CreateUser(ctx, "Bob", "bob@test.com")

	owned := fixtures.CreateGroup(ctx, "Owned", alice.ID)
	joined := fixtures.CreateGroup(ctx, "Joined", bob.ID)
	fixtures.AddMember(ctx, joined.ID, alice.ID)
	fixtures.CreateGroup(ctx, "Unrelated", bob.ID)

	req := testutil.NewAuthenticatedRequest("GET", "/api/groups", nil, alice)
	rec := httptest.NewRecorder()
	handler.HandleListGroups(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	var list []models.GroupDetail
	testutil.DecodeJSON(t, rec, &list)
	if len(list) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(list))
	}
	got := map[primitive.ObjectID]bool{}
	for _, g := range list {
		got[g.ID] = true
	}
	if !got[owned.ID] || !got[joined.ID] {
		t.Errorf("expected groups %v and %v, got %+v", owned.ID, joined.ID, list)
	}
}

func TestHandleGetGroup_NonMemberForbidden(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Alice", "alice@test.com")
	outsider := fixtures.CreateUser(ctx, "Mallory", "mallory@test.com")
	group := fixtures.CreateGroup(ctx, "Private Group", owner.ID)

	req := testutil.NewAuthenticatedRequest("GET", "/api/groups/"+group.ID.Hex(), nil, outsider)
	req = testutil.WithChiURLParam(req, "id", group.ID.Hex())

	rec := httptest.NewRecorder()
	handler.HandleGetGroup(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected status %d, got %d", http.StatusForbidden, rec.Code)
	}
}

func TestHandleGetGroup_NotFound(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := fixtures.CreateUser(ctx, "Alice", "alice@test.com")
	missing := primitive.NewObjectID()

	req := testutil.NewAuthenticatedRequest("GET", "/api/groups/"+missing.Hex(), nil, user)
	req = testutil.WithChiURLParam(req, "id", missing.Hex())

	rec := httptest.NewRecorder()
	handler.HandleGetGroup(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
}

func TestHandleUpdateGroup_NonOwnerForbidden(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Alice", "alice@test.com")
	member := fixtures.CreateUser(ctx, "Bob", "bob@test.com")
	group := fixtures.CreateGroup(ctx, "Team", owner.ID)
	fixtures.AddMember(ctx, group.ID, member.ID)

	req := testutil.NewAuthenticatedRequest("PUT", "/api/groups/"+group.ID.Hex(),
		map[string]string{"name": "Hijacked"}, member)
	req = testutil.WithChiURLParam(req, "id", group.ID.Hex())

	rec := httptest.NewRecorder()
	handler.HandleUpdateGroup(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected status %d, got %d", http.StatusForbidden, rec.Code)
	}
}

func TestHandleUpdateGroup_OwnerSuccess(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Alice", "alice@test.com")
	group := fixtures.CreateGroup(ctx, "Old Name", owner.ID)

	req := testutil.NewAuthenticatedRequest("PUT", "/api/groups/"+group.ID.Hex(),
		map[string]string{"name": "New Name"}, owner)
	req = testutil.WithChiURLParam(req, "id", group.ID.Hex())

	rec := httptest.NewRecorder()
	handler.HandleUpdateGroup(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	var detail models.GroupDetail
	testutil.DecodeJSON(t, rec, &detail)
	if detail.Name != "New Name" {
		t.Errorf("expected name %q, got %q", "New Name", detail.Name)
	}
	// Absent description keeps its prior value.
	if detail.Description != "Test group description" {
		t.Errorf("expected description unchanged, got %q", detail.Description)
	}
}

func TestHandleDeleteGroup_CascadesMembershipsAndTasks(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	db := fixtures.DB()
	owner := fixtures.CreateUser(ctx, "Alice", "alice@test.com")
	member := fixtures.CreateUser(ctx, "Bob", "bob@test.com")
	group := fixtures.CreateGroup(ctx, "Doomed", owner.ID)
	fixtures.AddMember(ctx, group.ID, member.ID)

	shared := fixtures.CreateTask(ctx, "Shared task", member.ID, models.AccessGroup, &group.ID)

	req := testutil.NewAuthenticatedRequest("DELETE", "/api/groups/"+group.ID.Hex(), nil, owner)
	req = testutil.WithChiURLParam(req, "id", group.ID.Hex())

	rec := httptest.NewRecorder()
	handler.HandleDeleteGroup(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	count, err := db.Collection("group_memberships").CountDocuments(ctx, bson.M{"group_id": group.ID})
	if err != nil {
		t.Fatalf("CountDocuments failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected 0 membership rows after delete, got %d", count)
	}

	// Tasks shared with the deleted group fall back to private.
	var task models.Task
	if err := db.Collection("tasks").FindOne(ctx, bson.M{"_id": shared.ID}).Decode(&task); err != nil {
		t.Fatalf("FindOne failed: %v", err)
	}
	if task.AccessLevel != models.AccessPrivate {
		t.Errorf("expected access level %q, got %q", models.AccessPrivate, task.AccessLevel)
	}
	if task.SharedWith != nil {
		t.Errorf("expected shared_with cleared, got %v", task.SharedWith)
	}
}

func TestHandleDeleteGroup_NonOwnerForbidden(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Alice", "alice@test.com")
	member := fixtures.CreateUser(ctx, "Bob", "bob@test.com")
	group := fixtures.CreateGroup(ctx, "Team", owner.ID)
	fixtures.AddMember(ctx, group.ID, member.ID)

	req := testutil.NewAuthenticatedRequest("DELETE", "/api/groups/"+group.ID.Hex(), nil, member)
	req = testutil.WithChiURLParam(req, "id", group.ID.Hex())

	rec := httptest.NewRecorder()
	handler.HandleDeleteGroup(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected status %d, got %d", http.StatusForbidden, rec.Code)
	}
}

func TestHandleAddMember_Success(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Alice", "alice@test.com")
	newcomer := fixtures.CreateUser(ctx, "Bob", "bob@test.com")
	group := fixtures.CreateGroup(ctx, "Team", owner.ID)

	req := testutil.NewAuthenticatedRequest("POST", "/api/groups/"+group.ID.Hex()+"/members",
		map[string]string{"email": "Bob@Test.com"}, owner)
	req = testutil.WithChiURLParam(req, "id", group.ID.Hex())

	rec := httptest.NewRecorder()
	handler.HandleAddMember(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	var detail models.GroupDetail
	testutil.DecodeJSON(t, rec, &detail)
	if len(detail.Members) != 2 {
		t.Errorf("expected 2 members, got %d", len(detail.Members))
	}

	count, err := fixtures.DB().Collection("group_memberships").CountDocuments(ctx, bson.M{
		"group_id": group.ID,
		"user_id":  newcomer.ID,
	})
	if err != nil {
		t.Fatalf("CountDocuments failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 membership row for new member, got %d", count)
	}
}

func TestHandleAddMember_Duplicate(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Alice", "alice@test.com")
	member := fixtures.CreateUser(ctx, "Bob", "bob@test.com")
	group := fixtures.CreateGroup(ctx, "Team", owner.ID)
	fixtures.AddMember(ctx, group.ID, member.ID)

	req := testutil.NewAuthenticatedRequest("POST", "/api/groups/"+group.ID.Hex()+"/members",
		map[string]string{"email": member.Email}, owner)
	req = testutil.WithChiURLParam(req, "id", group.ID.Hex())

	rec := httptest.NewRecorder()
	handler.HandleAddMember(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestHandleAddMember_UnknownEmail(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Alice", "alice@test.com")
	group := fixtures.CreateGroup(ctx, "Team", owner.ID)

	req := testutil.NewAuthenticatedRequest("POST", "/api/groups/"+group.ID.Hex()+"/members",
		map[string]string{"email": "nobody@test.com"}, owner)
	req = testutil.WithChiURLParam(req, "id", group.ID.Hex())

	rec := httptest.NewRecorder()
	handler.HandleAddMember(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
}

func TestHandleAddMember_NonOwnerForbidden(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Alice", "alice@test.com")
	member := fixtures.CreateUser(ctx, "Bob", "bob@test.com")
	other := fixtures.CreateUser(ctx, "Carol", "carol@test.com")
	group := fixtures.CreateGroup(ctx, "Team", owner.ID)
	fixtures.AddMember(ctx, group.ID, member.ID)

	req := testutil.NewAuthenticatedRequest("POST", "/api/groups/"+group.ID.Hex()+"/members",
		map[string]string{"email": other.Email}, member)
	req = testutil.WithChiURLParam(req, "id", group.ID.Hex())

	rec := httptest.NewRecorder()
	handler.HandleAddMember(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected status %d, got %d", http.StatusForbidden, rec.Code)
	}
}

func TestHandleRemoveMember_Success(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Alice", "alice@test.com")
	member := fixtures.CreateUser(ctx, "Bob", "bob@test.com")
	group := fixtures.CreateGroup(ctx, "Team", owner.ID)
	fixtures.AddMember(ctx, group.ID, member.ID)

	req := testutil.NewAuthenticatedRequest("DELETE",
		"/api/groups/"+group.ID.Hex()+"/members/"+member.ID.Hex(), nil, owner)
	req = testutil.WithChiURLParam(req, "id", group.ID.Hex())
	req = testutil.WithChiURLParam(req, "userID", member.ID.Hex())

	rec := httptest.NewRecorder()
	handler.HandleRemoveMember(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	count, err := fixtures.DB().Collection("group_memberships").CountDocuments(ctx, bson.M{
		"group_id": group.ID,
		"user_id":  member.ID,
	})
	if err != nil {
		t.Fatalf("CountDocuments failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected membership removed, found %d rows", count)
	}
}

func TestHandleRemoveMember_OwnerRejected(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Alice", "alice@test.com")
	group := fixtures.CreateGroup(ctx, "Team", owner.ID)

	req := testutil.NewAuthenticatedRequest("DELETE",
		"/api/groups/"+group.ID.Hex()+"/members/"+owner.ID.Hex(), nil, owner)
	req = testutil.WithChiURLParam(req, "id", group.ID.Hex())
	req = testutil.WithChiURLParam(req, "userID", owner.ID.Hex())

	rec := httptest.NewRecorder()
	handler.HandleRemoveMember(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
	var body struct {
		Message string `json:"message"`
	}
	testutil.DecodeJSON(t, rec, &body)
	if body.Message != "Cannot remove the group owner" {
		t.Errorf("unexpected message %q", body.Message)
	}
}

func TestHandleRemoveMember_NonMemberNoop(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Alice", "alice@test.com")
	stranger := fixtures.CreateUser(ctx, "Carol", "carol@test.com")
	group := fixtures.CreateGroup(ctx, "Team", owner.ID)

	req := testutil.NewAuthenticatedRequest("DELETE",
		"/api/groups/"+group.ID.Hex()+"/members/"+stranger.ID.Hex(), nil, owner)
	req = testutil.WithChiURLParam(req, "id", group.ID.Hex())
	req = testutil.WithChiURLParam(req, "userID", stranger.ID.Hex())

	rec := httptest.NewRecorder()
	handler.HandleRemoveMember(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
}
