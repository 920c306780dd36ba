package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/taskhive/taskhive/internal/app/features/auth"
	sysauth "github.com/taskhive/taskhive/internal/app/system/auth"
	userstore "github.com/taskhive/taskhive/internal/app/store/users"
	"github.com/taskhive/taskhive/internal/domain/models"
	"github.com/taskhive/taskhive/internal/testutil"
)

func newTestHandler(t *testing.T) (*auth.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	sm, err := sysauth.NewSessionManager("", "taskhive_test_session", "", false, logger)
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}
	handler := auth.NewHandler(db, sm, logger)
	fixtures := testutil.NewFixtures(t, db)
	return handler, fixtures
}

func TestHandleRegister_Success(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	req := testutil.NewAuthenticatedRequest("POST", "/api/auth/register", map[string]string{
		"name":     "Alice",
		"email":    "Alice@Test.com",
		"password": "correct horse battery",
	}, testutil.FakeUser("ignored", "ignored@test.com"))

	rec := httptest.NewRecorder()
	handler.HandleRegister(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}
	if len(rec.Result().Cookies()) == 0 {
		t.Errorf("expected a session cookie on register")
	}

	var u models.User
	testutil.DecodeJSON(t, rec, &u)
	if u.Email != "alice@test.com" {
		t.Errorf("expected normalized email, got %q", u.Email)
	}

	// Password hash never leaves the server.
	var raw map[string]any
	testutil.DecodeJSON(t, rec, &raw)
	if _, leaked := raw["password_hash"]; leaked {
		t.Errorf("response leaked password hash")
	}

	count, err := fixtures.DB().Collection("users").CountDocuments(ctx, bson.M{"email": "alice@test.com"})
	if err != nil {
		t.Fatalf("CountDocuments failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 user, got %d", count)
	}
}

func TestHandleRegister_DuplicateEmail(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateUser(ctx, "Alice", "alice@test.com")

	req := testutil.NewAuthenticatedRequest("POST", "/api/auth/register", map[string]string{
		"name":     "Impostor",
		"email":    "alice@test.com",
		"password": "also a password",
	}, testutil.FakeUser("ignored", "ignored@test.com"))

	rec := httptest.NewRecorder()
	handler.HandleRegister(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestHandleRegister_ShortPassword(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := testutil.NewAuthenticatedRequest("POST", "/api/auth/register", map[string]string{
		"name":     "Alice",
		"email":    "alice@test.com",
		"password": "short",
	}, testutil.FakeUser("ignored", "ignored@test.com"))

	rec := httptest.NewRecorder()
	handler.HandleRegister(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestHandleLogin_Success(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := userstore.New(fixtures.DB()).Create(ctx, "Alice", "alice@test.com", "correct horse battery"); err != nil {
		t.Fatalf("Create user failed: %v", err)
	}

	req := testutil.NewAuthenticatedRequest("POST", "/api/auth/login", map[string]string{
		"email":    "alice@test.com",
		"password": "correct horse battery",
	}, testutil.FakeUser("ignored", "ignored@test.com"))

	rec := httptest.NewRecorder()
	handler.HandleLogin(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}
	if len(rec.Result().Cookies()) == 0 {
		t.Errorf("expected a session cookie on login")
	}
}

func TestHandleLogin_BadPassword(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := userstore.New(fixtures.DB()).Create(ctx, "Alice", "alice@test.com", "correct horse battery"); err != nil {
		t.Fatalf("Create user failed: %v", err)
	}

	for _, creds := range []map[string]string{
		{"email": "alice@test.com", "password": "wrong"},
		{"email": "nobody@test.com", "password": "correct horse battery"},
	} {
		req := testutil.NewAuthenticatedRequest("POST", "/api/auth/login", creds,
			testutil.FakeUser("ignored", "ignored@test.com"))
		rec := httptest.NewRecorder()
		handler.HandleLogin(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("creds %v: expected status %d, got %d", creds, http.StatusUnauthorized, rec.Code)
		}
	}
}

func TestHandleProfile_IncludesGroups(t *testing.T) {
	handler, fixtures := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	alice := fixtures.CreateUser(ctx, "Alice", "alice@test.com")
	bob := fixtures.CreateUser(ctx, "Bob", "bob@test.com")
	owned := fixtures.CreateGroup(ctx, "Owned", alice.ID)
	joined := fixtures.CreateGroup(ctx, "Joined", bob.ID)
	fixtures.AddMember(ctx, joined.ID, alice.ID)

	req := testutil.NewAuthenticatedRequest("GET", "/api/auth/profile", nil, alice)
	rec := httptest.NewRecorder()
	handler.HandleProfile(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	var resp struct {
		models.User
		Groups []models.GroupRef `json:"groups"`
	}
	testutil.DecodeJSON(t, rec, &resp)
	if resp.ID != alice.ID {
		t.Errorf("expected user %v, got %v", alice.ID, resp.ID)
	}
	if len(resp.Groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(resp.Groups))
	}
	got := map[string]bool{}
	for _, g := range resp.Groups {
		got[g.Name] = true
	}
	if !got["Owned"] || !got["Joined"] {
		t.Errorf("expected groups Owned and Joined, got %v: owned=%v joined=%v", got, owned.ID, joined.ID)
	}
}

func TestHandleLogout(t *testing.T) {
	handler, _ := newTestHandler(t)

	req := httptest.NewRequest("POST", "/api/auth/logout", nil)
	rec := httptest.NewRecorder()
	handler.HandleLogout(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
}
