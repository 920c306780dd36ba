package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/taskhive/taskhive/internal/app/system/auth"
	"github.com/taskhive/taskhive/internal/domain/models"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
// Calls chain: a route context already on the request is extended
// rather than replaced.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx, ok := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if !ok {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// WithUser adds a user to the request context for testing authenticated
// handlers, bypassing the session middleware.
func WithUser(r *http.Request, u models.User) *http.Request {
	return auth.WithTestUser(r, &auth.SessionUser{
		ID:    u.ID.Hex(),
		Name:  u.Name,
		Email: u.Email,
	})
}

// NewAuthenticatedRequest creates a JSON request with a user in context.
// body may be nil for body-less requests.
func NewAuthenticatedRequest(method, target string, body any, u models.User) *http.Request {
	var rd io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, rd)
	req.Header.Set("Content-Type", "application/json")
	return WithUser(req, u)
}

// FakeUser returns an in-memory user (not persisted) for requests that
// only need an authenticated identity.
func FakeUser(name, email string) models.User {
	return models.User{ID: primitive.NewObjectID(), Name: name, Email: email}
}

// DecodeJSON unmarshals a recorded response body into v.
func DecodeJSON(t interface{ Fatalf(string, ...any) }, rr *httptest.ResponseRecorder, v any) {
	if err := json.Unmarshal(rr.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to decode response body %q: %v", rr.Body.String(), err)
	}
}
