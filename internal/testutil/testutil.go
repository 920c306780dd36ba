// Package testutil holds shared helpers for store and handler tests.
// Store tests run against a real MongoDB (pointed at by
// TASKHIVE_TEST_MONGO_URI, default localhost) and are skipped when no
// server is reachable, so `go test ./...` stays green on machines
// without Mongo.
package testutil

import (
	"context"
	"os"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/taskhive/taskhive/internal/app/system/indexes"
)

const defaultTestURI = "mongodb://localhost:27017"

// SetupTestDB connects to the test MongoDB and returns a database with a
// unique name, fully indexed, dropped again via t.Cleanup. The test is
// skipped if the server is unreachable.
func SetupTestDB(t *testing.T) *mongo.Database {
	t.Helper()

	uri := os.Getenv("TASKHIVE_TEST_MONGO_URI")
	if uri == "" {
		uri = defaultTestURI
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Skipf("mongo not available at %s: %v", uri, err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		t.Skipf("mongo not reachable at %s: %v", uri, err)
	}

	db := client.Database("taskhive_test_" + primitive.NewObjectID().Hex())

	// Tests exercise the same unique indexes production relies on.
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("failed to create indexes: %v", err)
	}

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})

	return db
}

// TestContext returns a context with a generous deadline for test
// database calls.
func TestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}
