package testutil

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// EnvMongoURI overrides the MongoDB used by integration tests.
const EnvMongoURI = "DEVHUB_TEST_MONGO_URI"

const defaultMongoURI = "mongodb://localhost:27017"

// TestTimeout bounds a single test's database work.
const TestTimeout = 30 * time.Second

// TestContext returns a context with TestTimeout.
func TestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), TestTimeout)
}

// SetupTestDB connects to MongoDB and returns a uniquely named database that
// is dropped when the test finishes. The test is skipped when no server is
// reachable, so unit tests still run on machines without MongoDB.
func SetupTestDB(t *testing.T) *mongo.Database {
	t.Helper()

	uri := os.Getenv(EnvMongoURI)
	if uri == "" {
		uri = defaultMongoURI
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(2*time.Second))
	if err != nil {
		t.Skipf("MongoDB not available (%s): %v", uri, err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		t.Skipf("MongoDB not reachable (%s): %v", uri, err)
	}

	db := client.Database(testDBName(t))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})
	return db
}

// testDBName keeps names under Mongo's 64-byte database name limit.
func testDBName(t *testing.T) string {
	name := strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			return r
		}
		return '_'
	}, t.Name())
	if len(name) > 20 {
		name = name[:20]
	}
	return fmt.Sprintf("devhub_test_%s_%s", name, primitive.NewObjectID().Hex())
}
