package testutil

import (
	"context"
	"testing"

	"github.com/dalemusser/devhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
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

// CreateUser inserts a user record the way the account service would, with a
// password hash the profile service must never read back.
func (f *Fixtures) CreateUser(ctx context.Context, name, avatar string) models.UserPublic {
	f.t.Helper()

	u := models.UserPublic{ID: primitive.NewObjectID(), Name: name, Avatar: avatar}
	_, err := f.db.Collection("users").InsertOne(ctx, map[string]interface{}{
		"_id":      u.ID,
		"name":     u.Name,
		"avatar":   u.Avatar,
		"email":    name + "@test.com",
		"password": "$2a$10$not-a-real-hash",
	})
	if err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return u
}

// ValidProfile returns a profile payload that passes every rule, owned by user.
func ValidProfile(user primitive.ObjectID, handle string) models.Profile {
	return models.Profile{
		User:   user,
		Handle: handle,
		Status: models.StatusStudent,
		Skills: []string{"go", "mongodb"},
		Social: models.Social{Twitter: "https://twitter.com/" + handle},
	}
}
