// Package userstore reads the public slice of user records.
//
// The users collection belongs to the account service; this package never
// writes to it and projects away everything except name and avatar.
package userstore

import (
	"context"
	"sync"

	"github.com/dalemusser/devhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CollectionName = "users"

// Lookup resolves user ids to their public fields. Ids with no user record
// are simply absent from the result.
type Lookup interface {
	PublicByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.UserPublic, error)
}

// Public returns the public fields for one id, or a bare UserPublic carrying
// only the id when no record exists.
func Public(ctx context.Context, l Lookup, id primitive.ObjectID) (models.UserPublic, error) {
	m, err := l.PublicByIDs(ctx, []primitive.ObjectID{id})
	if err != nil {
		return models.UserPublic{}, err
	}
	if u, ok := m[id]; ok {
		return u, nil
	}
	return models.UserPublic{ID: id}, nil
}

type Store struct {
	c *mongo.Collection
}

var _ Lookup = (*Store)(nil)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(CollectionName)}
}

func (s *Store) PublicByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.UserPublic, error) {
	out := make(map[primitive.ObjectID]models.UserPublic, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	opts := options.Find().SetProjection(bson.M{"_id": 1, "name": 1, "avatar": 1})
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var users []models.UserPublic
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}

// MemoryStore is a Lookup backed by a map, for local runs and tests.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[primitive.ObjectID]models.UserPublic
}

var _ Lookup = (*MemoryStore)(nil)

func NewMemory() *MemoryStore {
	return &MemoryStore{users: make(map[primitive.ObjectID]models.UserPublic)}
}

// Put adds or replaces a user.
func (m *MemoryStore) Put(u models.UserPublic) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = u
}

func (m *MemoryStore) PublicByIDs(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.UserPublic, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[primitive.ObjectID]models.UserPublic, len(ids))
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}
