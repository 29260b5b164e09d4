// Package profilecache is a read-through cache for public profile views
// looked up by handle.
//
// Entries are dropped whenever a profile changes, so a stale view can only be
// served for the window between a write and its invalidation.
package profilecache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/devhub/internal/domain/models"
	"github.com/redis/go-redis/v9"
)

// DefaultTTL bounds how long a view may live without being invalidated.
const DefaultTTL = 5 * time.Minute

const keyPrefix = "devhub:profile:handle:"

// Cache stores joined profile views keyed by handle.
type Cache interface {
	Get(ctx context.Context, handle string) (models.ProfileView, bool, error)
	Set(ctx context.Context, handle string, v models.ProfileView) error
	Invalidate(ctx context.Context, handles ...string) error
}

// Nop is the Cache used when no Redis is configured.
type Nop struct{}

var _ Cache = Nop{}

func (Nop) Get(context.Context, string) (models.ProfileView, bool, error) {
	return models.ProfileView{}, false, nil
}
func (Nop) Set(context.Context, string, models.ProfileView) error { return nil }
func (Nop) Invalidate(context.Context, ...string) error          { return nil }

// Connect opens a client and verifies the server answers.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("cannot connect to redis at %s: %w", addr, err)
	}
	return rdb, nil
}

// RedisCache is a Cache backed by Redis string keys holding JSON.
type RedisCache struct {
	rdb redis.Cmdable
	ttl time.Duration
}

var _ Cache = (*RedisCache)(nil)

func NewRedis(rdb redis.Cmdable, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisCache{rdb: rdb, ttl: ttl}
}

func key(handle string) string { return keyPrefix + handle }

func (c *RedisCache) Get(ctx context.Context, handle string) (models.ProfileView, bool, error) {
	raw, err := c.rdb.Get(ctx, key(handle)).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.ProfileView{}, false, nil
	}
	if err != nil {
		return models.ProfileView{}, false, err
	}
	var v models.ProfileView
	if err := json.Unmarshal(raw, &v); err != nil {
		// Unreadable entry: drop it and report a miss.
		_ = c.rdb.Del(ctx, key(handle)).Err()
		return models.ProfileView{}, false, nil
	}
	return v, true, nil
}

func (c *RedisCache) Set(ctx context.Context, handle string, v models.ProfileView) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key(handle), raw, c.ttl).Err()
}

func (c *RedisCache) Invalidate(ctx context.Context, handles ...string) error {
	keys := make([]string, 0, len(handles))
	for _, h := range handles {
		if h != "" {
			keys = append(keys, key(h))
		}
	}
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}
