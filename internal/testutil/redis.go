package testutil

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// EnvRedisAddr overrides the Redis used by integration tests.
const EnvRedisAddr = "DEVHUB_TEST_REDIS_ADDR"

// SetupTestRedis returns a client for a local Redis, skipping the test when
// none answers. Tests should use unique keys; the database is not flushed.
func SetupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	addr := os.Getenv(EnvRedisAddr)
	if addr == "" {
		addr = "localhost:6379"
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr, DialTimeout: time.Second})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		t.Skipf("Redis not reachable (%s): %v", addr, err)
	}
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}
