// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/devhub/internal/app/store/profilecache"
	profilestore "github.com/dalemusser/devhub/internal/app/store/profiles"
	userstore "github.com/dalemusser/devhub/internal/app/store/users"
	"github.com/dalemusser/devhub/internal/app/system/events"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds the back-end dependencies built once in ConnectDB and
// released in Shutdown. The Mongo fields are nil with the memory backend;
// Redis is nil when no cache is configured.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	Profiles profilestore.Store
	Users    userstore.Lookup

	Redis  *redis.Client
	Cache  profilecache.Cache
	Events events.Publisher
}
