// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/dalemusser/devhub/internal/app/store/profilecache"
	profilestore "github.com/dalemusser/devhub/internal/app/store/profiles"
	userstore "github.com/dalemusser/devhub/internal/app/store/users"
	"github.com/dalemusser/devhub/internal/app/system/events"
	"github.com/dalemusser/devhub/internal/app/system/indexes"
	"github.com/dalemusser/devhub/internal/app/system/validators"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// connectTimeout bounds each backend's initial connect and ping.
const connectTimeout = 10 * time.Second

// ConnectDB builds the profile store, user lookup, handle cache and event
// publisher. Anything that fails to connect aborts startup; backends opened
// before the failure are closed again.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	var deps DBDeps

	switch appCfg.StoreBackend {
	case BackendMemory:
		logger.Warn("using in-memory profile store; data is lost on restart")
		deps.Profiles = profilestore.NewMemory()
		deps.Users = userstore.NewMemory()
	default:
		client, err := connectMongo(ctx, appCfg)
		if err != nil {
			logger.Error("mongo connect failed", zap.Error(err))
			return DBDeps{}, err
		}
		db := client.Database(appCfg.MongoDatabase)
		deps.MongoClient = client
		deps.MongoDatabase = db
		deps.Profiles = profilestore.NewMongo(db)
		deps.Users = userstore.New(db)
		logger.Info("connected to MongoDB", zap.String("database", appCfg.MongoDatabase))
	}

	deps.Cache = profilecache.Nop{}
	if appCfg.RedisAddr != "" {
		cctx, cancel := context.WithTimeout(ctx, connectTimeout)
		rdb, err := profilecache.Connect(cctx, appCfg.RedisAddr, appCfg.RedisPassword, appCfg.RedisDB)
		cancel()
		if err != nil {
			logger.Error("redis connect failed", zap.String("addr", appCfg.RedisAddr), zap.Error(err))
			_ = Shutdown(ctx, coreCfg, appCfg, deps, logger)
			return DBDeps{}, err
		}
		deps.Redis = rdb
		deps.Cache = profilecache.NewRedis(rdb, appCfg.CacheTTL)
		logger.Info("profile handle cache enabled",
			zap.String("addr", appCfg.RedisAddr),
			zap.Duration("ttl", appCfg.CacheTTL))
	}

	deps.Events = events.Nop{}
	if len(appCfg.KafkaBrokers) > 0 {
		deps.Events = events.NewKafka(appCfg.KafkaBrokers, appCfg.KafkaTopic, logger)
		logger.Info("profile events enabled",
			zap.Strings("brokers", appCfg.KafkaBrokers),
			zap.String("topic", appCfg.KafkaTopic))
	}

	return deps, nil
}

func connectMongo(ctx context.Context, appCfg AppConfig) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	opts := options.Client().ApplyURI(appCfg.MongoURI)
	if appCfg.MongoMaxPoolSize > 0 {
		opts.SetMaxPoolSize(appCfg.MongoMaxPoolSize)
	}
	if appCfg.MongoMinPoolSize > 0 {
		opts.SetMinPoolSize(appCfg.MongoMinPoolSize)
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}

// EnsureSchema reconciles indexes and collection validators. The unique
// indexes on user and handle are what make one-profile-per-user and
// handle uniqueness hold under concurrent writes. Nothing to do for the
// memory backend.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if deps.MongoDatabase == nil {
		return nil
	}
	if err := indexes.EnsureAll(ctx, deps.MongoDatabase); err != nil {
		logger.Error("ensure indexes failed", zap.Error(err))
		return fmt.Errorf("ensure indexes: %w", err)
	}
	if err := validators.EnsureAll(ctx, deps.MongoDatabase); err != nil {
		logger.Error("ensure collection validators failed", zap.Error(err))
		return fmt.Errorf("ensure validators: %w", err)
	}
	return nil
}
