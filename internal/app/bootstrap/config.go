// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"strings"

	"github.com/dalemusser/devhub/internal/app/store/profilecache"
	"github.com/dalemusser/devhub/internal/app/system/auth"
	"github.com/dalemusser/devhub/internal/app/system/events"
	"github.com/dalemusser/devhub/internal/app/system/inputval"
	"github.com/dalemusser/devhub/internal/app/system/limits"
	"github.com/dalemusser/devhub/internal/app/system/paging"
	"github.com/dalemusser/devhub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for devhub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, auth_mode, etc.
//   - Environment variables: DEVHUB_MONGO_URI, DEVHUB_AUTH_MODE, etc.
//   - Command-line flags: --mongo_uri, --auth_mode, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "devhub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},
	{Name: "store_backend", Default: BackendMongo, Desc: "Profile store: 'mongo' or 'memory'"},

	// Caller identity
	{Name: "auth_mode", Default: AuthJWT, Desc: "Caller identity: 'jwt' (Authorization: Bearer) or 'dev' (X-Debug-Subject header)"},
	{Name: "jwt_secret", Default: "", Desc: "HS256 secret used to verify bearer tokens (32+ chars)"},
	{Name: "jwt_issuer", Default: "", Desc: "Expected token issuer (blank skips the check)"},
	{Name: "dev_subject", Default: "", Desc: "Default caller user id in dev auth mode"},

	// Handle cache
	{Name: "redis_addr", Default: "", Desc: "Redis address for the handle cache (blank disables caching)"},
	{Name: "redis_password", Default: "", Desc: "Redis password"},
	{Name: "redis_db", Default: 0, Desc: "Redis database number"},
	{Name: "cache_ttl", Default: "5m", Desc: "How long a cached profile view lives (e.g., 5m, 30s)"},

	// Lifecycle events
	{Name: "kafka_brokers", Default: "", Desc: "Comma-separated Kafka brokers (blank disables events)"},
	{Name: "kafka_topic", Default: events.DefaultTopic, Desc: "Kafka topic for profile events"},

	// Listing
	{Name: "list_size", Default: paging.DefaultPageSize, Desc: "Profiles returned by GET /profiles"},
	{Name: "max_page_size", Default: paging.DefaultMaxPageSize, Desc: "Largest pageSize accepted by /profiles/paginate"},

	// Write rate limit
	{Name: "write_rate_limit", Default: limits.DefaultWritesPerWindow, Desc: "Writes allowed per caller per window (0 disables)"},
	{Name: "write_rate_window", Default: "1m", Desc: "Window for write_rate_limit (e.g., 1m, 30s)"},

	// Timeouts
	{Name: "timeout_ping", Default: "2s", Desc: "Health-check ping timeout"},
	{Name: "timeout_short", Default: "5s", Desc: "Timeout for single-document reads"},
	{Name: "timeout_medium", Default: "10s", Desc: "Timeout for writes and listings"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles .env files, config files,
// environment variables (WAFFLE_* for core, DEVHUB_* for app) and flags,
// merged with precedence flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "DEVHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),
		StoreBackend:     strings.ToLower(strings.TrimSpace(appValues.String("store_backend"))),

		AuthMode:   strings.ToLower(strings.TrimSpace(appValues.String("auth_mode"))),
		JWTSecret:  appValues.String("jwt_secret"),
		JWTIssuer:  appValues.String("jwt_issuer"),
		DevSubject: appValues.String("dev_subject"),

		RedisAddr:     appValues.String("redis_addr"),
		RedisPassword: appValues.String("redis_password"),
		RedisDB:       appValues.Int("redis_db"),
		CacheTTL:      appValues.Duration("cache_ttl", profilecache.DefaultTTL),

		KafkaBrokers: splitList(appValues.String("kafka_brokers")),
		KafkaTopic:   appValues.String("kafka_topic"),

		ListSize:    appValues.Int("list_size"),
		MaxPageSize: appValues.Int("max_page_size"),

		WriteRateLimit:  appValues.Int("write_rate_limit"),
		WriteRateWindow: appValues.Duration("write_rate_window", limits.DefaultWriteWindow),

		Timeouts: timeouts.Config{
			Ping:   appValues.Duration("timeout_ping", timeouts.DefaultPing),
			Short:  appValues.Duration("timeout_short", timeouts.DefaultShort),
			Medium: appValues.Duration("timeout_medium", timeouts.DefaultMedium),
		},
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	switch appCfg.StoreBackend {
	case BackendMongo:
		if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
			logger.Error("invalid MongoDB URI", zap.Error(err))
			return fmt.Errorf("invalid MongoDB URI: %w", err)
		}
		if strings.TrimSpace(appCfg.MongoDatabase) == "" {
			return fmt.Errorf("mongo_database is required")
		}
	case BackendMemory:
		if coreCfg != nil && coreCfg.Env == "prod" {
			return fmt.Errorf("store_backend=memory is not allowed in prod")
		}
	default:
		return fmt.Errorf("store_backend must be %q or %q, got %q", BackendMongo, BackendMemory, appCfg.StoreBackend)
	}

	switch appCfg.AuthMode {
	case AuthJWT:
		if len(appCfg.JWTSecret) < auth.MinSecretLen {
			return fmt.Errorf("jwt_secret must be at least %d characters in jwt auth mode", auth.MinSecretLen)
		}
	case AuthDev:
		if coreCfg != nil && coreCfg.Env == "prod" {
			return fmt.Errorf("auth_mode=dev is not allowed in prod")
		}
		if appCfg.DevSubject != "" && !inputval.IsValidObjectID(appCfg.DevSubject) {
			return fmt.Errorf("dev_subject must be a user id, got %q", appCfg.DevSubject)
		}
	default:
		return fmt.Errorf("auth_mode must be %q or %q, got %q", AuthJWT, AuthDev, appCfg.AuthMode)
	}

	if appCfg.ListSize < 1 {
		return fmt.Errorf("list_size must be positive, got %d", appCfg.ListSize)
	}
	if appCfg.MaxPageSize < appCfg.ListSize {
		return fmt.Errorf("max_page_size (%d) must be at least list_size (%d)", appCfg.MaxPageSize, appCfg.ListSize)
	}
	if appCfg.WriteRateLimit < 0 {
		return fmt.Errorf("write_rate_limit must not be negative, got %d", appCfg.WriteRateLimit)
	}
	if appCfg.WriteRateLimit > 0 && appCfg.WriteRateWindow <= 0 {
		return fmt.Errorf("write_rate_window must be positive when write_rate_limit is set")
	}
	if len(appCfg.KafkaBrokers) > 0 && strings.TrimSpace(appCfg.KafkaTopic) == "" {
		return fmt.Errorf("kafka_topic is required when kafka_brokers is set")
	}

	return nil
}

// splitList parses a comma-separated list, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
