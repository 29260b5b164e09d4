// internal/app/bootstrap/appconfig.go
package bootstrap

import (
	"time"

	"github.com/dalemusser/devhub/internal/app/system/timeouts"
)

// Store backends.
const (
	BackendMongo  = "mongo"
	BackendMemory = "memory"
)

// Auth modes.
const (
	AuthJWT = "jwt"
	AuthDev = "dev"
)

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables (DEVHUB_*), configuration
// files, or command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig
// covers ports, TLS, log level and the like; everything specific to the
// profile service lives here.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// StoreBackend selects where profiles live: "mongo" or "memory".
	// The memory backend is for local runs and demos only.
	StoreBackend string

	// Caller identity
	AuthMode   string // "jwt" (bearer tokens) or "dev" (X-Debug-Subject header)
	JWTSecret  string // HS256 secret shared with the token issuer
	JWTIssuer  string // expected "iss" claim (blank skips the check)
	DevSubject string // default caller in dev mode (blank means anonymous)

	// Handle cache (disabled when RedisAddr is blank)
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	// Lifecycle events (disabled when KafkaBrokers is empty)
	KafkaBrokers []string
	KafkaTopic   string

	// Listing
	ListSize    int // summaries returned by GET /profiles
	MaxPageSize int // largest pageSize accepted by /profiles/paginate

	// Write rate limit per caller (0 disables)
	WriteRateLimit  int
	WriteRateWindow time.Duration

	// Per-operation store timeouts
	Timeouts timeouts.Config
}
