package health

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/dalemusser/devhub/internal/app/system/timeouts"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// PingFunc reports whether a backing service answers.
type PingFunc func(ctx context.Context) error

// MongoPing pings the primary.
func MongoPing(client *mongo.Client) PingFunc {
	return func(ctx context.Context) error {
		return client.Ping(ctx, readpref.Primary())
	}
}

// RedisPing sends PING.
func RedisPing(rdb redis.Cmdable) PingFunc {
	return func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	}
}

// Handler holds the probes used by the health check.
// A nil Database means profiles are kept in memory; a nil Cache means no
// handle cache is configured.
type Handler struct {
	Database PingFunc
	Cache    PingFunc
	Log      *zap.Logger
}

// NewHandler constructs a health Handler.
func NewHandler(database, cache PingFunc, logger *zap.Logger) *Handler {
	return &Handler{
		Database: database,
		Cache:    cache,
		Log:      logger,
	}
}

// healthResponse is the JSON structure for the health check response.
type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Cache    string `json:"cache"`
	Message  string `json:"message,omitempty"`
}

// Serve handles GET /health.
//
// On success: 200 and
//
//	{ "status":"ok", "database":"connected", "cache":"connected" }
//
// A failing cache only degrades the service (still 200):
//
//	{ "status":"degraded", "database":"connected", "cache":"disconnected" }
//
// On DB failure: 503 and
//
//	{ "status":"error", "database":"disconnected", "message":"Database unavailable" }
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	w.Header().Set("Content-Type", "application/json")

	resp := healthResponse{
		Status:   "ok",
		Database: "memory",
		Cache:    "disabled",
	}

	if h.Database != nil {
		if err := h.Database(ctx); err != nil {
			h.Log.Error("health-check: mongo ping failed", zap.Error(err))
			w.WriteHeader(http.StatusServiceUnavailable)
			resp.Status = "error"
			resp.Database = "disconnected"
			resp.Message = "Database unavailable"
			_ = json.NewEncoder(w).Encode(resp)
			return
		}
		resp.Database = "connected"
	}

	if h.Cache != nil {
		if err := h.Cache(ctx); err != nil {
			h.Log.Warn("health-check: redis ping failed", zap.Error(err))
			resp.Status = "degraded"
			resp.Cache = "disconnected"
		} else {
			resp.Cache = "connected"
		}
	}

	_ = json.NewEncoder(w).Encode(resp)
}
