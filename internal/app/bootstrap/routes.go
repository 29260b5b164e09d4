// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	errorsfeature "github.com/dalemusser/devhub/internal/app/features/errors"
	healthfeature "github.com/dalemusser/devhub/internal/app/features/health"
	profilesfeature "github.com/dalemusser/devhub/internal/app/features/profiles"
	"github.com/dalemusser/devhub/internal/app/system/auth"
	"github.com/dalemusser/devhub/internal/app/system/ratelimit"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// the Startup hook have completed.
//
// The profile API is mounted twice: at /profiles and at /api/profiles for
// clients that still use the older prefix. Every error, including unknown
// routes and panics, is answered with a JSON body.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	errLog := errorsfeature.NewErrorLogger(logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(errLog.Recoverer)
	r.NotFound(errorsfeature.NotFoundHandler)
	r.MethodNotAllowed(errorsfeature.MethodNotAllowedHandler)

	// Health check endpoint for load balancers and orchestrators
	var dbPing, cachePing healthfeature.PingFunc
	if deps.MongoClient != nil {
		dbPing = healthfeature.MongoPing(deps.MongoClient)
	}
	if deps.Redis != nil {
		cachePing = healthfeature.RedisPing(deps.Redis)
	}
	r.Mount("/health", healthfeature.Routes(healthfeature.NewHandler(dbPing, cachePing, logger)))

	// Caller identity for everything below.
	r.Group(func(r chi.Router) {
		if appCfg.AuthMode == AuthDev {
			logger.Warn("dev auth mode: callers are taken from the X-Debug-Subject header")
			r.Use(auth.LoadDevUser(appCfg.DevSubject))
		} else {
			r.Use(auth.LoadUser(auth.NewJWTVerifier(appCfg.JWTSecret, appCfg.JWTIssuer), logger))
		}

		// Per-caller write limit; needs the caller, so it runs after auth.
		if appCfg.WriteRateLimit > 0 {
			r.Use(ratelimit.Writes(ratelimit.New(appCfg.WriteRateLimit, appCfg.WriteRateWindow)))
		}

		profilesHandler := profilesfeature.NewHandler(deps.Profiles, deps.Users, deps.Cache, deps.Events, errLog, logger)
		profilesHandler.ListSize = appCfg.ListSize
		profilesHandler.MaxPageSize = appCfg.MaxPageSize

		r.Mount("/profiles", profilesfeature.Routes(profilesHandler))
		r.Mount("/api/profiles", profilesfeature.Routes(profilesHandler))
	})

	return r, nil
}
