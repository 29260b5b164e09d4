// internal/app/features/profiles/handler.go
package profiles

import (
	apierrors "github.com/dalemusser/devhub/internal/app/features/errors"
	"github.com/dalemusser/devhub/internal/app/store/profilecache"
	profilestore "github.com/dalemusser/devhub/internal/app/store/profiles"
	userstore "github.com/dalemusser/devhub/internal/app/store/users"
	"github.com/dalemusser/devhub/internal/app/system/events"
	"github.com/dalemusser/devhub/internal/app/system/paging"
	"go.uber.org/zap"
)

// Handler owns all profile handlers and the guard middleware in front of them.
type Handler struct {
	Store  profilestore.Store
	Users  userstore.Lookup
	Cache  profilecache.Cache
	Events events.Publisher

	Log    *zap.Logger
	ErrLog *apierrors.ErrorLogger

	ListSize    int
	MaxPageSize int
}

// NewHandler constructs a Handler. A nil cache or publisher disables that concern.
func NewHandler(store profilestore.Store, users userstore.Lookup, cache profilecache.Cache, pub events.Publisher, errLog *apierrors.ErrorLogger, logger *zap.Logger) *Handler {
	if cache == nil {
		cache = profilecache.Nop{}
	}
	if pub == nil {
		pub = events.Nop{}
	}
	return &Handler{
		Store:       store,
		Users:       users,
		Cache:       cache,
		Events:      pub,
		Log:         logger,
		ErrLog:      errLog,
		ListSize:    paging.DefaultPageSize,
		MaxPageSize: paging.DefaultMaxPageSize,
	}
}
