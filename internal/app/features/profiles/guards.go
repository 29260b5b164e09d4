// internal/app/features/profiles/guards.go
package profiles

import (
	"context"
	"errors"
	"net/http"
	"strings"

	apierrors "github.com/dalemusser/devhub/internal/app/features/errors"
	profilestore "github.com/dalemusser/devhub/internal/app/store/profiles"
	"github.com/dalemusser/devhub/internal/app/system/auth"
	"github.com/dalemusser/devhub/internal/app/system/inputval"
	"github.com/dalemusser/devhub/internal/app/system/timeouts"
	"github.com/dalemusser/devhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	msgInvalidID       = "Invalid id."
	msgProfileNotFound = "The profile with the given id was not found."
	msgNoProfileForYou = "There is no profile for this user."
	msgNotAuthorized   = "User not authorized"
)

type ctxKey string

const profileKey ctxKey = "profile"

// withProfile attaches a loaded profile for later stages of the chain.
func withProfile(ctx context.Context, p models.Profile) context.Context {
	return context.WithValue(ctx, profileKey, p)
}

// FromContext returns the profile attached by LoadByID or LoadByCaller.
func FromContext(ctx context.Context) (models.Profile, bool) {
	p, ok := ctx.Value(profileKey).(models.Profile)
	return p, ok
}

// objectIDParam parses a URL param already checked by RequireObjectID.
func objectIDParam(r *http.Request, name string) primitive.ObjectID {
	oid, _ := primitive.ObjectIDFromHex(strings.TrimSpace(chi.URLParam(r, name)))
	return oid
}

// RequireObjectID rejects the request with 400 unless URL param name is a
// well-formed ObjectID. Nothing downstream runs on failure.
func (h *Handler) RequireObjectID(name string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !inputval.IsValidObjectID(chi.URLParam(r, name)) {
				h.ErrLog.Write(w, r, apierrors.BadRequest(apierrors.CodeInvalidID, msgInvalidID))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// LoadByID loads the profile whose _id is URL param name and attaches it to
// the request context. Missing profile is a 404.
func (h *Handler) LoadByID(name string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := timeouts.WithShort(r.Context())
			p, err := h.Store.GetByID(ctx, objectIDParam(r, name))
			cancel()
			if errors.Is(err, profilestore.ErrNotFound) {
				h.ErrLog.Write(w, r, apierrors.NotFound(apierrors.CodeNotFound, msgProfileNotFound))
				return
			}
			if err != nil {
				h.ErrLog.Write(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(withProfile(r.Context(), p)))
		})
	}
}

// LoadByCaller loads the signed-in caller's own profile and attaches it to
// the request context. Must run after auth.RequireSignedIn.
func (h *Handler) LoadByCaller(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, ok := auth.UserID(r)
		if !ok {
			h.ErrLog.Write(w, r, apierrors.Unauthorized(apierrors.CodeUnauthenticated, "authentication required"))
			return
		}
		ctx, cancel := timeouts.WithShort(r.Context())
		p, err := h.Store.GetByUser(ctx, caller)
		cancel()
		if errors.Is(err, profilestore.ErrNotFound) {
			h.ErrLog.Write(w, r, apierrors.NotFound(apierrors.CodeNotFound, msgNoProfileForYou))
			return
		}
		if err != nil {
			h.ErrLog.Write(w, r, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(withProfile(r.Context(), p)))
	})
}

// RequireOwner lets the request through only when the attached profile
// belongs to the caller. Any mismatch is a 401, whatever the body holds.
func (h *Handler) RequireOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, loaded := FromContext(r.Context())
		caller, signedIn := auth.UserID(r)
		if !loaded || !signedIn || p.User != caller {
			h.ErrLog.Write(w, r, apierrors.Unauthorized(apierrors.CodeNotAuthorized, msgNotAuthorized))
			return
		}
		next.ServeHTTP(w, r)
	})
}
