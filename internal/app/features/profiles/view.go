// internal/app/features/profiles/view.go
package profiles

import (
	"context"
	"errors"
	"net/http"

	apierrors "github.com/dalemusser/devhub/internal/app/features/errors"
	profilestore "github.com/dalemusser/devhub/internal/app/store/profiles"
	userstore "github.com/dalemusser/devhub/internal/app/store/users"
	"github.com/dalemusser/devhub/internal/app/system/events"
	"github.com/dalemusser/devhub/internal/app/system/timeouts"
	"github.com/dalemusser/devhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	msgAlreadyExists = "Profile already exist."
	msgHandleTaken   = "That handle is already taken."
	msgEntryNotFound = "The entry with the given id was not found."
)

// view joins the owner's public fields onto p.
func (h *Handler) view(ctx context.Context, p models.Profile) (models.ProfileView, error) {
	u, err := userstore.Public(ctx, h.Users, p.User)
	if err != nil {
		return models.ProfileView{}, err
	}
	return models.ProfileView{Profile: p, User: u}, nil
}

// writeView renders p joined with its owner.
func (h *Handler) writeView(w http.ResponseWriter, r *http.Request, status int, p models.Profile) {
	ctx, cancel := timeouts.WithShort(r.Context())
	defer cancel()

	v, err := h.view(ctx, p)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	apierrors.JSON(w, status, v)
}

// joinUsers fills User on every summary with one users lookup.
func (h *Handler) joinUsers(ctx context.Context, items []models.ProfileSummary) error {
	if len(items) == 0 {
		return nil
	}
	seen := make(map[primitive.ObjectID]bool, len(items))
	ids := make([]primitive.ObjectID, 0, len(items))
	for _, it := range items {
		if !seen[it.UserID] {
			seen[it.UserID] = true
			ids = append(ids, it.UserID)
		}
	}
	users, err := h.Users.PublicByIDs(ctx, ids)
	if err != nil {
		return err
	}
	for i := range items {
		u, ok := users[items[i].UserID]
		if !ok {
			u = models.UserPublic{ID: items[i].UserID}
		}
		items[i].User = u
	}
	return nil
}

// storeErr translates store sentinels into client errors. Anything else is
// returned unchanged and ends up as an opaque 500.
func storeErr(err error) error {
	switch {
	case errors.Is(err, profilestore.ErrNotFound):
		return apierrors.NotFound(apierrors.CodeNotFound, msgProfileNotFound)
	case errors.Is(err, profilestore.ErrEntryNotFound):
		return apierrors.NotFound(apierrors.CodeEntryNotFound, msgEntryNotFound)
	case errors.Is(err, profilestore.ErrProfileExists):
		return apierrors.Forbidden(apierrors.CodeAlreadyExists, msgAlreadyExists)
	case errors.Is(err, profilestore.ErrDuplicateHandle):
		return apierrors.Conflict(apierrors.CodeHandleTaken, msgHandleTaken)
	}
	return err
}

// afterWrite drops cached views for p's handle (and any previous handle)
// and publishes t. Failures are logged; the write itself already succeeded.
func (h *Handler) afterWrite(r *http.Request, t events.Type, p models.Profile, staleHandles ...string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), timeouts.Short())
	defer cancel()

	handles := append([]string{p.Handle}, staleHandles...)
	if err := h.Cache.Invalidate(ctx, handles...); err != nil {
		h.Log.Warn("profile cache invalidate failed",
			zap.Strings("handles", handles), zap.Error(err))
	}
	if err := h.Events.Publish(ctx, events.New(t, p)); err != nil {
		h.Log.Warn("profile event publish failed",
			zap.String("type", string(t)),
			zap.String("profile_id", p.ID.Hex()),
			zap.Error(err))
	}
}
