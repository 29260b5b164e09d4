// internal/app/features/profiles/create.go
package profiles

import (
	"errors"
	"net/http"

	apierrors "github.com/dalemusser/devhub/internal/app/features/errors"
	profilestore "github.com/dalemusser/devhub/internal/app/store/profiles"
	"github.com/dalemusser/devhub/internal/app/system/auth"
	"github.com/dalemusser/devhub/internal/app/system/events"
	"github.com/dalemusser/devhub/internal/app/system/timeouts"
	"github.com/dalemusser/devhub/internal/domain/models"
	"go.uber.org/zap"
)

// Create handles POST /. The caller may own at most one profile; the
// inline check gives the common case a clean 403 and the unique index on
// user settles concurrent creates.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	caller, _ := auth.UserID(r)

	var in ProfileInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	fields, res := ValidateProfile(in)
	if res.HasErrors() {
		h.ErrLog.Write(w, r, apierrors.Validation(res))
		return
	}

	ctx, cancel := timeouts.WithMedium(r.Context())
	defer cancel()

	_, err := h.Store.GetByUser(ctx, caller)
	switch {
	case err == nil:
		h.ErrLog.Write(w, r, storeErr(profilestore.ErrProfileExists))
		return
	case !errors.Is(err, profilestore.ErrNotFound):
		h.ErrLog.Write(w, r, err)
		return
	}

	p := models.Profile{User: caller}
	fields.Apply(&p)
	created, err := h.Store.Create(ctx, p)
	if err != nil {
		h.ErrLog.Write(w, r, storeErr(err))
		return
	}

	h.Log.Info("profile created",
		zap.String("profile_id", created.ID.Hex()),
		zap.String("user_id", caller.Hex()),
		zap.String("handle", created.Handle))
	h.afterWrite(r, events.ProfileCreated, created)
	h.writeView(w, r, http.StatusCreated, created)
}
