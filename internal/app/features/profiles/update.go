// internal/app/features/profiles/update.go
package profiles

import (
	"net/http"

	apierrors "github.com/dalemusser/devhub/internal/app/features/errors"
	"github.com/dalemusser/devhub/internal/app/system/auth"
	"github.com/dalemusser/devhub/internal/app/system/events"
	"github.com/dalemusser/devhub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// Update handles PUT /{id}. Only top-level fields are replaced; the entry
// lists are left alone. The store filters on {_id, user}, so a profile that
// changed hands or vanished since LoadByID comes back as 404.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	current, _ := FromContext(r.Context())
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

	updated, err := h.Store.Update(ctx, current.ID, caller, fields)
	if err != nil {
		h.ErrLog.Write(w, r, storeErr(err))
		return
	}

	h.Log.Info("profile updated",
		zap.String("profile_id", updated.ID.Hex()),
		zap.String("user_id", caller.Hex()))
	h.afterWrite(r, events.ProfileUpdated, updated, current.Handle)
	h.writeView(w, r, http.StatusOK, updated)
}
