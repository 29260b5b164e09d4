// internal/app/features/profiles/delete.go
package profiles

import (
	"net/http"

	apierrors "github.com/dalemusser/devhub/internal/app/features/errors"
	"github.com/dalemusser/devhub/internal/app/system/auth"
	"github.com/dalemusser/devhub/internal/app/system/events"
	"github.com/dalemusser/devhub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

type deleteResponse struct {
	ID string `json:"id"`
}

// Delete handles DELETE /{id} and returns the removed profile's id.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	p, _ := FromContext(r.Context())
	caller, _ := auth.UserID(r)

	ctx, cancel := timeouts.WithMedium(r.Context())
	defer cancel()

	if err := h.Store.Delete(ctx, p.ID, caller); err != nil {
		h.ErrLog.Write(w, r, storeErr(err))
		return
	}

	h.Log.Info("profile deleted",
		zap.String("profile_id", p.ID.Hex()),
		zap.String("user_id", caller.Hex()))
	h.afterWrite(r, events.ProfileDeleted, p)
	apierrors.JSON(w, http.StatusOK, deleteResponse{ID: p.ID.Hex()})
}
