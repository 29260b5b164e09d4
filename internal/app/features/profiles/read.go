// internal/app/features/profiles/read.go
package profiles

import (
	"errors"
	"net/http"
	"strings"

	apierrors "github.com/dalemusser/devhub/internal/app/features/errors"
	profilestore "github.com/dalemusser/devhub/internal/app/store/profiles"
	"github.com/dalemusser/devhub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Get renders the profile a loader attached to the request
// (GET /{id} and GET /me).
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	p, ok := FromContext(r.Context())
	if !ok {
		h.ErrLog.Write(w, r, errors.New("profiles: Get reached without a loaded profile"))
		return
	}
	h.writeView(w, r, http.StatusOK, p)
}

// GetByUser handles GET /user/{id}, where id is the owning user's id.
func (h *Handler) GetByUser(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithShort(r.Context())
	defer cancel()

	p, err := h.Store.GetByUser(ctx, objectIDParam(r, "id"))
	if errors.Is(err, profilestore.ErrNotFound) {
		h.ErrLog.Write(w, r, apierrors.NotFound(apierrors.CodeNotFound, msgNoProfileForYou))
		return
	}
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	h.writeView(w, r, http.StatusOK, p)
}

// GetByHandle handles GET /handle/{handle}. Views are served from the
// handle cache when present; a cache failure falls back to the store.
func (h *Handler) GetByHandle(w http.ResponseWriter, r *http.Request) {
	handle := strings.TrimSpace(chi.URLParam(r, "handle"))

	ctx, cancel := timeouts.WithShort(r.Context())
	defer cancel()

	cached, hit, err := h.Cache.Get(ctx, handle)
	if err != nil {
		h.Log.Warn("profile cache read failed", zap.String("handle", handle), zap.Error(err))
	}
	if hit {
		apierrors.JSON(w, http.StatusOK, cached)
		return
	}

	p, err := h.Store.GetByHandle(ctx, handle)
	if errors.Is(err, profilestore.ErrNotFound) {
		h.ErrLog.Write(w, r, apierrors.NotFound(apierrors.CodeNotFound, "There is no profile with this handle."))
		return
	}
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}

	v, err := h.view(ctx, p)
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	if err := h.Cache.Set(ctx, handle, v); err != nil {
		h.Log.Warn("profile cache write failed", zap.String("handle", handle), zap.Error(err))
	}
	apierrors.JSON(w, http.StatusOK, v)
}
