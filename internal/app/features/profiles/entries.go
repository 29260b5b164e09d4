// internal/app/features/profiles/entries.go
package profiles

import (
	"net/http"

	apierrors "github.com/dalemusser/devhub/internal/app/features/errors"
	"github.com/dalemusser/devhub/internal/app/system/events"
	"github.com/dalemusser/devhub/internal/app/system/timeouts"
	"github.com/dalemusser/devhub/internal/domain/models"
)

// Entry handlers run behind LoadByCaller and act on the caller's own profile.
// Each is a single store operator; all of them answer with the full
// updated profile view.

func (h *Handler) AppendExperience(w http.ResponseWriter, r *http.Request) {
	e, ok := h.decodeExperience(w, r)
	if !ok {
		return
	}
	h.mutateEntry(w, r, func(owner models.Profile) (models.Profile, error) {
		ctx, cancel := timeouts.WithMedium(r.Context())
		defer cancel()
		return h.Store.AppendExperience(ctx, owner.User, e)
	})
}

func (h *Handler) ReplaceExperience(w http.ResponseWriter, r *http.Request) {
	e, ok := h.decodeExperience(w, r)
	if !ok {
		return
	}
	entryID := objectIDParam(r, "entry")
	h.mutateEntry(w, r, func(owner models.Profile) (models.Profile, error) {
		ctx, cancel := timeouts.WithMedium(r.Context())
		defer cancel()
		return h.Store.ReplaceExperience(ctx, owner.User, entryID, e)
	})
}

// RemoveExperience is idempotent: an unknown entry id returns the profile unchanged.
func (h *Handler) RemoveExperience(w http.ResponseWriter, r *http.Request) {
	entryID := objectIDParam(r, "entry")
	h.mutateEntry(w, r, func(owner models.Profile) (models.Profile, error) {
		ctx, cancel := timeouts.WithMedium(r.Context())
		defer cancel()
		return h.Store.RemoveExperience(ctx, owner.User, entryID)
	})
}

func (h *Handler) AppendEducation(w http.ResponseWriter, r *http.Request) {
	e, ok := h.decodeEducation(w, r)
	if !ok {
		return
	}
	h.mutateEntry(w, r, func(owner models.Profile) (models.Profile, error) {
		ctx, cancel := timeouts.WithMedium(r.Context())
		defer cancel()
		return h.Store.AppendEducation(ctx, owner.User, e)
	})
}

func (h *Handler) ReplaceEducation(w http.ResponseWriter, r *http.Request) {
	e, ok := h.decodeEducation(w, r)
	if !ok {
		return
	}
	entryID := objectIDParam(r, "entry")
	h.mutateEntry(w, r, func(owner models.Profile) (models.Profile, error) {
		ctx, cancel := timeouts.WithMedium(r.Context())
		defer cancel()
		return h.Store.ReplaceEducation(ctx, owner.User, entryID, e)
	})
}

// RemoveEducation is idempotent: an unknown entry id returns the profile unchanged.
func (h *Handler) RemoveEducation(w http.ResponseWriter, r *http.Request) {
	entryID := objectIDParam(r, "entry")
	h.mutateEntry(w, r, func(owner models.Profile) (models.Profile, error) {
		ctx, cancel := timeouts.WithMedium(r.Context())
		defer cancel()
		return h.Store.RemoveEducation(ctx, owner.User, entryID)
	})
}

func (h *Handler) decodeExperience(w http.ResponseWriter, r *http.Request) (models.Experience, bool) {
	var in ExperienceInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.ErrLog.Write(w, r, err)
		return models.Experience{}, false
	}
	e, res := ValidateExperience(in)
	if res.HasErrors() {
		h.ErrLog.Write(w, r, apierrors.Validation(res))
		return models.Experience{}, false
	}
	return e, true
}

func (h *Handler) decodeEducation(w http.ResponseWriter, r *http.Request) (models.Education, bool) {
	var in EducationInput
	if err := decodeJSON(w, r, &in); err != nil {
		h.ErrLog.Write(w, r, err)
		return models.Education{}, false
	}
	e, res := ValidateEducation(in)
	if res.HasErrors() {
		h.ErrLog.Write(w, r, apierrors.Validation(res))
		return models.Education{}, false
	}
	return e, true
}

// mutateEntry runs op against the caller's loaded profile and renders the result.
func (h *Handler) mutateEntry(w http.ResponseWriter, r *http.Request, op func(owner models.Profile) (models.Profile, error)) {
	owner, _ := FromContext(r.Context())
	updated, err := op(owner)
	if err != nil {
		h.ErrLog.Write(w, r, storeErr(err))
		return
	}
	h.afterWrite(r, events.ProfileUpdated, updated)
	h.writeView(w, r, http.StatusOK, updated)
}
