// internal/app/features/profiles/list.go
package profiles

import (
	"net/http"

	apierrors "github.com/dalemusser/devhub/internal/app/features/errors"
	"github.com/dalemusser/devhub/internal/app/system/paging"
	"github.com/dalemusser/devhub/internal/app/system/timeouts"
)

// List handles GET /: the first page of public summaries, newest first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	h.writePage(w, r, paging.FirstPage(h.ListSize))
}

// Paginate handles GET /paginate?pageNumber=&pageSize=.
func (h *Handler) Paginate(w http.ResponseWriter, r *http.Request) {
	page, res := paging.Parse(r, h.ListSize, h.MaxPageSize)
	if res.HasErrors() {
		h.ErrLog.Write(w, r, apierrors.Validation(res))
		return
	}
	h.writePage(w, r, page)
}

func (h *Handler) writePage(w http.ResponseWriter, r *http.Request, page paging.Page) {
	ctx, cancel := timeouts.WithMedium(r.Context())
	defer cancel()

	items, err := h.Store.List(ctx, page.Skip(), page.Limit())
	if err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	if err := h.joinUsers(ctx, items); err != nil {
		h.ErrLog.Write(w, r, err)
		return
	}
	apierrors.JSON(w, http.StatusOK, items)
}
