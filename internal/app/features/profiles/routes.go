// internal/app/features/profiles/routes.go
package profiles

import (
	"github.com/dalemusser/devhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the profile API. Guards run left to right in each With().
//
//	GET    /                       list (newest first)
//	GET    /paginate               page of the list
//	GET    /me                     caller's profile
//	GET    /user/{id}              by owning user id
//	GET    /handle/{handle}        by handle
//	GET    /{id}                   by profile id
//	POST   /                       create
//	PUT    /{id}                   update (owner)
//	DELETE /{id}                   delete (owner)
//	PUT    /me/experience          append entry
//	PUT    /me/experience/{entry}  replace entry
//	DELETE /me/experience/{entry}  remove entry
//	(education mirrors experience)
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Get("/paginate", h.Paginate)
	r.With(h.RequireObjectID("id")).Get("/user/{id}", h.GetByUser)
	r.Get("/handle/{handle}", h.GetByHandle)
	r.With(h.RequireObjectID("id"), h.LoadByID("id")).Get("/{id}", h.Get)

	r.With(auth.RequireSignedIn).Post("/", h.Create)
	r.With(auth.RequireSignedIn, h.RequireObjectID("id"), h.LoadByID("id"), h.RequireOwner).Put("/{id}", h.Update)
	r.With(auth.RequireSignedIn, h.RequireObjectID("id"), h.LoadByID("id"), h.RequireOwner).Delete("/{id}", h.Delete)

	r.Route("/me", func(r chi.Router) {
		r.Use(auth.RequireSignedIn)

		r.With(h.LoadByCaller).Get("/", h.Get)

		r.With(h.LoadByCaller).Put("/experience", h.AppendExperience)
		r.With(h.RequireObjectID("entry"), h.LoadByCaller).Put("/experience/{entry}", h.ReplaceExperience)
		r.With(h.RequireObjectID("entry"), h.LoadByCaller).Delete("/experience/{entry}", h.RemoveExperience)

		r.With(h.LoadByCaller).Put("/education", h.AppendEducation)
		r.With(h.RequireObjectID("entry"), h.LoadByCaller).Put("/education/{entry}", h.ReplaceEducation)
		r.With(h.RequireObjectID("entry"), h.LoadByCaller).Delete("/education/{entry}", h.RemoveEducation)
	})

	return r
}
