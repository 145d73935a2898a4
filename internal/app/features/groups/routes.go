// internal/app/features/groups/routes.go
package groups

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns a subrouter for the group endpoints. Join and member
// removal stay open (the grouping lock is enforced in the service); the
// admin routes take the gate passed in from bootstrap.
func Routes(h *Handler, requireAdmin func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	// mounted under /api/groups
	r.Post("/{id}/join", h.HandleJoin)
	r.Post("/{id}/members/remove", h.HandleRemoveMember)

	r.Group(func(r chi.Router) {
		r.Use(requireAdmin)
		r.Post("/", h.HandleCreate)
		r.Patch("/{id}", h.HandleUpdate)
		r.Delete("/{id}", h.HandleDelete)
		r.Post("/{id}/members/batch", h.HandleBatchJoin)
		r.Post("/{id}/representative", h.HandleSetRepresentative)
	})
	return r
}
