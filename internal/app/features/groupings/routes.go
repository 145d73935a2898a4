// internal/app/features/groupings/routes.go
package groupings

import "github.com/go-chi/chi/v5"

// Routes returns a subrouter for the grouping endpoints. The whole mount
// is admin-gated in bootstrap.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.HandleCreate) // mounted under /api/groupings
	r.Delete("/{id}", h.HandleDelete)
	r.Post("/{id}/lock", h.HandleLock)
	r.Get("/{id}/history", h.HandleHistory)
	r.Get("/{id}/availability", h.HandleAvailability)
	return r
}
