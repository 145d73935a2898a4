// internal/app/features/state/routes.go
package state

import "github.com/go-chi/chi/v5"

// Routes returns a subrouter for the state snapshot.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Serve) // mounted under /api/state
	return r
}
