// internal/app/features/subjects/routes.go
package subjects

import "github.com/go-chi/chi/v5"

// Routes returns a subrouter for the subject endpoints. The whole mount is
// admin-gated in bootstrap.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.HandleCreate) // mounted under /api/subjects
	r.Patch("/{id}", h.HandleUpdate)
	r.Delete("/{id}", h.HandleDelete)
	r.Post("/{id}/students", h.HandleAddStudent)
	r.Post("/{id}/students/batch", h.HandleBatchAddStudents)
	r.Delete("/{id}/students/{studentID}", h.HandleRemoveStudent)
	return r
}
