// internal/app/features/subjects/handler.go
package subjects

import (
	"net/http"
	"strings"

	"github.com/dalemusser/grouphub/internal/app/enroll"
	uierrors "github.com/dalemusser/grouphub/internal/app/features/errors"
	"github.com/dalemusser/grouphub/internal/app/features/shared"
	"github.com/dalemusser/grouphub/internal/app/system/csvutil"
	"go.uber.org/zap"
)

// Handler serves the admin subject and roster endpoints.
type Handler struct {
	Log    *zap.Logger
	Svc    *enroll.Service
	ErrLog *uierrors.ErrorLogger
}

func NewHandler(svc *enroll.Service, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Log:    logger,
		Svc:    svc,
		ErrLog: errLog,
	}
}

type subjectRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

// HandleCreate handles POST /api/subjects.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req subjectRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "create subject: parse body failed", err, "Invalid request body.")
		return
	}

	created, err := h.Svc.CreateSubject(r.Context(), req.Name, req.Color, req.Icon)
	if err != nil {
		shared.ServiceError(w, r, h.ErrLog, "create subject", err)
		return
	}
	uierrors.WriteJSON(w, http.StatusCreated, created)
}

// HandleUpdate handles PATCH /api/subjects/{id}. Empty fields keep their
// current values.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := shared.URLObjectID(r, "id")
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "update subject: bad id", err, "Invalid subject id.")
		return
	}
	var req subjectRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "update subject: parse body failed", err, "Invalid request body.")
		return
	}

	updated, err := h.Svc.UpdateSubject(r.Context(), id, req.Name, req.Color, req.Icon)
	if err != nil {
		shared.ServiceError(w, r, h.ErrLog, "update subject", err)
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, updated)
}

// HandleDelete handles DELETE /api/subjects/{id}. Everything under the
// subject goes with it; history is retained.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := shared.URLObjectID(r, "id")
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "delete subject: bad id", err, "Invalid subject id.")
		return
	}
	if err := h.Svc.DeleteSubject(r.Context(), id); err != nil {
		shared.ServiceError(w, r, h.ErrLog, "delete subject", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Roster                                                                       |
*─────────────────────────────────────────────────────────────────────────────*/

type studentRequest struct {
	Name string `json:"name"`
}

// HandleAddStudent handles POST /api/subjects/{id}/students.
func (h *Handler) HandleAddStudent(w http.ResponseWriter, r *http.Request) {
	id, err := shared.URLObjectID(r, "id")
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "add student: bad id", err, "Invalid subject id.")
		return
	}
	var req studentRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "add student: parse body failed", err, "Invalid request body.")
		return
	}

	created, err := h.Svc.AddStudent(r.Context(), id, req.Name)
	if err != nil {
		shared.ServiceError(w, r, h.ErrLog, "add student", err)
		return
	}
	uierrors.WriteJSON(w, http.StatusCreated, created)
}

// batchStudentsRequest accepts either pre-split names or raw pasted text
// (newline-separated, tolerating a spreadsheet CSV export).
type batchStudentsRequest struct {
	Names []string `json:"names"`
	Text  string   `json:"text"`
}

type rosterProblemBody struct {
	Line   int    `json:"line"`
	Name   string `json:"name,omitempty"`
	Reason string `json:"reason"`
}

type batchStudentsResponse struct {
	Added int `json:"added"`
}

// HandleBatchAddStudents handles POST /api/subjects/{id}/students/batch.
// The whole batch is validated before anything is written; a single bad or
// duplicate line rejects the import.
func (h *Handler) HandleBatchAddStudents(w http.ResponseWriter, r *http.Request) {
	id, err := shared.URLObjectID(r, "id")
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "import roster: bad id", err, "Invalid subject id.")
		return
	}
	var req batchStudentsRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "import roster: parse body failed", err, "Invalid request body.")
		return
	}

	names := req.Names
	if len(names) == 0 && req.Text != "" {
		scanned, problems := csvutil.PreScanRoster(strings.NewReader(req.Text))
		if len(problems) > 0 {
			body := make([]rosterProblemBody, 0, len(problems))
			for _, p := range problems {
				body = append(body, rosterProblemBody{Line: p.Line, Name: p.Name, Reason: p.Reason})
			}
			uierrors.WriteJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"error":    "roster has problems",
				"problems": body,
			})
			return
		}
		names = scanned
	}
	if len(names) == 0 {
		uierrors.WriteError(w, http.StatusUnprocessableEntity, "no names to import")
		return
	}

	created, err := h.Svc.BatchAddStudents(r.Context(), id, names)
	if err != nil {
		shared.ServiceError(w, r, h.ErrLog, "import roster", err)
		return
	}
	h.Log.Info("roster imported",
		zap.String("subject_id", id.Hex()),
		zap.Int("added", len(created)))
	uierrors.WriteJSON(w, http.StatusCreated, batchStudentsResponse{Added: len(created)})
}

// HandleRemoveStudent handles DELETE /api/subjects/{id}/students/{studentID}.
func (h *Handler) HandleRemoveStudent(w http.ResponseWriter, r *http.Request) {
	id, err := shared.URLObjectID(r, "id")
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "remove student: bad subject id", err, "Invalid subject id.")
		return
	}
	studentID, err := shared.URLObjectID(r, "studentID")
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "remove student: bad student id", err, "Invalid student id.")
		return
	}
	if err := h.Svc.RemoveStudent(r.Context(), id, studentID); err != nil {
		shared.ServiceError(w, r, h.ErrLog, "remove student", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
