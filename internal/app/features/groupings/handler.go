// internal/app/features/groupings/handler.go
package groupings

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dalemusser/grouphub/internal/app/enroll"
	uierrors "github.com/dalemusser/grouphub/internal/app/features/errors"
	"github.com/dalemusser/grouphub/internal/app/features/shared"
	"github.com/dalemusser/grouphub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler serves the admin grouping endpoints, including the audit history
// and student availability views.
type Handler struct {
	Log         *zap.Logger
	Svc         *enroll.Service
	ErrLog      *uierrors.ErrorLogger
	HistoryPage int64 // default history page size
}

func NewHandler(svc *enroll.Service, errLog *uierrors.ErrorLogger, historyPage int64, logger *zap.Logger) *Handler {
	if historyPage <= 0 {
		historyPage = 50
	}
	return &Handler{
		Log:         logger,
		Svc:         svc,
		ErrLog:      errLog,
		HistoryPage: historyPage,
	}
}

type createRequest struct {
	SubjectID string `json:"subject_id"`
	Title     string `json:"title"`
	Color     string `json:"color"`
}

// HandleCreate handles POST /api/groupings.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "create grouping: parse body failed", err, "Invalid request body.")
		return
	}
	subjectID, err := primitive.ObjectIDFromHex(req.SubjectID)
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "create grouping: bad subject id", err, "Invalid subject id.")
		return
	}

	created, err := h.Svc.CreateGrouping(r.Context(), subjectID, req.Title, req.Color)
	if err != nil {
		shared.ServiceError(w, r, h.ErrLog, "create grouping", err)
		return
	}
	uierrors.WriteJSON(w, http.StatusCreated, created)
}

// HandleDelete handles DELETE /api/groupings/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := shared.URLObjectID(r, "id")
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "delete grouping: bad id", err, "Invalid grouping id.")
		return
	}
	if err := h.Svc.DeleteGrouping(r.Context(), id); err != nil {
		shared.ServiceError(w, r, h.ErrLog, "delete grouping", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type lockRequest struct {
	Locked bool `json:"locked"`
}

// HandleLock handles POST /api/groupings/{id}/lock.
func (h *Handler) HandleLock(w http.ResponseWriter, r *http.Request) {
	id, err := shared.URLObjectID(r, "id")
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "lock grouping: bad id", err, "Invalid grouping id.")
		return
	}
	var req lockRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "lock grouping: parse body failed", err, "Invalid request body.")
		return
	}

	updated, err := h.Svc.SetGroupingLocked(r.Context(), id, req.Locked)
	if err != nil {
		shared.ServiceError(w, r, h.ErrLog, "lock grouping", err)
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, updated)
}

type historyResponse struct {
	Entries []models.HistoryEntry `json:"entries"`
}

// HandleHistory handles GET /api/groupings/{id}/history. Newest first;
// ?limit= caps the page and ?before= (RFC 3339) continues it.
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	id, err := shared.URLObjectID(r, "id")
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "history: bad id", err, "Invalid grouping id.")
		return
	}

	limit := h.HistoryPage
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 1 {
			h.ErrLog.LogBadRequest(w, r, "history: bad limit", err, "Invalid limit.")
			return
		}
		if n < limit {
			limit = n
		}
	}

	var before time.Time
	if v := r.URL.Query().Get("before"); v != "" {
		before, err = time.Parse(time.RFC3339, v)
		if err != nil {
			h.ErrLog.LogBadRequest(w, r, "history: bad before", err, "Invalid before timestamp.")
			return
		}
	}

	entries, err := h.Svc.History(r.Context(), id, limit, before)
	if err != nil {
		shared.ServiceError(w, r, h.ErrLog, "history", err)
		return
	}
	if entries == nil {
		entries = []models.HistoryEntry{}
	}
	uierrors.WriteJSON(w, http.StatusOK, historyResponse{Entries: entries})
}

// HandleAvailability handles GET /api/groupings/{id}/availability: which
// roster students are still free and which already sit in a group.
func (h *Handler) HandleAvailability(w http.ResponseWriter, r *http.Request) {
	id, err := shared.URLObjectID(r, "id")
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "availability: bad id", err, "Invalid grouping id.")
		return
	}

	av, err := h.Svc.GroupingAvailability(id)
	if err != nil {
		shared.ServiceError(w, r, h.ErrLog, "availability", err)
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, av)
}
