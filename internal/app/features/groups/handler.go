// internal/app/features/groups/handler.go
package groups

import (
	"net/http"

	"github.com/dalemusser/grouphub/internal/app/enroll"
	uierrors "github.com/dalemusser/grouphub/internal/app/features/errors"
	"github.com/dalemusser/grouphub/internal/app/features/shared"
	"github.com/dalemusser/grouphub/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler serves the group endpoints. Join and member removal are open to
// joiners (the grouping lock still applies); everything else is admin-only.
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

// performedBy attributes a mutation: the admin's session name when signed
// in, otherwise the name the joiner acted under.
func performedBy(r *http.Request, fallback string) string {
	if u, ok := auth.CurrentUser(r); ok {
		return u.Name
	}
	return fallback
}

type createRequest struct {
	GroupingID  string `json:"grouping_id"`
	Name        string `json:"name"`
	MemberLimit int    `json:"member_limit"`
}

// HandleCreate handles POST /api/groups.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "create group: parse body failed", err, "Invalid request body.")
		return
	}
	groupingID, err := primitive.ObjectIDFromHex(req.GroupingID)
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "create group: bad grouping id", err, "Invalid grouping id.")
		return
	}

	created, err := h.Svc.CreateGroup(r.Context(), groupingID, req.Name, req.MemberLimit, performedBy(r, ""))
	if err != nil {
		shared.ServiceError(w, r, h.ErrLog, "create group", err)
		return
	}
	uierrors.WriteJSON(w, http.StatusCreated, created)
}

type updateRequest struct {
	Name        string `json:"name"`
	MemberLimit int    `json:"member_limit"`
}

// HandleUpdate handles PATCH /api/groups/{id}. Empty name keeps the
// current one; zero limit keeps the current limit.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := shared.URLObjectID(r, "id")
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "update group: bad id", err, "Invalid group id.")
		return
	}
	var req updateRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "update group: parse body failed", err, "Invalid request body.")
		return
	}

	updated, err := h.Svc.UpdateGroup(r.Context(), id, req.Name, req.MemberLimit)
	if err != nil {
		shared.ServiceError(w, r, h.ErrLog, "update group", err)
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, updated)
}

// HandleDelete handles DELETE /api/groups/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := shared.URLObjectID(r, "id")
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "delete group: bad id", err, "Invalid group id.")
		return
	}
	if err := h.Svc.DeleteGroup(r.Context(), id, performedBy(r, "")); err != nil {
		shared.ServiceError(w, r, h.ErrLog, "delete group", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Membership                                                                   |
*─────────────────────────────────────────────────────────────────────────────*/

type nameRequest struct {
	Name string `json:"name"`
}

// HandleJoin handles POST /api/groups/{id}/join. Open to anyone who can
// name themselves onto the roster; the grouping lock gates non-admins.
func (h *Handler) HandleJoin(w http.ResponseWriter, r *http.Request) {
	id, err := shared.URLObjectID(r, "id")
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "join: bad id", err, "Invalid group id.")
		return
	}
	var req nameRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "join: parse body failed", err, "Invalid request body.")
		return
	}

	if err := h.Svc.Join(r.Context(), id, req.Name, performedBy(r, req.Name), auth.IsAdmin(r)); err != nil {
		shared.ServiceError(w, r, h.ErrLog, "join", err)
		return
	}
	group, _ := h.Svc.Projection().GroupByID(id)
	uierrors.WriteJSON(w, http.StatusOK, group)
}

type batchJoinRequest struct {
	Names []string `json:"names"`
}

type batchJoinResponse struct {
	Requested int `json:"requested"`
	Added     int `json:"added"`
}

// HandleBatchJoin handles POST /api/groups/{id}/members/batch (admin bulk
// add). Validation is all-or-nothing; a partially failed write reports how
// many names actually landed alongside the 502.
func (h *Handler) HandleBatchJoin(w http.ResponseWriter, r *http.Request) {
	id, err := shared.URLObjectID(r, "id")
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "batch join: bad id", err, "Invalid group id.")
		return
	}
	var req batchJoinRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "batch join: parse body failed", err, "Invalid request body.")
		return
	}

	res, err := h.Svc.BatchJoin(r.Context(), id, req.Names, performedBy(r, ""))
	if err != nil {
		if res.Added > 0 {
			h.Log.Error("batch join partially failed",
				zap.String("group_id", id.Hex()),
				zap.Int("requested", res.Requested),
				zap.Int("added", res.Added),
				zap.Error(err))
			uierrors.WriteJSON(w, http.StatusBadGateway, map[string]any{
				"error":     "storage failed partway through the batch",
				"requested": res.Requested,
				"added":     res.Added,
			})
			return
		}
		shared.ServiceError(w, r, h.ErrLog, "batch join", err)
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, batchJoinResponse{Requested: res.Requested, Added: res.Added})
}

// HandleRemoveMember handles POST /api/groups/{id}/members/remove. Open to
// joiners while the grouping is unlocked; the name must match exactly.
func (h *Handler) HandleRemoveMember(w http.ResponseWriter, r *http.Request) {
	id, err := shared.URLObjectID(r, "id")
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "remove member: bad id", err, "Invalid group id.")
		return
	}
	var req nameRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "remove member: parse body failed", err, "Invalid request body.")
		return
	}

	if err := h.Svc.RemoveMember(r.Context(), id, req.Name, performedBy(r, req.Name), auth.IsAdmin(r)); err != nil {
		shared.ServiceError(w, r, h.ErrLog, "remove member", err)
		return
	}
	group, _ := h.Svc.Projection().GroupByID(id)
	uierrors.WriteJSON(w, http.StatusOK, group)
}

// HandleSetRepresentative handles POST /api/groups/{id}/representative.
// An empty name clears the role.
func (h *Handler) HandleSetRepresentative(w http.ResponseWriter, r *http.Request) {
	id, err := shared.URLObjectID(r, "id")
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "set representative: bad id", err, "Invalid group id.")
		return
	}
	var req nameRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "set representative: parse body failed", err, "Invalid request body.")
		return
	}

	updated, err := h.Svc.SetRepresentative(r.Context(), id, req.Name, performedBy(r, ""))
	if err != nil {
		shared.ServiceError(w, r, h.ErrLog, "set representative", err)
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, updated)
}
