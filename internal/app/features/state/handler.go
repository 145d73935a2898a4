// internal/app/features/state/handler.go
package state

import (
	"net/http"

	"github.com/dalemusser/grouphub/internal/app/enroll"
	uierrors "github.com/dalemusser/grouphub/internal/app/features/errors"
	"github.com/dalemusser/grouphub/internal/domain/models"
	"go.uber.org/zap"
)

// Handler serves the full snapshot clients render from. Reads come from
// the local projection, never the store of record.
type Handler struct {
	Log *zap.Logger
	Svc *enroll.Service
}

func NewHandler(svc *enroll.Service, logger *zap.Logger) *Handler {
	return &Handler{Log: logger, Svc: svc}
}

type stateResponse struct {
	Subjects  []models.Subject  `json:"subjects"`
	Groupings []models.Grouping `json:"groupings"`
	Groups    []models.Group    `json:"groups"`
}

// Serve handles GET /api/state: subjects newest first with rosters,
// groupings newest first, groups in creation order with members.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	p := h.Svc.Projection()
	uierrors.WriteJSON(w, http.StatusOK, stateResponse{
		Subjects:  p.Subjects(),
		Groupings: p.Groupings(),
		Groups:    p.Groups(),
	})
}
