// internal/app/features/logout/handler.go
package logout

import (
	"net/http"

	"github.com/dalemusser/grouphub/internal/app/system/auth"
	"go.uber.org/zap"
)

type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
}

func NewHandler(sessionMgr *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{Log: logger, SessionMgr: sessionMgr}
}

// HandleLogout handles POST /logout. Clearing an absent session is fine.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if u, ok := auth.CurrentUser(r); ok {
		h.Log.Info("user logged out", zap.String("name", u.Name))
	}
	h.SessionMgr.Logout(w, r)
	w.WriteHeader(http.StatusNoContent)
}
