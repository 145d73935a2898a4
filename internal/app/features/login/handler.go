// internal/app/features/login/handler.go
package login

import (
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/grouphub/internal/app/features/errors"
	"github.com/dalemusser/grouphub/internal/app/features/shared"
	"github.com/dalemusser/grouphub/internal/app/system/auth"
	"go.uber.org/zap"
)

// Handler signs admins in with the shared admin password. Joiners never
// log in; they are identified by the name they type at join time.
type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
}

func NewHandler(sessionMgr *auth.SessionManager, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Log:        logger,
		SessionMgr: sessionMgr,
		ErrLog:     errLog,
	}
}

type loginRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

type loginResponse struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

// HandleLoginPost handles POST /login.
func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		h.ErrLog.LogBadRequest(w, r, "login: parse body failed", err, "Invalid request body.")
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = "Admin"
	}

	if err := h.SessionMgr.LoginAdmin(w, r, name, req.Password); err != nil {
		if errors.Is(err, auth.ErrBadCredentials) {
			h.Log.Warn("login failed: bad credentials", zap.String("name", name))
			uierrors.WriteError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		h.ErrLog.LogServerError(w, r, "login: save session failed", err, "Unable to create session.")
		return
	}

	h.Log.Info("admin logged in", zap.String("name", name))
	uierrors.WriteJSON(w, http.StatusOK, loginResponse{Name: name, Role: auth.RoleAdmin})
}

// HandleMe handles GET /login/me: who does the session say I am.
func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.WriteError(w, http.StatusUnauthorized, "not signed in")
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, loginResponse{Name: u.Name, Role: u.Role})
}
