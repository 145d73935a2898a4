// internal/app/bootstrap/routes.go
package bootstrap

import (
	"fmt"
	"net/http"

	authgooglefeature "github.com/dalemusser/grouphub/internal/app/features/authgoogle"
	errorsfeature "github.com/dalemusser/grouphub/internal/app/features/errors"
	groupingsfeature "github.com/dalemusser/grouphub/internal/app/features/groupings"
	groupsfeature "github.com/dalemusser/grouphub/internal/app/features/groups"
	healthfeature "github.com/dalemusser/grouphub/internal/app/features/health"
	loginfeature "github.com/dalemusser/grouphub/internal/app/features/login"
	logoutfeature "github.com/dalemusser/grouphub/internal/app/features/logout"
	statefeature "github.com/dalemusser/grouphub/internal/app/features/state"
	subjectsfeature "github.com/dalemusser/grouphub/internal/app/features/subjects"
	"github.com/dalemusser/grouphub/internal/app/system/auth"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// the Startup hook have completed, so the enroll service and projection
// built in Startup are ready.
//
// The surface is JSON-only. Reads (/api/state, join pages) are public;
// joins and self-removal are public but lock-gated in the service; all
// management endpoints require an admin session.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	if appService == nil {
		return nil, fmt.Errorf("startup did not run: enroll service is nil")
	}

	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, appCfg.AdminPassword, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	errLog := errorsfeature.NewLogger(logger)

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Authentication
	loginHandler := loginfeature.NewHandler(sessionMgr, errLog, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler))

	googleHandler := authgooglefeature.NewHandler(
		sessionMgr,
		appCfg.GoogleClientID,
		appCfg.GoogleClientSecret,
		appCfg.BaseURL,
		secure,
		appCfg.AdminEmails,
		logger,
	)
	if googleHandler.IsConfigured() {
		r.Mount("/auth/google", authgooglefeature.Routes(googleHandler))
	}

	// Public snapshot; joiners render from this.
	stateHandler := statefeature.NewHandler(appService, logger)
	r.Mount("/api/state", statefeature.Routes(stateHandler))

	// Admin management surfaces
	subjectsHandler := subjectsfeature.NewHandler(appService, errLog, logger)
	r.Mount("/api/subjects", sessionMgr.RequireAdmin(subjectsfeature.Routes(subjectsHandler)))

	groupingsHandler := groupingsfeature.NewHandler(appService, errLog, appCfg.HistoryPageSize, logger)
	r.Mount("/api/groupings", sessionMgr.RequireAdmin(groupingsfeature.Routes(groupingsHandler)))

	// Groups: join/remove are public, management routes gate themselves.
	groupsHandler := groupsfeature.NewHandler(appService, errLog, logger)
	r.Mount("/api/groups", groupsfeature.Routes(groupsHandler, sessionMgr.RequireAdmin))

	return r, nil
}
