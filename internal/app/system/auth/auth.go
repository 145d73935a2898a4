package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Session constants                                                           |
*─────────────────────────────────────────────────────────────────────────────*/

const (
	isAuthKey = "is_authenticated"
	userName  = "user_name"
	userRole  = "user_role"

	// RoleAdmin is the only privileged role; everyone else is an
	// anonymous joiner identified by the name they type.
	RoleAdmin = "admin"
)

// ErrBadCredentials is returned by LoginAdmin when the password does not
// match the configured shared admin password.
var ErrBadCredentials = errors.New("invalid credentials")

/*─────────────────────────────────────────────────────────────────────────────*
| Session manager                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

// SessionUser is what we cache in the session & inject into r.Context().
type SessionUser struct {
	Name string
	Role string
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// SessionManager owns the cookie store and the shared admin password hash.
// Handlers receive it explicitly; there is no package-level store.
type SessionManager struct {
	store       *sessions.CookieStore
	sessionName string
	adminHash   []byte
	log         *zap.Logger
}

// NewSessionManager builds the cookie store. An empty sessionKey gets a
// random per-process key (sessions won't survive a restart; fine for dev,
// logged as a warning). adminPassword is the shared admin password; it is
// hashed once here and only the hash is kept.
func NewSessionManager(sessionKey, sessionName, domain string, secure bool, adminPassword string, logger *zap.Logger) (*SessionManager, error) {
	if sessionKey == "" {
		logger.Warn("session key is empty; using a random per-process key")
		sessionKey = string(securecookie.GenerateRandomKey(32))
	} else if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}
	if adminPassword == "" {
		return nil, fmt.Errorf("admin password is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	opts := &sessions.Options{
		Domain:   domain,
		Path:     "/",
		Secure:   secure,
		HttpOnly: true,
	}
	// Secure deployments serve the SPA cross-site over HTTPS, so cookies
	// need SameSite=None there; Lax is fine for local dev over http.
	if secure {
		opts.SameSite = http.SameSiteNoneMode
	} else {
		opts.SameSite = http.SameSiteLaxMode
	}
	store.Options = opts

	logger.Info("session store initialized",
		zap.Bool("secure", secure),
		zap.String("domain", domain))

	return &SessionManager{
		store:       store,
		sessionName: sessionName,
		adminHash:   hash,
		log:         logger,
	}, nil
}

// CurrentUser returns the user & "found?" flag.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*SessionUser)
	return u, ok
}

// IsAdmin reports whether the request carries an admin session.
func IsAdmin(r *http.Request) bool {
	u, ok := CurrentUser(r)
	return ok && u.Role == RoleAdmin
}

// LoadSessionUser injects the user into context if they are logged in.
func (sm *SessionManager) LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, _ := sm.store.Get(r, sm.sessionName)
		if isAuth, _ := sess.Values[isAuthKey].(bool); isAuth {
			u := &SessionUser{
				Name: getString(sess, userName),
				Role: getString(sess, userRole),
			}
			r = withUser(r, u)
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects requests without an admin session. The surface is
// JSON-only, so failures are plain JSON errors (no redirects).
func (sm *SessionManager) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := CurrentUser(r)
		if !ok {
			writeJSONError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		if u.Role != RoleAdmin {
			writeJSONError(w, http.StatusForbidden, "forbidden")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// LoginAdmin verifies password against the shared admin password and, on
// success, writes an admin session naming displayName.
func (sm *SessionManager) LoginAdmin(w http.ResponseWriter, r *http.Request, displayName, password string) error {
	if err := bcrypt.CompareHashAndPassword(sm.adminHash, []byte(password)); err != nil {
		return ErrBadCredentials
	}
	return sm.LoginAs(w, r, displayName, RoleAdmin)
}

// LoginAs writes a session for name with the given role. Used directly by
// the Google sign-in callback, which has its own identity check.
func (sm *SessionManager) LoginAs(w http.ResponseWriter, r *http.Request, name, role string) error {
	sess, _ := sm.store.Get(r, sm.sessionName)
	sess.Values[isAuthKey] = true
	sess.Values[userName] = name
	sess.Values[userRole] = role
	if err := sess.Save(r, w); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Logout clears the session cookie.
func (sm *SessionManager) Logout(w http.ResponseWriter, r *http.Request) {
	sess, _ := sm.store.Get(r, sm.sessionName)
	sess.Options.MaxAge = -1
	if err := sess.Save(r, w); err != nil {
		sm.log.Warn("failed to clear session", zap.Error(err))
	}
}

// WithTestUser returns a request carrying u in its context, bypassing the
// cookie store. Test helper.
func WithTestUser(r *http.Request, u *SessionUser) *http.Request {
	return withUser(r, u)
}

// helpers

func withUser(r *http.Request, u *SessionUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

// getString safely extracts a string from a session value.
func getString(s *sessions.Session, key string) string {
	if v, ok := s.Values[key].(string); ok {
		return v
	}
	return ""
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
