package auth

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"

	"github.com/taskhive/taskhive/internal/app/system/httpjson"
	"github.com/taskhive/taskhive/internal/domain/models"
)

const (
	isAuthKey    = "is_authenticated"
	userIDKey    = "user_id"
	userNameKey  = "user_name"
	userEmailKey = "user_email"
)

// SessionUser is what we cache in the session & inject into r.Context().
// It is the AuthenticatedUser shape every handler consumes: the caller
// is already authenticated as this user.
type SessionUser struct {
	ID    string
	Name  string
	Email string
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// SessionManager owns the cookie store and the middleware that loads and
// enforces the signed-in user.
type SessionManager struct {
	store *sessions.CookieStore
	name  string
	log   *zap.Logger
}

// NewSessionManager builds a cookie-backed session manager.
//
// In production (secure=true) cookies are Secure + SameSite=None so they
// survive cross-site use over HTTPS. In local dev over http, Lax is fine.
func NewSessionManager(sessionKey, name, domain string, secure bool, logger *zap.Logger) (*SessionManager, error) {
	if sessionKey == "" {
		// Dev convenience only: sessions won't survive restarts.
		logger.Warn("session key is empty; generating a volatile key")
		sessionKey = string(securecookie.GenerateRandomKey(32))
	}
	if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}
	if name == "" {
		return nil, fmt.Errorf("session name is empty")
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	opts := &sessions.Options{
		Domain:   domain,
		Path:     "/",
		Secure:   secure,
		HttpOnly: true,
	}
	if secure {
		opts.SameSite = http.SameSiteNoneMode
	} else {
		opts.SameSite = http.SameSiteLaxMode
	}
	store.Options = opts

	logger.Info("session store initialized",
		zap.Bool("secure", secure),
		zap.String("domain", domain))

	return &SessionManager{store: store, name: name, log: logger}, nil
}

// CurrentUser returns the user & "found?" flag.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*SessionUser)
	return u, ok
}

// SignIn writes the user into the session cookie.
func (sm *SessionManager) SignIn(w http.ResponseWriter, r *http.Request, u *models.User) error {
	sess, _ := sm.store.Get(r, sm.name)
	sess.Values[isAuthKey] = true
	sess.Values[userIDKey] = u.ID.Hex()
	sess.Values[userNameKey] = u.Name
	sess.Values[userEmailKey] = u.Email
	return sess.Save(r, w)
}

// SignOut clears the session cookie.
func (sm *SessionManager) SignOut(w http.ResponseWriter, r *http.Request) error {
	sess, _ := sm.store.Get(r, sm.name)
	sess.Values = map[any]any{}
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}

// LoadSessionUser injects the user into context if they are signed in.
func (sm *SessionManager) LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, _ := sm.store.Get(r, sm.name)
		if isAuth, _ := sess.Values[isAuthKey].(bool); isAuth {
			u := &SessionUser{
				ID:    getString(sess, userIDKey),
				Name:  getString(sess, userNameKey),
				Email: getString(sess, userEmailKey),
			}
			r = withUser(r, u)
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSignedIn ensures there is a user in context (set by
// LoadSessionUser). API callers get a plain 401 JSON body.
func (sm *SessionManager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); ok {
			next.ServeHTTP(w, r)
			return
		}
		httpjson.Error(w, http.StatusUnauthorized, "Not authorized, no session")
	})
}

// WithTestUser injects a user into the request context directly,
// bypassing the session cookie. Tests only.
func WithTestUser(r *http.Request, u *SessionUser) *http.Request {
	return withUser(r, u)
}

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
