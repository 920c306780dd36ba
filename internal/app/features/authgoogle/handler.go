// internal/app/features/authgoogle/handler.go
package authgoogle

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/taskhive/taskhive/internal/app/store/oauthstate"
	userstore "github.com/taskhive/taskhive/internal/app/store/users"
	"github.com/taskhive/taskhive/internal/app/system/auth"
	"github.com/taskhive/taskhive/internal/app/system/timeouts"
	"github.com/taskhive/taskhive/internal/domain/models"
)

// stateTTL bounds how long a started OAuth flow stays redeemable.
const stateTTL = 10 * time.Minute

// Handler handles Google OAuth sign-in.
type Handler struct {
	DB         *mongo.Database
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	StateStore *oauthstate.Store

	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// NewHandler creates a new Google OAuth handler. baseURL is the
// externally visible origin, e.g. "https://taskhive.example.com".
func NewHandler(
	db *mongo.Database,
	sessionMgr *auth.SessionManager,
	stateStore *oauthstate.Store,
	clientID, clientSecret, baseURL string,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		DB:           db,
		Log:          logger,
		SessionMgr:   sessionMgr,
		StateStore:   stateStore,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  baseURL + "/auth/google/callback",
	}
}

func (h *Handler) oauth2Config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     h.ClientID,
		ClientSecret: h.ClientSecret,
		RedirectURL:  h.RedirectURL,
		Scopes: []string{
			"openid",
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}
}

// IsConfigured returns true if Google OAuth is configured.
func (h *Handler) IsConfigured() bool {
	return h.ClientID != "" && h.ClientSecret != ""
}

// ServeLogin handles GET /auth/google: generate and persist a state
// token, then send the user to Google's consent screen.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	if !h.IsConfigured() {
		h.Log.Warn("Google OAuth not configured")
		http.Redirect(w, r, "/login?error=google_not_configured", http.StatusSeeOther)
		return
	}

	state, err := generateState()
	if err != nil {
		h.Log.Error("failed to generate OAuth state", zap.Error(err))
		http.Redirect(w, r, "/login?error=internal", http.StatusSeeOther)
		return
	}

	returnURL := r.URL.Query().Get("return")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	expiresAt := time.Now().UTC().Add(stateTTL)
	if err := h.StateStore.Save(ctx, state, returnURL, expiresAt); err != nil {
		h.Log.Error("failed to save OAuth state", zap.Error(err))
		http.Redirect(w, r, "/login?error=internal", http.StatusSeeOther)
		return
	}

	url := h.oauth2Config().AuthCodeURL(state, oauth2.AccessTypeOffline)
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

// ServeCallback handles GET /auth/google/callback: redeem the state,
// exchange the code, fetch the Google profile, and sign the user in.
// First-time Google users get an account created from their profile.
func (h *Handler) ServeCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.Log.Warn("Google OAuth error",
			zap.String("error", errParam),
			zap.String("description", r.URL.Query().Get("error_description")))
		http.Redirect(w, r, "/login?error=google_denied", http.StatusSeeOther)
		return
	}

	state := r.URL.Query().Get("state")
	if state == "" {
		h.Log.Warn("missing OAuth state parameter")
		http.Redirect(w, r, "/login?error=invalid_state", http.StatusSeeOther)
		return
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	returnURL, err := h.StateStore.Consume(ctxTimeout, state)
	if err != nil {
		if errors.Is(err, oauthstate.ErrInvalidState) {
			h.Log.Warn("invalid or expired OAuth state")
			http.Redirect(w, r, "/login?error=invalid_state", http.StatusSeeOther)
			return
		}
		h.Log.Error("failed to validate OAuth state", zap.Error(err))
		http.Redirect(w, r, "/login?error=internal", http.StatusSeeOther)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		h.Log.Warn("missing OAuth code parameter")
		http.Redirect(w, r, "/login?error=invalid_code", http.StatusSeeOther)
		return
	}

	token, err := h.oauth2Config().Exchange(ctx, code)
	if err != nil {
		h.Log.Error("failed to exchange OAuth code", zap.Error(err))
		http.Redirect(w, r, "/login?error=token_exchange", http.StatusSeeOther)
		return
	}

	googleUser, err := fetchGoogleUserInfo(ctx, token)
	if err != nil {
		h.Log.Error("failed to fetch Google user info", zap.Error(err))
		http.Redirect(w, r, "/login?error=user_info", http.StatusSeeOther)
		return
	}
	if !googleUser.EmailVerified {
		h.Log.Warn("Google account email not verified", zap.String("email", googleUser.Email))
		http.Redirect(w, r, "/login?error=email_unverified", http.StatusSeeOther)
		return
	}

	u, err := h.findOrCreateUser(ctx, googleUser)
	if err != nil {
		h.Log.Error("failed to resolve Google user", zap.Error(err))
		http.Redirect(w, r, "/login?error=internal", http.StatusSeeOther)
		return
	}

	if err := h.SessionMgr.SignIn(w, r, u); err != nil {
		h.Log.Error("save session failed", zap.Error(err), zap.String("user_id", u.ID.Hex()))
		http.Redirect(w, r, "/login?error=session", http.StatusSeeOther)
		return
	}

	h.Log.Info("user signed in via Google OAuth",
		zap.String("user_id", u.ID.Hex()),
		zap.String("email", u.Email))

	http.Redirect(w, r, safeReturn(returnURL), http.StatusSeeOther)
}

// googleUserInfo represents user info returned from Google.
type googleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// fetchGoogleUserInfo retrieves user information from Google's userinfo endpoint.
func fetchGoogleUserInfo(ctx context.Context, token *oauth2.Token) (*googleUserInfo, error) {
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))

	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode user info: %w", err)
	}
	return &info, nil
}

// findOrCreateUser matches the Google profile to an account by email,
// creating one on first sign-in. Google-created accounts carry a random
// unusable password; password login for them always fails until the
// user sets one.
func (h *Handler) findOrCreateUser(ctx context.Context, gu *googleUserInfo) (*models.User, error) {
	users := userstore.New(h.DB)

	u, err := users.GetByEmail(ctx, strings.ToLower(gu.Email))
	if err == nil {
		return u, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, err
	}

	placeholder, err := generateState()
	if err != nil {
		return nil, err
	}
	name := gu.Name
	if name == "" {
		name = gu.Email
	}

	created, err := users.Create(ctx, name, gu.Email, placeholder)
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicateEmail) {
			// Lost a race with a concurrent first sign-in.
			return users.GetByEmail(ctx, strings.ToLower(gu.Email))
		}
		return nil, err
	}
	return &created, nil
}

// generateState creates a cryptographically secure random state string.
func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// safeReturn keeps post-login redirects on this origin.
func safeReturn(returnURL string) string {
	if returnURL == "" || !strings.HasPrefix(returnURL, "/") || strings.HasPrefix(returnURL, "//") {
		return "/"
	}
	return returnURL
}
