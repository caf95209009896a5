// internal/app/features/authgoogle/authgoogle.go
package authgoogle

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	errorsfeature "github.com/dalemusser/linkard/internal/app/features/errors"
	"github.com/dalemusser/linkard/internal/app/store/oauthstate"
	profilestore "github.com/dalemusser/linkard/internal/app/store/profiles"
	userstore "github.com/dalemusser/linkard/internal/app/store/users"
	"github.com/dalemusser/linkard/internal/app/system/auth"
	"github.com/dalemusser/linkard/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Handler provides Google OAuth handlers.
type Handler struct {
	userStore       *userstore.Store
	profileStore    *profilestore.Store
	sessionMgr      *auth.SessionManager
	errLog          *errorsfeature.ErrorLogger
	oauthStateStore *oauthstate.Store
	oauthConfig     *oauth2.Config
	logger          *zap.Logger
}

// NewHandler creates a new Google OAuth Handler.
func NewHandler(
	db *mongo.Database,
	sessionMgr *auth.SessionManager,
	errLog *errorsfeature.ErrorLogger,
	oauthStateStore *oauthstate.Store,
	clientID string,
	clientSecret string,
	baseURL string,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		userStore:       userstore.New(db),
		profileStore:    profilestore.New(db),
		sessionMgr:      sessionMgr,
		errLog:          errLog,
		oauthStateStore: oauthStateStore,
		oauthConfig: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  baseURL + "/auth/google/callback",
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		logger: logger,
	}
}

// Routes returns a chi.Router with Google OAuth routes mounted.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.startAuth)
	r.Get("/callback", h.handleCallback)
	return r
}

// startAuth initiates the Google OAuth flow.
func (h *Handler) startAuth(w http.ResponseWriter, r *http.Request) {
	state, err := oauthstate.NewState()
	if err != nil {
		h.errLog.Log(r, "failed to generate state", err)
		http.Redirect(w, r, "/login?error=oauth_error", http.StatusSeeOther)
		return
	}

	// The return URL rides along in the state record so the callback can
	// land the user back where they started.
	returnURL := r.URL.Query().Get("return")
	if err := h.oauthStateStore.Create(r.Context(), state, returnURL); err != nil {
		h.errLog.Log(r, "failed to store state", err)
		http.Redirect(w, r, "/login?error=oauth_error", http.StatusSeeOther)
		return
	}

	url := h.oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOffline)
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

// handleCallback processes the Google OAuth callback.
func (h *Handler) handleCallback(w http.ResponseWriter, r *http.Request) {
	// Verify state (single use)
	state := r.URL.Query().Get("state")
	returnURL, ok := h.oauthStateStore.Verify(r.Context(), state)
	if !ok {
		h.logger.Warn("invalid oauth state")
		http.Redirect(w, r, "/login?error=invalid_state", http.StatusSeeOther)
		return
	}

	// Check for error from Google
	if errMsg := r.URL.Query().Get("error"); errMsg != "" {
		h.logger.Warn("oauth error from google", zap.String("error", errMsg))
		http.Redirect(w, r, "/login?error=oauth_error", http.StatusSeeOther)
		return
	}

	// Exchange code for token
	code := r.URL.Query().Get("code")
	token, err := h.oauthConfig.Exchange(r.Context(), code)
	if err != nil {
		h.errLog.LogWithFields(r, "failed to exchange code", err, zap.String("state", state))
		http.Redirect(w, r, "/login?error=token_exchange_failed", http.StatusSeeOther)
		return
	}

	userInfo, err := h.getUserInfo(r.Context(), token)
	if err != nil {
		h.errLog.LogWithFields(r, "failed to get user info", err, zap.String("state", state))
		http.Redirect(w, r, "/login?error=userinfo_failed", http.StatusSeeOther)
		return
	}

	user, err := h.findOrCreateUser(r.Context(), userInfo)
	if err != nil {
		h.errLog.Log(r, "failed to find or create user", err)
		http.Redirect(w, r, "/login?error=service_unavailable", http.StatusSeeOther)
		return
	}

	if user.Status != models.StatusActive {
		h.logger.Warn("disabled account attempted google login", zap.String("user_id", user.ID.Hex()))
		http.Redirect(w, r, "/login?error=account_disabled", http.StatusSeeOther)
		return
	}

	if err := h.sessionMgr.CreateSession(w, r, user.ID, user.FullName, user.Email, ""); err != nil {
		h.errLog.Log(r, "failed to create session", err)
		http.Redirect(w, r, "/login?error=session_error", http.StatusSeeOther)
		return
	}

	h.logger.Info("user logged in via google", zap.String("user_id", user.ID.Hex()))

	http.Redirect(w, r, urlutil.SafeReturn(returnURL, "", "/dashboard"), http.StatusSeeOther)
}

// findOrCreateUser locates an existing account by the Google address or
// provisions a fresh one. First-time Google users get a profile seeded with
// their Google display name, same as password signups.
func (h *Handler) findOrCreateUser(ctx context.Context, info *GoogleUserInfo) (*models.User, error) {
	user, err := h.userStore.GetByEmail(ctx, info.Email)
	if err == nil {
		// Keep the avatar current on every login.
		if info.Picture != "" && info.Picture != user.AvatarURL {
			if err := h.userStore.UpdateFromInput(ctx, user.ID, userstore.UpdateInput{AvatarURL: &info.Picture}); err != nil {
				h.logger.Warn("failed to update avatar", zap.Error(err))
			} else {
				user.AvatarURL = info.Picture
			}
		}
		return user, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, err
	}

	created, err := h.userStore.Create(ctx, models.User{
		FullName:   info.Name,
		Email:      info.Email,
		AuthMethod: models.AuthMethodGoogle,
		AvatarURL:  info.Picture,
	})
	if err != nil {
		// Lost a race with a concurrent signup; the account exists now.
		if err == userstore.ErrDuplicateEmail {
			return h.userStore.GetByEmail(ctx, info.Email)
		}
		return nil, err
	}

	if info.Name != "" {
		if err := h.profileStore.Merge(ctx, created.ID, profilestore.Partial{Name: profilestore.String(info.Name)}); err != nil {
			h.logger.Warn("failed to seed profile", zap.Error(err))
		}
	}

	h.logger.Info("created user from google login", zap.String("user_id", created.ID.Hex()))
	return &created, nil
}

// GoogleUserInfo represents user info from Google.
type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// getUserInfo fetches user info from Google.
func (h *Handler) getUserInfo(ctx context.Context, token *oauth2.Token) (*GoogleUserInfo, error) {
	client := h.oauthConfig.Client(ctx, token)

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", "https://www.googleapis.com/oauth2/v2/userinfo", nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var userInfo GoogleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&userInfo); err != nil {
		return nil, err
	}

	return &userInfo, nil
}
