package authgoogle

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	errorsfeature "github.com/dalemusser/linkard/internal/app/features/errors"
	"github.com/dalemusser/linkard/internal/app/store/oauthstate"
	userstore "github.com/dalemusser/linkard/internal/app/store/users"
	"github.com/dalemusser/linkard/internal/app/system/auth"
	"github.com/dalemusser/linkard/internal/domain/models"
	"github.com/dalemusser/linkard/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

func newTestHandler(t *testing.T) (*Handler, *mongo.Database, *oauthstate.Store) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()

	oauthStateStore := oauthstate.New(db)

	sessionMgr, err := auth.NewSessionManager(
		"test-session-key-for-testing-1234567890",
		"test-session",
		"",
		24*time.Hour,
		false,
		logger,
	)
	if err != nil {
		t.Fatalf("failed to create session manager: %v", err)
	}

	handler := NewHandler(
		db,
		sessionMgr,
		errorsfeature.NewErrorLogger(logger),
		oauthStateStore,
		"test-client-id",
		"test-client-secret",
		"http://localhost:8080",
		logger,
	)

	return handler, db, oauthStateStore
}

// stubOAuthEndpoint points the handler's token exchange at a local server
// that rejects every request, so no test ever talks to Google.
func stubOAuthEndpoint(t *testing.T, h *Handler) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
	}))
	t.Cleanup(srv.Close)
	h.oauthConfig.Endpoint = oauth2.Endpoint{
		AuthURL:  srv.URL + "/auth",
		TokenURL: srv.URL + "/token",
	}
}

func TestNewHandler(t *testing.T) {
	h, _, _ := newTestHandler(t)
	if h == nil {
		t.Fatal("NewHandler() returned nil")
	}
}

func TestRoutes(t *testing.T) {
	h, _, _ := newTestHandler(t)
	router := Routes(h)
	if router == nil {
		t.Fatal("Routes() returned nil")
	}
}

func TestStartAuth_RedirectsToGoogle(t *testing.T) {
	h, _, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/auth/google", nil)
	rec := httptest.NewRecorder()

	h.startAuth(rec, req)

	if rec.Code != http.StatusTemporaryRedirect && rec.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want redirect (307 or 303)", rec.Code)
	}

	location := rec.Header().Get("Location")
	if location == "" {
		t.Error("Location header should be set")
	}

	if rec.Code == http.StatusTemporaryRedirect {
		if !strings.Contains(location, "accounts.google.com") {
			t.Errorf("Location = %q, should be a Google OAuth URL", location)
		}
		if !strings.Contains(location, "state=") {
			t.Errorf("Location = %q, should carry a state parameter", location)
		}
	}
}

func TestCallback_InvalidState(t *testing.T) {
	h, _, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?state=invalid-state&code=test-code", nil)
	rec := httptest.NewRecorder()

	h.handleCallback(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}

	location := rec.Header().Get("Location")
	if !strings.Contains(location, "invalid_state") {
		t.Errorf("Location = %q, want to contain 'invalid_state'", location)
	}
}

func TestCallback_OAuthError(t *testing.T) {
	h, _, oauthStore := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	state := "test-oauth-error-state"
	if err := oauthStore.Create(ctx, state, ""); err != nil {
		t.Fatalf("failed to create state: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?state="+state+"&error=access_denied", nil)
	rec := httptest.NewRecorder()

	h.handleCallback(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}

	location := rec.Header().Get("Location")
	if !strings.Contains(location, "oauth_error") {
		t.Errorf("Location = %q, want to contain 'oauth_error'", location)
	}
}

func TestCallback_NoCode(t *testing.T) {
	h, _, oauthStore := newTestHandler(t)
	stubOAuthEndpoint(t, h)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	state := "test-valid-state-token"
	if err := oauthStore.Create(ctx, state, ""); err != nil {
		t.Fatalf("failed to create state: %v", err)
	}

	// Valid state but no code: token exchange fails
	req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?state="+state, nil)
	rec := httptest.NewRecorder()

	h.handleCallback(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	location := rec.Header().Get("Location")
	if !strings.Contains(location, "token_exchange_failed") {
		t.Errorf("Location = %q, want to contain 'token_exchange_failed'", location)
	}
}

func TestFindOrCreateUser_ExistingUser(t *testing.T) {
	h, db, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := userstore.New(db)
	created, err := store.Create(ctx, models.User{
		FullName:   "Existing User",
		Email:      "existing@test.com",
		AuthMethod: models.AuthMethodGoogle,
	})
	if err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	user, err := h.findOrCreateUser(ctx, &GoogleUserInfo{
		Email:   "existing@test.com",
		Name:    "Existing User",
		Picture: "https://example.com/photo.jpg",
	})
	if err != nil {
		t.Fatalf("findOrCreateUser() error: %v", err)
	}
	if user.ID != created.ID {
		t.Error("should return the existing user")
	}
	if user.AvatarURL != "https://example.com/photo.jpg" {
		t.Errorf("avatar = %q, want the fresh Google picture", user.AvatarURL)
	}
}

func TestFindOrCreateUser_NewUser(t *testing.T) {
	h, db, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user, err := h.findOrCreateUser(ctx, &GoogleUserInfo{
		Email:   "newuser@test.com",
		Name:    "New User",
		Picture: "https://example.com/new.jpg",
	})
	if err != nil {
		t.Fatalf("findOrCreateUser() error: %v", err)
	}
	if user.AuthMethod != models.AuthMethodGoogle {
		t.Errorf("auth method = %q, want %q", user.AuthMethod, models.AuthMethodGoogle)
	}
	if user.Status != models.StatusActive {
		t.Errorf("status = %q, want %q", user.Status, models.StatusActive)
	}

	stored, err := userstore.New(db).GetByEmail(ctx, "newuser@test.com")
	if err != nil {
		t.Fatalf("failed to load created user: %v", err)
	}
	if stored.AvatarURL != "https://example.com/new.jpg" {
		t.Errorf("avatar = %q, want the Google picture", stored.AvatarURL)
	}

	// Profile should be seeded with the Google display name
	profile, err := h.profileStore.Load(ctx, user.ID)
	if err != nil {
		t.Fatalf("failed to load profile: %v", err)
	}
	if profile == nil || profile.Name != "New User" {
		t.Error("profile should be seeded with the Google display name")
	}
}

func TestGoogleUserInfo(t *testing.T) {
	info := GoogleUserInfo{
		ID:            "123",
		Email:         "test@example.com",
		VerifiedEmail: true,
		Name:          "Test User",
		Picture:       "https://example.com/photo.jpg",
	}

	if info.ID != "123" {
		t.Errorf("ID = %q, want %q", info.ID, "123")
	}
	if info.Email != "test@example.com" {
		t.Errorf("Email = %q, want %q", info.Email, "test@example.com")
	}
	if !info.VerifiedEmail {
		t.Error("VerifiedEmail should be true")
	}
}
