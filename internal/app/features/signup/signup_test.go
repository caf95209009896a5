package signup

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	errorsfeature "github.com/dalemusser/linkard/internal/app/features/errors"
	"github.com/dalemusser/linkard/internal/app/system/auth"
	"github.com/dalemusser/linkard/internal/app/system/authutil"
	"github.com/dalemusser/linkard/internal/domain/models"
	"github.com/dalemusser/linkard/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()

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

	return NewHandler(db, sessionMgr, errorsfeature.NewErrorLogger(logger), logger)
}

func postSignup(t *testing.T, form url.Values) (*http.Request, *testutil.ResponseRecorder) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = testutil.WithCSRFToken(req)
	return req, testutil.NewRecorder()
}

func TestSignup_CreatesUserAndProfile(t *testing.T) {
	testutil.MustBootTemplates(t)
	h := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	form := url.Values{}
	form.Set("full_name", "Jane Doe")
	form.Set("email", "jane@example.com")
	form.Set("password", "sturdy-raincoat-7")

	req, rec := postSignup(t, form)
	h.handleSignup(rec, req)

	rec.AssertRedirect(t, "/dashboard")

	user, err := h.userStore.GetByEmail(ctx, "jane@example.com")
	if err != nil {
		t.Fatalf("failed to fetch created user: %v", err)
	}
	if user.FullName != "Jane Doe" {
		t.Errorf("full name = %q, want %q", user.FullName, "Jane Doe")
	}
	if user.AuthMethod != models.AuthMethodPassword {
		t.Errorf("auth method = %q, want %q", user.AuthMethod, models.AuthMethodPassword)
	}
	if user.PasswordHash == nil {
		t.Fatal("password hash should be set")
	}
	if !authutil.CheckPassword("sturdy-raincoat-7", *user.PasswordHash) {
		t.Error("stored hash should verify against the signup password")
	}

	profile, err := h.profileStore.Load(ctx, user.ID)
	if err != nil {
		t.Fatalf("failed to load seeded profile: %v", err)
	}
	if profile == nil {
		t.Fatal("profile should be seeded at signup")
	}
	if profile.Name != "Jane Doe" {
		t.Errorf("seeded profile name = %q, want %q", profile.Name, "Jane Doe")
	}
}

func TestSignup_NormalizesEmail(t *testing.T) {
	testutil.MustBootTemplates(t)
	h := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	form := url.Values{}
	form.Set("full_name", "Casey Smith")
	form.Set("email", "  Casey@Example.COM ")
	form.Set("password", "sturdy-raincoat-7")

	req, rec := postSignup(t, form)
	h.handleSignup(rec, req)

	rec.AssertRedirect(t, "/dashboard")

	if _, err := h.userStore.GetByEmail(ctx, "casey@example.com"); err != nil {
		t.Fatalf("user should be stored under the normalized email: %v", err)
	}
}

func TestSignup_DuplicateEmail(t *testing.T) {
	testutil.MustBootTemplates(t)
	h := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	hash, _ := authutil.HashPassword("sturdy-raincoat-7")
	if _, err := h.userStore.Create(ctx, models.User{
		FullName:     "First Jane",
		Email:        "jane@example.com",
		AuthMethod:   models.AuthMethodPassword,
		PasswordHash: &hash,
	}); err != nil {
		t.Fatalf("failed to create existing user: %v", err)
	}

	form := url.Values{}
	form.Set("full_name", "Second Jane")
	form.Set("email", "jane@example.com")
	form.Set("password", "another-password-9")

	req, rec := postSignup(t, form)
	h.handleSignup(rec, req)

	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "already exists")

	// The original account is untouched.
	user, err := h.userStore.GetByEmail(ctx, "jane@example.com")
	if err != nil {
		t.Fatalf("failed to fetch user: %v", err)
	}
	if user.FullName != "First Jane" {
		t.Errorf("full name = %q, want %q", user.FullName, "First Jane")
	}
}

func TestSignup_RejectsInvalidInput(t *testing.T) {
	testutil.MustBootTemplates(t)
	h := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	cases := []struct {
		name     string
		fullName string
		email    string
		password string
	}{
		{"missing name", "", "jane@example.com", "sturdy-raincoat-7"},
		{"bad email", "Jane Doe", "not-an-email", "sturdy-raincoat-7"},
		{"email without domain dot", "Jane Doe", "jane@localhost", "sturdy-raincoat-7"},
		{"short password", "Jane Doe", "jane@example.com", "abc"},
		{"common password", "Jane Doe", "jane@example.com", "password"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			form := url.Values{}
			form.Set("full_name", tc.fullName)
			form.Set("email", tc.email)
			form.Set("password", tc.password)

			req, rec := postSignup(t, form)
			h.handleSignup(rec, req)

			rec.AssertStatus(t, http.StatusOK)
		})
	}

	if _, err := h.userStore.GetByEmail(ctx, "jane@example.com"); err == nil {
		t.Error("no user should be created from rejected input")
	}
}

func TestShow_RedirectsWhenSignedIn(t *testing.T) {
	testutil.MustBootTemplates(t)
	h := newTestHandler(t)

	req := testutil.NewRequest(http.MethodGet, "/signup")
	req = auth.WithTestUser(req, &auth.SessionUser{ID: "abc123", Name: "Jane", Email: "jane@example.com"})
	req = testutil.WithCSRFToken(req)
	rec := testutil.NewRecorder()

	h.showSignup(rec, req)

	rec.AssertRedirect(t, "/dashboard")
}

func TestNewHandler(t *testing.T) {
	h := NewHandler(nil, nil, errorsfeature.NewErrorLogger(zap.NewNop()), zap.NewNop())
	if h == nil {
		t.Fatal("NewHandler returned nil")
	}
	if Routes(h) == nil {
		t.Fatal("Routes returned nil")
	}
}
