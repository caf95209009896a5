// internal/app/features/login/login.go
package login

// Terminology: User Identifiers
//   - UserID / userID / user_id: The MongoDB ObjectID (_id) that uniquely identifies a user record
//   - Email: the human-readable string users type to log in

import (
	"fmt"
	"net/http"
	"time"

	errorsfeature "github.com/dalemusser/linkard/internal/app/features/errors"
	"github.com/dalemusser/linkard/internal/app/store/ratelimit"
	userstore "github.com/dalemusser/linkard/internal/app/store/users"
	"github.com/dalemusser/linkard/internal/app/system/auth"
	"github.com/dalemusser/linkard/internal/app/system/authutil"
	"github.com/dalemusser/linkard/internal/app/system/normalize"
	"github.com/dalemusser/linkard/internal/app/system/viewdata"
	"github.com/dalemusser/linkard/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler provides login handlers.
type Handler struct {
	userStore      *userstore.Store
	rateLimitStore *ratelimit.Store // nil if rate limiting disabled
	sessionMgr     *auth.SessionManager
	errLog         *errorsfeature.ErrorLogger
	googleEnabled  bool
	logger         *zap.Logger
}

// NewHandler creates a new login Handler.
// rateLimitStore can be nil to disable rate limiting.
func NewHandler(
	db *mongo.Database,
	sessionMgr *auth.SessionManager,
	errLog *errorsfeature.ErrorLogger,
	rateLimitStore *ratelimit.Store,
	googleEnabled bool,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		userStore:      userstore.New(db),
		rateLimitStore: rateLimitStore,
		sessionMgr:     sessionMgr,
		errLog:         errLog,
		googleEnabled:  googleEnabled,
		logger:         logger,
	}
}

// LoginVM is the view model for the login page.
type LoginVM struct {
	viewdata.BaseVM
	Error         string
	Email         string
	ReturnURL     string
	GoogleEnabled bool
}

// Routes returns a chi.Router with login routes mounted.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.showLogin)
	r.Post("/", h.handleLogin)
	return r
}

// showLogin displays the login page.
func (h *Handler) showLogin(w http.ResponseWriter, r *http.Request) {
	// Map error codes to user-friendly messages
	errorCode := r.URL.Query().Get("error")
	errorMsg := ""
	switch errorCode {
	case "account_disabled":
		errorMsg = "Account is disabled."
	case "user_not_found":
		errorMsg = "No account found for that Google address. Sign up first."
	case "invalid_state", "token_exchange_failed", "userinfo_failed", "oauth_error":
		errorMsg = "Google sign-in failed. Please try again."
	case "service_unavailable":
		errorMsg = "Service temporarily unavailable. Please try again."
	case "session_error":
		errorMsg = "Could not start your session. Please try again."
	case "":
		// No error
	default:
		// Unknown codes get a generic message; the raw query value is
		// never echoed back onto the page.
		errorMsg = "Something went wrong. Please try again."
	}

	vm := LoginVM{
		BaseVM:        viewdata.New(r),
		Error:         errorMsg,
		ReturnURL:     r.URL.Query().Get("return"),
		GoogleEnabled: h.googleEnabled,
	}
	vm.Title = "Log In"

	if vm.IsLoggedIn {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	templates.Render(w, r, "login/index", vm)
}

// handleLogin checks credentials and starts a session.
func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.errLog.Log(r, "failed to parse form", err)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	email := normalize.Email(r.FormValue("email"))
	password := r.FormValue("password")
	returnURL := r.FormValue("return")

	renderError := func(msg string) {
		vm := LoginVM{
			BaseVM:        viewdata.New(r),
			Error:         msg,
			Email:         email,
			ReturnURL:     returnURL,
			GoogleEnabled: h.googleEnabled,
		}
		vm.Title = "Log In"
		templates.Render(w, r, "login/index", vm)
	}

	if email == "" || password == "" {
		renderError("Please enter your email and password.")
		return
	}

	// Check rate limit before touching credentials
	if h.rateLimitStore != nil {
		allowed, _, lockedUntil := h.rateLimitStore.CheckAllowed(r.Context(), email)
		if !allowed {
			errorMsg := "Too many failed login attempts. Please try again later."
			if lockedUntil != nil {
				remaining := time.Until(*lockedUntil)
				if remaining > time.Minute {
					errorMsg = fmt.Sprintf("Too many failed login attempts. Please try again in %d minute(s).", int(remaining.Minutes())+1)
				} else {
					errorMsg = fmt.Sprintf("Too many failed login attempts. Please try again in %d second(s).", int(remaining.Seconds())+1)
				}
			}
			renderError(errorMsg)
			return
		}
	}

	user, err := h.userStore.GetByEmail(r.Context(), email)
	if err != nil && err != mongo.ErrNoDocuments {
		h.errLog.Log(r, "database error during login lookup", err)
		renderError("Service temporarily unavailable. Please try again.")
		return
	}

	// Same message for unknown email and wrong password.
	if user == nil || user.PasswordHash == nil || !authutil.CheckPassword(password, *user.PasswordHash) {
		if h.rateLimitStore != nil {
			h.rateLimitStore.RecordFailure(r.Context(), email)
		}
		renderError("Invalid email or password.")
		return
	}

	if user.Status != models.StatusActive {
		renderError("Account is disabled.")
		return
	}

	if h.rateLimitStore != nil {
		if err := h.rateLimitStore.ClearOnSuccess(r.Context(), email); err != nil {
			h.logger.Warn("failed to clear rate limit record", zap.Error(err))
		}
	}

	if err := h.sessionMgr.CreateSession(w, r, user.ID, user.FullName, user.Email, ""); err != nil {
		h.errLog.Log(r, "failed to create session", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	h.logger.Info("user logged in", zap.String("user_id", user.ID.Hex()))

	http.Redirect(w, r, urlutil.SafeReturn(returnURL, "", "/dashboard"), http.StatusSeeOther)
}
