// internal/app/features/signup/signup.go
package signup

// Terminology: User Identifiers
//   - UserID / userID / user_id: The MongoDB ObjectID (_id) that uniquely identifies a user record
//   - Email: the human-readable string users type to log in

import (
	"errors"
	"net/http"

	errorsfeature "github.com/dalemusser/linkard/internal/app/features/errors"
	profilestore "github.com/dalemusser/linkard/internal/app/store/profiles"
	userstore "github.com/dalemusser/linkard/internal/app/store/users"
	"github.com/dalemusser/linkard/internal/app/system/auth"
	"github.com/dalemusser/linkard/internal/app/system/authutil"
	"github.com/dalemusser/linkard/internal/app/system/normalize"
	"github.com/dalemusser/linkard/internal/app/system/viewdata"
	"github.com/dalemusser/linkard/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler provides signup handlers.
type Handler struct {
	userStore    *userstore.Store
	profileStore *profilestore.Store
	sessionMgr   *auth.SessionManager
	errLog       *errorsfeature.ErrorLogger
	logger       *zap.Logger
}

// NewHandler creates a new signup Handler.
func NewHandler(db *mongo.Database, sessionMgr *auth.SessionManager, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		userStore:    userstore.New(db),
		profileStore: profilestore.New(db),
		sessionMgr:   sessionMgr,
		errLog:       errLog,
		logger:       logger,
	}
}

// SignupVM is the view model for the signup page.
type SignupVM struct {
	viewdata.BaseVM
	Error         string
	FullName      string
	Email         string
	PasswordRules string
}

// Routes returns a chi.Router with signup routes mounted.
func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.showSignup)
	r.Post("/", h.handleSignup)
	return r
}

// showSignup displays the signup form.
func (h *Handler) showSignup(w http.ResponseWriter, r *http.Request) {
	vm := SignupVM{
		BaseVM:        viewdata.New(r),
		PasswordRules: authutil.PasswordRules(),
	}
	vm.Title = "Sign Up"

	if vm.IsLoggedIn {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	templates.Render(w, r, "signup/index", vm)
}

// handleSignup creates the account, seeds the profile document, and signs
// the new user in.
func (h *Handler) handleSignup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.errLog.Log(r, "failed to parse form", err)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	fullName := normalize.Name(r.FormValue("full_name"))
	email := normalize.Email(r.FormValue("email"))
	password := r.FormValue("password")

	renderError := func(msg string) {
		vm := SignupVM{
			BaseVM:        viewdata.New(r),
			Error:         msg,
			FullName:      fullName,
			Email:         email,
			PasswordRules: authutil.PasswordRules(),
		}
		vm.Title = "Sign Up"
		templates.Render(w, r, "signup/index", vm)
	}

	if fullName == "" {
		renderError("Please enter your name.")
		return
	}
	if err := authutil.ValidateEmail(email); err != nil {
		renderError(err.Error())
		return
	}
	if err := authutil.ValidatePassword(password); err != nil {
		renderError(err.Error())
		return
	}

	hash, err := authutil.HashPassword(password)
	if err != nil {
		h.errLog.Log(r, "failed to hash password", err)
		renderError("Something went wrong. Please try again.")
		return
	}

	user, err := h.userStore.Create(r.Context(), models.User{
		FullName:     fullName,
		Email:        email,
		AuthMethod:   models.AuthMethodPassword,
		PasswordHash: &hash,
	})
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicateEmail) {
			renderError("An account with this email already exists. Try logging in instead.")
			return
		}
		h.errLog.Log(r, "failed to create user", err)
		renderError("Service temporarily unavailable. Please try again.")
		return
	}

	// Seed the profile with the signup name. Failure here is non-fatal: the
	// dashboard hydrates missing fields from the account record.
	if err := h.profileStore.Merge(r.Context(), user.ID, profilestore.Partial{
		Name: profilestore.String(fullName),
	}); err != nil {
		h.errLog.Log(r, "failed to seed profile", err)
	}

	if err := h.sessionMgr.CreateSession(w, r, user.ID, user.FullName, user.Email, ""); err != nil {
		h.errLog.Log(r, "failed to create session", err)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	h.logger.Info("user signed up",
		zap.String("user_id", user.ID.Hex()))

	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}
