// internal/app/features/about/about.go
package about

import (
	"context"
	"net/http"

	errorsfeature "github.com/dalemusser/linkard/internal/app/features/errors"
	profilestore "github.com/dalemusser/linkard/internal/app/store/profiles"
	"github.com/dalemusser/linkard/internal/app/system/auth"
	"github.com/dalemusser/linkard/internal/app/system/inputval"
	"github.com/dalemusser/linkard/internal/app/system/normalize"
	"github.com/dalemusser/linkard/internal/app/system/viewdata"
	"github.com/dalemusser/linkard/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// profileStore is the slice of the profiles store this feature uses.
type profileStore interface {
	Load(ctx context.Context, userID primitive.ObjectID) (*models.Profile, error)
	Merge(ctx context.Context, userID primitive.ObjectID, partial profilestore.Partial) error
}

// Handler provides the bio editor handlers.
type Handler struct {
	profileStore profileStore
	errLog       *errorsfeature.ErrorLogger
	logger       *zap.Logger
}

// NewHandler creates a new about Handler.
func NewHandler(db *mongo.Database, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		profileStore: profilestore.New(db),
		errLog:       errLog,
		logger:       logger,
	}
}

// AboutVM is the view model for the bio editor.
type AboutVM struct {
	viewdata.BaseVM
	Success string
	Error   string
	Name    string
	About   string
}

// aboutInput carries the bio form fields through validation.
type aboutInput struct {
	Name  string `validate:"required,min=2" label:"Name"`
	About string `validate:"required,min=10,max=500" label:"Bio"`
}

// Routes returns a chi.Router with about routes mounted.
func Routes(h *Handler, sessionMgr *auth.SessionManager) http.Handler {
	r := chi.NewRouter()
	r.Use(sessionMgr.RequireSignedIn)
	r.Get("/", h.showAbout)
	r.Post("/", h.handleSave)
	return r
}

// showAbout displays the bio form, hydrated from the profile document.
func (h *Handler) showAbout(w http.ResponseWriter, r *http.Request) {
	sessionUser, ok := auth.CurrentUser(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	vm := AboutVM{BaseVM: viewdata.New(r)}
	vm.Title = "About Me"

	profile, err := h.profileStore.Load(r.Context(), sessionUser.UserID())
	if err != nil {
		h.errLog.Log(r, "failed to load profile", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if profile != nil {
		vm.Name = profile.Name
		vm.About = profile.About
	}
	// First visit: prefill the name from the account identity.
	if vm.Name == "" {
		vm.Name = sessionUser.Name
	}

	switch r.URL.Query().Get("success") {
	case "saved":
		vm.Success = "Your profile has been updated."
	}
	switch r.URL.Query().Get("error") {
	case "failed":
		vm.Error = "Failed to update profile. Please try again."
	}

	templates.Render(w, r, "about/index", vm)
}

// handleSave validates and merges the bio fields into the profile document.
// Only name and about are written; card and portfolio fields are untouched.
func (h *Handler) handleSave(w http.ResponseWriter, r *http.Request) {
	sessionUser, ok := auth.CurrentUser(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.errLog.Log(r, "failed to parse form", err)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	input := aboutInput{
		Name:  normalize.Name(r.FormValue("name")),
		About: normalize.FormValue(r.FormValue("about")),
	}

	renderError := func(msg string) {
		vm := AboutVM{
			BaseVM: viewdata.New(r),
			Error:  msg,
			Name:   input.Name,
			About:  input.About,
		}
		vm.Title = "About Me"
		templates.Render(w, r, "about/index", vm)
	}

	if res := inputval.Validate(input); res.HasErrors() {
		renderError(res.First())
		return
	}

	err := h.profileStore.Merge(r.Context(), sessionUser.UserID(), profilestore.Partial{
		Name:  profilestore.String(input.Name),
		About: profilestore.String(input.About),
	})
	if err != nil {
		h.errLog.Log(r, "failed to save profile", err)
		renderError("Failed to update profile. Please try again.")
		return
	}

	http.Redirect(w, r, "/about?success=saved", http.StatusSeeOther)
}
