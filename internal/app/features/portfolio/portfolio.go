// internal/app/features/portfolio/portfolio.go
package portfolio

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
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// profileStore is the slice of the profiles store this feature uses.
type profileStore interface {
	Load(ctx context.Context, userID primitive.ObjectID) (*models.Profile, error)
	Merge(ctx context.Context, userID primitive.ObjectID, partial profilestore.Partial) error
}

// Handler provides the mini-portfolio handlers.
type Handler struct {
	profileStore profileStore
	errLog       *errorsfeature.ErrorLogger
	logger       *zap.Logger
}

// NewHandler creates a new portfolio Handler.
func NewHandler(db *mongo.Database, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		profileStore: profilestore.New(db),
		errLog:       errLog,
		logger:       logger,
	}
}

// PortfolioVM is the view model for the portfolio page.
type PortfolioVM struct {
	viewdata.BaseVM
	Success string
	Error   string
	Items   []models.PortfolioItem

	// Form values re-shown after a validation failure
	FormTitle       string
	FormDescription string
	FormImageURL    string
}

// projectInput carries the add-project form fields through validation.
type projectInput struct {
	Title       string `validate:"required,min=2" label:"Title"`
	Description string `validate:"required,min=10" label:"Description"`
	ImageURL    string `validate:"required,httpurl" label:"Image URL"`
}

// Routes returns a chi.Router with portfolio routes mounted.
func Routes(h *Handler, sessionMgr *auth.SessionManager) http.Handler {
	r := chi.NewRouter()
	r.Use(sessionMgr.RequireSignedIn)
	r.Get("/", h.showPortfolio)
	r.Post("/", h.handleAdd)
	r.Post("/delete", h.handleDelete)
	return r
}

// showPortfolio lists the user's projects.
func (h *Handler) showPortfolio(w http.ResponseWriter, r *http.Request) {
	sessionUser, ok := auth.CurrentUser(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	vm := PortfolioVM{BaseVM: viewdata.New(r)}
	vm.Title = "Mini Portfolio"

	profile, err := h.profileStore.Load(r.Context(), sessionUser.UserID())
	if err != nil {
		h.errLog.Log(r, "failed to load profile", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if profile != nil {
		vm.Items = profile.Portfolio
	}

	switch r.URL.Query().Get("success") {
	case "added":
		vm.Success = "Portfolio item added."
	case "deleted":
		vm.Success = "Portfolio item deleted."
	}
	switch r.URL.Query().Get("error") {
	case "add_failed":
		vm.Error = "Failed to add item. Please try again."
	case "delete_failed":
		vm.Error = "Failed to delete item. Please try again."
	}

	templates.Render(w, r, "portfolio/index", vm)
}

// handleAdd appends a project and writes the whole list back.
func (h *Handler) handleAdd(w http.ResponseWriter, r *http.Request) {
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

	input := projectInput{
		Title:       normalize.FormValue(r.FormValue("title")),
		Description: normalize.FormValue(r.FormValue("description")),
		ImageURL:    normalize.FormValue(r.FormValue("image_url")),
	}

	profile, err := h.profileStore.Load(r.Context(), sessionUser.UserID())
	if err != nil {
		h.errLog.Log(r, "failed to load profile", err)
		http.Redirect(w, r, "/portfolio?error=add_failed", http.StatusSeeOther)
		return
	}

	renderError := func(msg string) {
		vm := PortfolioVM{
			BaseVM:          viewdata.New(r),
			Error:           msg,
			FormTitle:       input.Title,
			FormDescription: input.Description,
			FormImageURL:    input.ImageURL,
		}
		vm.Title = "Mini Portfolio"
		if profile != nil {
			vm.Items = profile.Portfolio
		}
		templates.Render(w, r, "portfolio/index", vm)
	}

	if res := inputval.Validate(input); res.HasErrors() {
		renderError(res.First())
		return
	}

	var items []models.PortfolioItem
	if profile != nil {
		items = profile.Portfolio
	}
	items = append(items, models.PortfolioItem{
		ID:          uuid.NewString(),
		Title:       input.Title,
		Description: input.Description,
		ImageURL:    input.ImageURL,
	})

	err = h.profileStore.Merge(r.Context(), sessionUser.UserID(), profilestore.Partial{
		Portfolio: profilestore.PortfolioList(items),
	})
	if err != nil {
		h.errLog.Log(r, "failed to save portfolio", err)
		renderError("Failed to add item. Please try again.")
		return
	}

	http.Redirect(w, r, "/portfolio?success=added", http.StatusSeeOther)
}

// handleDelete removes a project by id and writes the whole list back.
// Deleting an id that is no longer present is not an error.
func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
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

	itemID := r.FormValue("id")
	if itemID == "" {
		http.Redirect(w, r, "/portfolio?error=delete_failed", http.StatusSeeOther)
		return
	}

	profile, err := h.profileStore.Load(r.Context(), sessionUser.UserID())
	if err != nil {
		h.errLog.Log(r, "failed to load profile", err)
		http.Redirect(w, r, "/portfolio?error=delete_failed", http.StatusSeeOther)
		return
	}
	if profile == nil {
		http.Redirect(w, r, "/portfolio?success=deleted", http.StatusSeeOther)
		return
	}

	items := make([]models.PortfolioItem, 0, len(profile.Portfolio))
	for _, item := range profile.Portfolio {
		if item.ID != itemID {
			items = append(items, item)
		}
	}

	err = h.profileStore.Merge(r.Context(), sessionUser.UserID(), profilestore.Partial{
		Portfolio: profilestore.PortfolioList(items),
	})
	if err != nil {
		h.errLog.Log(r, "failed to save portfolio", err)
		http.Redirect(w, r, "/portfolio?error=delete_failed", http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, "/portfolio?success=deleted", http.StatusSeeOther)
}
