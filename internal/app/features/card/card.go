// internal/app/features/card/card.go
package card

import (
	"context"
	"errors"
	"net/http"

	errorsfeature "github.com/dalemusser/linkard/internal/app/features/errors"
	profilestore "github.com/dalemusser/linkard/internal/app/store/profiles"
	"github.com/dalemusser/linkard/internal/app/system/auth"
	cardview "github.com/dalemusser/linkard/internal/app/system/card"
	"github.com/dalemusser/linkard/internal/app/system/htmlsanitize"
	"github.com/dalemusser/linkard/internal/app/system/jsonutil"
	"github.com/dalemusser/linkard/internal/app/system/normalize"
	"github.com/dalemusser/linkard/internal/app/system/tagline"
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

// Handler provides the visiting-card handlers.
type Handler struct {
	profileStore profileStore
	generator    tagline.Generator // nil if tagline generation disabled
	errLog       *errorsfeature.ErrorLogger
	shareBase    string
	logger       *zap.Logger
}

// NewHandler creates a new card Handler.
// generator can be nil to disable AI tagline generation.
// shareBase is the public origin for share URLs; empty uses the default.
func NewHandler(
	db *mongo.Database,
	generator tagline.Generator,
	errLog *errorsfeature.ErrorLogger,
	shareBase string,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		profileStore: profilestore.New(db),
		generator:    generator,
		errLog:       errLog,
		shareBase:    shareBase,
		logger:       logger,
	}
}

// CardVM is the view model for the visiting-card page.
type CardVM struct {
	viewdata.BaseVM
	Success string
	Error   string

	// Form values (raw profile fields, empty when unset)
	Tagline string
	Phone   string
	Website string

	// Preview values (placeholders substituted for empty fields)
	Preview  cardview.View
	ShareURL string

	TaglineEnabled bool
}

// Routes returns a chi.Router with card routes mounted.
func Routes(h *Handler, sessionMgr *auth.SessionManager) http.Handler {
	r := chi.NewRouter()
	r.Use(sessionMgr.RequireSignedIn)
	r.Get("/", h.showCard)
	r.Post("/", h.handleSave)
	r.Post("/tagline", h.handleGenerateTagline)
	r.Get("/qr.png", h.serveQR)
	return r
}

// showCard displays the card editor and live preview.
func (h *Handler) showCard(w http.ResponseWriter, r *http.Request) {
	sessionUser, ok := auth.CurrentUser(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	profile, err := h.profileStore.Load(r.Context(), sessionUser.UserID())
	if err != nil {
		h.errLog.Log(r, "failed to load profile", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	vm := h.buildVM(r, sessionUser, profile)

	switch r.URL.Query().Get("success") {
	case "saved":
		vm.Success = "Your visiting card details are saved."
	}
	switch r.URL.Query().Get("error") {
	case "failed":
		vm.Error = "Failed to save details. Please try again."
	}

	templates.Render(w, r, "card/index", vm)
}

// handleSave merges the card-owned fields into the profile document.
// The contact object is replaced wholesale, so both phone and website are
// taken from the form on every save.
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

	tag := htmlsanitize.Sanitize(normalize.FormValue(r.FormValue("tagline")))
	contact := models.Contact{
		Phone:   normalize.FormValue(r.FormValue("phone")),
		Website: normalize.FormValue(r.FormValue("website")),
	}

	err := h.profileStore.Merge(r.Context(), sessionUser.UserID(), profilestore.Partial{
		Tagline: profilestore.String(tag),
		Contact: &contact,
	})
	if err != nil {
		h.errLog.Log(r, "failed to save card details", err)
		http.Redirect(w, r, "/card?error=failed", http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, "/card?success=saved", http.StatusSeeOther)
}

// taglineResponse is the JSON body returned by the tagline endpoint.
type taglineResponse struct {
	Tagline string `json:"tagline"`
}

// handleGenerateTagline generates a tagline from the saved bio. Called from
// the card editor via fetch; returns JSON rather than a rendered page.
func (h *Handler) handleGenerateTagline(w http.ResponseWriter, r *http.Request) {
	sessionUser, ok := auth.CurrentUser(r)
	if !ok {
		jsonutil.Unauthorized(w, "Sign in to generate a tagline.")
		return
	}

	if h.generator == nil {
		jsonutil.Error(w, http.StatusServiceUnavailable, "Tagline generation is not configured.")
		return
	}

	profile, err := h.profileStore.Load(r.Context(), sessionUser.UserID())
	if err != nil {
		h.errLog.Log(r, "failed to load profile", err)
		jsonutil.InternalError(w, "Failed to load your profile.")
		return
	}

	about := ""
	if profile != nil {
		about = profile.About
	}

	result, err := h.generator.Generate(r.Context(), about)
	if err != nil {
		if errors.Is(err, tagline.ErrEmptyAbout) {
			jsonutil.UnprocessableEntity(w, `Please fill out your "About Me" section first.`)
			return
		}
		h.errLog.Log(r, "tagline generation failed", err)
		jsonutil.BadGateway(w, "Failed to generate tagline.")
		return
	}

	jsonutil.OK(w, taglineResponse{Tagline: result})
}

// serveQR renders the share-URL QR code as a PNG.
func (h *Handler) serveQR(w http.ResponseWriter, r *http.Request) {
	sessionUser, ok := auth.CurrentUser(r)
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	png, err := cardview.QRPNG(cardview.ShareURL(h.shareBase, sessionUser.ID))
	if err != nil {
		h.errLog.Log(r, "failed to encode qr code", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(png)
}

// buildVM assembles the card editor view model. The preview email always
// comes from the session identity, never from the profile document.
func (h *Handler) buildVM(r *http.Request, sessionUser *auth.SessionUser, profile *models.Profile) CardVM {
	vm := CardVM{
		BaseVM:         viewdata.New(r),
		Preview:        cardview.Resolve(profile),
		ShareURL:       cardview.ShareURL(h.shareBase, sessionUser.ID),
		TaglineEnabled: h.generator != nil,
	}
	vm.Title = "Visiting Card"

	if sessionUser.Email != "" {
		vm.Preview.Email = sessionUser.Email
	}
	if profile != nil {
		vm.Tagline = profile.Tagline
		if profile.Contact != nil {
			vm.Phone = profile.Contact.Phone
			vm.Website = profile.Contact.Website
		}
	}
	return vm
}
