package portfolio

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	errorsfeature "github.com/dalemusser/linkard/internal/app/features/errors"
	profilestore "github.com/dalemusser/linkard/internal/app/store/profiles"
	"github.com/dalemusser/linkard/internal/app/system/auth"
	"github.com/dalemusser/linkard/internal/app/system/inputval"
	"github.com/dalemusser/linkard/internal/domain/models"
	"github.com/dalemusser/linkard/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return NewHandler(db, errorsfeature.NewErrorLogger(zap.NewNop()), zap.NewNop())
}

// failingStore reads through to the real store but refuses every write.
type failingStore struct {
	profileStore
}

func (failingStore) Merge(context.Context, primitive.ObjectID, profilestore.Partial) error {
	return errors.New("write unavailable")
}

func postForm(t *testing.T, target string, form url.Values, user *auth.SessionUser) (*http.Request, *testutil.ResponseRecorder) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = auth.WithTestUser(req, user)
	req = testutil.WithCSRFToken(req)
	return req, testutil.NewRecorder()
}

func TestAdd_AppendsProject(t *testing.T) {
	testutil.MustBootTemplates(t)
	h := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	user := &auth.SessionUser{ID: userID.Hex(), Name: "Jane", Email: "jane@example.com"}

	form := url.Values{}
	form.Set("title", "Marketing Site")
	form.Set("description", "A fast marketing site for a local bakery.")
	form.Set("image_url", "https://placehold.co/600x400")

	req, rec := postForm(t, "/portfolio", form, user)
	h.handleAdd(rec, req)

	rec.AssertRedirect(t, "/portfolio?success=added")

	profile, err := h.profileStore.Load(ctx, userID)
	if err != nil {
		t.Fatalf("failed to load profile: %v", err)
	}
	if profile == nil || len(profile.Portfolio) != 1 {
		t.Fatal("portfolio should contain one item")
	}
	item := profile.Portfolio[0]
	if item.ID == "" {
		t.Error("item should get a generated id")
	}
	if item.Title != "Marketing Site" {
		t.Errorf("title = %q, want %q", item.Title, "Marketing Site")
	}
}

func TestAdd_PreservesExistingItems(t *testing.T) {
	testutil.MustBootTemplates(t)
	h := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	existing := []models.PortfolioItem{
		{ID: "existing-1", Title: "First", Description: "The first project."},
	}
	err := h.profileStore.Merge(ctx, userID, profilestore.Partial{
		Portfolio: profilestore.PortfolioList(existing),
	})
	if err != nil {
		t.Fatalf("failed to seed profile: %v", err)
	}

	user := &auth.SessionUser{ID: userID.Hex(), Name: "Jane", Email: "jane@example.com"}
	form := url.Values{}
	form.Set("title", "Second")
	form.Set("description", "The second project, even better.")
	form.Set("image_url", "https://placehold.co/600x400")

	req, rec := postForm(t, "/portfolio", form, user)
	h.handleAdd(rec, req)

	profile, err := h.profileStore.Load(ctx, userID)
	if err != nil {
		t.Fatalf("failed to load profile: %v", err)
	}
	if len(profile.Portfolio) != 2 {
		t.Fatalf("portfolio length = %d, want 2", len(profile.Portfolio))
	}
	// Insertion order is preserved
	if profile.Portfolio[0].ID != "existing-1" {
		t.Error("existing item should stay first")
	}
	if profile.Portfolio[1].Title != "Second" {
		t.Errorf("second item title = %q, want %q", profile.Portfolio[1].Title, "Second")
	}
}

func TestAdd_RejectsBadImageURL(t *testing.T) {
	testutil.MustBootTemplates(t)
	h := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	user := &auth.SessionUser{ID: userID.Hex(), Name: "Jane", Email: "jane@example.com"}

	form := url.Values{}
	form.Set("title", "Broken")
	form.Set("description", "A project with a bad image reference.")
	form.Set("image_url", "not-a-url")

	req, rec := postForm(t, "/portfolio", form, user)
	h.handleAdd(rec, req)

	// Re-renders the page with the error instead of redirecting
	rec.AssertStatus(t, http.StatusOK)

	profile, err := h.profileStore.Load(ctx, userID)
	if err != nil {
		t.Fatalf("failed to load profile: %v", err)
	}
	if profile != nil && len(profile.Portfolio) != 0 {
		t.Error("invalid input must not add an item")
	}
}

func TestAdd_MergeFailureLeavesListUnchanged(t *testing.T) {
	testutil.MustBootTemplates(t)
	h := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	seeded := []models.PortfolioItem{
		{ID: "seed-1", Title: "Seeded Project", Description: "Was here before the failed write."},
	}
	err := h.profileStore.Merge(ctx, userID, profilestore.Partial{
		Portfolio: profilestore.PortfolioList(seeded),
	})
	if err != nil {
		t.Fatalf("failed to seed profile: %v", err)
	}

	// Writes fail from here on; reads still hit the real store.
	realStore := h.profileStore
	h.profileStore = failingStore{realStore}

	user := &auth.SessionUser{ID: userID.Hex(), Name: "Jane", Email: "jane@example.com"}
	form := url.Values{}
	form.Set("title", "Doomed Project")
	form.Set("description", "This write is going to fail.")
	form.Set("image_url", "https://placehold.co/600x400")

	req, rec := postForm(t, "/portfolio", form, user)
	h.handleAdd(rec, req)

	// Page re-renders with the error and the pre-write list
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "Failed to add item. Please try again.")
	rec.AssertContains(t, "Seeded Project")

	profile, err := realStore.Load(ctx, userID)
	if err != nil {
		t.Fatalf("failed to load profile: %v", err)
	}
	if len(profile.Portfolio) != 1 || profile.Portfolio[0].ID != "seed-1" {
		t.Errorf("stored portfolio changed after a failed write: %+v", profile.Portfolio)
	}
}

func TestDelete_MergeFailureLeavesListUnchanged(t *testing.T) {
	testutil.MustBootTemplates(t)
	h := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	seeded := []models.PortfolioItem{
		{ID: "seed-1", Title: "Seeded Project", Description: "Was here before the failed write."},
	}
	err := h.profileStore.Merge(ctx, userID, profilestore.Partial{
		Portfolio: profilestore.PortfolioList(seeded),
	})
	if err != nil {
		t.Fatalf("failed to seed profile: %v", err)
	}

	realStore := h.profileStore
	h.profileStore = failingStore{realStore}

	user := &auth.SessionUser{ID: userID.Hex(), Name: "Jane", Email: "jane@example.com"}
	form := url.Values{}
	form.Set("id", "seed-1")

	req, rec := postForm(t, "/portfolio/delete", form, user)
	h.handleDelete(rec, req)

	rec.AssertRedirect(t, "/portfolio?error=delete_failed")

	profile, err := realStore.Load(ctx, userID)
	if err != nil {
		t.Fatalf("failed to load profile: %v", err)
	}
	if len(profile.Portfolio) != 1 || profile.Portfolio[0].ID != "seed-1" {
		t.Errorf("stored portfolio changed after a failed write: %+v", profile.Portfolio)
	}
}

func TestDelete_RemovesOnlyTargetItem(t *testing.T) {
	testutil.MustBootTemplates(t)
	h := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	items := []models.PortfolioItem{
		{ID: "keep-1", Title: "Keep Me", Description: "Stays in the list."},
		{ID: "drop-1", Title: "Drop Me", Description: "Gets removed."},
		{ID: "keep-2", Title: "Keep Me Too", Description: "Also stays."},
	}
	err := h.profileStore.Merge(ctx, userID, profilestore.Partial{
		Portfolio: profilestore.PortfolioList(items),
	})
	if err != nil {
		t.Fatalf("failed to seed profile: %v", err)
	}

	user := &auth.SessionUser{ID: userID.Hex(), Name: "Jane", Email: "jane@example.com"}
	form := url.Values{}
	form.Set("id", "drop-1")

	req, rec := postForm(t, "/portfolio/delete", form, user)
	h.handleDelete(rec, req)

	rec.AssertRedirect(t, "/portfolio?success=deleted")

	profile, err := h.profileStore.Load(ctx, userID)
	if err != nil {
		t.Fatalf("failed to load profile: %v", err)
	}
	if len(profile.Portfolio) != 2 {
		t.Fatalf("portfolio length = %d, want 2", len(profile.Portfolio))
	}
	if profile.Portfolio[0].ID != "keep-1" || profile.Portfolio[1].ID != "keep-2" {
		t.Error("remaining items should keep their order")
	}
}

func TestDelete_UnknownIDIsNoop(t *testing.T) {
	testutil.MustBootTemplates(t)
	h := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	items := []models.PortfolioItem{
		{ID: "only-1", Title: "Only", Description: "The only project here."},
	}
	err := h.profileStore.Merge(ctx, userID, profilestore.Partial{
		Portfolio: profilestore.PortfolioList(items),
	})
	if err != nil {
		t.Fatalf("failed to seed profile: %v", err)
	}

	user := &auth.SessionUser{ID: userID.Hex(), Name: "Jane", Email: "jane@example.com"}
	form := url.Values{}
	form.Set("id", "no-such-id")

	req, rec := postForm(t, "/portfolio/delete", form, user)
	h.handleDelete(rec, req)

	rec.AssertRedirect(t, "/portfolio?success=deleted")

	profile, err := h.profileStore.Load(ctx, userID)
	if err != nil {
		t.Fatalf("failed to load profile: %v", err)
	}
	if len(profile.Portfolio) != 1 {
		t.Errorf("portfolio length = %d, want 1", len(profile.Portfolio))
	}
}

func TestShow_EmptyPortfolio(t *testing.T) {
	testutil.MustBootTemplates(t)
	h := newTestHandler(t)

	userID := primitive.NewObjectID()
	user := &auth.SessionUser{ID: userID.Hex(), Name: "Jane", Email: "jane@example.com"}

	req := testutil.NewRequest(http.MethodGet, "/portfolio")
	req = auth.WithTestUser(req, user)
	req = testutil.WithCSRFToken(req)
	rec := testutil.NewRecorder()

	h.showPortfolio(rec, req)

	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "Your portfolio is empty")
}

func TestProjectInput_Validation(t *testing.T) {
	tests := []struct {
		name    string
		input   projectInput
		wantErr bool
	}{
		{"valid", projectInput{Title: "My Site", Description: "A site I built recently.", ImageURL: "https://example.com/shot.png"}, false},
		{"short title", projectInput{Title: "X", Description: "A site I built recently.", ImageURL: "https://example.com/shot.png"}, true},
		{"short description", projectInput{Title: "My Site", Description: "too short", ImageURL: "https://example.com/shot.png"}, true},
		{"bad url", projectInput{Title: "My Site", Description: "A site I built recently.", ImageURL: "ftp://example.com/shot.png"}, true},
		{"missing url", projectInput{Title: "My Site", Description: "A site I built recently.", ImageURL: ""}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := inputval.Validate(tt.input)
			if res.HasErrors() != tt.wantErr {
				t.Errorf("HasErrors() = %v, want %v (%s)", res.HasErrors(), tt.wantErr, res.All())
			}
		})
	}
}
