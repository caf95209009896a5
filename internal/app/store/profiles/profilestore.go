// internal/app/store/profiles/profilestore.go
package profilestore

// The profile store is the sole read/write gateway to the per-user profile
// document. Every dashboard screen hydrates through Load and persists through
// Merge; nothing else touches the profiles collection.

import (
	"context"
	"fmt"
	"time"

	"github.com/dalemusser/linkard/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store provides access to the profiles collection.
type Store struct {
	c *mongo.Collection
}

// New creates a new profile store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("profiles")}
}

// Partial holds a partial profile write. Only non-nil fields are written;
// nil fields are left untouched on the stored document.
//
// The merge is shallow at the top level: setting Contact replaces the entire
// contact object (phone and website together), and setting Portfolio replaces
// the entire list. Callers editing one nested field must first Load and
// rebuild the full value.
//
// There is deliberately no Email field. Email comes from the session identity
// at read time and is never persisted from user-driven writes.
type Partial struct {
	Name      *string
	About     *string
	Tagline   *string
	Contact   *models.Contact
	Portfolio *[]models.PortfolioItem
}

// IsEmpty reports whether the partial contains no fields to write.
func (p Partial) IsEmpty() bool {
	return p.Name == nil && p.About == nil && p.Tagline == nil &&
		p.Contact == nil && p.Portfolio == nil
}

// Load fetches the profile document for userID.
// An absent document returns (nil, nil) — a valid state, distinct from an
// existing-but-empty document. All fields default to empty in that case.
func (s *Store) Load(ctx context.Context, userID primitive.ObjectID) (*models.Profile, error) {
	var p models.Profile
	err := s.c.FindOne(ctx, bson.M{"_id": userID}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load profile %s: %w", userID.Hex(), err)
	}
	return &p, nil
}

// Merge writes only the fields present in the partial, leaving every other
// top-level field untouched. Upsert creates the document lazily on the first
// save from any screen. Calling Merge twice with the same partial yields the
// same stored state.
func (s *Store) Merge(ctx context.Context, userID primitive.ObjectID, partial Partial) error {
	// An empty partial writes nothing, not even updated_at: an absent
	// document stays absent and an existing one keeps its timestamp.
	if partial.IsEmpty() {
		return nil
	}

	set := bson.M{
		"updated_at": time.Now().UTC(),
	}

	if partial.Name != nil {
		set["name"] = *partial.Name
	}
	if partial.About != nil {
		set["about"] = *partial.About
	}
	if partial.Tagline != nil {
		set["tagline"] = *partial.Tagline
	}
	if partial.Contact != nil {
		// Whole-object replace. A partial contact would silently drop the
		// sibling field; callers rebuild the full object before merging.
		set["contact"] = bson.M{
			"phone":   partial.Contact.Phone,
			"website": partial.Contact.Website,
		}
	}
	if partial.Portfolio != nil {
		set["portfolio"] = *partial.Portfolio
	}

	opts := options.Update().SetUpsert(true)
	if _, err := s.c.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": set}, opts); err != nil {
		return fmt.Errorf("merge profile %s: %w", userID.Hex(), err)
	}
	return nil
}

// Helpers for building partials without local pointer plumbing.

// String returns a pointer to s for use in a Partial.
func String(s string) *string { return &s }

// PortfolioList returns a pointer to items for use in a Partial.
func PortfolioList(items []models.PortfolioItem) *[]models.PortfolioItem { return &items }
