// internal/domain/models/profile.go
package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Profile is the single per-user profile document backing every dashboard
// screen. One document per user, keyed by the user's ObjectID.
//
// Four independently edited slices live here: identity/bio (name, about),
// the portfolio list, and the visiting-card fields (tagline, contact).
// Writers must go through profilestore.Merge so that a save from one screen
// never clobbers fields owned by another.
//
// Email is derived from the session identity on every read and is never
// written from profile forms; the document is not the source of truth for it.
type Profile struct {
	UserID  primitive.ObjectID `bson:"_id,omitempty" json:"user_id"`
	Name    string             `bson:"name,omitempty" json:"name,omitempty"`
	Email   string             `bson:"email,omitempty" json:"email,omitempty"`
	About   string             `bson:"about,omitempty" json:"about,omitempty"`
	Tagline string             `bson:"tagline,omitempty" json:"tagline,omitempty"`
	Contact *Contact           `bson:"contact,omitempty" json:"contact,omitempty"`

	// Portfolio keeps insertion order. Mutation is whole-list replace:
	// callers read the list, append or filter, and write it back in one merge.
	Portfolio []PortfolioItem `bson:"portfolio,omitempty" json:"portfolio,omitempty"`
}

// Contact holds the visiting-card contact details. It is stored as a nested
// object and replaced wholesale on write (shallow merge at the top level),
// so editors must rebuild the full object before saving.
type Contact struct {
	Phone   string `bson:"phone,omitempty" json:"phone,omitempty"`
	Website string `bson:"website,omitempty" json:"website,omitempty"`
}

// PortfolioItem is one project in the mini portfolio.
type PortfolioItem struct {
	ID          string `bson:"id" json:"id"` // uuid, generated at append time, stable, removal key
	Title       string `bson:"title" json:"title"`
	Description string `bson:"description" json:"description"`
	ImageURL    string `bson:"image_url" json:"image_url"`
}

// Bio length bounds enforced by the about form.
const (
	AboutMinLen = 10
	AboutMaxLen = 500
)

// DefaultSiteName is the application display name used in layouts.
const DefaultSiteName = "Linkard"
