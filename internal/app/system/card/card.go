// Package card builds the shareable visiting-card view of a profile:
// the public share URL, its QR code, and display fallbacks for fields the
// user has not filled in yet.
package card

import (
	"fmt"

	"github.com/dalemusser/linkard/internal/domain/models"
	qrcode "github.com/skip2/go-qrcode"
)

// Display placeholders for unfilled profile fields. The card always renders a
// complete layout; empty fields show these instead of collapsing.
const (
	PlaceholderName    = "Your Name"
	PlaceholderTagline = "Your Professional Tagline"
	PlaceholderEmail   = "your.email@example.com"
	PlaceholderPhone   = "+123 456 7890"
	PlaceholderWebsite = "yourwebsite.com"
)

// DefaultShareBase is the public origin encoded into share URLs when no
// base URL is configured.
const DefaultShareBase = "https://linkard.store"

// QRSize is the pixel width/height of generated QR code images.
const QRSize = 256

// ShareURL returns the public profile URL for a user, e.g.
// https://linkard.store/profile/<uid>. baseURL may be empty to use
// DefaultShareBase.
func ShareURL(baseURL, userID string) string {
	if baseURL == "" {
		baseURL = DefaultShareBase
	}
	return baseURL + "/profile/" + userID
}

// QRPNG encodes url as a QR code and returns the PNG bytes.
func QRPNG(url string) ([]byte, error) {
	png, err := qrcode.Encode(url, qrcode.Medium, QRSize)
	if err != nil {
		return nil, fmt.Errorf("encode qr code: %w", err)
	}
	return png, nil
}

// View is the fully resolved card content: every field populated either from
// the profile or from its placeholder.
type View struct {
	Name    string
	Tagline string
	Email   string
	Phone   string
	Website string
}

// orPlaceholder returns v, or fallback if v is empty.
func orPlaceholder(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

// Resolve builds the card View from a profile. profile may be nil (no
// document written yet), in which case every field is a placeholder.
func Resolve(profile *models.Profile) View {
	v := View{
		Name:    PlaceholderName,
		Tagline: PlaceholderTagline,
		Email:   PlaceholderEmail,
		Phone:   PlaceholderPhone,
		Website: PlaceholderWebsite,
	}
	if profile == nil {
		return v
	}

	v.Name = orPlaceholder(profile.Name, PlaceholderName)
	v.Tagline = orPlaceholder(profile.Tagline, PlaceholderTagline)
	v.Email = orPlaceholder(profile.Email, PlaceholderEmail)
	if profile.Contact != nil {
		v.Phone = orPlaceholder(profile.Contact.Phone, PlaceholderPhone)
		v.Website = orPlaceholder(profile.Contact.Website, PlaceholderWebsite)
	}
	return v
}
