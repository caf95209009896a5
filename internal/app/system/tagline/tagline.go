// Package tagline generates short professional taglines from a freelancer's
// bio using the Gemini API.
package tagline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// Errors returned by tagline generation.
var (
	// ErrEmptyAbout means the bio is empty or whitespace; no model call is made.
	ErrEmptyAbout = errors.New("bio is empty; write a short bio before generating a tagline")

	// ErrGenerationFailed wraps model/API failures. The underlying error is
	// joined for logging; user-facing handlers show a generic message.
	ErrGenerationFailed = errors.New("tagline generation failed")
)

// Generator produces a tagline from a freelancer's bio.
// Implementations must return ErrEmptyAbout for blank input and wrap
// upstream failures in ErrGenerationFailed.
type Generator interface {
	Generate(ctx context.Context, about string) (string, error)
}

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// Gemini is a Generator backed by the Google Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a Gemini generator.
// model may be empty to use DefaultModel.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &Gemini{client: client, model: model}, nil
}

// buildPrompt renders the generation prompt for a bio.
func buildPrompt(about string) string {
	return "You are an expert marketing copywriter. Based on the following 'about me' section from a freelancer's profile, generate a professional tagline that is short, catchy, and no more than 10 words.\n\nAbout me: " + about
}

// Generate produces a tagline from the bio.
// The response is trimmed of whitespace and any surrounding quote marks the
// model tends to add.
func (g *Gemini) Generate(ctx context.Context, about string) (string, error) {
	about = strings.TrimSpace(about)
	if about == "" {
		return "", ErrEmptyAbout
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(buildPrompt(about)), nil)
	if err != nil {
		return "", errors.Join(ErrGenerationFailed, err)
	}

	text := CleanResponse(resp.Text())
	if text == "" {
		return "", fmt.Errorf("%w: model returned empty response", ErrGenerationFailed)
	}
	return text, nil
}

// CleanResponse normalizes raw model output into a display-ready tagline:
// whitespace trimmed, wrapping quotes removed, internal newlines collapsed.
func CleanResponse(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, `"'`)
	s = strings.TrimSpace(s)
	if strings.ContainsRune(s, '\n') {
		s = strings.Join(strings.Fields(s), " ")
	}
	return s
}
