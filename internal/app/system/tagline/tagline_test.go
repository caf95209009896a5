package tagline

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// fakeGenerator implements Generator for handler tests elsewhere; here it
// verifies the interface contract is expressible without the Gemini backend.
type fakeGenerator struct {
	result string
	err    error
}

func (f *fakeGenerator) Generate(ctx context.Context, about string) (string, error) {
	if strings.TrimSpace(about) == "" {
		return "", ErrEmptyAbout
	}
	return f.result, f.err
}

var _ Generator = (*fakeGenerator)(nil)

func TestGenerate_EmptyAbout(t *testing.T) {
	g := &fakeGenerator{result: "should not be returned"}

	for _, about := range []string{"", "   ", "\n\t"} {
		_, err := g.Generate(context.Background(), about)
		if !errors.Is(err, ErrEmptyAbout) {
			t.Errorf("Generate(%q) err = %v, want ErrEmptyAbout", about, err)
		}
	}
}

func TestBuildPrompt(t *testing.T) {
	prompt := buildPrompt("I design brand identities for small studios.")

	if !strings.Contains(prompt, "expert marketing copywriter") {
		t.Error("prompt missing copywriter framing")
	}
	if !strings.Contains(prompt, "no more than 10 words") {
		t.Error("prompt missing length constraint")
	}
	if !strings.Contains(prompt, "I design brand identities for small studios.") {
		t.Error("prompt missing the bio text")
	}
}

func TestCleanResponse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "Designs that speak louder than words", "Designs that speak louder than words"},
		{"trailing newline", "Designs that speak\n", "Designs that speak"},
		{"double quoted", `"Code with craft"`, "Code with craft"},
		{"single quoted", `'Code with craft'`, "Code with craft"},
		{"quoted with whitespace", "  \"Code with craft\"  ", "Code with craft"},
		{"internal newlines collapsed", "Code\nwith  craft", "Code with craft"},
		{"empty", "", ""},
		{"only quotes", `""`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanResponse(tt.input); got != tt.want {
				t.Errorf("CleanResponse(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewGemini_RequiresAPIKey(t *testing.T) {
	if _, err := NewGemini(context.Background(), "", ""); err == nil {
		t.Error("expected error for missing API key")
	}
}
