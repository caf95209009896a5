// internal/app/features/portfolio/templates.go
package portfolio

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

//go:embed templates/*.gohtml
var tmplFS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "portfolio",
		FS:       tmplFS,
		Patterns: []string{"templates/*.gohtml"},
	})
}
