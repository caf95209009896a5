// internal/app/features/card/templates.go
package card

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

//go:embed templates/*.gohtml
var tmplFS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "card",
		FS:       tmplFS,
		Patterns: []string{"templates/*.gohtml"},
	})
}
