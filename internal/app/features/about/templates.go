// internal/app/features/about/templates.go
package about

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

//go:embed templates/*.gohtml
var tmplFS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "about",
		FS:       tmplFS,
		Patterns: []string{"templates/*.gohtml"},
	})
}
