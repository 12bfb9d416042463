package web

import (
	"embed"
	"html/template"

	"github.com/pkg/errors"
)

//go:embed templates/*.html
var EmbeddedTemplatesFS embed.FS

// parseTemplates loads every embedded template once at startup
func parseTemplates() (*template.Template, error) {
	tmpl, err := template.ParseFS(EmbeddedTemplatesFS, "templates/*.html")
	if err != nil {
		return nil, errors.Wrap(err, "parse embedded templates")
	}
	return tmpl, nil
}
