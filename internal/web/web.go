// Package web holds the HTML templates and static assets, embedded into the
// binary so the server ships as a single file.
package web

import (
	"embed"
	"html/template"
	"io/fs"
)

//go:embed templates/*.gohtml
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// ParseTemplates parses all embedded page templates.
func ParseTemplates() (*template.Template, error) {
	return template.ParseFS(templateFS, "templates/*.gohtml")
}

// StaticFS returns the embedded static assets rooted at the static
// directory, for serving under /static/.
func StaticFS() (fs.FS, error) {
	return fs.Sub(staticFS, "static")
}
