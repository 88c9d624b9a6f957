// Package web holds the server-rendered admin pages.
package web

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

var funcs = template.FuncMap{
	"prevPage": func(page int) int { return page - 1 },
	"nextPage": func(page int) int { return page + 1 },
}

// Templates parses the embedded page templates.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
}
