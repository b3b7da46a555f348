// Package view holds the server-rendered HTML pages.
package view

import (
	"embed"
	"html/template"

	"github.com/unquiedeveloper/sg-store2/pkg/pagination"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page template names
const (
	BillsPage   = "bills.html"
	PreviewPage = "preview.html"
)

var funcs = template.FuncMap{
	"add": func(a, b int) int { return a + b },
	"sub": func(a, b int) int { return a - b },
	// pageCount shows an empty list as page 1 of 1.
	"pageCount": func(p *pagination.Pagination) int {
		if p == nil || p.TotalPages < 1 {
			return 1
		}
		return p.TotalPages
	},
}

// Templates parses every page template.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
}
