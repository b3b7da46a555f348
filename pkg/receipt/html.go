package receipt

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/preview.html
var templateFS embed.FS

var previewTmpl = template.Must(template.ParseFS(templateFS, "templates/preview.html"))

type previewView struct {
	Store     Store
	Fields    []Field
	Columns   []string
	Rows      [][]string
	Total     string
	TotalSpan int
	Footer    string
}

// RenderHTML renders the on-screen preview fragment of doc.
func RenderHTML(doc *Document) ([]byte, error) {
	span := len(doc.Columns) - 1
	if span < 1 {
		span = 1
	}
	view := previewView{
		Store:     doc.Store,
		Fields:    doc.PreviewFields(),
		Columns:   doc.Columns,
		Rows:      doc.Rows,
		Total:     doc.Total,
		TotalSpan: span,
		Footer:    doc.Footer,
	}

	var buf bytes.Buffer
	if err := previewTmpl.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("failed to render preview: %w", err)
	}
	return buf.Bytes(), nil
}

// PreviewHTML is RenderHTML typed for embedding in other templates.
func PreviewHTML(doc *Document) (template.HTML, error) {
	b, err := RenderHTML(doc)
	if err != nil {
		return "", err
	}
	return template.HTML(b), nil
}
