// Package receipt turns one bill into a printable receipt.
//
// A receipt is described once, as a Document: store header, a list of
// labelled fields, a product table, a total and a footer. Every output
// (PDF, HTML preview, ESC/POS) is rendered from that Document so the
// representations cannot drift apart.
package receipt

// Store is the business printed at the top of every receipt.
type Store struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

// Field is one labelled value of the customer section.
type Field struct {
	Label string `json:"label"`
	Value string `json:"value"`
	// PrintOnly fields are drawn on paper but left out of the on-screen preview.
	PrintOnly bool `json:"print_only,omitempty"`
	// PreviewOnly fields appear in the preview only.
	PreviewOnly bool `json:"preview_only,omitempty"`
}

// Document is the declarative description of one receipt.
type Document struct {
	Store   Store      `json:"store"`
	Title   string     `json:"title"`
	Fields  []Field    `json:"fields"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
	Total   string     `json:"total"`
	Footer  string     `json:"footer"`
}

// Default labels used by NewDocument.
const (
	DefaultTitle  = "Invoice"
	DefaultFooter = "Thanks For shopping!!"
)

// DefaultColumns are the product table headings.
var DefaultColumns = []string{"Product Name", "Quantity", "Price"}

// NewDocument returns a document with the standard title, columns and footer.
func NewDocument(store Store) *Document {
	cols := make([]string, len(DefaultColumns))
	copy(cols, DefaultColumns)
	return &Document{
		Store:   store,
		Title:   DefaultTitle,
		Columns: cols,
		Footer:  DefaultFooter,
	}
}

// AddField appends a field shown in every output.
func (d *Document) AddField(label, value string) *Document {
	d.Fields = append(d.Fields, Field{Label: label, Value: value})
	return d
}

// AddRow appends one product row; cells follow Columns.
func (d *Document) AddRow(cells ...string) *Document {
	d.Rows = append(d.Rows, cells)
	return d
}

// PrintFields returns the fields drawn on paper.
func (d *Document) PrintFields() []Field {
	out := make([]Field, 0, len(d.Fields))
	for _, f := range d.Fields {
		if !f.PreviewOnly {
			out = append(out, f)
		}
	}
	return out
}

// PreviewFields returns the fields shown in the HTML preview.
func (d *Document) PreviewFields() []Field {
	out := make([]Field, 0, len(d.Fields))
	for _, f := range d.Fields {
		if !f.PrintOnly {
			out = append(out, f)
		}
	}
	return out
}
