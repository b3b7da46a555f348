package receipt

import (
	"github.com/unquiedeveloper/sg-store2/pkg/printer"
)

// RenderESCPOS renders doc for a thermal printer with width characters
// per line. Non-positive widths mean 58mm paper.
func RenderESCPOS(doc *Document, width int) []byte {
	d := printer.NewDocument(width)
	w := d.Width()

	d.Align(printer.AlignCenter).
		Size(printer.SizeDouble).Bold(true).Line(doc.Store.Name).
		Size(printer.SizeNormal).Bold(false)
	for _, line := range wrapChars(doc.Store.Address, w) {
		d.Line(line)
	}
	if doc.Store.Phone != "" {
		d.Line(doc.Store.Phone)
	}
	d.Rule('-').Bold(true).Line(doc.Title).Bold(false)

	d.Align(printer.AlignLeft)
	for _, f := range doc.PrintFields() {
		for _, line := range wrapChars(f.Label+": "+f.Value, w) {
			d.Line(line)
		}
	}
	d.Rule('-').Line("Products:")

	widths := columnWidths(w)
	d.Bold(true).Columns(doc.Columns, widths).Bold(false)
	for _, row := range doc.Rows {
		d.Columns(row, widths)
	}
	d.Rule('-')

	d.Bold(true).KeyValue("Total:", doc.Total).Bold(false).
		Rule('-').
		Align(printer.AlignCenter).Line(doc.Footer).
		Rule('-').
		Feed(3).
		PartialCut()

	return d.Bytes()
}

// columnWidths splits a line into name, quantity and price columns.
func columnWidths(w int) []int {
	qty := w * 6 / 32
	price := w * 10 / 32
	return []int{w - qty - price, qty, price}
}

func wrapChars(s string, w int) []string {
	// Wrap measures in font units; one unit per character here.
	return Wrap(s, float64(w), 1/avgCharWidth)
}
