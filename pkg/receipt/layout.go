package receipt

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"
)

// Unit conversions. Layout works in PDF points.
const (
	PointsPerInch = 72.0
	PointsPerMM   = 72.0 / 25.4
)

// PageSize is a physical page in points.
type PageSize struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ThermalRoll is a 2 inch wide, 250 mm long receipt page.
func ThermalRoll() PageSize {
	return PageSize{Width: 2 * PointsPerInch, Height: 250 * PointsPerMM}
}

// PageSizeOf builds a page from a width in inches and a length in millimetres.
func PageSizeOf(widthInch, lengthMM float64) PageSize {
	return PageSize{Width: widthInch * PointsPerInch, Height: lengthMM * PointsPerMM}
}

// WidthMM returns the page width in millimetres.
func (p PageSize) WidthMM() float64 { return p.Width / PointsPerMM }

// HeightMM returns the page height in millimetres.
func (p PageSize) HeightMM() float64 { return p.Height / PointsPerMM }

// OverflowPolicy decides what happens when the product table does not fit
// on the first page.
type OverflowPolicy string

const (
	// OverflowSplit continues the table on new pages; each row is drawn once.
	OverflowSplit OverflowPolicy = "split"
	// OverflowDuplicate reproduces the historical receipts: when the table
	// runs past Height-LegacyReserve a page holding the whole table again is
	// appended. Kept for reprints that must match old paper copies.
	OverflowDuplicate OverflowPolicy = "duplicate"
)

// ParseOverflowPolicy maps a configuration string to a policy.
func ParseOverflowPolicy(s string) (OverflowPolicy, error) {
	switch OverflowPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case OverflowSplit, "":
		return OverflowSplit, nil
	case OverflowDuplicate:
		return OverflowDuplicate, nil
	default:
		return "", fmt.Errorf("receipt: unknown overflow policy %q (use split or duplicate)", s)
	}
}

// The PDF engine reserves these margins on every page; layout must agree
// with it or the engine would insert page breaks of its own.
const (
	DefaultTopMargin    = 10 * PointsPerMM
	DefaultBottomMargin = 20 * PointsPerMM
	DefaultSideMargin   = 10.0
	LegacyReserve       = 200.0
)

// Options controls page geometry and overflow behaviour.
type Options struct {
	Page          PageSize
	SideMargin    float64
	TopMargin     float64
	BottomMargin  float64
	Overflow      OverflowPolicy
	LegacyReserve float64
}

// DefaultOptions lays receipts out on a ThermalRoll page.
func DefaultOptions() Options {
	return Options{
		Page:          ThermalRoll(),
		SideMargin:    DefaultSideMargin,
		TopMargin:     DefaultTopMargin,
		BottomMargin:  DefaultBottomMargin,
		Overflow:      OverflowSplit,
		LegacyReserve: LegacyReserve,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.Page.Width <= 0 || o.Page.Height <= 0 {
		o.Page = def.Page
	}
	if o.SideMargin <= 0 {
		o.SideMargin = def.SideMargin
	}
	if o.TopMargin <= 0 {
		o.TopMargin = def.TopMargin
	}
	if o.BottomMargin <= 0 {
		o.BottomMargin = def.BottomMargin
	}
	if o.Overflow == "" {
		o.Overflow = def.Overflow
	}
	if o.LegacyReserve <= 0 {
		o.LegacyReserve = def.LegacyReserve
	}
	o.Page.Height = snap(o.Page.Height)
	o.TopMargin = snap(o.TopMargin)
	o.BottomMargin = snap(o.BottomMargin)
	return o
}

// The PDF engine pads every page with a filler row and breaks pages when
// its cursor passes the bottom margin. Vertical measures are kept on a
// 1/64 mm grid so its sums are exact and the filler lands on the margin.
const mmGrid = 64.0

// snapMM converts points to millimetres on the grid.
func snapMM(pt float64) float64 {
	return math.Round(pt/PointsPerMM*mmGrid) / mmGrid
}

// snap rounds a length in points to the nearest grid line.
func snap(pt float64) float64 {
	return snapMM(pt) * PointsPerMM
}

// fitSlack keeps a page strictly short of the bottom margin.
const fitSlack = 0.01

// BlockKind identifies what a block draws.
type BlockKind int

const (
	BlockText BlockKind = iota
	BlockRule
	BlockDashedRule
	BlockTableHeader
	BlockTableRow
	BlockSpacer
)

// Align is the horizontal alignment of text blocks.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Block is one horizontal strip of a page with an explicit height.
type Block struct {
	Kind     BlockKind
	Text     string
	Cells    []string
	FontSize float64
	Bold     bool
	Align    Align
	Height   float64
	Shaded   bool
	// Row is the index into Document.Rows for table rows, -1 otherwise.
	Row int
}

// Placed is a block positioned on a page; Y is its top edge in points.
type Placed struct {
	Block
	Y float64
}

// Page holds the blocks drawn on one physical page, top to bottom.
type Page struct {
	Blocks []Placed
}

// Rows returns the Document row indexes drawn on the page, in order.
func (p Page) Rows() []int {
	var out []int
	for _, b := range p.Blocks {
		if b.Kind == BlockTableRow {
			out = append(out, b.Row)
		}
	}
	return out
}

// Bottom returns the lower edge of the last block.
func (p Page) Bottom() float64 {
	if len(p.Blocks) == 0 {
		return 0
	}
	last := p.Blocks[len(p.Blocks)-1]
	return last.Y + last.Height
}

// Layout is the result of Compose.
type Layout struct {
	Options Options
	Pages   []Page
	// TableOverflowed is true when the product table did not fit on page one.
	TableOverflowed bool
}

// ContentWidth is the drawable width between the side margins.
func (l *Layout) ContentWidth() float64 {
	return l.Options.Page.Width - 2*l.Options.SideMargin
}

// Font sizes and block heights in points.
const (
	headingSize  = 18.0
	smallSize    = 7.0
	bodySize     = 8.0
	tableSize    = 7.0
	footerSize   = 10.0
	cellPadX     = 1.5
	cellPadY     = 4.0
	lineSpacing  = 1.25
	avgCharWidth = 0.5
)

// ColumnSpans are the widths of the product table columns on a 12 unit grid.
var ColumnSpans = []int{5, 3, 4}

// ContinuedLabel heads the product table on follow-up pages.
const ContinuedLabel = "Products (continued)"

type composer struct {
	opts   Options
	width  float64
	layout *Layout
	y      float64
}

// Compose lays doc out on pages according to opts.
func Compose(doc *Document, opts Options) *Layout {
	opts = opts.withDefaults()
	c := &composer{
		opts:   opts,
		layout: &Layout{Options: opts},
	}
	c.width = c.layout.ContentWidth()

	c.newPage()
	c.placeAll(c.headerBlocks(doc))
	c.placeAll(c.fieldBlocks(doc))
	c.placeAll([]Block{
		{Kind: BlockRule, Height: 8, Row: -1},
		c.text("Products:", bodySize, false, AlignLeft, 12),
	})

	tableStart := c.y
	c.table(doc, ContinuedLabel)

	if opts.Overflow == OverflowDuplicate && tableStart+c.tableHeight(doc) > opts.Page.Height-opts.LegacyReserve {
		c.layout.TableOverflowed = true
		c.newPage()
		c.placeAll(c.continuationBlocks(doc, ContinuedLabel+":"))
		c.table(doc, ContinuedLabel)
	}

	c.keepTogether(c.footerBlocks(doc))
	return c.layout
}

func (c *composer) newPage() {
	c.layout.Pages = append(c.layout.Pages, Page{})
	c.y = c.opts.TopMargin
}

func (c *composer) fits(h float64) bool {
	return c.y+h <= c.opts.Page.Height-c.opts.BottomMargin-fitSlack
}

func (c *composer) place(b Block) {
	b.Height = snap(b.Height)
	page := &c.layout.Pages[len(c.layout.Pages)-1]
	page.Blocks = append(page.Blocks, Placed{Block: b, Y: c.y})
	c.y += b.Height
}

func (c *composer) placeAll(blocks []Block) {
	for _, b := range blocks {
		c.place(b)
	}
}

// keepTogether moves the whole group to a new page when it does not fit.
func (c *composer) keepTogether(blocks []Block) {
	var h float64
	for _, b := range blocks {
		h += snap(b.Height)
	}
	if !c.fits(h) {
		c.newPage()
	}
	c.placeAll(blocks)
}

func (c *composer) text(s string, size float64, bold bool, align Align, height float64) Block {
	return Block{Kind: BlockText, Text: s, FontSize: size, Bold: bold, Align: align, Height: height, Row: -1}
}

func (c *composer) headerBlocks(doc *Document) []Block {
	blocks := []Block{c.text(doc.Store.Name, headingSize, true, AlignCenter, 24)}
	for _, line := range Wrap(doc.Store.Address, c.width, smallSize) {
		blocks = append(blocks, c.text(line, smallSize, false, AlignCenter, 10))
	}
	if doc.Store.Phone != "" {
		blocks = append(blocks, c.text(doc.Store.Phone, smallSize, false, AlignCenter, 12))
	}
	return append(blocks,
		Block{Kind: BlockRule, Height: 8, Row: -1},
		c.text(doc.Title, bodySize, true, AlignCenter, 14),
	)
}

func (c *composer) fieldBlocks(doc *Document) []Block {
	var blocks []Block
	for _, f := range doc.PrintFields() {
		label := f.Label + ": " + f.Value
		for _, line := range Wrap(label, c.width, bodySize) {
			blocks = append(blocks, c.text(line, bodySize, false, AlignLeft, 13))
		}
	}
	return blocks
}

func (c *composer) continuationBlocks(doc *Document, label string) []Block {
	return []Block{
		c.text(doc.Store.Name, headingSize, true, AlignCenter, 24),
		{Kind: BlockRule, Height: 8, Row: -1},
		c.text(label, bodySize, false, AlignLeft, 12),
	}
}

func (c *composer) headerRow(doc *Document) Block {
	return Block{Kind: BlockTableHeader, Cells: doc.Columns, FontSize: tableSize, Bold: true, Height: c.rowHeight(doc.Columns), Row: -1}
}

func (c *composer) bodyRow(doc *Document, i int) Block {
	return Block{Kind: BlockTableRow, Cells: doc.Rows[i], FontSize: tableSize, Height: c.rowHeight(doc.Rows[i]), Shaded: i%2 == 1, Row: i}
}

// rowHeight fits the tallest wrapped cell of a row.
func (c *composer) rowHeight(cells []string) float64 {
	lines := 1
	for i, cell := range cells {
		if i >= len(ColumnSpans) {
			break
		}
		colWidth := c.width*float64(ColumnSpans[i])/12 - 2*cellPadX
		if n := len(Wrap(cell, colWidth, tableSize)); n > lines {
			lines = n
		}
	}
	return snap(2*cellPadY + float64(lines)*tableSize*lineSpacing)
}

func (c *composer) tableHeight(doc *Document) float64 {
	h := c.rowHeight(doc.Columns)
	for _, row := range doc.Rows {
		h += c.rowHeight(row)
	}
	return h
}

// table draws the header and every row, continuing on new pages as needed.
func (c *composer) table(doc *Document, continued string) {
	header := c.headerRow(doc)
	first := header.Height
	if len(doc.Rows) > 0 {
		first += c.rowHeight(doc.Rows[0])
	}
	if !c.fits(first) {
		c.layout.TableOverflowed = true
		c.newPage()
		c.placeAll(c.continuationBlocks(doc, continued))
	}
	c.place(header)

	for i := range doc.Rows {
		row := c.bodyRow(doc, i)
		if !c.fits(row.Height) {
			c.layout.TableOverflowed = true
			c.newPage()
			c.placeAll(c.continuationBlocks(doc, continued))
			c.place(header)
		}
		c.place(row)
	}
}

func (c *composer) footerBlocks(doc *Document) []Block {
	return []Block{
		{Kind: BlockSpacer, Height: 6, Row: -1},
		c.text("Total: "+doc.Total, footerSize, true, AlignRight, 16),
		{Kind: BlockDashedRule, Height: 10, Row: -1},
		c.text(doc.Footer, footerSize, false, AlignCenter, 16),
		{Kind: BlockDashedRule, Height: 10, Row: -1},
	}
}

// TextWidth estimates the width in points of s set in a Helvetica-like
// font of the given size.
func TextWidth(s string, size float64) float64 {
	return float64(utf8.RuneCountInString(s)) * size * avgCharWidth
}

// Wrap breaks s into lines no wider than width. Words longer than a line
// are split. An empty string yields no lines.
func Wrap(s string, width, size float64) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return nil
	}
	maxChars := int(width / TextWidth("m", size))
	if maxChars < 1 {
		maxChars = 1
	}

	var lines []string
	var cur string
	for _, w := range words {
		for utf8.RuneCountInString(w) > maxChars {
			if cur != "" {
				lines = append(lines, cur)
				cur = ""
			}
			r := []rune(w)
			lines = append(lines, string(r[:maxChars]))
			w = string(r[maxChars:])
		}
		switch {
		case cur == "":
			cur = w
		case TextWidth(cur+" "+w, size) <= width:
			cur += " " + w
		default:
			lines = append(lines, cur)
			cur = w
		}
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	return lines
}
