package receipt

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/page"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/linestyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

var (
	headerFill = &props.Color{Red: 41, Green: 128, Blue: 185}
	stripeFill = &props.Color{Red: 245, Green: 245, Blue: 245}
	white      = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// RenderPDF composes doc and draws it as a PDF.
func RenderPDF(doc *Document, opts Options) ([]byte, error) {
	return DrawPDF(Compose(doc, opts))
}

// DrawPDF draws an already composed layout. Every layout page becomes
// exactly one PDF page. Vertical measures go through snapMM so the engine
// sees the same grid Compose laid the pages out on.
func DrawPDF(l *Layout) ([]byte, error) {
	opts := l.Options
	cfg := config.NewBuilder().
		WithDimensions(opts.Page.WidthMM(), snapMM(opts.Page.Height)).
		WithLeftMargin(mm(opts.SideMargin)).
		WithRightMargin(mm(opts.SideMargin)).
		WithTopMargin(snapMM(opts.TopMargin)).
		WithBottomMargin(snapMM(opts.BottomMargin)).
		Build()

	m := maroto.New(cfg)
	for _, p := range l.Pages {
		rows := make([]core.Row, 0, len(p.Blocks))
		for _, b := range p.Blocks {
			rows = append(rows, pdfRow(b.Block))
		}
		m.AddPages(page.New().Add(rows...))
	}

	pdfDoc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return pdfDoc.GetBytes(), nil
}

func mm(pt float64) float64 { return pt / PointsPerMM }

func pdfRow(b Block) core.Row {
	h := snapMM(b.Height)
	switch b.Kind {
	case BlockText:
		return row.New(h).Add(text.NewCol(12, b.Text, textProps(b, pdfAlign(b.Align))))
	case BlockRule:
		return row.New(h).Add(line.NewCol(12, props.Line{Thickness: 0.2}))
	case BlockDashedRule:
		return row.New(h).Add(line.NewCol(12, props.Line{Style: linestyle.Dashed, Thickness: 0.2}))
	case BlockTableHeader, BlockTableRow:
		cols := make([]core.Col, 0, len(ColumnSpans))
		for i, span := range ColumnSpans {
			var cell string
			if i < len(b.Cells) {
				cell = b.Cells[i]
			}
			tp := textProps(b, cellAlign(i))
			tp.Top = mm(cellPadY)
			tp.Left = mm(cellPadX)
			tp.Right = mm(cellPadX)
			if b.Kind == BlockTableHeader {
				tp.Color = white
			}
			cols = append(cols, text.NewCol(span, cell, tp))
		}
		r := row.New(h).Add(cols...)
		switch {
		case b.Kind == BlockTableHeader:
			r.WithStyle(&props.Cell{BackgroundColor: headerFill})
		case b.Shaded:
			r.WithStyle(&props.Cell{BackgroundColor: stripeFill})
		}
		return r
	default:
		return row.New(h).Add(col.New(12))
	}
}

func textProps(b Block, a align.Type) props.Text {
	style := fontstyle.Normal
	if b.Bold {
		style = fontstyle.Bold
	}
	return props.Text{Size: b.FontSize, Style: style, Align: a}
}

func pdfAlign(a Align) align.Type {
	switch a {
	case AlignCenter:
		return align.Center
	case AlignRight:
		return align.Right
	default:
		return align.Left
	}
}

// Product names sit left, quantities centred and prices right.
func cellAlign(i int) align.Type {
	switch i {
	case 0:
		return align.Left
	case 1:
		return align.Center
	default:
		return align.Right
	}
}
