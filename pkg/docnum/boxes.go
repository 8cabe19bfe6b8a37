package docnum

import (
	"github.com/nanaoosaki/go-docnum/pkg/docnum/ooxml"
)

// Box wrap geometry. A full content width of 9360 twips (6.5") fits the
// default letter page with 1" margins.
const (
	boxContentWidth = 9360
	boxTrailWidth   = 1440

	// Cell margins in twips: the top margin is deliberately smaller than
	// the rest so the heading text sits tight under the border instead of
	// floating mid-cell.
	boxMarginTop  = 20
	boxMarginSide = 80
)

// WrapInBox wraps a heading paragraph in a single-row table whose cell
// carries the box decoration. A cell's height follows its content plus
// explicit margins, whereas paragraph borders are measured against an
// inherited line height that cannot be overridden; the table form is the
// only one that renders a tight box.
//
// trailing is optional right-aligned companion content (a date range, a
// page cue); when present it gets its own right cell inside the same box.
// The heading keeps its style and outline level, so document navigation
// still sees it as a heading.
func WrapInBox(heading *ooxml.Paragraph, trailing *ooxml.Paragraph, box *BoxConfig) *ooxml.Table {
	if heading == nil || box == nil {
		return nil
	}

	borders := boxBorders(box)

	headWidth := boxContentWidth
	cells := make([]ooxml.TableCell, 0, 2)
	if trailing != nil {
		headWidth = boxContentWidth - boxTrailWidth
	}

	cells = append(cells, boxCell(heading, headWidth, borders, box.Fill))

	if trailing != nil {
		if trailing.Properties == nil {
			trailing.Properties = &ooxml.ParagraphProperties{}
		}
		trailing.Properties.Alignment = &ooxml.Alignment{Val: "right"}
		cells = append(cells, boxCell(trailing, boxTrailWidth, borders, box.Fill))
	}

	grid := &ooxml.TableGrid{Columns: []ooxml.GridColumn{{Width: headWidth}}}
	if trailing != nil {
		grid.Columns = append(grid.Columns, ooxml.GridColumn{Width: boxTrailWidth})
	}

	return &ooxml.Table{
		Properties: &ooxml.TableProperties{
			Width:  &ooxml.Width{Type: "dxa", Val: boxContentWidth},
			Layout: "fixed",
		},
		Grid: grid,
		Rows: []ooxml.TableRow{{Cells: cells}},
	}
}

func boxCell(p *ooxml.Paragraph, width int, borders *ooxml.TableBorders, fill string) ooxml.TableCell {
	props := &ooxml.TableCellProperties{
		Width:         &ooxml.Width{Type: "dxa", Val: width},
		Borders:       borders,
		VerticalAlign: "top",
		Margins: &ooxml.CellMargins{
			Top:    boxMarginTop,
			Bottom: boxMarginSide,
			Left:   boxMarginSide,
			Right:  boxMarginSide,
		},
	}
	if fill != "" {
		props.Shading = &ooxml.Shading{Fill: fill}
	}
	return ooxml.TableCell{
		Properties: props,
		Elements:   []ooxml.BodyElement{p},
	}
}

// boxBorders maps the configured edge selection onto cell borders.
func boxBorders(box *BoxConfig) *ooxml.TableBorders {
	color := box.Color
	if color == "" {
		color = "auto"
	}
	width := box.WidthPt8
	if width == 0 {
		width = 4
	}
	edge := func() *ooxml.BorderEdge {
		return &ooxml.BorderEdge{Style: "single", Size: width, Color: color}
	}

	borders := &ooxml.TableBorders{}
	switch box.Edge {
	case "top":
		borders.Top = edge()
	case "bottom", "":
		borders.Bottom = edge()
	case "box":
		borders.Top = edge()
		borders.Bottom = edge()
		borders.Left = edge()
		borders.Right = edge()
	}
	return borders
}
