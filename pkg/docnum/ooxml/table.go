package ooxml

import (
	"encoding/xml"
	"io"
)

// Table represents a w:tbl element.
type Table struct {
	Properties *TableProperties
	Grid       *TableGrid
	Rows       []TableRow
}

func (t Table) isBodyElement() {}

// TableProperties represents w:tblPr.
type TableProperties struct {
	Style   *Style
	Width   *Width
	Borders *TableBorders
	Layout  string // w:tblLayout type, e.g. "fixed"
	RawXML  []RawXMLElement
}

// TableGrid represents w:tblGrid column definitions.
type TableGrid struct {
	Columns []GridColumn
}

// GridColumn is a w:gridCol width in twips.
type GridColumn struct {
	Width int `xml:"w,attr"`
}

// TableRow represents a w:tr element.
type TableRow struct {
	Cells []TableCell
}

// TableCell represents a w:tc element. Elements is ordered and may contain
// both paragraphs and nested tables.
type TableCell struct {
	Properties *TableCellProperties
	Elements   []BodyElement
}

// TableCellProperties represents w:tcPr.
type TableCellProperties struct {
	Width         *Width
	VerticalAlign string // w:vAlign val, e.g. "top"
	Margins       *CellMargins
	Borders       *TableBorders
	Shading       *Shading
	RawXML        []RawXMLElement
}

// Width represents a w:tcW / w:tblW value.
type Width struct {
	Type string
	Val  int
}

// CellMargins represents w:tcMar, values in twips.
type CellMargins struct {
	Top    int
	Bottom int
	Left   int
	Right  int
}

// BorderEdge is one edge of a border set.
type BorderEdge struct {
	Style string // w:val, e.g. "single"
	Size  int    // eighths of a point
	Color string // hex, no leading #
}

// TableBorders represents w:tblBorders / w:tcBorders. Nil edges are
// omitted, which leaves the edge unset rather than explicitly none.
type TableBorders struct {
	Top    *BorderEdge
	Bottom *BorderEdge
	Left   *BorderEdge
	Right  *BorderEdge
}

// Shading represents w:shd fill.
type Shading struct {
	Fill string
}

// Paragraphs returns the cell's direct paragraphs, skipping nested tables.
func (c *TableCell) Paragraphs() []*Paragraph {
	var out []*Paragraph
	for _, el := range c.Elements {
		if p, ok := el.(*Paragraph); ok {
			out = append(out, p)
		}
	}
	return out
}

// UnmarshalXML implements custom XML unmarshaling for Table.
func (t *Table) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		token, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		switch tok := token.(type) {
		case xml.StartElement:
			switch tok.Name.Local {
			case "tblPr":
				var props TableProperties
				if err := d.DecodeElement(&props, &tok); err != nil {
					return err
				}
				t.Properties = &props
			case "tblGrid":
				var grid struct {
					Columns []GridColumn `xml:"gridCol"`
				}
				if err := d.DecodeElement(&grid, &tok); err != nil {
					return err
				}
				t.Grid = &TableGrid{Columns: grid.Columns}
			case "tr":
				var row TableRow
				if err := d.DecodeElement(&row, &tok); err != nil {
					return err
				}
				t.Rows = append(t.Rows, row)
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			if tok.Name.Local == "tbl" {
				return nil
			}
		}
	}
	return nil
}

// MarshalXML implements custom XML marshaling for Table.
func (t Table) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:tbl"}
	start.Attr = nil
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	if t.Properties != nil {
		if err := e.EncodeElement(t.Properties, xml.StartElement{Name: xml.Name{Local: "w:tblPr"}}); err != nil {
			return err
		}
	}

	if t.Grid != nil {
		gs := xml.StartElement{Name: xml.Name{Local: "w:tblGrid"}}
		if err := e.EncodeToken(gs); err != nil {
			return err
		}
		for _, col := range t.Grid.Columns {
			cs := xml.StartElement{Name: xml.Name{Local: "w:gridCol"}, Attr: []xml.Attr{intAttr("w:w", col.Width)}}
			if err := e.EncodeElement(struct{}{}, cs); err != nil {
				return err
			}
		}
		if err := e.EncodeToken(xml.EndElement{Name: gs.Name}); err != nil {
			return err
		}
	}

	for i := range t.Rows {
		if err := e.EncodeElement(&t.Rows[i], xml.StartElement{Name: xml.Name{Local: "w:tr"}}); err != nil {
			return err
		}
	}

	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// UnmarshalXML implements custom XML unmarshaling for TableRow.
func (r *TableRow) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		token, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tc":
				var cell TableCell
				if err := d.DecodeElement(&cell, &t); err != nil {
					return err
				}
				r.Cells = append(r.Cells, cell)
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			if t.Name.Local == "tr" {
				return nil
			}
		}
	}
	return nil
}

// MarshalXML implements custom XML marshaling for TableRow.
func (r TableRow) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:tr"}
	start.Attr = nil
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	for i := range r.Cells {
		if err := e.EncodeElement(&r.Cells[i], xml.StartElement{Name: xml.Name{Local: "w:tc"}}); err != nil {
			return err
		}
	}
	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// UnmarshalXML implements custom XML unmarshaling for TableCell,
// preserving the order of paragraphs and nested tables.
func (c *TableCell) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		token, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tcPr":
				var props TableCellProperties
				if err := d.DecodeElement(&props, &t); err != nil {
					return err
				}
				c.Properties = &props
			case "p":
				var para Paragraph
				if err := d.DecodeElement(&para, &t); err != nil {
					return err
				}
				c.Elements = append(c.Elements, &para)
			case "tbl":
				var table Table
				if err := d.DecodeElement(&table, &t); err != nil {
					return err
				}
				c.Elements = append(c.Elements, &table)
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			if t.Name.Local == "tc" {
				return nil
			}
		}
	}
	return nil
}

// MarshalXML implements custom XML marshaling for TableCell.
func (c TableCell) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:tc"}
	start.Attr = nil
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	if c.Properties != nil {
		if err := e.EncodeElement(c.Properties, xml.StartElement{Name: xml.Name{Local: "w:tcPr"}}); err != nil {
			return err
		}
	}

	for _, el := range c.Elements {
		switch v := el.(type) {
		case *Paragraph:
			if err := e.EncodeElement(v, xml.StartElement{Name: xml.Name{Local: "w:p"}}); err != nil {
				return err
			}
		case *Table:
			if err := e.EncodeElement(v, xml.StartElement{Name: xml.Name{Local: "w:tbl"}}); err != nil {
				return err
			}
		}
	}

	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// UnmarshalXML implements custom XML unmarshaling for TableProperties.
func (p *TableProperties) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		token, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tblStyle":
				var style Style
				if err := d.DecodeElement(&style, &t); err != nil {
					return err
				}
				p.Style = &style
			case "tblW":
				var w struct {
					Type string `xml:"type,attr"`
					Val  int    `xml:"w,attr"`
				}
				if err := d.DecodeElement(&w, &t); err != nil {
					return err
				}
				p.Width = &Width{Type: w.Type, Val: w.Val}
			case "tblBorders":
				var borders TableBorders
				if err := decodeBorders(d, t, &borders); err != nil {
					return err
				}
				p.Borders = &borders
			case "tblLayout":
				var l struct {
					Type string `xml:"type,attr"`
				}
				if err := d.DecodeElement(&l, &t); err != nil {
					return err
				}
				p.Layout = l.Type
			default:
				raw, err := captureRawElement(d, t)
				if err != nil {
					return err
				}
				p.RawXML = append(p.RawXML, raw)
			}
		case xml.EndElement:
			if t.Name.Local == "tblPr" {
				return nil
			}
		}
	}
	return nil
}

// MarshalXML implements custom XML marshaling for TableProperties.
func (p TableProperties) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:tblPr"}
	start.Attr = nil
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	if p.Style != nil {
		s := xml.StartElement{Name: xml.Name{Local: "w:tblStyle"}, Attr: []xml.Attr{strAttr("w:val", p.Style.Val)}}
		if err := e.EncodeElement(struct{}{}, s); err != nil {
			return err
		}
	}
	if p.Width != nil {
		s := xml.StartElement{Name: xml.Name{Local: "w:tblW"}, Attr: []xml.Attr{
			intAttr("w:w", p.Width.Val), strAttr("w:type", p.Width.Type),
		}}
		if err := e.EncodeElement(struct{}{}, s); err != nil {
			return err
		}
	}
	if p.Borders != nil {
		if err := encodeBorders(e, "w:tblBorders", p.Borders); err != nil {
			return err
		}
	}
	if p.Layout != "" {
		s := xml.StartElement{Name: xml.Name{Local: "w:tblLayout"}, Attr: []xml.Attr{strAttr("w:type", p.Layout)}}
		if err := e.EncodeElement(struct{}{}, s); err != nil {
			return err
		}
	}
	for i := range p.RawXML {
		if err := encodeRawMarker(e, &p.RawXML[i]); err != nil {
			return err
		}
	}

	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// UnmarshalXML implements custom XML unmarshaling for TableCellProperties.
func (p *TableCellProperties) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		token, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tcW":
				var w struct {
					Type string `xml:"type,attr"`
					Val  int    `xml:"w,attr"`
				}
				if err := d.DecodeElement(&w, &t); err != nil {
					return err
				}
				p.Width = &Width{Type: w.Type, Val: w.Val}
			case "vAlign":
				var v struct {
					Val string `xml:"val,attr"`
				}
				if err := d.DecodeElement(&v, &t); err != nil {
					return err
				}
				p.VerticalAlign = v.Val
			case "tcMar":
				var m CellMargins
				if err := decodeCellMargins(d, t, &m); err != nil {
					return err
				}
				p.Margins = &m
			case "tcBorders":
				var borders TableBorders
				if err := decodeBorders(d, t, &borders); err != nil {
					return err
				}
				p.Borders = &borders
			case "shd":
				var s struct {
					Fill string `xml:"fill,attr"`
				}
				if err := d.DecodeElement(&s, &t); err != nil {
					return err
				}
				p.Shading = &Shading{Fill: s.Fill}
			default:
				raw, err := captureRawElement(d, t)
				if err != nil {
					return err
				}
				p.RawXML = append(p.RawXML, raw)
			}
		case xml.EndElement:
			if t.Name.Local == "tcPr" {
				return nil
			}
		}
	}
	return nil
}

// MarshalXML implements custom XML marshaling for TableCellProperties.
func (p TableCellProperties) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:tcPr"}
	start.Attr = nil
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	if p.Width != nil {
		s := xml.StartElement{Name: xml.Name{Local: "w:tcW"}, Attr: []xml.Attr{
			intAttr("w:w", p.Width.Val), strAttr("w:type", p.Width.Type),
		}}
		if err := e.EncodeElement(struct{}{}, s); err != nil {
			return err
		}
	}
	if p.Borders != nil {
		if err := encodeBorders(e, "w:tcBorders", p.Borders); err != nil {
			return err
		}
	}
	if p.Shading != nil {
		s := xml.StartElement{Name: xml.Name{Local: "w:shd"}, Attr: []xml.Attr{
			strAttr("w:val", "clear"), strAttr("w:color", "auto"), strAttr("w:fill", p.Shading.Fill),
		}}
		if err := e.EncodeElement(struct{}{}, s); err != nil {
			return err
		}
	}
	if p.Margins != nil {
		ms := xml.StartElement{Name: xml.Name{Local: "w:tcMar"}}
		if err := e.EncodeToken(ms); err != nil {
			return err
		}
		edges := []struct {
			name string
			val  int
		}{
			{"w:top", p.Margins.Top},
			{"w:left", p.Margins.Left},
			{"w:bottom", p.Margins.Bottom},
			{"w:right", p.Margins.Right},
		}
		for _, edge := range edges {
			es := xml.StartElement{Name: xml.Name{Local: edge.name}, Attr: []xml.Attr{
				intAttr("w:w", edge.val), strAttr("w:type", "dxa"),
			}}
			if err := e.EncodeElement(struct{}{}, es); err != nil {
				return err
			}
		}
		if err := e.EncodeToken(xml.EndElement{Name: ms.Name}); err != nil {
			return err
		}
	}
	if p.VerticalAlign != "" {
		s := xml.StartElement{Name: xml.Name{Local: "w:vAlign"}, Attr: []xml.Attr{strAttr("w:val", p.VerticalAlign)}}
		if err := e.EncodeElement(struct{}{}, s); err != nil {
			return err
		}
	}
	for i := range p.RawXML {
		if err := encodeRawMarker(e, &p.RawXML[i]); err != nil {
			return err
		}
	}

	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

func decodeBorders(d *xml.Decoder, start xml.StartElement, out *TableBorders) error {
	for {
		token, err := d.Token()
		if err != nil {
			return err
		}
		switch t := token.(type) {
		case xml.StartElement:
			var edge struct {
				Val   string `xml:"val,attr"`
				Size  int    `xml:"sz,attr"`
				Color string `xml:"color,attr"`
			}
			if err := d.DecodeElement(&edge, &t); err != nil {
				return err
			}
			be := &BorderEdge{Style: edge.Val, Size: edge.Size, Color: edge.Color}
			switch t.Name.Local {
			case "top":
				out.Top = be
			case "bottom":
				out.Bottom = be
			case "left", "start":
				out.Left = be
			case "right", "end":
				out.Right = be
			}
		case xml.EndElement:
			if t.Name.Local == start.Name.Local {
				return nil
			}
		}
	}
}

func encodeBorders(e *xml.Encoder, name string, b *TableBorders) error {
	bs := xml.StartElement{Name: xml.Name{Local: name}}
	if err := e.EncodeToken(bs); err != nil {
		return err
	}
	edges := []struct {
		name string
		edge *BorderEdge
	}{
		{"w:top", b.Top},
		{"w:left", b.Left},
		{"w:bottom", b.Bottom},
		{"w:right", b.Right},
	}
	for _, item := range edges {
		if item.edge == nil {
			continue
		}
		color := item.edge.Color
		if color == "" {
			color = "auto"
		}
		es := xml.StartElement{Name: xml.Name{Local: item.name}, Attr: []xml.Attr{
			strAttr("w:val", item.edge.Style),
			intAttr("w:sz", item.edge.Size),
			strAttr("w:space", "0"),
			strAttr("w:color", color),
		}}
		if err := e.EncodeElement(struct{}{}, es); err != nil {
			return err
		}
	}
	return e.EncodeToken(xml.EndElement{Name: bs.Name})
}

func decodeCellMargins(d *xml.Decoder, start xml.StartElement, out *CellMargins) error {
	for {
		token, err := d.Token()
		if err != nil {
			return err
		}
		switch t := token.(type) {
		case xml.StartElement:
			var m struct {
				W int `xml:"w,attr"`
			}
			if err := d.DecodeElement(&m, &t); err != nil {
				return err
			}
			switch t.Name.Local {
			case "top":
				out.Top = m.W
			case "bottom":
				out.Bottom = m.W
			case "left", "start":
				out.Left = m.W
			case "right", "end":
				out.Right = m.W
			}
		case xml.EndElement:
			if t.Name.Local == start.Name.Local {
				return nil
			}
		}
	}
}
