package ooxml

import (
	"encoding/xml"
	"io"
	"strings"
)

// Paragraph represents a w:p element.
type Paragraph struct {
	Properties *ParagraphProperties
	Runs       []Run
}

func (p Paragraph) isBodyElement() {}

// ParagraphProperties represents paragraph formatting properties. Only the
// properties the reconciliation engine reasons about are typed; everything
// else read from an existing document is preserved as RawXML.
type ParagraphProperties struct {
	Style        *Style
	Numbering    *NumberingProperties
	Spacing      *Spacing
	Indentation  *Indentation
	Alignment    *Alignment
	OutlineLevel *OutlineLevel
	RawXML       []RawXMLElement
}

// Style is a w:pStyle reference.
type Style struct {
	Val string `xml:"val,attr"`
}

// NumberingProperties is a w:numPr reference linking the paragraph to a
// numbering definition at a given level.
type NumberingProperties struct {
	Level *NumberingLevelRef
	ID    *NumberingIDRef
}

// NumberingLevelRef is a w:ilvl value.
type NumberingLevelRef struct {
	Val int `xml:"val,attr"`
}

// NumberingIDRef is a w:numId value.
type NumberingIDRef struct {
	Val int `xml:"val,attr"`
}

// Alignment represents w:jc.
type Alignment struct {
	Val string `xml:"val,attr"`
}

// Spacing represents w:spacing, values in twips.
type Spacing struct {
	Before   int
	After    int
	Line     int
	LineRule string
}

// Indentation represents w:ind, values in twips. Hanging pulls the first
// line left of Left; FirstLine pushes it right. Word ignores whichever is
// zero, so both are omitted when unset.
type Indentation struct {
	Left      int
	Right     int
	Hanging   int
	FirstLine int
}

// OutlineLevel represents w:outlineLvl, which keeps boxed headings visible
// to document navigation and tables of contents.
type OutlineLevel struct {
	Val int `xml:"val,attr"`
}

// StyleID returns the paragraph's style reference, or "" when unstyled.
func (p *Paragraph) StyleID() string {
	if p.Properties == nil || p.Properties.Style == nil {
		return ""
	}
	return p.Properties.Style.Val
}

// NumberingRef returns the paragraph's (numId, ilvl) reference. ok is
// false when the paragraph carries no w:numPr at all. A w:numPr without a
// w:numId (a dangling authoring artifact) reports numID 0 with ok true.
func (p *Paragraph) NumberingRef() (numID, level int, ok bool) {
	if p.Properties == nil || p.Properties.Numbering == nil {
		return 0, 0, false
	}
	n := p.Properties.Numbering
	if n.ID != nil {
		numID = n.ID.Val
	}
	if n.Level != nil {
		level = n.Level.Val
	}
	return numID, level, true
}

// SetNumberingRef writes the w:numPr reference, replacing any existing one.
func (p *Paragraph) SetNumberingRef(numID, level int) {
	if p.Properties == nil {
		p.Properties = &ParagraphProperties{}
	}
	p.Properties.Numbering = &NumberingProperties{
		Level: &NumberingLevelRef{Val: level},
		ID:    &NumberingIDRef{Val: numID},
	}
}

// SetIndentation writes the w:ind node, replacing any existing one.
func (p *Paragraph) SetIndentation(ind Indentation) {
	if p.Properties == nil {
		p.Properties = &ParagraphProperties{}
	}
	p.Properties.Indentation = &ind
}

// GetText returns the concatenated text of all runs in the paragraph.
func (p *Paragraph) GetText() string {
	var texts []string
	for i := range p.Runs {
		if text := p.Runs[i].GetText(); text != "" {
			texts = append(texts, text)
		}
	}
	return strings.Join(texts, "")
}

// FirstTextRun returns the first run that carries text, or nil.
func (p *Paragraph) FirstTextRun() *Run {
	for i := range p.Runs {
		if p.Runs[i].Text != nil && p.Runs[i].Text.Content != "" {
			return &p.Runs[i]
		}
	}
	return nil
}

// UnmarshalXML implements custom XML unmarshaling to preserve run order.
func (p *Paragraph) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
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
			case "pPr":
				var props ParagraphProperties
				if err := d.DecodeElement(&props, &t); err != nil {
					return err
				}
				p.Properties = &props
			case "r":
				var run Run
				if err := d.DecodeElement(&run, &t); err != nil {
					return err
				}
				p.Runs = append(p.Runs, run)
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			if t.Name.Local == "p" {
				return nil
			}
		}
	}
	return nil
}

// MarshalXML implements custom XML marshaling for Paragraph.
func (p Paragraph) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:p"}
	start.Attr = nil
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	if p.Properties != nil {
		if err := e.EncodeElement(p.Properties, xml.StartElement{Name: xml.Name{Local: "w:pPr"}}); err != nil {
			return err
		}
	}

	for i := range p.Runs {
		if err := e.EncodeElement(&p.Runs[i], xml.StartElement{Name: xml.Name{Local: "w:r"}}); err != nil {
			return err
		}
	}

	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// UnmarshalXML implements custom XML unmarshaling to preserve unknown
// paragraph properties.
func (p *ParagraphProperties) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
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
			case "pStyle":
				var style Style
				if err := d.DecodeElement(&style, &t); err != nil {
					return err
				}
				p.Style = &style
			case "numPr":
				var num NumberingProperties
				if err := d.DecodeElement(&num, &t); err != nil {
					return err
				}
				p.Numbering = &num
			case "spacing":
				var sp struct {
					Before   int    `xml:"before,attr"`
					After    int    `xml:"after,attr"`
					Line     int    `xml:"line,attr"`
					LineRule string `xml:"lineRule,attr"`
				}
				if err := d.DecodeElement(&sp, &t); err != nil {
					return err
				}
				p.Spacing = &Spacing{Before: sp.Before, After: sp.After, Line: sp.Line, LineRule: sp.LineRule}
			case "ind":
				var ind struct {
					Left      int `xml:"left,attr"`
					Right     int `xml:"right,attr"`
					Hanging   int `xml:"hanging,attr"`
					FirstLine int `xml:"firstLine,attr"`
				}
				if err := d.DecodeElement(&ind, &t); err != nil {
					return err
				}
				p.Indentation = &Indentation{Left: ind.Left, Right: ind.Right, Hanging: ind.Hanging, FirstLine: ind.FirstLine}
			case "jc":
				var jc Alignment
				if err := d.DecodeElement(&jc, &t); err != nil {
					return err
				}
				p.Alignment = &jc
			case "outlineLvl":
				var lvl OutlineLevel
				if err := d.DecodeElement(&lvl, &t); err != nil {
					return err
				}
				p.OutlineLevel = &lvl
			default:
				raw, err := captureRawElement(d, t)
				if err != nil {
					return err
				}
				p.RawXML = append(p.RawXML, raw)
			}
		case xml.EndElement:
			if t.Name.Local == "pPr" {
				return nil
			}
		}
	}
	return nil
}

// UnmarshalXML implements custom XML unmarshaling for NumberingProperties.
func (n *NumberingProperties) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
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
			case "ilvl":
				var lvl NumberingLevelRef
				if err := d.DecodeElement(&lvl, &t); err != nil {
					return err
				}
				n.Level = &lvl
			case "numId":
				var id NumberingIDRef
				if err := d.DecodeElement(&id, &t); err != nil {
					return err
				}
				n.ID = &id
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			if t.Name.Local == "numPr" {
				return nil
			}
		}
	}
	return nil
}

// MarshalXML implements custom XML marshaling for ParagraphProperties.
// Each property node is written at most once; the renderer resolves
// duplicates with first-node-wins, so a second conflicting node would be
// dead weight rather than an override. Schema order: pStyle, numPr,
// spacing, ind, jc, outlineLvl.
func (p ParagraphProperties) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:pPr"}
	start.Attr = nil
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	if p.Style != nil {
		s := xml.StartElement{Name: xml.Name{Local: "w:pStyle"}, Attr: []xml.Attr{strAttr("w:val", p.Style.Val)}}
		if err := e.EncodeElement(struct{}{}, s); err != nil {
			return err
		}
	}

	if p.Numbering != nil {
		if err := e.EncodeElement(p.Numbering, xml.StartElement{Name: xml.Name{Local: "w:numPr"}}); err != nil {
			return err
		}
	}

	if p.Spacing != nil {
		s := xml.StartElement{Name: xml.Name{Local: "w:spacing"}}
		if p.Spacing.Before != 0 {
			s.Attr = append(s.Attr, intAttr("w:before", p.Spacing.Before))
		}
		if p.Spacing.After != 0 {
			s.Attr = append(s.Attr, intAttr("w:after", p.Spacing.After))
		}
		if p.Spacing.Line != 0 {
			s.Attr = append(s.Attr, intAttr("w:line", p.Spacing.Line))
		}
		if p.Spacing.LineRule != "" {
			s.Attr = append(s.Attr, strAttr("w:lineRule", p.Spacing.LineRule))
		}
		if err := e.EncodeElement(struct{}{}, s); err != nil {
			return err
		}
	}

	if p.Indentation != nil {
		s := xml.StartElement{Name: xml.Name{Local: "w:ind"}}
		if p.Indentation.Left != 0 {
			s.Attr = append(s.Attr, intAttr("w:left", p.Indentation.Left))
		}
		if p.Indentation.Right != 0 {
			s.Attr = append(s.Attr, intAttr("w:right", p.Indentation.Right))
		}
		if p.Indentation.Hanging != 0 {
			s.Attr = append(s.Attr, intAttr("w:hanging", p.Indentation.Hanging))
		}
		if p.Indentation.FirstLine != 0 {
			s.Attr = append(s.Attr, intAttr("w:firstLine", p.Indentation.FirstLine))
		}
		if err := e.EncodeElement(struct{}{}, s); err != nil {
			return err
		}
	}

	if p.Alignment != nil {
		s := xml.StartElement{Name: xml.Name{Local: "w:jc"}, Attr: []xml.Attr{strAttr("w:val", p.Alignment.Val)}}
		if err := e.EncodeElement(struct{}{}, s); err != nil {
			return err
		}
	}

	if p.OutlineLevel != nil {
		s := xml.StartElement{Name: xml.Name{Local: "w:outlineLvl"}, Attr: []xml.Attr{intAttr("w:val", p.OutlineLevel.Val)}}
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

// MarshalXML implements custom XML marshaling for NumberingProperties.
// Schema order: ilvl before numId.
func (n NumberingProperties) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:numPr"}
	start.Attr = nil
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	if n.Level != nil {
		s := xml.StartElement{Name: xml.Name{Local: "w:ilvl"}, Attr: []xml.Attr{intAttr("w:val", n.Level.Val)}}
		if err := e.EncodeElement(struct{}{}, s); err != nil {
			return err
		}
	}
	if n.ID != nil {
		s := xml.StartElement{Name: xml.Name{Local: "w:numId"}, Attr: []xml.Attr{intAttr("w:val", n.ID.Val)}}
		if err := e.EncodeElement(struct{}{}, s); err != nil {
			return err
		}
	}

	return e.EncodeToken(xml.EndElement{Name: start.Name})
}
