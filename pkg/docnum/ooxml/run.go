package ooxml

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// Run represents a contiguous sequence of text with consistent formatting.
type Run struct {
	Properties *RunProperties
	Text       *Text
	Break      *Break
	// RawXML preserves run children the model does not type, most
	// importantly w:drawing and mc:AlternateContent wrappers that carry
	// floating text frames.
	RawXML []RawXMLElement

	// frame caches parsed w:txbxContent paragraphs from RawXML. Once
	// parsed, the frame is authoritative: marshaling splices the frame
	// paragraphs back into the raw drawing markup.
	frame *TextFrame
}

// TextFrame holds the paragraphs of a floating text frame (w:txbxContent).
type TextFrame struct {
	Elements []BodyElement

	rawIndex int // which RawXML entry the frame came from
}

// RunProperties represents run formatting properties.
type RunProperties struct {
	Bold   bool
	Italic bool
	Color  *Color
	Size   *Size
	Font   *Font
}

// Text represents a w:t element.
type Text struct {
	Space   string
	Content string
}

// Break represents a w:br element.
type Break struct {
	Type string
}

// Color represents text color.
type Color struct {
	Val string
}

// Size represents font size in half-points.
type Size struct {
	Val int
}

// Font represents the run font.
type Font struct {
	ASCII    string
	EastAsia string
}

// GetText returns the text content of the run.
func (r *Run) GetText() string {
	if r.Text == nil {
		return ""
	}
	return r.Text.Content
}

// SetText replaces the run text, preserving significant whitespace.
func (r *Run) SetText(s string) {
	if r.Text == nil {
		r.Text = &Text{}
	}
	r.Text.Content = s
	if strings.HasPrefix(s, " ") || strings.HasSuffix(s, " ") {
		r.Text.Space = "preserve"
	}
}

// TextFrame parses and returns the floating text frame carried by this
// run, if any. The parsed frame is cached; mutations to its paragraphs are
// written back into the drawing markup when the run is marshaled.
func (r *Run) TextFrame() (*TextFrame, bool, error) {
	if r.frame != nil {
		return r.frame, true, nil
	}
	for i := range r.RawXML {
		if !r.RawXML[i].Contains("<w:txbxContent>") {
			continue
		}
		frame, err := parseTextFrame(r.RawXML[i].Content)
		if err != nil {
			return nil, false, fmt.Errorf("failed to parse text frame: %w", err)
		}
		frame.rawIndex = i
		r.frame = frame
		return frame, true, nil
	}
	return nil, false, nil
}

// parseTextFrame extracts the first w:txbxContent block from drawing
// markup and parses its paragraphs and tables.
func parseTextFrame(raw []byte) (*TextFrame, error) {
	inner, ok := textFrameInner(raw)
	if !ok {
		return nil, fmt.Errorf("no txbxContent block found")
	}

	wrapped := []byte(`<w:txbxContent xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
		string(inner) + `</w:txbxContent>`)

	var frame TextFrame
	decoder := xml.NewDecoder(bytes.NewReader(wrapped))
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch start.Name.Local {
		case "txbxContent":
			// container, descend
		case "p":
			var para Paragraph
			if err := decoder.DecodeElement(&para, &start); err != nil {
				return nil, err
			}
			frame.Elements = append(frame.Elements, &para)
		case "tbl":
			var table Table
			if err := decoder.DecodeElement(&table, &start); err != nil {
				return nil, err
			}
			frame.Elements = append(frame.Elements, &table)
		default:
			if err := decoder.Skip(); err != nil {
				return nil, err
			}
		}
	}
	return &frame, nil
}

// textFrameInner returns the content between the first txbxContent tags.
func textFrameInner(raw []byte) ([]byte, bool) {
	const open = "<w:txbxContent>"
	const close = "</w:txbxContent>"
	s := string(raw)
	start := strings.Index(s, open)
	if start == -1 {
		return nil, false
	}
	end := strings.Index(s[start:], close)
	if end == -1 {
		return nil, false
	}
	return raw[start+len(open) : start+end], true
}

// flushTextFrame re-serializes a parsed (and possibly repaired) text frame
// back into the owning raw drawing markup. Must be called before the raw
// content is emitted.
func (r *Run) flushTextFrame() error {
	if r.frame == nil {
		return nil
	}
	rendered, err := MarshalBodyElements(r.frame.Elements)
	if err != nil {
		return fmt.Errorf("failed to marshal text frame content: %w", err)
	}

	raw := &r.RawXML[r.frame.rawIndex]
	inner, ok := textFrameInner(raw.Content)
	if !ok {
		return fmt.Errorf("txbxContent block disappeared from drawing markup")
	}
	raw.Content = bytes.Replace(raw.Content, inner, rendered, 1)
	return nil
}

// UnmarshalXML implements custom XML unmarshaling to preserve unknown run
// children verbatim.
func (r *Run) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
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
			case "rPr":
				var props RunProperties
				if err := d.DecodeElement(&props, &t); err != nil {
					return err
				}
				r.Properties = &props
			case "t":
				var text struct {
					Space   string `xml:"space,attr"`
					Content string `xml:",chardata"`
				}
				if err := d.DecodeElement(&text, &t); err != nil {
					return err
				}
				r.Text = &Text{Space: text.Space, Content: text.Content}
			case "br":
				var br struct {
					Type string `xml:"type,attr"`
				}
				if err := d.DecodeElement(&br, &t); err != nil {
					return err
				}
				r.Break = &Break{Type: br.Type}
			default:
				raw, err := captureRawElement(d, t)
				if err != nil {
					return err
				}
				r.RawXML = append(r.RawXML, raw)
			}
		case xml.EndElement:
			if t.Name.Local == "r" {
				return nil
			}
		}
	}
	return nil
}

// MarshalXML implements custom XML marshaling for Run.
func (r Run) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:r"}
	start.Attr = nil
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	if r.Properties != nil {
		if err := e.EncodeElement(r.Properties, xml.StartElement{Name: xml.Name{Local: "w:rPr"}}); err != nil {
			return err
		}
	}

	if r.Break != nil {
		if err := e.EncodeElement(r.Break, xml.StartElement{Name: xml.Name{Local: "w:br"}}); err != nil {
			return err
		}
	}

	if r.Text != nil {
		if err := e.EncodeElement(r.Text, xml.StartElement{Name: xml.Name{Local: "w:t"}}); err != nil {
			return err
		}
	}

	for i := range r.RawXML {
		if err := encodeRawMarker(e, &r.RawXML[i]); err != nil {
			return err
		}
	}

	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// MarshalXML implements custom XML marshaling for Text.
func (t Text) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:t"}
	start.Attr = nil
	if t.Space != "" {
		start.Attr = append(start.Attr, xml.Attr{
			Name:  xml.Name{Local: "xml:space"},
			Value: t.Space,
		})
	}
	return e.EncodeElement(t.Content, start)
}

// MarshalXML implements xml.Marshaler to ensure Break is self-closing.
func (b *Break) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:br"}
	start.Attr = nil
	if b.Type != "" {
		start.Attr = append(start.Attr, strAttr("w:type", b.Type))
	}
	return e.EncodeElement(struct{}{}, start)
}

// UnmarshalXML implements custom XML unmarshaling for RunProperties.
func (p *RunProperties) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
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
			case "b":
				p.Bold = true
				if err := d.Skip(); err != nil {
					return err
				}
			case "i":
				p.Italic = true
				if err := d.Skip(); err != nil {
					return err
				}
			case "color":
				var c struct {
					Val string `xml:"val,attr"`
				}
				if err := d.DecodeElement(&c, &t); err != nil {
					return err
				}
				p.Color = &Color{Val: c.Val}
			case "sz":
				var s struct {
					Val int `xml:"val,attr"`
				}
				if err := d.DecodeElement(&s, &t); err != nil {
					return err
				}
				p.Size = &Size{Val: s.Val}
			case "rFonts":
				var f struct {
					ASCII    string `xml:"ascii,attr"`
					EastAsia string `xml:"eastAsia,attr"`
				}
				if err := d.DecodeElement(&f, &t); err != nil {
					return err
				}
				p.Font = &Font{ASCII: f.ASCII, EastAsia: f.EastAsia}
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			if t.Name.Local == "rPr" {
				return nil
			}
		}
	}
	return nil
}

// MarshalXML implements custom XML marshaling for RunProperties. Schema
// order: rFonts, b, i, color, sz.
func (p RunProperties) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:rPr"}
	start.Attr = nil
	if err := e.EncodeToken(start); err != nil {
		return err
	}

	if p.Font != nil {
		fs := xml.StartElement{Name: xml.Name{Local: "w:rFonts"}}
		if p.Font.ASCII != "" {
			fs.Attr = append(fs.Attr, strAttr("w:ascii", p.Font.ASCII), strAttr("w:hAnsi", p.Font.ASCII))
		}
		if p.Font.EastAsia != "" {
			fs.Attr = append(fs.Attr, strAttr("w:eastAsia", p.Font.EastAsia))
		}
		if err := e.EncodeElement(struct{}{}, fs); err != nil {
			return err
		}
	}
	if p.Bold {
		if err := e.EncodeElement(struct{}{}, xml.StartElement{Name: xml.Name{Local: "w:b"}}); err != nil {
			return err
		}
	}
	if p.Italic {
		if err := e.EncodeElement(struct{}{}, xml.StartElement{Name: xml.Name{Local: "w:i"}}); err != nil {
			return err
		}
	}
	if p.Color != nil {
		cs := xml.StartElement{Name: xml.Name{Local: "w:color"}, Attr: []xml.Attr{strAttr("w:val", p.Color.Val)}}
		if err := e.EncodeElement(struct{}{}, cs); err != nil {
			return err
		}
	}
	if p.Size != nil {
		ss := xml.StartElement{Name: xml.Name{Local: "w:sz"}, Attr: []xml.Attr{intAttr("w:val", p.Size.Val)}}
		if err := e.EncodeElement(struct{}{}, ss); err != nil {
			return err
		}
	}

	return e.EncodeToken(xml.EndElement{Name: start.Name})
}
