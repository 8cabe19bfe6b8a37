package ooxml

import (
	"encoding/xml"
	"strconv"
	"strings"
)

// BodyElement is any element that can appear in a document body, a table
// cell, or a header/footer part.
type BodyElement interface {
	isBodyElement()
}

// RawXMLElement preserves an element this model does not type. Content
// holds the complete element text, including its own start and end tags.
type RawXMLElement struct {
	XMLName xml.Name
	Attrs   []xml.Attr
	Content []byte

	// marker is assigned transiently during marshaling; see marshal.go.
	marker string
}

// Contains reports whether the raw content includes the given substring.
func (r *RawXMLElement) Contains(sub string) bool {
	return strings.Contains(string(r.Content), sub)
}

// captureRawElement reads the element opened by start to its matching end
// tag and returns it as raw text. Prefixes are reconstructed from the
// token names so the output matches the usual w:-prefixed source.
func captureRawElement(d *xml.Decoder, start xml.StartElement) (RawXMLElement, error) {
	raw := RawXMLElement{XMLName: start.Name, Attrs: start.Attr}

	var buf strings.Builder
	writeStartTag(&buf, start)

	depth := 1
	for depth > 0 {
		tok, err := d.Token()
		if err != nil {
			return raw, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			writeStartTag(&buf, t)
		case xml.EndElement:
			depth--
			if depth > 0 {
				writeEndTag(&buf, t.Name)
			}
		case xml.CharData:
			xml.EscapeText(&buf, t)
		}
	}

	writeEndTag(&buf, start.Name)
	raw.Content = []byte(buf.String())
	return raw, nil
}

func writeStartTag(buf *strings.Builder, t xml.StartElement) {
	buf.WriteString("<")
	writeName(buf, t.Name)
	for _, attr := range t.Attr {
		buf.WriteString(" ")
		writeName(buf, attr.Name)
		buf.WriteString(`="`)
		// The decoder hands attribute values back unescaped; entities have
		// to be restored or the reconstructed text is malformed.
		xml.EscapeText(buf, []byte(attr.Value))
		buf.WriteString(`"`)
	}
	buf.WriteString(">")
}

func writeEndTag(buf *strings.Builder, name xml.Name) {
	buf.WriteString("</")
	writeName(buf, name)
	buf.WriteString(">")
}

// writeName restores the w: style prefix for names in the known DOCX
// namespaces. encoding/xml resolves prefixes to full namespace URIs, so
// the original prefix has to be mapped back when reconstructing raw text.
func writeName(buf *strings.Builder, name xml.Name) {
	if prefix, ok := namespacePrefixes[name.Space]; ok {
		buf.WriteString(prefix)
		buf.WriteString(":")
	} else if name.Space == "xmlns" {
		buf.WriteString("xmlns:")
	}
	buf.WriteString(name.Local)
}

// Namespace URIs that appear inside document bodies, mapped back to their
// conventional prefixes when raw content is reconstructed.
var namespacePrefixes = map[string]string{
	"http://schemas.openxmlformats.org/wordprocessingml/2006/main":                 "w",
	"http://schemas.openxmlformats.org/officeDocument/2006/relationships":          "r",
	"http://schemas.openxmlformats.org/drawingml/2006/main":                        "a",
	"http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing":       "wp",
	"http://schemas.microsoft.com/office/word/2010/wordprocessingShape":            "wps",
	"http://schemas.microsoft.com/office/word/2010/wordml":                         "w14",
	"http://schemas.openxmlformats.org/markup-compatibility/2006":                  "mc",
	"http://schemas.openxmlformats.org/officeDocument/2006/math":                   "m",
	"urn:schemas-microsoft-com:vml":                                                "v",
	"http://schemas.openxmlformats.org/drawingml/2006/picture":                     "pic",
}

// intAttr emits an integer attribute with the given (usually w:-prefixed)
// local name.
func intAttr(name string, val int) xml.Attr {
	return xml.Attr{Name: xml.Name{Local: name}, Value: strconv.Itoa(val)}
}

// strAttr emits a string attribute with the given local name.
func strAttr(name, val string) xml.Attr {
	return xml.Attr{Name: xml.Name{Local: name}, Value: val}
}
