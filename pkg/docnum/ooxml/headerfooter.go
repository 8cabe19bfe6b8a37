package ooxml

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
)

// HeaderFooter represents a word/headerN.xml or word/footerN.xml part.
// Both share the body content model: ordered paragraphs and tables.
type HeaderFooter struct {
	Root     string // "hdr" or "ftr"
	Elements []BodyElement
}

// ParseHeaderFooter parses a header or footer part.
func ParseHeaderFooter(content []byte) (*HeaderFooter, error) {
	var hf HeaderFooter
	decoder := xml.NewDecoder(bytes.NewReader(content))
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse header/footer part: %w", err)
		}

		start, ok := token.(xml.StartElement)
		if !ok {
			continue
		}
		switch start.Name.Local {
		case "hdr", "ftr":
			hf.Root = start.Name.Local
		case "p":
			var para Paragraph
			if err := decoder.DecodeElement(&para, &start); err != nil {
				return nil, err
			}
			hf.Elements = append(hf.Elements, &para)
		case "tbl":
			var table Table
			if err := decoder.DecodeElement(&table, &start); err != nil {
				return nil, err
			}
			hf.Elements = append(hf.Elements, &table)
		default:
			if err := decoder.Skip(); err != nil {
				return nil, err
			}
		}
	}

	if hf.Root == "" {
		return nil, fmt.Errorf("unknown root element: not a header or footer part")
	}
	return &hf, nil
}

// MarshalElements renders the part's content elements. The caller is
// responsible for wrapping them in the original root tag, which carries
// the namespace declarations.
func (hf *HeaderFooter) MarshalElements() ([]byte, error) {
	return MarshalBodyElements(hf.Elements)
}

// Paragraphs returns the part's direct paragraphs, skipping tables.
func (hf *HeaderFooter) Paragraphs() []*Paragraph {
	var out []*Paragraph
	for _, el := range hf.Elements {
		if p, ok := el.(*Paragraph); ok {
			out = append(out, p)
		}
	}
	return out
}
