package ooxml

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"sync"
)

// Raw content cannot be written through an xml.Encoder, which escapes
// everything it is handed. Marshaling therefore happens in two steps:
// every RawXMLElement is assigned a unique marker, the encoder emits the
// marker as a placeholder element, and the placeholders are replaced with
// the original bytes afterwards. The same technique keeps drawing markup
// and unknown properties byte-identical across a read-modify-write cycle.

const rawMarkerTag = "docnumRawMarker"

var markerCounter struct {
	mu sync.Mutex
	n  int
}

func nextMarker() string {
	markerCounter.mu.Lock()
	defer markerCounter.mu.Unlock()
	markerCounter.n++
	return fmt.Sprintf("__DOCNUM_RAW_%d__", markerCounter.n)
}

// encodeRawMarker assigns the element a marker (when the surrounding
// marshal registered one) and emits the placeholder.
func encodeRawMarker(e *xml.Encoder, raw *RawXMLElement) error {
	if raw.marker == "" {
		// Marshaling outside MarshalBodyElements; emit nothing rather
		// than corrupt the output with escaped markup.
		return nil
	}
	placeholder := struct {
		Content string `xml:",chardata"`
	}{Content: raw.marker}
	return e.EncodeElement(&placeholder, xml.StartElement{Name: xml.Name{Local: rawMarkerTag}})
}

// MarshalBodyElements renders body elements (paragraphs and tables) to
// WordprocessingML, expanding preserved raw content in place. Text frames
// that were parsed out of run markup are flushed back first, so repairs to
// frame paragraphs survive.
func MarshalBodyElements(elems []BodyElement) ([]byte, error) {
	reg := rawRegistry{}
	if err := reg.collectElements(elems); err != nil {
		return nil, err
	}
	defer reg.clear()

	var buf bytes.Buffer
	encoder := xml.NewEncoder(&buf)
	for _, el := range elems {
		switch v := el.(type) {
		case *Paragraph:
			if err := encoder.Encode(v); err != nil {
				return nil, fmt.Errorf("failed to encode paragraph: %w", err)
			}
		case *Table:
			if err := encoder.Encode(v); err != nil {
				return nil, fmt.Errorf("failed to encode table: %w", err)
			}
		}
	}
	if err := encoder.Flush(); err != nil {
		return nil, err
	}

	return reg.expand(buf.Bytes()), nil
}

// MarshalBody renders a full w:body element including the preserved
// section properties.
func MarshalBody(body *Body) ([]byte, error) {
	reg := rawRegistry{}
	if err := reg.collectElements(body.Elements); err != nil {
		return nil, err
	}
	if body.SectPr != nil {
		reg.register(body.SectPr)
	}
	defer reg.clear()

	var buf bytes.Buffer
	encoder := xml.NewEncoder(&buf)
	if err := encoder.Encode(body); err != nil {
		return nil, fmt.Errorf("failed to encode body: %w", err)
	}
	if err := encoder.Flush(); err != nil {
		return nil, err
	}

	return reg.expand(buf.Bytes()), nil
}

// rawRegistry tracks markers assigned for one marshal operation.
type rawRegistry map[string]*RawXMLElement

func (r rawRegistry) register(raw *RawXMLElement) {
	if raw.marker == "" {
		raw.marker = nextMarker()
	}
	r[raw.marker] = raw
}

func (r rawRegistry) collectElements(elems []BodyElement) error {
	for _, el := range elems {
		switch v := el.(type) {
		case *Paragraph:
			if err := r.collectParagraph(v); err != nil {
				return err
			}
		case *Table:
			if err := r.collectTable(v); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r rawRegistry) collectParagraph(p *Paragraph) error {
	if p.Properties != nil {
		for i := range p.Properties.RawXML {
			r.register(&p.Properties.RawXML[i])
		}
	}
	for i := range p.Runs {
		run := &p.Runs[i]
		// Parsed text frames are authoritative over the raw markup they
		// came from; splice repaired content back in before registering.
		if err := run.flushTextFrame(); err != nil {
			return err
		}
		for j := range run.RawXML {
			r.register(&run.RawXML[j])
		}
	}
	return nil
}

func (r rawRegistry) collectTable(t *Table) error {
	if t.Properties != nil {
		for i := range t.Properties.RawXML {
			r.register(&t.Properties.RawXML[i])
		}
	}
	for i := range t.Rows {
		for j := range t.Rows[i].Cells {
			cell := &t.Rows[i].Cells[j]
			if cell.Properties != nil {
				for k := range cell.Properties.RawXML {
					r.register(&cell.Properties.RawXML[k])
				}
			}
			if err := r.collectElements(cell.Elements); err != nil {
				return err
			}
		}
	}
	return nil
}

// expand replaces the placeholder elements with the preserved raw bytes.
func (r rawRegistry) expand(rendered []byte) []byte {
	for marker, raw := range r {
		placeholder := []byte("<" + rawMarkerTag + ">" + marker + "</" + rawMarkerTag + ">")
		rendered = bytes.Replace(rendered, placeholder, raw.Content, 1)
	}
	return rendered
}

func (r rawRegistry) clear() {
	for _, raw := range r {
		raw.marker = ""
	}
}
