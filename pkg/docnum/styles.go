package docnum

import (
	"encoding/xml"
	"fmt"
	"sort"
	"strings"

	"github.com/nanaoosaki/go-docnum/pkg/docnum/ooxml"
)

// stylesPart represents the w:styles element in styles.xml.
type stylesPart struct {
	XMLName xml.Name        `xml:"styles"`
	Styles  []documentStyle `xml:"style"`
}

// documentStyle represents a single w:style element.
type documentStyle struct {
	XMLName xml.Name `xml:"style"`
	Type    string   `xml:"type,attr"`
	StyleID string   `xml:"styleId,attr"`
	RawXML  []byte   `xml:",innerxml"`
}

// StyleHandle is the registered form of a named style. Handles are
// immutable once created; re-registering the same name returns the same
// handle.
type StyleHandle struct {
	Name   string
	Config StyleConfig

	// preexisting marks styles that were already present in the document
	// part; no new XML is generated for them.
	preexisting bool
	styleXML    string
}

// StyleRegistry is the per-document catalog of named paragraph styles.
// One registry per document instance: sharing an allocator across
// concurrently built documents would leak registration state between
// unrelated requests.
type StyleRegistry struct {
	source   []byte
	existing map[string]bool
	handles  map[string]*StyleHandle
	order    []string
}

// NewStyleRegistry creates a registry over the document's styles part.
// A nil part is valid and yields a minimal skeleton on output.
func NewStyleRegistry(stylesXML []byte) (*StyleRegistry, error) {
	reg := &StyleRegistry{
		source:   stylesXML,
		existing: make(map[string]bool),
		handles:  make(map[string]*StyleHandle),
	}

	if len(stylesXML) > 0 {
		var part stylesPart
		if err := xml.Unmarshal(stylesXML, &part); err != nil {
			return nil, NewDocumentError("parse", "styles.xml", err)
		}
		for _, style := range part.Styles {
			reg.existing[style.StyleID] = true
		}
	}

	return reg, nil
}

// Has reports whether the style id is known, either from the document
// part or from a registration in this registry.
func (r *StyleRegistry) Has(name string) bool {
	if r.existing[name] {
		return true
	}
	_, ok := r.handles[name]
	return ok
}

// GetOrCreate returns the handle for name, creating it on first call.
// Registering an existing name is a no-op that returns the existing
// handle unchanged: setup routines may run more than once against the
// same document instance, and a definition already consumed by prior
// paragraphs must never be re-mutated.
func (r *StyleRegistry) GetOrCreate(name string, config StyleConfig) (*StyleHandle, error) {
	if name == "" {
		return nil, NewValidationError("name", "style name cannot be empty")
	}
	if h, ok := r.handles[name]; ok {
		return h, nil
	}
	if err := validateStyleConfig(name, config); err != nil {
		return nil, err
	}

	h := &StyleHandle{Name: name, Config: config}
	if r.existing[name] {
		h.preexisting = true
	} else {
		h.styleXML = buildStyleXML(name, config)
	}

	r.handles[name] = h
	r.order = append(r.order, name)
	return h, nil
}

// RegisterAll registers every style from a configuration mapping, in
// deterministic name order. Invalid entries do not stop the rest from
// registering; their errors are collected and returned together.
func (r *StyleRegistry) RegisterAll(configs map[string]StyleConfig) error {
	names := make([]string, 0, len(configs))
	for name := range configs {
		names = append(names, name)
	}
	sort.Strings(names)

	errs := NewMultiError()
	for _, name := range names {
		if _, err := r.GetOrCreate(name, configs[name]); err != nil {
			errs.Add(err)
		}
	}
	return errs.Err()
}

// Apply sets the paragraph's style reference. Properties representable
// through style inheritance are never also written as direct formatting:
// the renderer resolves the first node it encounters, so a duplicate is
// dead weight, not an override. The only direct XML Apply writes is the
// paragraph border/shading of a non-table box decoration, which style
// inheritance cannot carry reliably, and it writes that at most once.
func (r *StyleRegistry) Apply(p *ooxml.Paragraph, h *StyleHandle) {
	if p == nil || h == nil {
		return
	}
	if p.Properties == nil {
		p.Properties = &ooxml.ParagraphProperties{}
	}
	p.Properties.Style = &ooxml.Style{Val: h.Name}

	if h.Config.OutlineLevel > 0 && p.Properties.OutlineLevel == nil {
		p.Properties.OutlineLevel = &ooxml.OutlineLevel{Val: h.Config.OutlineLevel - 1}
	}

	box := h.Config.Box
	if box == nil || box.TableWrap {
		return
	}
	for i := range p.Properties.RawXML {
		if p.Properties.RawXML[i].Contains("<w:pBdr>") {
			return // already decorated, never write a second node
		}
	}
	p.Properties.RawXML = append(p.Properties.RawXML, ooxml.RawXMLElement{
		Content: []byte(buildParagraphBorderXML(box)),
	})
}

// StylesXML rebuilds the styles part with all newly registered styles
// appended. Styles that already existed in the part are left untouched.
func (r *StyleRegistry) StylesXML() ([]byte, error) {
	var newStyles []string
	for _, name := range r.order {
		h := r.handles[name]
		if !h.preexisting && h.styleXML != "" {
			newStyles = append(newStyles, h.styleXML)
		}
	}

	source := r.source
	if len(source) == 0 {
		source = []byte(emptyStylesXML)
	}
	if len(newStyles) == 0 {
		return source, nil
	}
	return insertBeforeClosingTag(source, "</w:styles>", strings.Join(newStyles, ""))
}

// insertBeforeClosingTag inserts fragment before the last occurrence of
// closingTag in the part.
func insertBeforeClosingTag(part []byte, closingTag, fragment string) ([]byte, error) {
	s := string(part)
	idx := strings.LastIndex(s, closingTag)
	if idx == -1 {
		return nil, fmt.Errorf("malformed part: missing %s", closingTag)
	}
	return []byte(s[:idx] + fragment + s[idx:]), nil
}

const emptyStylesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:style w:type="paragraph" w:styleId="Normal" w:default="1"><w:name w:val="Normal"/></w:style></w:styles>`

// buildStyleXML renders a w:style definition for a registered config.
func buildStyleXML(name string, cfg StyleConfig) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<w:style w:type="paragraph" w:styleId="%s">`, xmlEscape(name))
	fmt.Fprintf(&b, `<w:name w:val="%s"/>`, xmlEscape(name))

	// Minimal-ancestor rule: default to Normal so no preset spacing
	// sneaks in through inheritance.
	basedOn := cfg.BasedOn
	if basedOn == "" {
		basedOn = "Normal"
	}
	fmt.Fprintf(&b, `<w:basedOn w:val="%s"/>`, xmlEscape(basedOn))

	b.WriteString("<w:pPr>")
	fmt.Fprintf(&b, `<w:spacing w:before="%d" w:after="%d"/>`,
		Points(cfg.SpaceBeforePt).Twips(), Points(cfg.SpaceAfterPt).Twips())
	if cfg.IndentLeft != 0 || cfg.IndentHanging != 0 || cfg.FirstLine != 0 {
		b.WriteString("<w:ind")
		if cfg.IndentLeft != 0 {
			fmt.Fprintf(&b, ` w:left="%d"`, InchHundredths(cfg.IndentLeft).Twips())
		}
		if cfg.IndentHanging != 0 {
			fmt.Fprintf(&b, ` w:hanging="%d"`, InchHundredths(cfg.IndentHanging).Twips())
		}
		if cfg.FirstLine != 0 {
			fmt.Fprintf(&b, ` w:firstLine="%d"`, InchHundredths(cfg.FirstLine).Twips())
		}
		b.WriteString("/>")
	}
	if cfg.OutlineLevel > 0 {
		fmt.Fprintf(&b, `<w:outlineLvl w:val="%d"/>`, cfg.OutlineLevel-1)
	}
	b.WriteString("</w:pPr>")

	b.WriteString("<w:rPr>")
	if cfg.Font != "" {
		fmt.Fprintf(&b, `<w:rFonts w:ascii="%s" w:hAnsi="%s"/>`, xmlEscape(cfg.Font), xmlEscape(cfg.Font))
	}
	if cfg.Bold {
		b.WriteString("<w:b/>")
	}
	if cfg.Italic {
		b.WriteString("<w:i/>")
	}
	if cfg.Color != "" {
		fmt.Fprintf(&b, `<w:color w:val="%s"/>`, xmlEscape(cfg.Color))
	}
	if cfg.SizePt > 0 {
		fmt.Fprintf(&b, `<w:sz w:val="%d"/><w:szCs w:val="%d"/>`, cfg.SizePt*2, cfg.SizePt*2)
	}
	b.WriteString("</w:rPr>")

	b.WriteString("</w:style>")
	return b.String()
}

// buildParagraphBorderXML renders a w:pBdr (and optional w:shd) for
// non-table box decorations.
func buildParagraphBorderXML(box *BoxConfig) string {
	color := box.Color
	if color == "" {
		color = "auto"
	}
	width := box.WidthPt8
	if width == 0 {
		width = 4 // half a point
	}

	edge := func(name string) string {
		return fmt.Sprintf(`<w:%s w:val="single" w:sz="%d" w:space="1" w:color="%s"/>`, name, width, color)
	}

	var b strings.Builder
	b.WriteString("<w:pBdr>")
	switch box.Edge {
	case "top":
		b.WriteString(edge("top"))
	case "bottom", "":
		b.WriteString(edge("bottom"))
	case "box":
		b.WriteString(edge("top"))
		b.WriteString(edge("left"))
		b.WriteString(edge("bottom"))
		b.WriteString(edge("right"))
	}
	b.WriteString("</w:pBdr>")
	if box.Fill != "" {
		fmt.Fprintf(&b, `<w:shd w:val="clear" w:color="auto" w:fill="%s"/>`, box.Fill)
	}
	return b.String()
}

func xmlEscape(s string) string {
	var b strings.Builder
	if err := xml.EscapeText(&b, []byte(s)); err != nil {
		return s
	}
	return b.String()
}
