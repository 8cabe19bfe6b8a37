package docnum

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nanaoosaki/go-docnum/pkg/docnum/ooxml"
)

// NumID identifies one numbering definition within one document.
type NumID int

// MaxListLevel is the deepest nesting level WordprocessingML supports.
const MaxListLevel = 8

// LevelSpec describes one nesting level of a numbering definition.
type LevelSpec struct {
	// Format is the w:numFmt value: "bullet", "decimal", "lowerLetter",
	// "lowerRoman", ...
	Format string
	// Text is the w:lvlText value: a literal glyph for bullets ("•") or
	// a sequence pattern for numbered lists ("%1.").
	Text string
	// Font optionally forces the glyph font (e.g. "Symbol").
	Font string
	// BulletPos is the glyph position measured from the content edge.
	BulletPos Emu
	// TextPos is the text position measured from the content edge. Must
	// be strictly right of BulletPos.
	TextPos Emu
	// NoRestart keeps the sequence running across section boundaries
	// instead of silently restarting at each implicit section break.
	NoRestart bool
}

// levelIndent computes the w:ind geometry for the level. The rendering
// convention defines hanging indent as how far left of the text position
// the first line is pulled back, not as an absolute glyph position:
// left = TextPos, hanging = TextPos - BulletPos, so the glyph lands at
// left - hanging = BulletPos.
func (s LevelSpec) levelIndent() ooxml.Indentation {
	return ooxml.Indentation{
		Left:    s.TextPos.Twips(),
		Hanging: (s.TextPos - s.BulletPos).Twips(),
	}
}

func (s LevelSpec) validate(level int) error {
	if level < 0 || level > MaxListLevel {
		return NewValidationError("level", fmt.Sprintf("level %d out of range 0..%d", level, MaxListLevel))
	}
	if s.Format == "" {
		return NewValidationError("format", "numbering format cannot be empty")
	}
	if s.Text == "" {
		return NewValidationError("text", "level text cannot be empty")
	}
	if s.TextPos <= s.BulletPos {
		// Equal positions are the classic mistake: left == hanging would
		// put the glyph at offset zero, collapsing bullet and text onto
		// the margin.
		return NewValidationError("textPos",
			fmt.Sprintf("text position %.2f\" must be right of bullet position %.2f\"; a zero-width hang collapses the bullet onto the margin",
				s.TextPos.Inches(), s.BulletPos.Inches()))
	}
	return nil
}

// definition is one allocated numbering definition and its levels.
type definition struct {
	id     NumID
	levels map[int]LevelSpec
}

// NumberingEngine allocates and renders numbering definitions for one
// document instance. It is never shared across documents: concurrent
// requests each build their own engine, so numId state cannot leak
// between unrelated documents.
type NumberingEngine struct {
	part        *ooxml.Numbering
	source      []byte
	nextNumID   NumID
	nextAbsID   int
	definitions map[NumID]*definition
	order       []NumID
}

// NewNumberingEngine creates an engine over the document's existing
// numbering part (nil when the package has none). Existing numbering ids
// are scanned up front so re-ingested documents never get colliding ids.
func NewNumberingEngine(numberingXML []byte) (*NumberingEngine, error) {
	part, err := ooxml.ParseNumbering(numberingXML)
	if err != nil {
		return nil, NewDocumentError("parse", "numbering.xml", err)
	}

	return &NumberingEngine{
		part:        part,
		source:      numberingXML,
		nextNumID:   NumID(part.MaxNumID() + 1),
		nextAbsID:   part.MaxAbstractNumID() + 1,
		definitions: make(map[NumID]*definition),
	}, nil
}

// Allocate reserves a fresh document-unique numId: always
// max(existing)+1, counting both ids found in the re-ingested part and
// ids allocated during this build.
func (e *NumberingEngine) Allocate() NumID {
	id := e.nextNumID
	e.nextNumID++
	e.definitions[id] = &definition{id: id, levels: make(map[int]LevelSpec)}
	e.order = append(e.order, id)
	return id
}

// DefineLevel attaches a level specification to an allocated definition.
func (e *NumberingEngine) DefineLevel(id NumID, level int, spec LevelSpec) error {
	def, ok := e.definitions[id]
	if !ok {
		return NewNumberingError("", fmt.Sprintf("numId %d was not allocated by this engine", id), nil)
	}
	if err := spec.validate(level); err != nil {
		return err
	}
	def.levels[level] = spec
	return nil
}

// HasDefinition reports whether numId resolves to a definition that still
// exists in the document: either allocated during this build or present
// in the re-ingested numbering part.
func (e *NumberingEngine) HasDefinition(id NumID) bool {
	if _, ok := e.definitions[id]; ok {
		return true
	}
	return e.part.HasNumID(int(id))
}

// Apply writes the numbering reference and the level's computed
// indentation onto the paragraph. The paragraph is mutated in place; its
// runs are never touched.
func (e *NumberingEngine) Apply(p *ooxml.Paragraph, id NumID, level int) error {
	if p == nil {
		return NewNumberingError("", "cannot apply numbering to a nil paragraph", nil)
	}
	if level < 0 || level > MaxListLevel {
		return NewNumberingError("", fmt.Sprintf("level %d out of range 0..%d", level, MaxListLevel), nil)
	}

	def, allocated := e.definitions[id]
	if !allocated {
		if !e.part.HasNumID(int(id)) {
			return NewNumberingError("", fmt.Sprintf("numId %d does not resolve to any definition", id), nil)
		}
		// Pre-existing definition: reference it but leave indentation to
		// the definition's own level properties.
		p.SetNumberingRef(int(id), level)
		return nil
	}

	spec, ok := def.levels[level]
	if !ok {
		return NewNumberingError("", fmt.Sprintf("numId %d has no level %d definition", id, level), nil)
	}

	p.SetNumberingRef(int(id), level)
	p.SetIndentation(spec.levelIndent())
	return nil
}

// NumberingXML rebuilds the numbering part: pre-existing definitions
// byte-identical, newly allocated abstractNum/num pairs appended.
// Abstract definitions come before num mappings, as the schema requires.
func (e *NumberingEngine) NumberingXML() ([]byte, error) {
	if len(e.order) == 0 {
		return e.source, nil
	}

	var abstracts, nums strings.Builder
	absID := e.nextAbsID
	for _, id := range e.order {
		def := e.definitions[id]
		abstracts.WriteString(buildAbstractNumXML(absID, def))
		fmt.Fprintf(&nums, `<w:num w:numId="%d"><w:abstractNumId w:val="%d"/></w:num>`, def.id, absID)
		absID++
	}

	if len(e.source) == 0 {
		return []byte(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n" +
			`<w:numbering xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
			abstracts.String() + nums.String() + `</w:numbering>`), nil
	}

	// Insert abstract definitions before the first existing w:num so the
	// part stays schema-ordered, then append the new num mappings at the
	// end.
	s := string(e.source)
	insertAt := strings.Index(s, "<w:num ")
	if insertAt == -1 {
		insertAt = strings.LastIndex(s, "</w:numbering>")
		if insertAt == -1 {
			return nil, NewDocumentError("rebuild", "numbering.xml", fmt.Errorf("missing closing tag"))
		}
	}
	s = s[:insertAt] + abstracts.String() + s[insertAt:]

	closing := strings.LastIndex(s, "</w:numbering>")
	if closing == -1 {
		return nil, NewDocumentError("rebuild", "numbering.xml", fmt.Errorf("missing closing tag"))
	}
	return []byte(s[:closing] + nums.String() + s[closing:]), nil
}

// HasAllocations reports whether this engine allocated any definitions,
// which determines whether the numbering part must be (re)written.
func (e *NumberingEngine) HasAllocations() bool {
	return len(e.order) > 0
}

func buildAbstractNumXML(absID int, def *definition) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<w:abstractNum w:abstractNumId="%d">`, absID)
	fmt.Fprintf(&b, `<w:multiLevelType w:val="hybridMultilevel"/>`)

	levels := make([]int, 0, len(def.levels))
	for lvl := range def.levels {
		levels = append(levels, lvl)
	}
	sort.Ints(levels)

	for _, lvl := range levels {
		spec := def.levels[lvl]
		ind := spec.levelIndent()

		fmt.Fprintf(&b, `<w:lvl w:ilvl="%d">`, lvl)
		b.WriteString(`<w:start w:val="1"/>`)
		if spec.NoRestart {
			b.WriteString(`<w:lvlRestart w:val="0"/>`)
		}
		fmt.Fprintf(&b, `<w:numFmt w:val="%s"/>`, spec.Format)
		fmt.Fprintf(&b, `<w:lvlText w:val="%s"/>`, xmlEscape(spec.Text))
		b.WriteString(`<w:lvlJc w:val="left"/>`)
		fmt.Fprintf(&b, `<w:pPr><w:ind w:left="%d" w:hanging="%d"/></w:pPr>`, ind.Left, ind.Hanging)
		if spec.Font != "" {
			fmt.Fprintf(&b, `<w:rPr><w:rFonts w:ascii="%s" w:hAnsi="%s" w:hint="default"/></w:rPr>`,
				xmlEscape(spec.Font), xmlEscape(spec.Font))
		}
		b.WriteString(`</w:lvl>`)
	}

	b.WriteString(`</w:abstractNum>`)
	return b.String()
}
