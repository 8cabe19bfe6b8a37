package docnum

import (
	"github.com/nanaoosaki/go-docnum/pkg/docnum/ooxml"
)

// DocumentBuilder appends styled content to a document body. Builders
// never verify what they emit: a paragraph appended early cannot know
// whether a later step invalidates its numbering reference, so checking
// here would certify state that is not final. The reconciliation pass
// owns verification, once, after all content exists.
type DocumentBuilder struct {
	pkg    *DocumentPackage
	styles *StyleRegistry
	num    *NumberingEngine
	cfg    *Config

	// bulletNum is the lazily allocated definition shared by every bullet
	// item this builder emits.
	bulletNum    NumID
	bulletLevels map[int]bool
}

// NewDocumentBuilder creates a builder appending to the package body.
func NewDocumentBuilder(pkg *DocumentPackage, styles *StyleRegistry, num *NumberingEngine, cfg *Config) *DocumentBuilder {
	if cfg == nil {
		cfg = GetGlobalConfig()
	}
	return &DocumentBuilder{
		pkg:    pkg,
		styles: styles,
		num:    num,
		cfg:    cfg,
	}
}

// AddParagraph appends a plain styled paragraph.
func (b *DocumentBuilder) AddParagraph(text string, style *StyleHandle) *ooxml.Paragraph {
	p := newTextParagraph(text)
	if style != nil {
		b.styles.Apply(p, style)
	}
	b.append(p)
	return p
}

// AddHeading appends a heading paragraph. When the style carries a
// table-wrap box decoration the heading is wrapped in a single-row table;
// trailing is optional right-aligned companion text inside the same box.
func (b *DocumentBuilder) AddHeading(text, trailing string, style *StyleHandle) *ooxml.Paragraph {
	p := newTextParagraph(text)
	if style != nil {
		b.styles.Apply(p, style)
	}

	box := boxFor(style)
	if box == nil || !box.TableWrap {
		b.append(p)
		return p
	}

	var trail *ooxml.Paragraph
	if trailing != "" {
		trail = newTextParagraph(trailing)
		if style != nil {
			b.styles.Apply(trail, style)
		}
	}
	b.append(WrapInBox(p, trail, box))
	return p
}

// AddBulletItem appends one list item at the given nesting level. With
// native numbering enabled the item gets a w:numPr reference against the
// builder's shared bullet definition; otherwise a literal glyph prefix is
// emitted and reconciliation will leave the paragraph alone.
func (b *DocumentBuilder) AddBulletItem(text string, level int, style *StyleHandle) (*ooxml.Paragraph, error) {
	if !b.cfg.NativeNumbering {
		p := newTextParagraph("• " + text)
		if style != nil {
			b.styles.Apply(p, style)
		}
		b.append(p)
		return p, nil
	}

	p := newTextParagraph(text)
	if style != nil {
		b.styles.Apply(p, style)
	}

	if b.bulletLevels == nil {
		b.bulletNum = b.num.Allocate()
		b.bulletLevels = make(map[int]bool)
	}
	if !b.bulletLevels[level] {
		if err := b.num.DefineLevel(b.bulletNum, level, repairLevelSpec(level)); err != nil {
			return nil, err
		}
		b.bulletLevels[level] = true
	}
	if err := b.num.Apply(p, b.bulletNum, level); err != nil {
		return nil, err
	}

	b.append(p)
	return p, nil
}

func (b *DocumentBuilder) append(el ooxml.BodyElement) {
	body := b.pkg.Document.Body
	body.Elements = append(body.Elements, el)
}

func newTextParagraph(text string) *ooxml.Paragraph {
	return &ooxml.Paragraph{
		Runs: []ooxml.Run{{
			Text: &ooxml.Text{Content: text},
		}},
	}
}

func boxFor(style *StyleHandle) *BoxConfig {
	if style == nil {
		return nil
	}
	return style.Config.Box
}
