package docnum

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/nanaoosaki/go-docnum/pkg/docnum/ooxml"
)

// bulletGlyphs are the literal characters a glyph-prefixed list item may
// start with: typographic bullets, the ASCII markers (hyphen, asterisk),
// the unicode hyphens, and the CJK middle dots that show up in content
// produced by non-Latin templates.
const bulletGlyphs = "•‣◦·・●-‐–*"

// ReconcileEngine restores numbering references that earlier build or
// ingest steps left dangling or missing. It runs after all content
// exists, so no later mutation can invalidate what it repairs.
type ReconcileEngine struct {
	cfg *Config
	log *Logger
}

// NewReconcileEngine creates a reconciler. A nil config or logger falls
// back to the process-global one.
func NewReconcileEngine(cfg *Config, log *Logger) *ReconcileEngine {
	if cfg == nil {
		cfg = GetGlobalConfig()
	}
	if log == nil {
		log = GetLogger()
	}
	return &ReconcileEngine{cfg: cfg, log: log}
}

// Reconcile walks every paragraph of the package and repairs numbering on
// those carrying styleID: a paragraph whose numbering reference is absent
// or does not resolve to a live definition gets one leading bullet glyph
// stripped from its text and a fresh reference applied at its recorded
// level. Paragraphs with a valid reference are left untouched, which
// makes a second pass over repaired output a no-op.
//
// Per-paragraph failures are absorbed into the report as skipped records;
// only a package-level failure returns an error.
func (e *ReconcileEngine) Reconcile(pkg *DocumentPackage, styleID string, num *NumberingEngine) (*ReconcileReport, error) {
	if pkg == nil {
		return nil, NewDocumentError("reconcile", "", fmt.Errorf("nil document package"))
	}
	if styleID == "" {
		return nil, NewValidationError("styleID", "target style id cannot be empty")
	}
	if num == nil {
		var err error
		if num, err = NewNumberingEngine(pkg.NumberingXML); err != nil {
			return nil, err
		}
	}

	report := NewReconcileReport(styleID)
	start := time.Now()

	if !e.cfg.NativeNumbering {
		// Glyph-prefixed mode: literal bullets are the intended rendering,
		// so there is nothing to restore.
		walker := NewTreeWalker(pkg)
		for range walker.Paragraphs() {
			report.Scanned++
		}
		report.Elapsed = time.Since(start)
		e.log.WithField("style", styleID).Debug("native numbering disabled, reconciliation skipped")
		return report, nil
	}

	repair := &repairState{num: num}

	walker := NewTreeWalker(pkg)
	walker.OnFrameError = func(path ContainerPath, err error) {
		report.add(ReconcileRecord{
			Path:   path,
			Action: ActionSkipped,
			Err:    NewNumberingError(path.String(), "text frame could not be parsed", err),
		})
	}

	for p, path := range walker.Paragraphs() {
		report.Scanned++

		style := p.StyleID()
		if style != styleID {
			if e.cfg.StripForeignCellGlyphs && path.InTableCell() && style != "" && !pkg.HasStyleID(style) {
				if StripLeadingBulletGlyph(p) {
					// Only text changed: no numbering reference existed
					// before or after, so this is a strip, not a repair.
					report.add(ReconcileRecord{
						Path:   path,
						Style:  style,
						Text:   excerpt(p),
						Action: ActionStripped,
					})
				}
			}
			continue
		}
		report.Matched++

		before := snapshotNumbering(p, num)
		if before.HasRef && before.Valid {
			report.add(ReconcileRecord{
				Path:   path,
				Style:  style,
				Text:   excerpt(p),
				Before: before,
				After:  before,
				Action: ActionNone,
			})
			continue
		}

		rec := ReconcileRecord{
			Path:   path,
			Style:  style,
			Text:   excerpt(p),
			Before: before,
		}

		// A dangling reference still carries the authored nesting level;
		// only a paragraph that never had one falls back to level zero.
		level := 0
		if before.HasRef {
			level = before.Level
		}

		if err := repair.apply(p, level); err != nil {
			rec.Action = ActionSkipped
			rec.Err = NewNumberingError(path.String(), "repair failed", err)
			report.add(rec)
			continue
		}

		StripLeadingBulletGlyph(p)
		rec.After = snapshotNumbering(p, num)
		rec.Action = ActionRepaired
		report.add(rec)
	}

	report.Elapsed = time.Since(start)
	if e.cfg.ReconcileBudget > 0 && report.Elapsed > e.cfg.ReconcileBudget {
		e.log.WithFields(Fields{
			"elapsed": report.Elapsed.String(),
			"budget":  e.cfg.ReconcileBudget.String(),
			"scanned": report.Scanned,
		}).Warn("reconciliation pass exceeded its time budget")
	}

	report.Log(e.log)
	return report, nil
}

// repairState lazily allocates the shared repair definition. Allocation
// is deferred until the first paragraph actually needs repair, so a clean
// document never grows a numbering definition.
type repairState struct {
	num       *NumberingEngine
	id        NumID
	allocated bool
	levels    map[int]bool
}

func (s *repairState) apply(p *ooxml.Paragraph, level int) error {
	if !s.allocated {
		s.id = s.num.Allocate()
		s.allocated = true
		s.levels = make(map[int]bool)
	}
	if !s.levels[level] {
		if err := s.num.DefineLevel(s.id, level, repairLevelSpec(level)); err != nil {
			return err
		}
		s.levels[level] = true
	}
	return s.num.Apply(p, s.id, level)
}

// repairLevelSpec is the bullet geometry applied to repaired paragraphs:
// each nesting level steps the glyph a quarter inch right, with the text
// hanging 0.13" past the glyph.
func repairLevelSpec(level int) LevelSpec {
	bullet := InchHundredths(10 + 25*level)
	return LevelSpec{
		Format:    "bullet",
		Text:      "•",
		Font:      "Symbol",
		BulletPos: bullet,
		TextPos:   bullet + InchHundredths(13),
	}
}

// StripLeadingBulletGlyph removes at most one leading bullet glyph, plus
// one following space or tab, from the paragraph's first text run. With
// a native numbering reference in place, a literal glyph would render as
// a doubled bullet. Returns whether anything was removed.
func StripLeadingBulletGlyph(p *ooxml.Paragraph) bool {
	run := p.FirstTextRun()
	if run == nil || run.Text == nil {
		return false
	}

	text := run.Text.Content
	r, size := utf8.DecodeRuneInString(text)
	if size == 0 || !strings.ContainsRune(bulletGlyphs, r) {
		return false
	}

	text = text[size:]
	if len(text) > 0 && (text[0] == ' ' || text[0] == '\t') {
		text = text[1:]
	}
	run.Text.Content = text
	return true
}

// snapshotNumbering captures the paragraph's numbering reference state.
func snapshotNumbering(p *ooxml.Paragraph, num *NumberingEngine) NumberingState {
	numID, level, ok := p.NumberingRef()
	if !ok {
		return NumberingState{}
	}
	return NumberingState{
		HasRef: true,
		NumID:  numID,
		Level:  level,
		Valid:  numID > 0 && num.HasDefinition(NumID(numID)),
	}
}

// excerpt returns the first characters of the paragraph text for log
// context.
func excerpt(p *ooxml.Paragraph) string {
	const max = 40
	text := p.GetText()
	if utf8.RuneCountInString(text) <= max {
		return text
	}
	runes := []rune(text)
	return string(runes[:max]) + "..."
}
