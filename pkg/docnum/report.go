package docnum

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Action records what the reconciler did to one matched paragraph.
type Action int

const (
	// ActionNone: the paragraph was already correct.
	ActionNone Action = iota
	// ActionRepaired: a missing or dangling numbering reference was
	// restored.
	ActionRepaired
	// ActionSkipped: the paragraph could not be repaired; the error is on
	// the record.
	ActionSkipped
	// ActionStripped: only a literal glyph was removed; no numbering was
	// touched (foreign cell content).
	ActionStripped
)

func (a Action) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionRepaired:
		return "repaired"
	case ActionSkipped:
		return "skipped"
	case ActionStripped:
		return "stripped"
	default:
		return "unknown"
	}
}

// NumberingState is a point-in-time snapshot of a paragraph's numbering
// reference, taken before and after reconciliation.
type NumberingState struct {
	HasRef bool
	NumID  int
	Level  int
	Valid  bool // the reference resolves to a live definition
}

func (s NumberingState) String() string {
	if !s.HasRef {
		return "no-ref"
	}
	state := "dangling"
	if s.Valid {
		state = "valid"
	}
	return fmt.Sprintf("numId=%d ilvl=%d (%s)", s.NumID, s.Level, state)
}

// ReconcileRecord is one matched paragraph's entry in the report.
type ReconcileRecord struct {
	Path   ContainerPath
	Style  string
	Text   string // first characters of paragraph text, for log context
	Before NumberingState
	After  NumberingState
	Action Action
	Err    error
}

// ReconcileReport summarizes one reconciliation pass over one document.
type ReconcileReport struct {
	PassID  uuid.UUID
	StyleID string
	Scanned int // paragraphs visited across all containers
	Matched int // paragraphs carrying the target style
	Elapsed time.Duration
	Records []ReconcileRecord
}

// NewReconcileReport creates an empty report for one pass.
func NewReconcileReport(styleID string) *ReconcileReport {
	return &ReconcileReport{
		PassID:  uuid.New(),
		StyleID: styleID,
	}
}

func (r *ReconcileReport) add(rec ReconcileRecord) {
	r.Records = append(r.Records, rec)
}

// Repaired counts paragraphs whose numbering reference was restored.
func (r *ReconcileReport) Repaired() int {
	return r.countAction(ActionRepaired)
}

// Skipped counts paragraphs the pass could not repair.
func (r *ReconcileReport) Skipped() int {
	return r.countAction(ActionSkipped)
}

// Stripped counts paragraphs that only lost a literal glyph.
func (r *ReconcileReport) Stripped() int {
	return r.countAction(ActionStripped)
}

func (r *ReconcileReport) countAction(a Action) int {
	n := 0
	for i := range r.Records {
		if r.Records[i].Action == a {
			n++
		}
	}
	return n
}

// Clean reports whether the pass changed nothing and skipped nothing. A
// second pass over repaired output must be clean.
func (r *ReconcileReport) Clean() bool {
	return r.Repaired() == 0 && r.Skipped() == 0 && r.Stripped() == 0
}

// Log writes the report through the structured logger: one summary line,
// plus one line per repaired or skipped paragraph.
func (r *ReconcileReport) Log(log *Logger) {
	if log == nil {
		return
	}

	log.WithFields(Fields{
		"pass":     r.PassID.String(),
		"style":    r.StyleID,
		"scanned":  r.Scanned,
		"matched":  r.Matched,
		"repaired": r.Repaired(),
		"skipped":  r.Skipped(),
		"stripped": r.Stripped(),
		"elapsed":  r.Elapsed.String(),
	}).Info("numbering reconciliation pass complete")

	for i := range r.Records {
		rec := &r.Records[i]
		if rec.Action == ActionNone {
			continue
		}
		entry := log.WithFields(Fields{
			"pass":   r.PassID.String(),
			"path":   rec.Path.String(),
			"before": rec.Before.String(),
			"after":  rec.After.String(),
		})
		switch rec.Action {
		case ActionRepaired:
			entry.Debug("numbering reference restored")
		case ActionStripped:
			entry.Debug("literal bullet glyph stripped")
		case ActionSkipped:
			entry.WithField("error", fmt.Sprint(rec.Err)).Warn("paragraph skipped")
		}
	}
}
