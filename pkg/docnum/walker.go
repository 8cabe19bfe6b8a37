package docnum

import (
	"fmt"
	"iter"
	"strings"

	"github.com/nanaoosaki/go-docnum/pkg/docnum/ooxml"
)

// ContainerKind identifies the kind of container a paragraph lives in.
type ContainerKind int

const (
	ContainerBody ContainerKind = iota
	ContainerTable
	ContainerHeader
	ContainerFooter
	ContainerFrame
)

func (k ContainerKind) String() string {
	switch k {
	case ContainerBody:
		return "body"
	case ContainerTable:
		return "table"
	case ContainerHeader:
		return "header"
	case ContainerFooter:
		return "footer"
	case ContainerFrame:
		return "frame"
	default:
		return "unknown"
	}
}

// CellAddr locates one table cell; nested tables stack addresses.
type CellAddr struct {
	Table int
	Row   int
	Cell  int
}

// ContainerPath locates a paragraph within the document package.
type ContainerPath struct {
	Kind  ContainerKind
	Part  string     // package part, e.g. "word/document.xml"
	Cells []CellAddr // table nesting trail, outermost first
	Index int        // paragraph ordinal within its innermost container
}

func (p ContainerPath) String() string {
	var b strings.Builder
	b.WriteString(p.Part)
	b.WriteString("#")
	b.WriteString(p.Kind.String())
	for _, c := range p.Cells {
		fmt.Fprintf(&b, "/tbl[%d]/tr[%d]/tc[%d]", c.Table, c.Row, c.Cell)
	}
	fmt.Fprintf(&b, "/p[%d]", p.Index)
	return b.String()
}

// InTableCell reports whether the paragraph lives inside a table cell.
func (p ContainerPath) InTableCell() bool {
	return len(p.Cells) > 0
}

// TreeWalker enumerates every paragraph in a document package: body
// paragraphs, paragraphs inside table cells (tables nested in cells
// included), header and footer paragraphs, and paragraphs inside floating
// text frames. A walk over top-level body paragraphs only would silently
// skip bulleted content in all of those containers.
type TreeWalker struct {
	pkg *DocumentPackage

	// OnFrameError is invoked for text frames whose markup cannot be
	// parsed. The frame is skipped; the walk continues.
	OnFrameError func(path ContainerPath, err error)
}

// NewTreeWalker creates a walker over the package.
func NewTreeWalker(pkg *DocumentPackage) *TreeWalker {
	return &TreeWalker{pkg: pkg}
}

// Paragraphs returns a lazy sequence of every paragraph with its
// container path. The sequence is finite and restartable: each range
// walks the tree afresh, so callers may re-walk after a repair pass to
// verify convergence.
func (w *TreeWalker) Paragraphs() iter.Seq2[*ooxml.Paragraph, ContainerPath] {
	return func(yield func(*ooxml.Paragraph, ContainerPath) bool) {
		if w.pkg == nil || w.pkg.Document == nil || w.pkg.Document.Body == nil {
			return
		}

		base := ContainerPath{Kind: ContainerBody, Part: partDocument}
		if !w.walkElements(w.pkg.Document.Body.Elements, base, yield) {
			return
		}

		for _, name := range w.pkg.HeaderNames() {
			base := ContainerPath{Kind: ContainerHeader, Part: name}
			if !w.walkElements(w.pkg.Headers[name].Elements, base, yield) {
				return
			}
		}
		for _, name := range w.pkg.FooterNames() {
			base := ContainerPath{Kind: ContainerFooter, Part: name}
			if !w.walkElements(w.pkg.Footers[name].Elements, base, yield) {
				return
			}
		}
	}
}

// walkElements walks one ordered element list. The paragraph index and
// the table ordinal both count within this list.
func (w *TreeWalker) walkElements(elems []ooxml.BodyElement, base ContainerPath, yield func(*ooxml.Paragraph, ContainerPath) bool) bool {
	paraIdx := 0
	tableIdx := 0
	for _, el := range elems {
		switch v := el.(type) {
		case *ooxml.Paragraph:
			path := base
			path.Index = paraIdx
			paraIdx++
			if !yield(v, path) {
				return false
			}
			if !w.walkFrames(v, path, yield) {
				return false
			}
		case *ooxml.Table:
			if !w.walkTable(v, base, tableIdx, yield) {
				return false
			}
			tableIdx++
		}
	}
	return true
}

func (w *TreeWalker) walkTable(t *ooxml.Table, base ContainerPath, tableIdx int, yield func(*ooxml.Paragraph, ContainerPath) bool) bool {
	for rowIdx := range t.Rows {
		for cellIdx := range t.Rows[rowIdx].Cells {
			cell := &t.Rows[rowIdx].Cells[cellIdx]

			inner := base
			if inner.Kind == ContainerBody {
				inner.Kind = ContainerTable
			}
			inner.Cells = append(append([]CellAddr{}, base.Cells...), CellAddr{
				Table: tableIdx,
				Row:   rowIdx,
				Cell:  cellIdx,
			})
			inner.Index = 0

			if !w.walkElements(cell.Elements, inner, yield) {
				return false
			}
		}
	}
	return true
}

// walkFrames enumerates paragraphs inside floating text frames carried by
// the host paragraph's runs.
func (w *TreeWalker) walkFrames(host *ooxml.Paragraph, hostPath ContainerPath, yield func(*ooxml.Paragraph, ContainerPath) bool) bool {
	for i := range host.Runs {
		frame, ok, err := host.Runs[i].TextFrame()
		if err != nil {
			if w.OnFrameError != nil {
				framePath := hostPath
				framePath.Kind = ContainerFrame
				w.OnFrameError(framePath, err)
			}
			continue
		}
		if !ok {
			continue
		}

		base := ContainerPath{Kind: ContainerFrame, Part: hostPath.Part}
		if !w.walkElements(frame.Elements, base, yield) {
			return false
		}
	}
	return true
}
