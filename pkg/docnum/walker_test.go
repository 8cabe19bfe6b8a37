package docnum

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nanaoosaki/go-docnum/pkg/docnum/ooxml"
)

func openTestPackage(t *testing.T, fixture testDOCX) *DocumentPackage {
	t.Helper()
	pkg, err := Open(bytes.NewReader(fixture.Bytes()))
	require.NoError(t, err)
	return pkg
}

func collectTexts(pkg *DocumentPackage) ([]string, []ContainerPath) {
	var texts []string
	var paths []ContainerPath
	for p, path := range NewTreeWalker(pkg).Paragraphs() {
		texts = append(texts, p.GetText())
		paths = append(paths, path)
	}
	return texts, paths
}

func TestWalkerBodyAndTables(t *testing.T) {
	pkg := openTestPackage(t, testDOCX{
		BodyXML: testStyledParagraph("Body", "intro") +
			`<w:tbl><w:tr>` +
			`<w:tc>` + testStyledParagraph("Cell", "left cell") + `</w:tc>` +
			`<w:tc>` + testStyledParagraph("Cell", "right cell") + testStyledParagraph("Cell", "second para") + `</w:tc>` +
			`</w:tr><w:tr>` +
			`<w:tc>` + testStyledParagraph("Cell", "row two") + `</w:tc>` +
			`</w:tr></w:tbl>` +
			testStyledParagraph("Body", "outro"),
	})

	texts, paths := collectTexts(pkg)
	assert.Equal(t, []string{"intro", "left cell", "right cell", "second para", "row two", "outro"}, texts)

	assert.Equal(t, ContainerBody, paths[0].Kind)
	assert.Equal(t, ContainerTable, paths[1].Kind)
	assert.Equal(t, []CellAddr{{Table: 0, Row: 0, Cell: 1}}, paths[3].Cells)
	assert.Equal(t, 1, paths[3].Index)
	assert.Equal(t, []CellAddr{{Table: 0, Row: 1, Cell: 0}}, paths[4].Cells)
	assert.Equal(t, ContainerBody, paths[5].Kind)
	assert.Equal(t, 1, paths[5].Index, "body paragraph ordinals skip table content")
}

func TestWalkerNestedTables(t *testing.T) {
	inner := `<w:tbl><w:tr><w:tc>` + testStyledParagraph("Cell", "nested") + `</w:tc></w:tr></w:tbl>`
	pkg := openTestPackage(t, testDOCX{
		BodyXML: `<w:tbl><w:tr><w:tc>` +
			testStyledParagraph("Cell", "outer") + inner +
			`</w:tc></w:tr></w:tbl>`,
	})

	texts, paths := collectTexts(pkg)
	assert.Equal(t, []string{"outer", "nested"}, texts)

	require.Len(t, paths[1].Cells, 2, "nested tables stack cell addresses")
	assert.Equal(t, CellAddr{Table: 0, Row: 0, Cell: 0}, paths[1].Cells[0])
	assert.Equal(t, CellAddr{Table: 0, Row: 0, Cell: 0}, paths[1].Cells[1])
	assert.True(t, paths[1].InTableCell())
}

func TestWalkerHeadersAndFooters(t *testing.T) {
	pkg := openTestPackage(t, testDOCX{
		BodyXML: testStyledParagraph("Body", "body"),
		Headers: map[string]string{"header1.xml": testStyledParagraph("Head", "running head")},
		Footers: map[string]string{"footer1.xml": testStyledParagraph("Foot", "page footer")},
	})

	texts, paths := collectTexts(pkg)
	assert.Equal(t, []string{"body", "running head", "page footer"}, texts)
	assert.Equal(t, ContainerHeader, paths[1].Kind)
	assert.Equal(t, "word/header1.xml", paths[1].Part)
	assert.Equal(t, ContainerFooter, paths[2].Kind)
}

// Negative control: a walk over top-level body paragraphs only would
// silently miss everything the full walker finds in cells and parts.
func TestTopLevelWalkMissesContainers(t *testing.T) {
	pkg := openTestPackage(t, testDOCX{
		BodyXML: testStyledParagraph("Body", "visible") +
			`<w:tbl><w:tr><w:tc>` + testStyledParagraph("Cell", "hidden in row") + `</w:tc></w:tr></w:tbl>`,
		Headers: map[string]string{"header1.xml": testStyledParagraph("Head", "hidden in header")},
	})

	topLevel := 0
	for _, el := range pkg.Document.Body.Elements {
		if _, ok := el.(*ooxml.Paragraph); ok {
			topLevel++
		}
	}
	assert.Equal(t, 1, topLevel)

	full := 0
	for range NewTreeWalker(pkg).Paragraphs() {
		full++
	}
	assert.Equal(t, 3, full)
}

func TestWalkerRestartable(t *testing.T) {
	pkg := openTestPackage(t, testDOCX{
		BodyXML: testStyledParagraph("Body", "one") + testStyledParagraph("Body", "two"),
	})

	walker := NewTreeWalker(pkg)
	seq := walker.Paragraphs()

	first, _ := collectTexts(pkg)
	second := 0
	for range seq {
		second++
	}
	assert.Len(t, first, 2)
	assert.Equal(t, 2, second, "each range restarts the walk")
}

func TestWalkerEarlyBreak(t *testing.T) {
	pkg := openTestPackage(t, testDOCX{
		BodyXML: testStyledParagraph("Body", "one") + testStyledParagraph("Body", "two") + testStyledParagraph("Body", "three"),
	})

	seen := 0
	for range NewTreeWalker(pkg).Paragraphs() {
		seen++
		if seen == 2 {
			break
		}
	}
	assert.Equal(t, 2, seen)
}

func TestContainerPathString(t *testing.T) {
	path := ContainerPath{
		Kind:  ContainerTable,
		Part:  partDocument,
		Cells: []CellAddr{{Table: 0, Row: 1, Cell: 0}},
		Index: 2,
	}
	assert.Equal(t, "word/document.xml#table/tbl[0]/tr[1]/tc[0]/p[2]", path.String())
}

func TestWalkerTextFrames(t *testing.T) {
	frame := `<w:p><w:r><mc:AlternateContent` +
		` xmlns:mc="http://schemas.openxmlformats.org/markup-compatibility/2006"` +
		` xmlns:wp="http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"` +
		` xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"` +
		` xmlns:wps="http://schemas.microsoft.com/office/word/2010/wordprocessingShape">` +
		`<mc:Choice Requires="wps"><w:drawing><wp:anchor><a:graphic><a:graphicData><wps:wsp><wps:txbx>` +
		`<w:txbxContent>` + testStyledParagraph("Frame", "framed text") + `</w:txbxContent>` +
		`</wps:txbx></wps:wsp></a:graphicData></a:graphic></wp:anchor></w:drawing></mc:Choice></mc:AlternateContent></w:r></w:p>`

	pkg := openTestPackage(t, testDOCX{
		BodyXML: testStyledParagraph("Body", "host before") + frame,
	})

	texts, paths := collectTexts(pkg)
	require.Contains(t, texts, "framed text")
	for i, text := range texts {
		if text == "framed text" {
			assert.Equal(t, ContainerFrame, paths[i].Kind)
		}
	}
}
