package ooxml

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSectPrPreservedRaw(t *testing.T) {
	sectPr := `<w:sectPr><w:pgSz w:w="12240" w:h="15840"></w:pgSz><w:pgMar w:top="1440" w:bottom="1440"></w:pgMar></w:sectPr>`
	body := parseBody(t, `<w:p><w:r><w:t>content</w:t></w:r></w:p>`+sectPr)

	require.NotNil(t, body.SectPr)

	out := marshalBody(t, body)
	assert.Contains(t, out, sectPr)
	// sectPr stays after the last paragraph.
	assert.Less(t, strings.Index(out, "</w:p>"), strings.Index(out, "<w:sectPr>"))
}

func TestRawDrawingMarkupByteIdentical(t *testing.T) {
	drawing := `<w:drawing><wp:inline xmlns:wp="http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"><wp:extent cx="914400" cy="914400"></wp:extent></wp:inline></w:drawing>`
	body := parseBody(t, `<w:p><w:r>`+drawing+`</w:r></w:p>`)

	out := marshalBody(t, body)
	assert.Contains(t, out, drawing)
	assert.NotContains(t, out, "docnumRawMarker")
	assert.NotContains(t, out, "__DOCNUM_RAW_")
}

func TestRawMarkupAttributeEntitiesPreserved(t *testing.T) {
	// The decoder hands attribute values back with entities resolved; the
	// raw capture has to re-escape them or the output is malformed.
	drawing := `<w:drawing><wp:inline xmlns:wp="http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing">` +
		`<wp:docPr id="1" name="Chart &amp; Table &lt;v2&gt;"></wp:docPr></wp:inline></w:drawing>`
	body := parseBody(t, `<w:p><w:r>`+drawing+`</w:r></w:p>`)

	out := marshalBody(t, body)
	assert.Contains(t, out, drawing)
	assert.NotContains(t, out, `name="Chart & Table`)
}

func TestMarshalTwiceStable(t *testing.T) {
	body := parseBody(t, `<w:p><w:pPr><w:pBdr><w:bottom w:val="single" w:sz="4" w:space="1" w:color="auto"></w:bottom></w:pBdr></w:pPr><w:r><w:t>x</w:t></w:r></w:p>`)

	first := marshalBody(t, body)
	second := marshalBody(t, body)
	assert.Equal(t, first, second, "marker assignment must not leak between marshals")
}

const frameMarkup = `<mc:AlternateContent` +
	` xmlns:mc="http://schemas.openxmlformats.org/markup-compatibility/2006"` +
	` xmlns:wp="http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"` +
	` xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"` +
	` xmlns:wps="http://schemas.microsoft.com/office/word/2010/wordprocessingShape">` +
	`<mc:Choice Requires="wps"><w:drawing><wp:anchor><a:graphic><a:graphicData><wps:wsp><wps:txbx>` +
	`<w:txbxContent><w:p><w:pPr><w:pStyle w:val="FrameStyle"/></w:pPr><w:r><w:t>framed</w:t></w:r></w:p></w:txbxContent>` +
	`</wps:txbx></wps:wsp></a:graphicData></a:graphic></wp:anchor></w:drawing></mc:Choice></mc:AlternateContent>`

func TestTextFrameParse(t *testing.T) {
	body := parseBody(t, `<w:p><w:r>`+frameMarkup+`</w:r></w:p>`)
	host := body.Paragraphs()[0]
	require.Len(t, host.Runs, 1)

	frame, ok, err := host.Runs[0].TextFrame()
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, frame.Elements, 1)

	p, isPara := frame.Elements[0].(*Paragraph)
	require.True(t, isPara)
	assert.Equal(t, "FrameStyle", p.StyleID())
	assert.Equal(t, "framed", p.GetText())
}

func TestTextFrameMutationSurvivesMarshal(t *testing.T) {
	body := parseBody(t, `<w:p><w:r>`+frameMarkup+`</w:r></w:p>`)
	host := body.Paragraphs()[0]

	frame, ok, err := host.Runs[0].TextFrame()
	require.NoError(t, err)
	require.True(t, ok)

	// Repair the frame paragraph the way the reconciler does.
	p := frame.Elements[0].(*Paragraph)
	p.SetNumberingRef(4, 0)
	p.FirstTextRun().Text.Content = "repaired"

	out := marshalBody(t, body)

	assert.Contains(t, out, "<w:txbxContent>")
	assert.Contains(t, out, `<w:numId w:val="4">`)
	assert.Contains(t, out, "repaired")
	assert.NotContains(t, out, ">framed<")
	// The surrounding drawing markup survives.
	assert.Contains(t, out, "wps:txbx")
	assert.Contains(t, out, "mc:AlternateContent")
}

func TestTextFrameAbsent(t *testing.T) {
	body := parseBody(t, `<w:p><w:r><w:t>no frame here</w:t></w:r></w:p>`)
	_, ok, err := body.Paragraphs()[0].Runs[0].TextFrame()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTextFrameCached(t *testing.T) {
	body := parseBody(t, `<w:p><w:r>`+frameMarkup+`</w:r></w:p>`)
	run := &body.Paragraphs()[0].Runs[0]

	first, ok, err := run.TextFrame()
	require.NoError(t, err)
	require.True(t, ok)

	second, ok, err := run.TextFrame()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Same(t, first, second, "re-walks must observe prior mutations")
}

func TestBodyElementOrderPreserved(t *testing.T) {
	body := parseBody(t,
		`<w:p><w:r><w:t>one</w:t></w:r></w:p>`+
			`<w:tbl><w:tr><w:tc><w:p><w:r><w:t>two</w:t></w:r></w:p></w:tc></w:tr></w:tbl>`+
			`<w:p><w:r><w:t>three</w:t></w:r></w:p>`)

	require.Len(t, body.Elements, 3)
	_, isPara := body.Elements[0].(*Paragraph)
	_, isTable := body.Elements[1].(*Table)
	assert.True(t, isPara)
	assert.True(t, isTable)

	out := marshalBody(t, body)
	assert.Less(t, strings.Index(out, ">one<"), strings.Index(out, "<w:tbl>"))
	assert.Less(t, strings.Index(out, ">two<"), strings.Index(out, ">three<"))
}
