package docnum

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nanaoosaki/go-docnum/pkg/docnum/ooxml"
)

func testBuilder(t *testing.T, cfg *Config) (*DocumentBuilder, *DocumentPackage, *StyleRegistry, *NumberingEngine) {
	t.Helper()
	pkg := openTestPackage(t, testDOCX{BodyXML: testStyledParagraph("Body", "seed")})

	styles, err := NewStyleRegistry(pkg.StylesXML)
	require.NoError(t, err)
	num, err := NewNumberingEngine(pkg.NumberingXML)
	require.NoError(t, err)

	return NewDocumentBuilder(pkg, styles, num, cfg), pkg, styles, num
}

func TestAddParagraph(t *testing.T) {
	b, pkg, styles, _ := testBuilder(t, nil)

	h, err := styles.GetOrCreate("Body", StyleConfig{SizePt: 10})
	require.NoError(t, err)

	p := b.AddParagraph("hello", h)
	assert.Equal(t, "Body", p.StyleID())
	assert.Equal(t, "hello", p.GetText())

	last := pkg.Document.Body.Elements[len(pkg.Document.Body.Elements)-1]
	assert.Same(t, p, last)
}

func TestAddBulletItemNative(t *testing.T) {
	b, _, styles, num := testBuilder(t, nil)

	h, err := styles.GetOrCreate("BulletItem", StyleConfig{SizePt: 10})
	require.NoError(t, err)

	first, err := b.AddBulletItem("alpha", 0, h)
	require.NoError(t, err)
	second, err := b.AddBulletItem("beta", 1, h)
	require.NoError(t, err)

	id1, lvl1, ok := first.NumberingRef()
	require.True(t, ok)
	id2, lvl2, ok := second.NumberingRef()
	require.True(t, ok)

	assert.Equal(t, id1, id2, "items share one bullet definition")
	assert.Equal(t, 0, lvl1)
	assert.Equal(t, 1, lvl2)
	assert.True(t, num.HasDefinition(NumID(id1)))

	// No literal glyph in native mode.
	assert.Equal(t, "alpha", first.GetText())
}

func TestAddBulletItemGlyphFallback(t *testing.T) {
	cfg := DefaultConfig()
	cfg.NativeNumbering = false
	b, _, styles, num := testBuilder(t, cfg)

	h, err := styles.GetOrCreate("BulletItem", StyleConfig{SizePt: 10})
	require.NoError(t, err)

	p, err := b.AddBulletItem("alpha", 0, h)
	require.NoError(t, err)

	assert.Equal(t, "• alpha", p.GetText())
	_, _, ok := p.NumberingRef()
	assert.False(t, ok)
	assert.False(t, num.HasAllocations())
}

func TestAddHeadingPlain(t *testing.T) {
	b, pkg, styles, _ := testBuilder(t, nil)

	h, err := styles.GetOrCreate("SectionHeader", StyleConfig{Bold: true, OutlineLevel: 1})
	require.NoError(t, err)

	p := b.AddHeading("Experience", "", h)
	assert.Equal(t, "SectionHeader", p.StyleID())

	last := pkg.Document.Body.Elements[len(pkg.Document.Body.Elements)-1]
	assert.Same(t, p, last)
}

func TestAddHeadingTableWrapped(t *testing.T) {
	b, pkg, styles, _ := testBuilder(t, nil)

	h, err := styles.GetOrCreate("SectionHeader", StyleConfig{
		Bold:         true,
		OutlineLevel: 1,
		Box:          &BoxConfig{Edge: "bottom", Color: "4472C4", TableWrap: true},
	})
	require.NoError(t, err)

	p := b.AddHeading("Experience", "2019 - 2023", h)

	last := pkg.Document.Body.Elements[len(pkg.Document.Body.Elements)-1]
	tbl, ok := last.(*ooxml.Table)
	require.True(t, ok, "table-wrap boxes append a table, not a bare paragraph")

	require.Len(t, tbl.Rows, 1)
	require.Len(t, tbl.Rows[0].Cells, 2)

	headCell := tbl.Rows[0].Cells[0]
	require.Len(t, headCell.Paragraphs(), 1)
	assert.Same(t, p, headCell.Paragraphs()[0])

	// The heading keeps its outline level inside the cell, so navigation
	// still sees it.
	require.NotNil(t, p.Properties.OutlineLevel)
	assert.Equal(t, 0, p.Properties.OutlineLevel.Val)

	trail := tbl.Rows[0].Cells[1].Paragraphs()[0]
	assert.Equal(t, "2019 - 2023", trail.GetText())
	require.NotNil(t, trail.Properties.Alignment)
	assert.Equal(t, "right", trail.Properties.Alignment.Val)
}

func TestBuiltContentReconcilesClean(t *testing.T) {
	// The builder emits unverified content; the reconciler is the check.
	// Content built natively must already be valid.
	b, pkg, styles, num := testBuilder(t, nil)

	h, err := styles.GetOrCreate("BulletItem", StyleConfig{SizePt: 10})
	require.NoError(t, err)

	_, err = b.AddBulletItem("one", 0, h)
	require.NoError(t, err)
	_, err = b.AddBulletItem("two", 0, h)
	require.NoError(t, err)

	report, err := testReconciler(nil).Reconcile(pkg, "BulletItem", num)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Matched)
	assert.True(t, report.Clean())
}

func TestBuiltDocumentWriteRoundTrip(t *testing.T) {
	b, pkg, styles, num := testBuilder(t, nil)

	hdr, err := styles.GetOrCreate("SectionHeader", StyleConfig{
		Bold: true, OutlineLevel: 1,
		Box: &BoxConfig{Edge: "bottom", TableWrap: true},
	})
	require.NoError(t, err)
	item, err := styles.GetOrCreate("BulletItem", StyleConfig{SizePt: 10})
	require.NoError(t, err)

	b.AddHeading("Skills", "", hdr)
	_, err = b.AddBulletItem("Go", 0, item)
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, pkg.Write(&out, styles, num))

	reopened, err := Open(bytes.NewReader(out.Bytes()))
	require.NoError(t, err)

	assert.True(t, reopened.HasStyleID("SectionHeader"))
	assert.True(t, reopened.HasStyleID("BulletItem"))

	texts, _ := collectTexts(reopened)
	assert.Equal(t, []string{"seed", "Skills", "Go"}, texts)

	num2, err := NewNumberingEngine(reopened.NumberingXML)
	require.NoError(t, err)
	report, err := testReconciler(nil).Reconcile(reopened, "BulletItem", num2)
	require.NoError(t, err)
	assert.True(t, report.Clean())
}
