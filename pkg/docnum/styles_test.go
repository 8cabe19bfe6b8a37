package docnum

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nanaoosaki/go-docnum/pkg/docnum/ooxml"
)

func TestGetOrCreateIdempotent(t *testing.T) {
	reg, err := NewStyleRegistry(nil)
	require.NoError(t, err)

	first, err := reg.GetOrCreate("SectionHeader", StyleConfig{SizePt: 14, Bold: true})
	require.NoError(t, err)

	// A second registration with a different config must return the first
	// handle untouched: paragraphs already styled against it would
	// otherwise change meaning retroactively.
	second, err := reg.GetOrCreate("SectionHeader", StyleConfig{SizePt: 9})
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 14, second.Config.SizePt)
}

func TestGetOrCreatePreexistingStyle(t *testing.T) {
	reg, err := NewStyleRegistry([]byte(testStylesPart("BulletItem")))
	require.NoError(t, err)

	h, err := reg.GetOrCreate("BulletItem", StyleConfig{SizePt: 10})
	require.NoError(t, err)
	assert.True(t, h.preexisting)

	out, err := reg.StylesXML()
	require.NoError(t, err)
	// No second definition is generated for a style already in the part.
	assert.Equal(t, 1, strings.Count(string(out), `w:styleId="BulletItem"`))
}

func TestRegistryHas(t *testing.T) {
	reg, err := NewStyleRegistry([]byte(testStylesPart("Existing")))
	require.NoError(t, err)

	assert.True(t, reg.Has("Existing"))
	assert.True(t, reg.Has("Normal"))
	assert.False(t, reg.Has("Missing"))

	_, err = reg.GetOrCreate("Fresh", StyleConfig{})
	require.NoError(t, err)
	assert.True(t, reg.Has("Fresh"))
}

func TestRegisterAllDeterministicOrder(t *testing.T) {
	reg, err := NewStyleRegistry(nil)
	require.NoError(t, err)

	require.NoError(t, reg.RegisterAll(map[string]StyleConfig{
		"Zeta":  {SizePt: 10},
		"Alpha": {SizePt: 10},
		"Mid":   {SizePt: 10},
	}))

	out, err := reg.StylesXML()
	require.NoError(t, err)
	s := string(out)
	assert.Less(t, strings.Index(s, `w:styleId="Alpha"`), strings.Index(s, `w:styleId="Mid"`))
	assert.Less(t, strings.Index(s, `w:styleId="Mid"`), strings.Index(s, `w:styleId="Zeta"`))
}

func TestRegisterAllCollectsInvalidConfigs(t *testing.T) {
	reg, err := NewStyleRegistry(nil)
	require.NoError(t, err)

	err = reg.RegisterAll(map[string]StyleConfig{
		"Good":   {SizePt: 10},
		"BadOne": {SizePt: -1},
		"BadTwo": {IndentLeft: 10, IndentHanging: 20},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 errors occurred")

	// Valid entries register even when siblings fail.
	assert.True(t, reg.Has("Good"))
	assert.False(t, reg.Has("BadOne"))
	assert.False(t, reg.Has("BadTwo"))
}

func TestRegisterAllSingleErrorKeepsType(t *testing.T) {
	reg, err := NewStyleRegistry(nil)
	require.NoError(t, err)

	err = reg.RegisterAll(map[string]StyleConfig{
		"Good": {SizePt: 10},
		"Bad":  {SizePt: -1},
	})
	assert.True(t, IsValidationError(err), "a single failure surfaces unwrapped")
	assert.True(t, reg.Has("Good"))
}

func TestStylesXMLAppendsBeforeClosingTag(t *testing.T) {
	source := testStylesPart()
	reg, err := NewStyleRegistry([]byte(source))
	require.NoError(t, err)

	_, err = reg.GetOrCreate("RoleTitle", StyleConfig{Bold: true, SizePt: 11, Color: "1F4E79"})
	require.NoError(t, err)

	out, err := reg.StylesXML()
	require.NoError(t, err)
	s := string(out)

	assert.True(t, strings.HasSuffix(strings.TrimSpace(s), "</w:styles>"))
	assert.Contains(t, s, `<w:style w:type="paragraph" w:styleId="RoleTitle">`)
	assert.Contains(t, s, `<w:color w:val="1F4E79"/>`)
	assert.Contains(t, s, `<w:sz w:val="22"/>`)
}

func TestBuildStyleXMLGeometryAndAncestor(t *testing.T) {
	s := buildStyleXML("TightHeading", StyleConfig{
		SizePt:        13,
		SpaceBeforePt: 4,
		SpaceAfterPt:  2,
		IndentLeft:    23,
		IndentHanging: 13,
		OutlineLevel:  2,
	})

	// Default ancestor is Normal: rich heading presets carry spacing that
	// direct formatting cannot reliably cancel later.
	assert.Contains(t, s, `<w:basedOn w:val="Normal"/>`)
	assert.Contains(t, s, `<w:spacing w:before="80" w:after="40"/>`)
	assert.Contains(t, s, `<w:ind w:left="331" w:hanging="187"/>`)
	assert.Contains(t, s, `<w:outlineLvl w:val="1"/>`)
}

func TestApplySetsStyleAndOutline(t *testing.T) {
	reg, err := NewStyleRegistry(nil)
	require.NoError(t, err)

	h, err := reg.GetOrCreate("SectionHeader", StyleConfig{OutlineLevel: 1})
	require.NoError(t, err)

	p := &ooxml.Paragraph{}
	reg.Apply(p, h)

	assert.Equal(t, "SectionHeader", p.StyleID())
	require.NotNil(t, p.Properties.OutlineLevel)
	assert.Equal(t, 0, p.Properties.OutlineLevel.Val)
}

func TestApplyBorderWrittenAtMostOnce(t *testing.T) {
	reg, err := NewStyleRegistry(nil)
	require.NoError(t, err)

	h, err := reg.GetOrCreate("Boxed", StyleConfig{
		Box: &BoxConfig{Edge: "bottom", Color: "4472C4"},
	})
	require.NoError(t, err)

	p := &ooxml.Paragraph{}
	reg.Apply(p, h)
	reg.Apply(p, h)

	count := 0
	for i := range p.Properties.RawXML {
		if p.Properties.RawXML[i].Contains("<w:pBdr>") {
			count++
		}
	}
	assert.Equal(t, 1, count, "re-applying must not stack border nodes")
}

func TestApplyTableWrapBoxWritesNoBorder(t *testing.T) {
	reg, err := NewStyleRegistry(nil)
	require.NoError(t, err)

	h, err := reg.GetOrCreate("BoxedTable", StyleConfig{
		Box: &BoxConfig{Edge: "bottom", TableWrap: true},
	})
	require.NoError(t, err)

	p := &ooxml.Paragraph{}
	reg.Apply(p, h)
	assert.Empty(t, p.Properties.RawXML, "table-wrapped boxes carry borders on the cell, not the paragraph")
}

func TestBuildParagraphBorderXMLEdges(t *testing.T) {
	tests := []struct {
		edge string
		want []string
		not  []string
	}{
		{"bottom", []string{"<w:bottom"}, []string{"<w:top", "<w:left", "<w:right"}},
		{"top", []string{"<w:top"}, []string{"<w:bottom"}},
		{"box", []string{"<w:top", "<w:left", "<w:bottom", "<w:right"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.edge, func(t *testing.T) {
			s := buildParagraphBorderXML(&BoxConfig{Edge: tt.edge, Color: "auto"})
			for _, w := range tt.want {
				assert.Contains(t, s, w)
			}
			for _, n := range tt.not {
				assert.NotContains(t, s, n)
			}
		})
	}
}
