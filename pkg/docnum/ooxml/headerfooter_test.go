package ooxml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHeaderFooter(t *testing.T) {
	header := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:hdr xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:p><w:r><w:t>running head</w:t></w:r></w:p>
<w:tbl><w:tr><w:tc><w:p><w:r><w:t>in table</w:t></w:r></w:p></w:tc></w:tr></w:tbl>
</w:hdr>`

	hf, err := ParseHeaderFooter([]byte(header))
	require.NoError(t, err)
	assert.Equal(t, "hdr", hf.Root)
	require.Len(t, hf.Elements, 2)
	require.Len(t, hf.Paragraphs(), 1)
	assert.Equal(t, "running head", hf.Paragraphs()[0].GetText())
}

func TestParseFooterRoot(t *testing.T) {
	footer := `<w:ftr xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:p><w:r><w:t>page</w:t></w:r></w:p></w:ftr>`
	hf, err := ParseHeaderFooter([]byte(footer))
	require.NoError(t, err)
	assert.Equal(t, "ftr", hf.Root)
}

func TestParseHeaderFooterUnknownRoot(t *testing.T) {
	_, err := ParseHeaderFooter([]byte(`<w:ftnEdn xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"></w:ftnEdn>`))
	assert.Error(t, err)
}

func TestHeaderFooterMarshalElements(t *testing.T) {
	header := `<w:hdr xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:p><w:pPr><w:pStyle w:val="Head"/></w:pPr><w:r><w:t>text</w:t></w:r></w:p></w:hdr>`
	hf, err := ParseHeaderFooter([]byte(header))
	require.NoError(t, err)

	out, err := hf.MarshalElements()
	require.NoError(t, err)
	assert.Contains(t, string(out), `<w:pStyle w:val="Head">`)
	assert.Contains(t, string(out), ">text<")
}
