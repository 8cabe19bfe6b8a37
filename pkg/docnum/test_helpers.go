// test_helpers.go contains fixture builders exposed only for testing.
// These should not be used in production code.

package docnum

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"sort"
)

// testDOCX assembles a minimal in-memory DOCX package. BodyXML is the
// inner content of w:body; the optional parts are full part bodies
// without the XML declaration.
type testDOCX struct {
	BodyXML      string
	StylesXML    string
	NumberingXML string
	Headers      map[string]string // part name suffix ("header1.xml") to inner content
	Footers      map[string]string
}

const testWNamespace = `xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"`

// Bytes renders the package as a DOCX zip.
func (t testDOCX) Bytes() []byte {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	write := func(name, content string) {
		f, _ := w.Create(name)
		io.WriteString(f, content)
	}

	write("_rels/.rels", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`)

	docRels := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>
</Relationships>`
	write("word/_rels/document.xml.rels", docRels)

	write("word/document.xml", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document `+testWNamespace+`><w:body>`+t.BodyXML+`</w:body></w:document>`)

	overrides := `<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>`

	if t.StylesXML != "" {
		write("word/styles.xml", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`+"\n"+t.StylesXML)
		overrides += `<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>`
	}
	if t.NumberingXML != "" {
		write("word/numbering.xml", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`+"\n"+t.NumberingXML)
		overrides += `<Override PartName="/word/numbering.xml" ContentType="` + numberingContentType + `"/>`
	}

	for _, name := range sortedStringKeys(t.Headers) {
		write("word/"+name, `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:hdr `+testWNamespace+`>`+t.Headers[name]+`</w:hdr>`)
		overrides += fmt.Sprintf(`<Override PartName="/word/%s" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.header+xml"/>`, name)
	}
	for _, name := range sortedStringKeys(t.Footers) {
		write("word/"+name, `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:ftr `+testWNamespace+`>`+t.Footers[name]+`</w:ftr>`)
		overrides += fmt.Sprintf(`<Override PartName="/word/%s" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.footer+xml"/>`, name)
	}

	write("[Content_Types].xml", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
  <Default Extension="xml" ContentType="application/xml"/>
  `+overrides+`
</Types>`)

	w.Close()
	return buf.Bytes()
}

func sortedStringKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// testStyledParagraph renders a w:p with a style and plain text.
func testStyledParagraph(style, text string) string {
	return `<w:p><w:pPr><w:pStyle w:val="` + style + `"/></w:pPr><w:r><w:t>` + text + `</w:t></w:r></w:p>`
}

// testNumberedParagraph renders a w:p with a style, a numbering reference
// and plain text.
func testNumberedParagraph(style string, numID, level int, text string) string {
	return fmt.Sprintf(
		`<w:p><w:pPr><w:pStyle w:val="%s"/><w:numPr><w:ilvl w:val="%d"/><w:numId w:val="%d"/></w:numPr></w:pPr><w:r><w:t>%s</w:t></w:r></w:p>`,
		style, level, numID, text)
}

// testStylesPart renders a styles part declaring the given style ids.
func testStylesPart(ids ...string) string {
	s := `<w:styles ` + testWNamespace + `>`
	s += `<w:style w:type="paragraph" w:styleId="Normal" w:default="1"><w:name w:val="Normal"/></w:style>`
	for _, id := range ids {
		s += `<w:style w:type="paragraph" w:styleId="` + id + `"><w:name w:val="` + id + `"/></w:style>`
	}
	return s + `</w:styles>`
}

// testNumberingPart renders a numbering part with one bullet abstract
// definition mapped from each given numId.
func testNumberingPart(numIDs ...int) string {
	s := `<w:numbering ` + testWNamespace + `>`
	s += `<w:abstractNum w:abstractNumId="0"><w:multiLevelType w:val="hybridMultilevel"/><w:lvl w:ilvl="0"><w:start w:val="1"/><w:numFmt w:val="bullet"/><w:lvlText w:val="•"/><w:lvlJc w:val="left"/></w:lvl></w:abstractNum>`
	for _, id := range numIDs {
		s += fmt.Sprintf(`<w:num w:numId="%d"><w:abstractNumId w:val="0"/></w:num>`, id)
	}
	return s + `</w:numbering>`
}
