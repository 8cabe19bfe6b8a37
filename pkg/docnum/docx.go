package docnum

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/nanaoosaki/go-docnum/pkg/docnum/ooxml"
)

const (
	partDocument     = "word/document.xml"
	partStyles       = "word/styles.xml"
	partNumbering    = "word/numbering.xml"
	partDocumentRels = "word/_rels/document.xml.rels"
	partContentTypes = "[Content_Types].xml"

	numberingContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.numbering+xml"
	numberingRelType     = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/numbering"
)

var headerFooterPartRE = regexp.MustCompile(`^word/(header|footer)\d+\.xml$`)

// PackageReader handles reading a DOCX package.
type PackageReader struct {
	reader *zip.Reader
	Parts  map[string]*zip.File
}

// NewPackageReader indexes the parts of a DOCX package.
func NewPackageReader(r io.ReaderAt, size int64) (*PackageReader, error) {
	zipReader, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("failed to read zip file: %w", err)
	}

	pr := &PackageReader{
		reader: zipReader,
		Parts:  make(map[string]*zip.File),
	}
	for _, file := range zipReader.File {
		pr.Parts[file.Name] = file
	}

	if _, ok := pr.Parts[partDocument]; !ok {
		return nil, fmt.Errorf("not a valid DOCX file: missing %s", partDocument)
	}
	return pr, nil
}

// GetPart retrieves the content of a specific part.
func (pr *PackageReader) GetPart(partName string) ([]byte, error) {
	file, ok := pr.Parts[partName]
	if !ok {
		return nil, fmt.Errorf("part %s not found", partName)
	}

	rc, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open part %s: %w", partName, err)
	}
	defer rc.Close()

	content, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read part %s: %w", partName, err)
	}
	return content, nil
}

// HasPart reports whether the package contains the named part.
func (pr *PackageReader) HasPart(partName string) bool {
	_, ok := pr.Parts[partName]
	return ok
}

// DocumentPackage is one parsed DOCX package: the main content tree plus
// the numbering, styles and header/footer parts. A package instance is
// exclusively owned by the request that opened it.
type DocumentPackage struct {
	Document *ooxml.Document
	Headers  map[string]*ooxml.HeaderFooter
	Footers  map[string]*ooxml.HeaderFooter

	// StylesXML and NumberingXML hold the raw parts as read; nil when
	// the package has none.
	StylesXML    []byte
	NumberingXML []byte

	source   []byte            // original package bytes, reused on write
	partSrc  map[string][]byte // original XML of rewritten parts, for root tags
	styleIDs map[string]bool
}

// Open reads and parses a DOCX package. Failure here is the fatal
// DocumentUnreadable class: with no tree there is nothing to reconcile.
func Open(r io.Reader) (*DocumentPackage, error) {
	buf := new(bytes.Buffer)
	size, err := buf.ReadFrom(r)
	if err != nil {
		return nil, NewDocumentError("read", "", err)
	}
	source := buf.Bytes()

	reader, err := NewPackageReader(bytes.NewReader(source), size)
	if err != nil {
		return nil, NewDocumentError("parse", "package", err)
	}

	pkg := &DocumentPackage{
		Headers: make(map[string]*ooxml.HeaderFooter),
		Footers: make(map[string]*ooxml.HeaderFooter),
		source:  source,
		partSrc: make(map[string][]byte),
	}

	docXML, err := reader.GetPart(partDocument)
	if err != nil {
		return nil, NewDocumentError("extract", partDocument, err)
	}
	doc, err := ooxml.ParseDocument(bytes.NewReader(docXML))
	if err != nil {
		return nil, NewDocumentError("parse", partDocument, err)
	}
	pkg.Document = doc
	pkg.partSrc[partDocument] = docXML

	for name := range reader.Parts {
		if !headerFooterPartRE.MatchString(name) {
			continue
		}
		content, err := reader.GetPart(name)
		if err != nil {
			return nil, NewDocumentError("extract", name, err)
		}
		hf, err := ooxml.ParseHeaderFooter(content)
		if err != nil {
			return nil, NewDocumentError("parse", name, err)
		}
		pkg.partSrc[name] = content
		if hf.Root == "hdr" {
			pkg.Headers[name] = hf
		} else {
			pkg.Footers[name] = hf
		}
	}

	if reader.HasPart(partStyles) {
		if pkg.StylesXML, err = reader.GetPart(partStyles); err != nil {
			return nil, NewDocumentError("extract", partStyles, err)
		}
	}
	if reader.HasPart(partNumbering) {
		if pkg.NumberingXML, err = reader.GetPart(partNumbering); err != nil {
			return nil, NewDocumentError("extract", partNumbering, err)
		}
	}

	pkg.styleIDs = extractStyleIDs(pkg.StylesXML)
	return pkg, nil
}

// OpenFile opens a DOCX package from a file path.
func OpenFile(path string) (*DocumentPackage, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, NewDocumentError("read", path, err)
	}
	return Open(bytes.NewReader(content))
}

// HeaderNames returns the header part names in stable order.
func (pkg *DocumentPackage) HeaderNames() []string {
	return sortedKeys(pkg.Headers)
}

// FooterNames returns the footer part names in stable order.
func (pkg *DocumentPackage) FooterNames() []string {
	return sortedKeys(pkg.Footers)
}

func sortedKeys(m map[string]*ooxml.HeaderFooter) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HasStyleID reports whether the style id exists in the package's styles
// part. Paragraphs referencing unknown styles typically originate from
// content pasted out of a different document.
func (pkg *DocumentPackage) HasStyleID(id string) bool {
	return pkg.styleIDs[id]
}

// Write assembles the output package: every part of the original is
// copied through, with the document tree, headers, footers, styles and
// numbering parts replaced by their current in-memory state. The output
// is always complete; no partially written package is ever produced.
func (pkg *DocumentPackage) Write(w io.Writer, styles *StyleRegistry, num *NumberingEngine) error {
	renderedDoc, err := pkg.renderPart(partDocument, "document")
	if err != nil {
		return err
	}

	rendered := map[string][]byte{partDocument: renderedDoc}
	for name, hf := range pkg.Headers {
		if rendered[name], err = pkg.renderHeaderFooterPart(name, hf); err != nil {
			return err
		}
	}
	for name, hf := range pkg.Footers {
		if rendered[name], err = pkg.renderHeaderFooterPart(name, hf); err != nil {
			return err
		}
	}

	if styles != nil {
		if rendered[partStyles], err = styles.StylesXML(); err != nil {
			return err
		}
	}

	createNumbering := false
	if num != nil && (num.HasAllocations() || len(pkg.NumberingXML) > 0) {
		numXML, err := num.NumberingXML()
		if err != nil {
			return err
		}
		if len(numXML) > 0 {
			rendered[partNumbering] = numXML
			createNumbering = len(pkg.NumberingXML) == 0
		}
	}

	zr, err := zip.NewReader(bytes.NewReader(pkg.source), int64(len(pkg.source)))
	if err != nil {
		return NewDocumentError("reopen", "package", err)
	}

	out := zip.NewWriter(w)
	for _, file := range zr.File {
		content, replaced := rendered[file.Name]
		if !replaced {
			fr, err := file.Open()
			if err != nil {
				return NewDocumentError("open", file.Name, err)
			}
			raw, err := io.ReadAll(fr)
			fr.Close()
			if err != nil {
				return NewDocumentError("copy", file.Name, err)
			}
			content = raw
		}

		if createNumbering {
			switch file.Name {
			case partContentTypes:
				content, err = addContentTypeOverride(content, "/"+partNumbering, numberingContentType)
			case partDocumentRels:
				content, err = addRelationship(content, numberingRelType, "numbering.xml")
			}
			if err != nil {
				return NewDocumentError("rewrite", file.Name, err)
			}
		}

		fw, err := out.Create(file.Name)
		if err != nil {
			return NewDocumentError("create", file.Name, err)
		}
		if _, err := fw.Write(content); err != nil {
			return NewDocumentError("write", file.Name, err)
		}
		delete(rendered, file.Name)
	}

	// Parts that did not exist in the source package (a numbering part
	// allocated into a document that had none).
	names := make([]string, 0, len(rendered))
	for name := range rendered {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fw, err := out.Create(name)
		if err != nil {
			return NewDocumentError("create", name, err)
		}
		if _, err := fw.Write(rendered[name]); err != nil {
			return NewDocumentError("write", name, err)
		}
	}

	if err := out.Close(); err != nil {
		return NewDocumentError("close", "package", err)
	}
	return nil
}

// renderPart reconstructs a rewritten XML part, keeping the original
// opening root tag verbatim so every namespace declaration survives.
func (pkg *DocumentPackage) renderPart(name, rootLocal string) ([]byte, error) {
	openTag, err := extractRootOpenTag(pkg.partSrc[name], rootLocal)
	if err != nil {
		return nil, NewDocumentError("rebuild", name, err)
	}

	body, err := ooxml.MarshalBody(pkg.Document.Body)
	if err != nil {
		return nil, NewDocumentError("marshal", name, err)
	}

	var buf bytes.Buffer
	buf.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	buf.Write(openTag)
	buf.Write(body)
	buf.WriteString("</w:" + rootLocal + ">")
	return buf.Bytes(), nil
}

func (pkg *DocumentPackage) renderHeaderFooterPart(name string, hf *ooxml.HeaderFooter) ([]byte, error) {
	openTag, err := extractRootOpenTag(pkg.partSrc[name], hf.Root)
	if err != nil {
		return nil, NewDocumentError("rebuild", name, err)
	}

	content, err := hf.MarshalElements()
	if err != nil {
		return nil, NewDocumentError("marshal", name, err)
	}

	var buf bytes.Buffer
	buf.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	buf.Write(openTag)
	buf.Write(content)
	buf.WriteString("</w:" + hf.Root + ">")
	return buf.Bytes(), nil
}

// extractRootOpenTag returns the original opening tag (with all namespace
// declarations) of the part's root element.
func extractRootOpenTag(content []byte, rootLocal string) ([]byte, error) {
	s := string(content)

	searchStart := 0
	if declEnd := strings.Index(s, "?>"); declEnd != -1 && strings.HasPrefix(strings.TrimSpace(s), "<?xml") {
		searchStart = declEnd + 2
	}

	tagStart := strings.Index(s[searchStart:], "<w:"+rootLocal)
	if tagStart == -1 {
		return nil, fmt.Errorf("root element w:%s not found", rootLocal)
	}
	tagStart += searchStart

	tagEnd := strings.Index(s[tagStart:], ">")
	if tagEnd == -1 {
		return nil, fmt.Errorf("malformed root element w:%s", rootLocal)
	}
	return []byte(s[tagStart : tagStart+tagEnd+1]), nil
}

// addContentTypeOverride inserts an Override into [Content_Types].xml
// unless one for the part already exists.
func addContentTypeOverride(content []byte, partName, contentType string) ([]byte, error) {
	s := string(content)
	if strings.Contains(s, `PartName="`+partName+`"`) {
		return content, nil
	}
	override := fmt.Sprintf(`<Override PartName="%s" ContentType="%s"/>`, partName, contentType)
	return insertBeforeClosingTag(content, "</Types>", override)
}

// addRelationship appends a relationship with the next free rId unless
// one with the same type already exists.
func addRelationship(content []byte, relType, target string) ([]byte, error) {
	s := string(content)
	if strings.Contains(s, `Type="`+relType+`"`) {
		return content, nil
	}

	maxID := 0
	for _, m := range relIDRE.FindAllStringSubmatch(s, -1) {
		if n, err := strconv.Atoi(m[1]); err == nil && n > maxID {
			maxID = n
		}
	}

	rel := fmt.Sprintf(`<Relationship Id="rId%d" Type="%s" Target="%s"/>`, maxID+1, relType, target)
	return insertBeforeClosingTag(content, "</Relationships>", rel)
}

var relIDRE = regexp.MustCompile(`Id="rId(\d+)"`)

// extractStyleIDs pulls the set of style ids out of a styles part.
func extractStyleIDs(stylesXML []byte) map[string]bool {
	ids := make(map[string]bool)
	if len(stylesXML) == 0 {
		return ids
	}
	var part stylesPart
	if err := xml.Unmarshal(stylesXML, &part); err != nil {
		return ids
	}
	for _, style := range part.Styles {
		ids[style.StyleID] = true
	}
	return ids
}
