// Package ooxml provides the WordprocessingML object model used by docnum
// to inspect and repair DOCX documents.
//
// DOCX files are ZIP archives of XML parts. This package models the parts
// the reconciliation engine cares about:
//
//   - document.go: Document and Body with an ordered BodyElement slice
//   - paragraph.go: Paragraph and its properties, including the w:numPr
//     numbering reference and w:ind indentation (left, hanging, firstLine)
//   - run.go: Run, Text and Break elements; unknown run children such as
//     drawings are preserved verbatim so floating text frames survive a
//     read-modify-write cycle
//   - table.go: Table, TableRow and TableCell; cells hold an ordered
//     element list so tables nested inside cells are representable
//   - numbering.go: the w:numbering part (abstract definitions, numId map)
//   - headerfooter.go: w:hdr and w:ftr parts, which share the body model
//
// # Order preservation
//
// Word is sensitive to element order, and its renderer resolves duplicate
// property nodes with first-node-wins semantics. All container types here
// implement custom UnmarshalXML/MarshalXML so the element sequence read
// from a part is the sequence written back, and property marshaling emits
// each node at most once, in schema order.
//
// # Raw preservation
//
// Properties this model does not type (w:keepNext, w:pBdr written by other
// tools, drawing markup, ...) are captured as RawXMLElement values and
// re-emitted byte for byte via the marker mechanism in marshal.go.
package ooxml
