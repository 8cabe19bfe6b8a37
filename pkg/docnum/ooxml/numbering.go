package ooxml

import (
	"encoding/xml"
	"fmt"
)

// Numbering represents the word/numbering.xml part. The part is parsed
// only as deeply as id extraction and rebuilding require: each definition
// body is preserved as raw inner XML, the way other tools wrote it.
type Numbering struct {
	XMLName      xml.Name      `xml:"numbering"`
	AbstractNums []AbstractNum `xml:"abstractNum"`
	Nums         []Num         `xml:"num"`
}

// AbstractNum is a w:abstractNum definition.
type AbstractNum struct {
	ID     int    `xml:"abstractNumId,attr"`
	RawXML []byte `xml:",innerxml"`
}

// Num maps a document-scoped numId to an abstract definition.
type Num struct {
	ID            int    `xml:"numId,attr"`
	AbstractNumID struct {
		Val int `xml:"val,attr"`
	} `xml:"abstractNumId"`
}

// ParseNumbering parses a numbering part. A nil or empty input yields an
// empty part, which is how documents without a numbering part start out.
func ParseNumbering(content []byte) (*Numbering, error) {
	if len(content) == 0 {
		return &Numbering{}, nil
	}
	var n Numbering
	if err := xml.Unmarshal(content, &n); err != nil {
		return nil, fmt.Errorf("failed to parse numbering part: %w", err)
	}
	return &n, nil
}

// NumIDs returns every numId present in the part.
func (n *Numbering) NumIDs() []int {
	ids := make([]int, 0, len(n.Nums))
	for _, num := range n.Nums {
		ids = append(ids, num.ID)
	}
	return ids
}

// MaxNumID returns the highest numId in the part, or 0 when empty.
func (n *Numbering) MaxNumID() int {
	max := 0
	for _, num := range n.Nums {
		if num.ID > max {
			max = num.ID
		}
	}
	return max
}

// MaxAbstractNumID returns the highest abstractNumId, or -1 when empty.
func (n *Numbering) MaxAbstractNumID() int {
	max := -1
	for _, abs := range n.AbstractNums {
		if abs.ID > max {
			max = abs.ID
		}
	}
	return max
}

// HasNumID reports whether the part defines the given numId.
func (n *Numbering) HasNumID(id int) bool {
	for _, num := range n.Nums {
		if num.ID == id {
			return true
		}
	}
	return false
}
