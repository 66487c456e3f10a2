// Package spmf defines the data model shared by the SPMF wrapper: sequences
// of itemsets going into the external miner and pattern records coming out.
package spmf

import (
	"strconv"
	"strings"
)

// Reserved tokens of the SPMF sequence database format.
const (
	ItemsetEnd  = "-1"
	SequenceEnd = "-2"

	// SupportMarker prefixes the support count on every result line.
	SupportMarker = "#SUP: "
)

// Itemset is a group of items occurring at the same position of a sequence.
// Items keep their emission order.
type Itemset []string

// Sequence is a temporally ordered list of itemsets.
type Sequence []Itemset

// Ints builds an itemset from integer items.
func Ints(items ...int) Itemset {
	set := make(Itemset, len(items))
	for i, item := range items {
		set[i] = strconv.Itoa(item)
	}
	return set
}

// Items builds an itemset from string tokens.
func Items(items ...string) Itemset {
	return Itemset(items)
}

// Pattern is a single record of the miner's result file.
type Pattern struct {
	// Support is the number of sequences containing the pattern.
	Support int `json:"support" msgpack:"support" yaml:"support"`
	// Itemsets holds the raw text between itemset terminators.
	Itemsets []string `json:"pattern" msgpack:"pattern" yaml:"pattern"`
	// Extras holds additional markers printed after the support, e.g. SID.
	Extras map[string]string `json:"extras,omitempty" msgpack:"extras,omitempty" yaml:"extras,omitempty"`
}

// String renders the pattern back in result-file form.
func (p Pattern) String() string {
	var b strings.Builder
	for _, set := range p.Itemsets {
		b.WriteString(set)
		b.WriteString(" " + ItemsetEnd + " ")
	}
	b.WriteString(SupportMarker)
	b.WriteString(strconv.Itoa(p.Support))
	return b.String()
}

// Items splits each itemset of the pattern into its tokens.
func (p Pattern) Items() [][]string {
	out := make([][]string, len(p.Itemsets))
	for i, set := range p.Itemsets {
		out[i] = strings.Fields(set)
	}
	return out
}
