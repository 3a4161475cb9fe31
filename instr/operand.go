package instr

import (
	"fmt"
	"sort"
)

// CopyTerm is one target of an OpCopy. The cell at Offset, relative to the
// tape pointer, receives Multiplier times the current cell.
type CopyTerm struct {
	Offset     int64
	Multiplier int64
}

func (t CopyTerm) String() string {
	return fmt.Sprintf("%d:%d", t.Offset, t.Multiplier)
}

// CopyTerms builds the sorted term list of an OpCopy from an offset to
// multiplier mapping. Terms with a zero multiplier are dropped.
func CopyTerms(m map[int64]int64) []CopyTerm {
	terms := make([]CopyTerm, 0, len(m))
	for offset, mul := range m {
		if mul == 0 {
			continue
		}

		terms = append(terms, CopyTerm{Offset: offset, Multiplier: mul})
	}

	sort.Slice(terms, func(a, b int) bool {
		return terms[a].Offset < terms[b].Offset
	})

	return terms
}

// CopyMap returns the terms as an offset to multiplier mapping.
func CopyMap(terms []CopyTerm) map[int64]int64 {
	m := make(map[int64]int64, len(terms))
	for _, t := range terms {
		m[t.Offset] = t.Multiplier
	}

	return m
}
