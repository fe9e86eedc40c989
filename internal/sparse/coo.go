package sparse

import (
	"fmt"
	"sort"
)

// Entry is one coordinate-list (COO) element.
type Entry struct {
	Row int32
	Col int32
	Val float64
}

// FromCOO builds a CSR matrix from coordinate entries. Entries may be
// in any order; within a row the original relative order of entries is
// preserved. Duplicate coordinates are kept as separate stored values
// (their products accumulate during SpMV, matching the usual coordinate
// file convention).
func FromCOO(rows, cols int, entries []Entry) (*CSR, error) {
	if rows < 0 || cols < 0 {
		return nil, fmt.Errorf("sparse: negative dimensions %dx%d", rows, cols)
	}
	for i, e := range entries {
		if e.Row < 0 || int(e.Row) >= rows {
			return nil, fmt.Errorf("sparse: entry %d row %d out of range [0,%d)", i, e.Row, rows)
		}
		if e.Col < 0 || int(e.Col) >= cols {
			return nil, fmt.Errorf("sparse: entry %d column %d out of range [0,%d)", i, e.Col, cols)
		}
	}

	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Row < sorted[j].Row
	})

	m := &CSR{
		Rows:       rows,
		Cols:       cols,
		RowOffsets: make([]int32, rows+1),
		ColIndices: make([]int32, len(sorted)),
		Values:     make([]float64, len(sorted)),
	}
	for _, e := range sorted {
		m.RowOffsets[e.Row+1]++
	}
	for r := 0; r < rows; r++ {
		m.RowOffsets[r+1] += m.RowOffsets[r]
	}
	for i, e := range sorted {
		m.ColIndices[i] = e.Col
		m.Values[i] = e.Val
	}
	return m, nil
}
