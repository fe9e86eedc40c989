// Package refblas provides the reference sparse matrix-vector product
// the validation harness checks the device kernel against. The
// reference is deliberately a narrow interface over host-side CSR
// arrays so any conforming routine (a vendor sparse-BLAS binding, a
// second independent implementation) can stand in without touching the
// comparison logic.
package refblas

import (
	"fmt"

	"github.com/samcharles93/spmv/internal/sparse"
)

// SpMVer computes y = A·x with unit scalar multiplier and zero scalar
// accumulator, over zero-based host-side CSR arrays. Implementations
// must not modify A or x.
type SpMVer interface {
	SpMV(m *sparse.CSR, x, y []float64) error
}

// Sequential is the built-in reference: one row at a time, entries
// accumulated left to right in double precision.
type Sequential struct{}

// SpMV implements SpMVer.
func (Sequential) SpMV(m *sparse.CSR, x, y []float64) error {
	if len(x) < m.Cols {
		return fmt.Errorf("refblas: input vector length %d, matrix has %d columns", len(x), m.Cols)
	}
	if len(y) < m.Rows {
		return fmt.Errorf("refblas: output vector length %d, matrix has %d rows", len(y), m.Rows)
	}
	for r := 0; r < m.Rows; r++ {
		sum := 0.0
		for idx := m.RowOffsets[r]; idx < m.RowOffsets[r+1]; idx++ {
			sum += m.Values[idx] * x[m.ColIndices[idx]]
		}
		y[r] = sum
	}
	return nil
}
