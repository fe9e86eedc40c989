// Package validate cross-checks the device kernel's SpMV output against
// a reference routine and reports per-index divergence.
package validate

import (
	"fmt"
	"math"

	"github.com/samcharles93/spmv/internal/refblas"
	"github.com/samcharles93/spmv/internal/sparse"
)

// DefaultEPS is the absolute tolerance for elementwise comparison.
const DefaultEPS = 1e-14

// Mismatch records one result index where the kernel and the reference
// differ by at least the tolerance.
type Mismatch struct {
	Index int     `json:"index"`
	Got   float64 `json:"got"`
	Want  float64 `json:"want"`
	Diff  float64 `json:"diff"`
}

// Compare diffs two vectors elementwise and returns every index whose
// absolute difference meets or exceeds eps. Identical inputs always
// produce an empty result. Lengths must match; comparing vectors of
// different sizes is a caller bug.
func Compare(got, want []float64, eps float64) []Mismatch {
	var mismatches []Mismatch
	for i := range got {
		diff := math.Abs(got[i] - want[i])
		if diff >= eps {
			mismatches = append(mismatches, Mismatch{
				Index: i,
				Got:   got[i],
				Want:  want[i],
				Diff:  diff,
			})
		}
	}
	return mismatches
}

// Run recomputes y = A·x through ref and compares the kernel output
// against it within eps (DefaultEPS when eps <= 0). Inputs are read
// only. A failed comparison is a verdict, not an error; the error
// return covers only the reference routine itself.
func Run(m *sparse.CSR, x, got []float64, ref refblas.SpMVer, eps float64) (*Report, error) {
	if eps <= 0 {
		eps = DefaultEPS
	}
	if len(got) < m.Rows {
		return nil, fmt.Errorf("validate: kernel output length %d, matrix has %d rows", len(got), m.Rows)
	}

	want := make([]float64, m.Rows)
	if err := ref.SpMV(m, x, want); err != nil {
		return nil, fmt.Errorf("validate: reference SpMV: %w", err)
	}

	mismatches := Compare(got[:m.Rows], want, eps)
	return newReport(m, eps, mismatches), nil
}
