// Package sparse provides the compressed sparse row (CSR) matrix format
// used by the SpMV kernels, along with conversion from coordinate-list
// form and a MatrixMarket reader.
package sparse

import "fmt"

// CSR is a sparse matrix in compressed row storage. RowOffsets has
// Rows+1 entries; row r's nonzeros live at indices
// [RowOffsets[r], RowOffsets[r+1]) of ColIndices and Values.
//
// A CSR is immutable once constructed. Kernels operate on a device-side
// mirror obtained from Upload.
type CSR struct {
	Rows int
	Cols int

	RowOffsets []int32
	ColIndices []int32
	Values     []float64
}

// NNZ returns the number of stored nonzeros.
func (m *CSR) NNZ() int {
	return len(m.Values)
}

// Validate checks the structural invariants of the CSR layout: offset
// array length and monotonicity, column bounds, and array length
// agreement. Matrices produced by FromCOO or ReadMatrixMarket always
// validate; this exists for callers assembling the arrays themselves.
func (m *CSR) Validate() error {
	if m.Rows < 0 || m.Cols < 0 {
		return fmt.Errorf("sparse: negative dimensions %dx%d", m.Rows, m.Cols)
	}
	if len(m.RowOffsets) != m.Rows+1 {
		return fmt.Errorf("sparse: row offsets length %d, want %d", len(m.RowOffsets), m.Rows+1)
	}
	if len(m.ColIndices) != len(m.Values) {
		return fmt.Errorf("sparse: %d column indices for %d values", len(m.ColIndices), len(m.Values))
	}
	if m.RowOffsets[0] != 0 {
		return fmt.Errorf("sparse: row offsets must start at 0, got %d", m.RowOffsets[0])
	}
	if int(m.RowOffsets[m.Rows]) != len(m.Values) {
		return fmt.Errorf("sparse: final row offset %d, want nnz %d", m.RowOffsets[m.Rows], len(m.Values))
	}
	for r := 0; r < m.Rows; r++ {
		if m.RowOffsets[r+1] < m.RowOffsets[r] {
			return fmt.Errorf("sparse: row offsets decrease at row %d (%d -> %d)", r, m.RowOffsets[r], m.RowOffsets[r+1])
		}
	}
	for i, c := range m.ColIndices {
		if c < 0 || int(c) >= m.Cols {
			return fmt.Errorf("sparse: column index %d out of range [0,%d) at entry %d", c, m.Cols, i)
		}
	}
	return nil
}

// MaxRowNNZ returns the largest nonzero count of any row. The width
// selector derives the kernel parallelism from it. Returns 0 for a
// matrix with no rows or no nonzeros.
func (m *CSR) MaxRowNNZ() int {
	maxNNZ := 0
	for r := 0; r < m.Rows; r++ {
		n := int(m.RowOffsets[r+1] - m.RowOffsets[r])
		if n > maxNNZ {
			maxNNZ = n
		}
	}
	return maxNNZ
}

// RowNNZ returns the nonzero count of row r.
func (m *CSR) RowNNZ(r int) int {
	return int(m.RowOffsets[r+1] - m.RowOffsets[r])
}

// DeviceCSR is the device-resident mirror of a CSR matrix. Its arrays
// are distinct allocations from the host copy; they are written once by
// Upload and read-only afterwards.
type DeviceCSR struct {
	Rows int
	Cols int

	RowOffsets []int32
	ColIndices []int32
	Values     []float64
}

// Upload copies the matrix to device memory. The returned mirror shares
// no storage with the host copy; host-side mutation after Upload is not
// reflected on the device.
func (m *CSR) Upload() *DeviceCSR {
	d := &DeviceCSR{
		Rows:       m.Rows,
		Cols:       m.Cols,
		RowOffsets: make([]int32, len(m.RowOffsets)),
		ColIndices: make([]int32, len(m.ColIndices)),
		Values:     make([]float64, len(m.Values)),
	}
	copy(d.RowOffsets, m.RowOffsets)
	copy(d.ColIndices, m.ColIndices)
	copy(d.Values, m.Values)
	return d
}
