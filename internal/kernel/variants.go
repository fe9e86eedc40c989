package kernel

import "github.com/samcharles93/spmv/internal/sparse"

// rowKernel computes y[row] for one matrix row using a lane group. The
// scratch slice holds one partial sum per lane and is reused across the
// rows of a block.
type rowKernel func(m *sparse.DeviceCSR, x, y []float64, row int, scratch []float64)

// The dispatch menu is the closed set of pre-instantiated widths. Any
// requested width falls back to the nearest lower entry, with 1 as the
// floor; width 1 is always correct, if fully serial.
const maxVariantWidth = 128

// Widths returns the variant menu in ascending order.
func Widths() []int {
	return []int{1, 2, 4, 8, 16, 32, 64, 128}
}

// forWidth returns the widest variant whose width does not exceed w,
// together with the width actually selected.
func forWidth(w int) (rowKernel, int) {
	switch {
	case w >= 128:
		return rowSpMV128, 128
	case w >= 64:
		return rowSpMV64, 64
	case w >= 32:
		return rowSpMV32, 32
	case w >= 16:
		return rowSpMV16, 16
	case w >= 8:
		return rowSpMV8, 8
	case w >= 4:
		return rowSpMV4, 4
	case w >= 2:
		return rowSpMV2, 2
	default:
		return rowSpMV1, 1
	}
}

// rowSpMVW is the width-generic body the sized variants instantiate.
// Lane l accumulates entries start+l, start+l+width, ... of the row,
// then a butterfly reduction folds the width partial sums: at each step
// (width/2, width/4, ..., 1) lane i adds lane i+step's partial. Lanes
// run in lockstep, so the exchange needs no barrier and the reduction
// order is fixed, making output bit-for-bit reproducible for a given
// width. An empty row skips the strided loop and writes exactly 0.
func rowSpMVW(width int, m *sparse.DeviceCSR, x, y []float64, row int, scratch []float64) {
	start := int(m.RowOffsets[row])
	end := int(m.RowOffsets[row+1])

	partial := scratch[:width]
	for lane := 0; lane < width; lane++ {
		sum := 0.0
		for idx := start + lane; idx < end; idx += width {
			sum += m.Values[idx] * x[m.ColIndices[idx]]
		}
		partial[lane] = sum
	}
	for step := width / 2; step > 0; step /= 2 {
		for lane := 0; lane < step; lane++ {
			partial[lane] += partial[lane+step]
		}
	}
	y[row] = partial[0]
}

// rowSpMV1 is the degenerate single-lane variant: one lane walks the
// whole row, no reduction.
func rowSpMV1(m *sparse.DeviceCSR, x, y []float64, row int, _ []float64) {
	sum := 0.0
	for idx := m.RowOffsets[row]; idx < m.RowOffsets[row+1]; idx++ {
		sum += m.Values[idx] * x[m.ColIndices[idx]]
	}
	y[row] = sum
}

func rowSpMV2(m *sparse.DeviceCSR, x, y []float64, row int, scratch []float64) {
	rowSpMVW(2, m, x, y, row, scratch)
}

func rowSpMV4(m *sparse.DeviceCSR, x, y []float64, row int, scratch []float64) {
	rowSpMVW(4, m, x, y, row, scratch)
}

func rowSpMV8(m *sparse.DeviceCSR, x, y []float64, row int, scratch []float64) {
	rowSpMVW(8, m, x, y, row, scratch)
}

func rowSpMV16(m *sparse.DeviceCSR, x, y []float64, row int, scratch []float64) {
	rowSpMVW(16, m, x, y, row, scratch)
}

func rowSpMV32(m *sparse.DeviceCSR, x, y []float64, row int, scratch []float64) {
	rowSpMVW(32, m, x, y, row, scratch)
}

func rowSpMV64(m *sparse.DeviceCSR, x, y []float64, row int, scratch []float64) {
	rowSpMVW(64, m, x, y, row, scratch)
}

func rowSpMV128(m *sparse.DeviceCSR, x, y []float64, row int, scratch []float64) {
	rowSpMVW(128, m, x, y, row, scratch)
}
