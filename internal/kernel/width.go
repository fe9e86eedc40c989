// Package kernel implements sparse matrix-dense vector multiplication
// over CSR matrices. One warp-width is chosen per matrix from its
// sparsity profile; each row is processed by a group of that many lanes
// which stride the row's nonzeros and combine partial sums with a
// butterfly reduction.
package kernel

// SelectWidth picks the lane-group width for a matrix whose densest row
// has maxRowNNZ nonzeros. Starting from warpSize it halves while the
// width still exceeds maxRowNNZ, stopping at 1. The result is a power
// of two in [1, warpSize].
//
// The width is global to the matrix: a compromise between wasting lanes
// on short rows and serializing long ones, chosen once so the dispatch
// can use a small fixed menu of kernel variants.
func SelectWidth(maxRowNNZ, warpSize int) int {
	width := warpSize
	if width < 1 {
		width = 1
	}
	for width > 1 && width > maxRowNNZ {
		width /= 2
	}
	return width
}

// Configure computes the launch shape for nrows rows at the given lane
// width: how many row groups fit in one thread block, and how many
// blocks cover the matrix. Every row index in [0, nrows) maps to
// exactly one (block, slot) pair; trailing slots of the last block fall
// outside the matrix and the kernel skips them.
func Configure(nrows, width, maxThreadsPerBlock int) (rowsPerBlock, blocks int) {
	rowsPerBlock = maxThreadsPerBlock / width
	if rowsPerBlock < 1 {
		rowsPerBlock = 1
	}
	blocks = (nrows + rowsPerBlock - 1) / rowsPerBlock
	return rowsPerBlock, blocks
}
