package kernel

import (
	"fmt"

	"github.com/samcharles93/spmv/internal/device"
	"github.com/samcharles93/spmv/internal/sparse"
)

// Plan is the resolved launch configuration for one matrix: the lane
// width, the block shape, and the kernel variant that width dispatched
// to. A Plan is derived once per matrix and is cheap to copy.
type Plan struct {
	Width        int `json:"width"`
	RowsPerBlock int `json:"rows_per_block"`
	Blocks       int `json:"blocks"`

	kern rowKernel
}

// NewPlan derives the launch configuration from the device properties
// and the matrix's row count and densest-row nonzero count.
func NewPlan(props device.Properties, nrows, maxRowNNZ int) Plan {
	return NewPlanWidth(props, nrows, SelectWidth(maxRowNNZ, props.WarpSize))
}

// NewPlanWidth builds a Plan for an explicitly requested width,
// bypassing the selector. Widths outside the variant menu collapse to
// the nearest lower supported width, minimum 1.
func NewPlanWidth(props device.Properties, nrows, width int) Plan {
	kern, actual := forWidth(width)
	rowsPerBlock, blocks := Configure(nrows, actual, props.MaxThreadsPerBlock)
	return Plan{
		Width:        actual,
		RowsPerBlock: rowsPerBlock,
		Blocks:       blocks,
		kern:         kern,
	}
}

func (p Plan) String() string {
	return fmt.Sprintf("width=%d rows/block=%d blocks=%d", p.Width, p.RowsPerBlock, p.Blocks)
}

// SpMV computes y = A·x on the device, deriving the plan from A's
// sparsity profile. Inputs must be device-resident: the caller uploads
// A and syncs x to the device beforehand; y is device-resident after
// the call and must be synced host-ward before host reads.
func SpMV(dev *device.Device, m *sparse.DeviceCSR, x, y *device.Buffer) (Plan, error) {
	maxNNZ := 0
	for r := 0; r < m.Rows; r++ {
		if n := int(m.RowOffsets[r+1] - m.RowOffsets[r]); n > maxNNZ {
			maxNNZ = n
		}
	}
	plan := NewPlan(dev.Properties(), m.Rows, maxNNZ)
	return plan, Run(dev, plan, m, x, y)
}

// Run executes the SpMV launch described by plan. Each block walks its
// row slots; slots past the last row are skipped, so the final block
// may be partially idle.
func Run(dev *device.Device, plan Plan, m *sparse.DeviceCSR, x, y *device.Buffer) error {
	if x.Size() < m.Cols {
		return fmt.Errorf("kernel: input vector size %d, matrix has %d columns", x.Size(), m.Cols)
	}
	if y.Size() < m.Rows {
		return fmt.Errorf("kernel: output vector size %d, matrix has %d rows", y.Size(), m.Rows)
	}
	if m.Rows == 0 {
		return nil
	}

	xd, yd := x.Device(), y.Device()
	grid := device.Grid{
		Blocks:          plan.Blocks,
		ThreadsPerBlock: plan.RowsPerBlock * plan.Width,
	}
	return dev.Launch(grid, func(block int) {
		var scratch [maxVariantWidth]float64
		base := block * plan.RowsPerBlock
		for slot := 0; slot < plan.RowsPerBlock; slot++ {
			row := base + slot
			if row >= m.Rows {
				return
			}
			plan.kern(m, xd, yd, row, scratch[:])
		}
	})
}
