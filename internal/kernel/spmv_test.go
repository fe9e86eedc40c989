package kernel

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/samcharles93/spmv/internal/device"
	"github.com/samcharles93/spmv/internal/sparse"
)

func naiveSpMV(m *sparse.CSR, x []float64) []float64 {
	y := make([]float64, m.Rows)
	for r := 0; r < m.Rows; r++ {
		sum := 0.0
		for idx := m.RowOffsets[r]; idx < m.RowOffsets[r+1]; idx++ {
			sum += m.Values[idx] * x[m.ColIndices[idx]]
		}
		y[r] = sum
	}
	return y
}

// randomCSR builds a matrix with uneven row lengths between 0 and
// maxRowNNZ, which exercises idle lanes and partially idle blocks.
func randomCSR(t *testing.T, rng *rand.Rand, rows, cols, maxRowNNZ int) *sparse.CSR {
	t.Helper()
	var entries []sparse.Entry
	for r := 0; r < rows; r++ {
		n := rng.IntN(maxRowNNZ + 1)
		for k := 0; k < n; k++ {
			entries = append(entries, sparse.Entry{
				Row: int32(r),
				Col: int32(rng.IntN(cols)),
				Val: rng.Float64()*2 - 1,
			})
		}
	}
	m, err := sparse.FromCOO(rows, cols, entries)
	if err != nil {
		t.Fatalf("FromCOO: %v", err)
	}
	return m
}

func runSpMV(t *testing.T, dev *device.Device, m *sparse.CSR, x []float64, width int) []float64 {
	t.Helper()
	dm := m.Upload()
	xb := device.NewBuffer(m.Cols)
	yb := device.NewBuffer(m.Rows)
	copy(xb.Host(), x)
	xb.ToDevice()

	var plan Plan
	if width > 0 {
		plan = NewPlanWidth(dev.Properties(), m.Rows, width)
	} else {
		plan = NewPlan(dev.Properties(), m.Rows, m.MaxRowNNZ())
	}
	if err := Run(dev, plan, dm, xb, yb); err != nil {
		t.Fatalf("Run: %v", err)
	}
	yb.ToHost()
	out := make([]float64, m.Rows)
	copy(out, yb.Host())
	return out
}

func TestSpMVKnownResult(t *testing.T) {
	t.Parallel()
	m, err := sparse.FromCOO(4, 4, []sparse.Entry{
		{Row: 0, Col: 0, Val: 2},
		{Row: 1, Col: 1, Val: 3},
		{Row: 1, Col: 2, Val: 1},
		{Row: 3, Col: 3, Val: 4},
	})
	if err != nil {
		t.Fatalf("FromCOO: %v", err)
	}
	x := []float64{1, 1, 1, 1}
	want := []float64{2, 4, 0, 4}

	dev := device.New()
	got := runSpMV(t, dev, m, x, 0)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("y = %v, want %v", got, want)
		}
	}
}

func TestSpMVEmptyMatrixAllZeros(t *testing.T) {
	t.Parallel()
	for _, rows := range []int{1, 17, 1000} {
		m, err := sparse.FromCOO(rows, 8, nil)
		if err != nil {
			t.Fatalf("FromCOO: %v", err)
		}
		x := make([]float64, 8)
		for i := range x {
			x[i] = float64(i) + 0.5
		}
		got := runSpMV(t, device.New(), m, x, 0)
		for r, v := range got {
			if v != 0 {
				t.Fatalf("rows=%d: y[%d] = %g, want exactly 0", rows, r, v)
			}
		}
	}
}

func TestSpMVZeroRows(t *testing.T) {
	t.Parallel()
	m, err := sparse.FromCOO(0, 5, nil)
	if err != nil {
		t.Fatalf("FromCOO: %v", err)
	}
	got := runSpMV(t, device.New(), m, make([]float64, 5), 0)
	if len(got) != 0 {
		t.Fatalf("result length %d for empty matrix", len(got))
	}
}

func TestSpMVAllWidthsMatchNaive(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewPCG(42, 0))
	dev := device.New()

	m := randomCSR(t, rng, 300, 250, 70)
	x := make([]float64, m.Cols)
	for i := range x {
		x[i] = rng.Float64()*2 - 1
	}
	want := naiveSpMV(m, x)

	for _, width := range Widths() {
		got := runSpMV(t, dev, m, x, width)
		for r := range want {
			if math.Abs(got[r]-want[r]) >= 1e-12 {
				t.Fatalf("width %d: y[%d] = %.17g, naive %.17g", width, r, got[r], want[r])
			}
		}
	}
}

func TestSpMVAutoPlanMatchesNaive(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewPCG(7, 7))
	dev := device.New()

	for _, shape := range []struct{ rows, cols, maxNNZ int }{
		{1, 1, 1},
		{33, 40, 2},
		{64, 64, 33},
		{2048, 512, 12},
	} {
		m := randomCSR(t, rng, shape.rows, shape.cols, shape.maxNNZ)
		x := make([]float64, m.Cols)
		for i := range x {
			x[i] = rng.Float64()
		}
		want := naiveSpMV(m, x)
		plan, got := runSpMVAuto(t, dev, m, x)
		for r := range want {
			if math.Abs(got[r]-want[r]) >= 1e-12 {
				t.Fatalf("shape %+v width %d: y[%d] = %.17g, naive %.17g",
					shape, plan.Width, r, got[r], want[r])
			}
		}
	}
}

func runSpMVAuto(t *testing.T, dev *device.Device, m *sparse.CSR, x []float64) (Plan, []float64) {
	t.Helper()
	dm := m.Upload()
	xb := device.NewBuffer(m.Cols)
	yb := device.NewBuffer(m.Rows)
	copy(xb.Host(), x)
	xb.ToDevice()
	plan, err := SpMV(dev, dm, xb, yb)
	if err != nil {
		t.Fatalf("SpMV: %v", err)
	}
	yb.ToHost()
	out := make([]float64, m.Rows)
	copy(out, yb.Host())
	return plan, out
}

// With a fixed width the reduction order is fixed, so repeated launches
// must agree bit for bit.
func TestSpMVIdempotent(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewPCG(3, 9))
	dev := device.New()
	m := randomCSR(t, rng, 500, 500, 48)
	x := make([]float64, m.Cols)
	for i := range x {
		x[i] = rng.Float64()*10 - 5
	}

	first := runSpMV(t, dev, m, x, 0)
	for run := 0; run < 3; run++ {
		again := runSpMV(t, dev, m, x, 0)
		for r := range first {
			if first[r] != again[r] {
				t.Fatalf("run %d: y[%d] changed from %b to %b", run, r, first[r], again[r])
			}
		}
	}
}

func TestSpMVSingleNonzeroRowWidthOne(t *testing.T) {
	t.Parallel()
	// One lone nonzero deep in a large matrix; the selector picks the
	// degenerate single-lane variant.
	m, err := sparse.FromCOO(5000, 5000, []sparse.Entry{{Row: 4321, Col: 1234, Val: 2.5}})
	if err != nil {
		t.Fatalf("FromCOO: %v", err)
	}
	if w := SelectWidth(m.MaxRowNNZ(), 32); w != 1 {
		t.Fatalf("selected width %d, want 1", w)
	}

	x := make([]float64, 5000)
	x[1234] = 4.0
	got := runSpMV(t, device.New(), m, x, 0)
	for r, v := range got {
		want := 0.0
		if r == 4321 {
			want = 10.0
		}
		if v != want {
			t.Fatalf("y[%d] = %g, want %g", r, v, want)
		}
	}
}

func TestRunRejectsShortVectors(t *testing.T) {
	t.Parallel()
	m, err := sparse.FromCOO(4, 4, []sparse.Entry{{Row: 0, Col: 0, Val: 1}})
	if err != nil {
		t.Fatalf("FromCOO: %v", err)
	}
	dm := m.Upload()
	dev := device.New()
	plan := NewPlan(dev.Properties(), m.Rows, m.MaxRowNNZ())

	if err := Run(dev, plan, dm, device.NewBuffer(2), device.NewBuffer(4)); err == nil {
		t.Fatal("expected error for short input vector")
	}
	if err := Run(dev, plan, dm, device.NewBuffer(4), device.NewBuffer(2)); err == nil {
		t.Fatal("expected error for short output vector")
	}
}
