package validate

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/samcharles93/spmv/internal/sparse"
)

// Report is the verdict of one validation run.
type Report struct {
	ID   string `json:"id"`
	Rows int    `json:"rows"`
	Cols int    `json:"cols"`
	NNZ  int    `json:"nnz"`

	EPS  float64 `json:"eps"`
	Pass bool    `json:"pass"`
	// Width is the kernel lane width the checked output was computed
	// with. Informational; filled in by the caller.
	Width      int        `json:"width,omitempty"`
	Mismatches []Mismatch `json:"mismatches,omitempty"`
}

func newReport(m *sparse.CSR, eps float64, mismatches []Mismatch) *Report {
	return &Report{
		ID:         "run_" + uuid.NewString(),
		Rows:       m.Rows,
		Cols:       m.Cols,
		NNZ:        m.NNZ(),
		EPS:        eps,
		Pass:       len(mismatches) == 0,
		Mismatches: mismatches,
	}
}

// WriteText prints a human-readable verdict with one line per mismatch.
func (r *Report) WriteText(w io.Writer) {
	if r.Pass {
		fmt.Fprintf(w, "correct: %dx%d matrix, %d nonzeros, eps %g\n", r.Rows, r.Cols, r.NNZ, r.EPS)
		return
	}
	fmt.Fprintf(w, "MISMATCH: %d of %d components differ by >= %g\n", len(r.Mismatches), r.Rows, r.EPS)
	for _, mm := range r.Mismatches {
		fmt.Fprintf(w, "  y[%d] = %.17g, reference %.17g, diff %.3g\n", mm.Index, mm.Got, mm.Want, mm.Diff)
	}
}

// WriteJSON writes the report as a single JSON document.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
