package refblas

import (
	"testing"

	"github.com/samcharles93/spmv/internal/sparse"
)

func TestSequentialSpMV(t *testing.T) {
	t.Parallel()
	m, err := sparse.FromCOO(3, 3, []sparse.Entry{
		{Row: 0, Col: 0, Val: 1},
		{Row: 0, Col: 2, Val: 2},
		{Row: 2, Col: 1, Val: 3},
	})
	if err != nil {
		t.Fatalf("FromCOO: %v", err)
	}

	x := []float64{1, 2, 3}
	y := make([]float64, 3)
	if err := (Sequential{}).SpMV(m, x, y); err != nil {
		t.Fatalf("SpMV: %v", err)
	}

	want := []float64{7, 0, 6}
	for i := range want {
		if y[i] != want[i] {
			t.Fatalf("y = %v, want %v", y, want)
		}
	}
}

func TestSequentialSpMVEmptyRowWritesZero(t *testing.T) {
	t.Parallel()
	m, err := sparse.FromCOO(2, 2, nil)
	if err != nil {
		t.Fatalf("FromCOO: %v", err)
	}
	y := []float64{99, -99}
	if err := (Sequential{}).SpMV(m, []float64{1, 1}, y); err != nil {
		t.Fatalf("SpMV: %v", err)
	}
	if y[0] != 0 || y[1] != 0 {
		t.Fatalf("y = %v, want zeros", y)
	}
}

func TestSequentialSpMVShapeErrors(t *testing.T) {
	t.Parallel()
	m, err := sparse.FromCOO(2, 3, nil)
	if err != nil {
		t.Fatalf("FromCOO: %v", err)
	}
	if err := (Sequential{}).SpMV(m, make([]float64, 2), make([]float64, 2)); err == nil {
		t.Fatal("expected error for short input vector")
	}
	if err := (Sequential{}).SpMV(m, make([]float64, 3), make([]float64, 1)); err == nil {
		t.Fatal("expected error for short output vector")
	}
}
