package kernel

import "testing"

func TestSelectWidth(t *testing.T) {
	t.Parallel()
	tests := []struct {
		maxRowNNZ int
		warpSize  int
		want      int
	}{
		{0, 32, 1},
		{1, 32, 1},
		{2, 32, 2},
		{3, 32, 2},
		{4, 32, 4},
		{5, 32, 4},
		{8, 32, 8},
		{15, 32, 8},
		{16, 32, 16},
		{31, 32, 16},
		{32, 32, 32},
		{33, 32, 32},
		{1000, 32, 32},
		{100, 64, 64},
		{3, 1, 1},
		{10, 0, 1},
	}
	for _, tc := range tests {
		if got := SelectWidth(tc.maxRowNNZ, tc.warpSize); got != tc.want {
			t.Errorf("SelectWidth(%d, %d) = %d, want %d", tc.maxRowNNZ, tc.warpSize, got, tc.want)
		}
	}
}

func TestSelectWidthMonotone(t *testing.T) {
	t.Parallel()
	prev := 0
	for nnz := 0; nnz <= 200; nnz++ {
		w := SelectWidth(nnz, 32)
		if w < prev {
			t.Fatalf("width decreased from %d to %d at max nnz %d", prev, w, nnz)
		}
		if w > 32 {
			t.Fatalf("width %d exceeds warp size at max nnz %d", w, nnz)
		}
		prev = w
	}
}

func TestConfigure(t *testing.T) {
	t.Parallel()
	tests := []struct {
		nrows, width     int
		wantRPB, wantBlk int
	}{
		{1024, 32, 32, 32},
		{1000, 32, 32, 32},
		{1025, 32, 32, 33},
		{1, 1, 1024, 1},
		{0, 32, 32, 0},
		{7, 1024, 1, 7},
	}
	for _, tc := range tests {
		rpb, blocks := Configure(tc.nrows, tc.width, 1024)
		if rpb != tc.wantRPB || blocks != tc.wantBlk {
			t.Errorf("Configure(%d, %d) = (%d, %d), want (%d, %d)",
				tc.nrows, tc.width, rpb, blocks, tc.wantRPB, tc.wantBlk)
		}
	}
}

// Every row index must land in exactly one (block, slot) pair.
func TestConfigureCoversAllRows(t *testing.T) {
	t.Parallel()
	for _, nrows := range []int{0, 1, 31, 32, 33, 1000, 4097} {
		for _, width := range []int{1, 2, 8, 32, 128} {
			rpb, blocks := Configure(nrows, width, 1024)
			covered := make(map[int]bool)
			for b := 0; b < blocks; b++ {
				for s := 0; s < rpb; s++ {
					row := b*rpb + s
					if row >= nrows {
						continue
					}
					if covered[row] {
						t.Fatalf("nrows=%d width=%d: row %d covered twice", nrows, width, row)
					}
					covered[row] = true
				}
			}
			if len(covered) != nrows {
				t.Fatalf("nrows=%d width=%d: covered %d rows", nrows, width, len(covered))
			}
		}
	}
}

func TestForWidthFallback(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in, want int
	}{
		{-4, 1},
		{0, 1},
		{1, 1},
		{2, 2},
		{3, 2},
		{6, 4},
		{32, 32},
		{48, 32},
		{128, 128},
		{500, 128},
	}
	for _, tc := range tests {
		_, got := forWidth(tc.in)
		if got != tc.want {
			t.Errorf("forWidth(%d) selected %d, want %d", tc.in, got, tc.want)
		}
	}
}
