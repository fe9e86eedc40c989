package device

import "testing"

func TestBufferSidesAreIndependent(t *testing.T) {
	t.Parallel()
	b := NewBuffer(4)

	b.Host()[0] = 1.5
	if b.Device()[0] != 0 {
		t.Fatal("host write leaked to device without ToDevice")
	}

	b.ToDevice()
	if b.Device()[0] != 1.5 {
		t.Fatal("ToDevice did not copy host data")
	}

	b.Device()[1] = 2.5
	if b.Host()[1] != 0 {
		t.Fatal("device write leaked to host without ToHost")
	}

	b.ToHost()
	if b.Host()[1] != 2.5 {
		t.Fatal("ToHost did not copy device data")
	}
}

func TestFillRandDeterministic(t *testing.T) {
	t.Parallel()
	a := NewBuffer(64)
	b := NewBuffer(64)
	a.FillRand(7)
	b.FillRand(7)
	for i := range a.Host() {
		if a.Host()[i] != b.Host()[i] {
			t.Fatalf("same seed diverged at %d: %g vs %g", i, a.Host()[i], b.Host()[i])
		}
	}

	c := NewBuffer(64)
	c.FillRand(8)
	same := true
	for i := range a.Host() {
		if a.Host()[i] != c.Host()[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatal("different seeds produced identical vectors")
	}
}

func TestFillRandLeavesDeviceUntouched(t *testing.T) {
	t.Parallel()
	b := NewBuffer(8)
	b.FillRand(3)
	for i, v := range b.Device() {
		if v != 0 {
			t.Fatalf("device[%d] = %g, want 0 before ToDevice", i, v)
		}
	}
}

func TestNewBufferNegativeSize(t *testing.T) {
	t.Parallel()
	b := NewBuffer(-3)
	if b.Size() != 0 {
		t.Fatalf("size = %d, want 0", b.Size())
	}
}
