package device

import "math/rand/v2"

// Buffer is a dense vector mirrored across host and device memory. The
// two sides are distinct allocations and may diverge between explicit
// ToDevice / ToHost calls. A device-computed result must be copied
// host-ward with ToHost before the host reads it.
type Buffer struct {
	size int
	host []float64
	dev  []float64
}

// NewBuffer allocates a zeroed buffer of the given size on both sides.
func NewBuffer(size int) *Buffer {
	if size < 0 {
		size = 0
	}
	return &Buffer{
		size: size,
		host: make([]float64, size),
		dev:  make([]float64, size),
	}
}

// Size returns the number of components.
func (b *Buffer) Size() int {
	return b.size
}

// Host returns the host-side storage.
func (b *Buffer) Host() []float64 {
	return b.host
}

// Device returns the device-side storage. Only kernels and the copy
// operations below should touch it.
func (b *Buffer) Device() []float64 {
	return b.dev
}

// ToDevice copies the host side to the device.
func (b *Buffer) ToDevice() {
	copy(b.dev, b.host)
}

// ToHost copies the device side to the host.
func (b *Buffer) ToHost() {
	copy(b.host, b.dev)
}

// FillRand fills the host side with pseudo-random values in [0, 1) from
// a deterministic seed. The device side is untouched; call ToDevice
// before launching a kernel that reads the buffer.
func (b *Buffer) FillRand(seed uint64) {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	for i := range b.host {
		b.host[i] = rng.Float64()
	}
}
