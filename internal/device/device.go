// Package device models the accelerator the SpMV kernels target: a
// device with a fixed warp size and thread-block capacity, mirrored
// host/device buffers with explicit synchronization, and a blocking
// kernel launch that fans thread blocks out over a worker pool.
//
// Data placement is always explicit. Nothing in this package copies
// between host and device memory on its own; a caller that reads a
// buffer's host side before calling ToHost sees stale data, and that is
// a usage error, not a device fault.
package device

import (
	"fmt"
	"runtime"
	"sync"
)

// Properties describes the execution hardware.
type Properties struct {
	Name string `json:"name"`
	// WarpSize is the number of lanes that execute in lockstep and can
	// exchange data without a barrier. It caps the per-row kernel width.
	WarpSize int `json:"warp_size"`
	// MaxThreadsPerBlock bounds the product of rows-per-block and width
	// for one thread block.
	MaxThreadsPerBlock int `json:"max_threads_per_block"`
	// Workers is the number of blocks the device executes concurrently.
	Workers int `json:"workers"`
}

// Device is a single compute device. The process uses one.
type Device struct {
	props Properties
	pool  *blockPool
}

// New opens the default device.
func New() *Device {
	workers := runtime.GOMAXPROCS(0)
	if workers < 1 {
		workers = 1
	}
	return &Device{
		props: Properties{
			Name:               "cpu",
			WarpSize:           32,
			MaxThreadsPerBlock: 1024,
			Workers:            workers,
		},
		pool: newBlockPool(workers),
	}
}

// Properties returns the device description.
func (d *Device) Properties() Properties {
	return d.props
}

// Grid is the launch geometry for one kernel invocation.
type Grid struct {
	Blocks          int
	ThreadsPerBlock int
}

// BlockFunc executes one thread block of a launch. Implementations must
// confine writes to output slots owned by the block's rows.
type BlockFunc func(block int)

// Launch runs fn for every block index in [0, grid.Blocks) and blocks
// until all complete. A panic inside any block is recovered and
// returned as an error; per the runtime contract such failures are
// fatal and the launch's output is undefined.
func (d *Device) Launch(grid Grid, fn BlockFunc) error {
	if grid.Blocks < 0 {
		return fmt.Errorf("device: negative block count %d", grid.Blocks)
	}
	if grid.ThreadsPerBlock < 1 || grid.ThreadsPerBlock > d.props.MaxThreadsPerBlock {
		return fmt.Errorf("device: %d threads per block exceeds limit %d", grid.ThreadsPerBlock, d.props.MaxThreadsPerBlock)
	}
	if grid.Blocks == 0 {
		return nil
	}
	return d.pool.run(grid.Blocks, fn)
}

// blockPool is a persistent set of workers that execute thread blocks.
// One launch at a time; Launch serializes through run.
type blockPool struct {
	size int
	mu   sync.Mutex
}

func newBlockPool(size int) *blockPool {
	return &blockPool{size: size}
}

func (p *blockPool) run(blocks int, fn BlockFunc) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	workers := p.size
	if workers > blocks {
		workers = blocks
	}

	var (
		wg      sync.WaitGroup
		next    int
		nextMu  sync.Mutex
		faultMu sync.Mutex
		fault   error
	)
	claim := func() (int, bool) {
		nextMu.Lock()
		defer nextMu.Unlock()
		if next >= blocks {
			return 0, false
		}
		b := next
		next++
		return b, true
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if rec := recover(); rec != nil {
					faultMu.Lock()
					if fault == nil {
						fault = executionError(rec)
					}
					faultMu.Unlock()
				}
			}()
			for {
				b, ok := claim()
				if !ok {
					return
				}
				fn(b)
			}
		}()
	}
	wg.Wait()
	return fault
}

func executionError(rec any) error {
	if err, ok := rec.(error); ok {
		return fmt.Errorf("device: kernel execution failed: %w", err)
	}
	return fmt.Errorf("device: kernel execution failed: %v", rec)
}
