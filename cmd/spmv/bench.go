package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/spmv/internal/device"
	"github.com/samcharles93/spmv/internal/kernel"
	"github.com/samcharles93/spmv/internal/refblas"
	"github.com/samcharles93/spmv/internal/sparse"
)

func benchCmd() *cli.Command {
	var (
		warmupRuns int64
		benchRuns  int64
	)

	flags := append(matrixFlags(), loggingFlags()...)
	flags = append(flags,
		&cli.Int64Flag{
			Name:        "warmup",
			Usage:       "number of warmup runs",
			Value:       1,
			Destination: &warmupRuns,
		},
		&cli.Int64Flag{
			Name:        "runs",
			Usage:       "number of timed runs",
			Value:       5,
			Destination: &benchRuns,
		},
	)

	return &cli.Command{
		Name:  "bench",
		Usage: "Time the device kernel against the reference routine",
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := newLogger()

			if matrixPath == "" {
				return cli.Exit("error: --matrix is required", 1)
			}
			m, err := sparse.OpenMatrixMarket(matrixPath)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: read matrix: %v", err), 1)
			}

			dev := device.New()
			dm := m.Upload()
			x := device.NewBuffer(m.Cols)
			y := device.NewBuffer(m.Rows)
			x.FillRand(seed)
			x.ToDevice()

			var plan kernel.Plan
			if laneWidth > 0 {
				plan = kernel.NewPlanWidth(dev.Properties(), m.Rows, int(laneWidth))
			} else {
				plan = kernel.NewPlan(dev.Properties(), m.Rows, m.MaxRowNNZ())
			}
			log.Info("benchmarking", "matrix", matrixPath, "plan", plan.String())

			for i := int64(0); i < warmupRuns; i++ {
				if err := kernel.Run(dev, plan, dm, x, y); err != nil {
					return cli.Exit(fmt.Sprintf("error: kernel launch: %v", err), 1)
				}
			}

			kernelTime := time.Duration(0)
			for i := int64(0); i < benchRuns; i++ {
				start := time.Now()
				if err := kernel.Run(dev, plan, dm, x, y); err != nil {
					return cli.Exit(fmt.Sprintf("error: kernel launch: %v", err), 1)
				}
				kernelTime += time.Since(start)
			}

			ref := refblas.Sequential{}
			want := make([]float64, m.Rows)
			refTime := time.Duration(0)
			for i := int64(0); i < benchRuns; i++ {
				start := time.Now()
				if err := ref.SpMV(m, x.Host(), want); err != nil {
					return cli.Exit(fmt.Sprintf("error: reference SpMV: %v", err), 1)
				}
				refTime += time.Since(start)
			}

			fmt.Printf("=== SpMV Benchmark ===\n")
			fmt.Printf("Matrix:    %s (%dx%d, %d nnz)\n", matrixPath, m.Rows, m.Cols, m.NNZ())
			fmt.Printf("Plan:      %s\n", plan.String())
			fmt.Printf("Runs:      %d (after %d warmup)\n", benchRuns, warmupRuns)
			fmt.Printf("Kernel:    %v/run\n", kernelTime/time.Duration(benchRuns))
			fmt.Printf("Reference: %v/run\n", refTime/time.Duration(benchRuns))
			return nil
		},
	}
}
