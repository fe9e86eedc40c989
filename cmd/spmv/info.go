package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/spmv/internal/device"
	"github.com/samcharles93/spmv/internal/kernel"
	"github.com/samcharles93/spmv/internal/sparse"
)

func infoCmd() *cli.Command {
	return &cli.Command{
		Name:  "info",
		Usage: "Print device properties and, for a given matrix, the launch plan",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "matrix",
				Aliases:     []string{"m"},
				Usage:       "path to MatrixMarket (.mtx) file",
				Destination: &matrixPath,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			dev := device.New()
			props := dev.Properties()
			fmt.Printf("device:                %s\n", props.Name)
			fmt.Printf("warp size:             %d\n", props.WarpSize)
			fmt.Printf("max threads per block: %d\n", props.MaxThreadsPerBlock)
			fmt.Printf("workers:               %d\n", props.Workers)
			fmt.Printf("kernel widths:         %v\n", kernel.Widths())

			if matrixPath == "" {
				return nil
			}
			m, err := sparse.OpenMatrixMarket(matrixPath)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: read matrix: %v", err), 1)
			}
			plan := kernel.NewPlan(props, m.Rows, m.MaxRowNNZ())
			fmt.Printf("\nmatrix:      %s\n", matrixPath)
			fmt.Printf("shape:       %dx%d, %d nonzeros\n", m.Rows, m.Cols, m.NNZ())
			fmt.Printf("max row nnz: %d\n", m.MaxRowNNZ())
			fmt.Printf("plan:        %s\n", plan.String())
			return nil
		},
	}
}
