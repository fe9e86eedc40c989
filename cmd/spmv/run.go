package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/spmv/internal/device"
	"github.com/samcharles93/spmv/internal/kernel"
	"github.com/samcharles93/spmv/internal/refblas"
	"github.com/samcharles93/spmv/internal/sparse"
	"github.com/samcharles93/spmv/internal/validate"
)

func runCmd() *cli.Command {
	flags := append(matrixFlags(), loggingFlags()...)
	flags = append(flags,
		&cli.Float64Flag{
			Name:        "eps",
			Usage:       "absolute comparison tolerance",
			Value:       validate.DefaultEPS,
			Destination: &eps,
		},
		&cli.StringFlag{
			Name:        "format",
			Aliases:     []string{"f"},
			Usage:       "report format (text, json)",
			Value:       "text",
			Destination: &outFormat,
		},
	)

	return &cli.Command{
		Name:  "run",
		Usage: "Run the SpMV kernel on a matrix and validate against the reference routine",
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig()
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: read config: %v", err), 1)
			}
			applyConfig(cmd, cfg)
			log := newLogger()

			if matrixPath == "" {
				return cli.Exit("error: --matrix is required", 1)
			}
			m, err := sparse.OpenMatrixMarket(matrixPath)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: read matrix: %v", err), 1)
			}
			log.Info("matrix loaded",
				"path", matrixPath,
				"rows", m.Rows, "cols", m.Cols, "nnz", m.NNZ(),
				"max_row_nnz", m.MaxRowNNZ())

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
			log.Debug("launch configured", "plan", plan.String())

			if err := kernel.Run(dev, plan, dm, x, y); err != nil {
				return cli.Exit(fmt.Sprintf("error: kernel launch: %v", err), 1)
			}
			y.ToHost()

			report, err := validate.Run(m, x.Host(), y.Host(), refblas.Sequential{}, eps)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: validate: %v", err), 1)
			}
			report.Width = plan.Width

			if outFormat == "json" {
				if err := report.WriteJSON(os.Stdout); err != nil {
					return cli.Exit(fmt.Sprintf("error: write report: %v", err), 1)
				}
			} else {
				report.WriteText(os.Stdout)
			}
			if !report.Pass {
				return cli.Exit("", 1)
			}
			return nil
		},
	}
}
