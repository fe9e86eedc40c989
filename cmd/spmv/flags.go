package main

import (
	"os"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/spmv/internal/logger"
)

var (
	matrixPath string
	seed       uint64
	eps        float64
	laneWidth  int64
	outFormat  string
	logLevel   string
	logFormat  string
)

func matrixFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "matrix",
			Aliases:     []string{"m"},
			Usage:       "path to MatrixMarket (.mtx) file",
			Destination: &matrixPath,
		},
		&cli.Uint64Flag{
			Name:        "seed",
			Usage:       "seed for the random input vector",
			Value:       1,
			Destination: &seed,
		},
		&cli.Int64Flag{
			Name:        "width",
			Aliases:     []string{"w"},
			Usage:       "force a kernel lane width (0 = select from the matrix)",
			Destination: &laneWidth,
		},
	}
}

func loggingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (pretty, json, text)",
			Value:       "pretty",
			Destination: &logFormat,
		},
	}
}

func newLogger() logger.Logger {
	level := logger.ParseLevel(logLevel)
	switch logFormat {
	case "json":
		return logger.JSON(os.Stderr, level)
	case "text":
		return logger.Text(os.Stderr, level)
	default:
		return logger.Pretty(os.Stderr, level)
	}
}
