package main

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/spmv/internal/api"
	"github.com/samcharles93/spmv/internal/device"
)

func serveCmd() *cli.Command {
	var (
		addr        string
		readTimeout time.Duration
		ratePerSec  float64
	)

	flags := append(loggingFlags(),
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "listen address",
			Value:       "127.0.0.1:8080",
			Destination: &addr,
		},
		&cli.DurationFlag{
			Name:        "read-timeout",
			Usage:       "read timeout",
			Value:       30 * time.Second,
			Destination: &readTimeout,
		},
		&cli.Float64Flag{
			Name:        "rate",
			Usage:       "max validate requests per second (0 = unlimited)",
			Value:       4,
			Destination: &ratePerSec,
		},
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the validation API over HTTP",
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			applyConfig(cmd, cfg)
			if cfg.ServerAddress != "" && !cmd.IsSet("addr") {
				addr = cfg.ServerAddress
			}
			if cfg.ServerRate != nil && !cmd.IsSet("rate") {
				ratePerSec = *cfg.ServerRate
			}
			log := newLogger()

			server := api.NewServer(api.Config{
				Device:        device.New(),
				Log:           log,
				RatePerSecond: ratePerSec,
			})
			e := echo.New()
			e.Use(middleware.RequestLogger())
			e.Use(middleware.Recover())
			server.Register(e)

			log.Info("starting server", "address", addr)
			sc := echo.StartConfig{
				Address: addr,
				BeforeServeFunc: func(srv *http.Server) error {
					srv.ReadHeaderTimeout = readTimeout
					return nil
				},
			}
			return sc.Start(ctx, e)
		},
	}
}
