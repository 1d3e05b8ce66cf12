package main

import (
	"context"
	"log/slog"

	"github.com/urfave/cli/v2"

	"github.com/hippo-protocol/hippo-protocol/pkg/metrics"
	"github.com/hippo-protocol/hippo-protocol/server"
)

var cmdServe = &cli.Command{
	Name:  "serve",
	Usage: "runs the JSON HTTP API",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "bind",
			Usage:   "Specify the local IP/port to bind to",
			Value:   ":8680",
			EnvVars: []string{"HIPPO_BIND"},
		},
		&cli.StringFlag{
			Name:    "metrics-listen",
			Usage:   "IP or address, and port, to listen on for metrics APIs; empty to disable",
			Value:   ":3989",
			EnvVars: []string{"HIPPO_METRICS_LISTEN"},
		},
	},
	Action: runServe,
}

func runServe(cctx *cli.Context) error {
	logger := slog.Default().With("system", "hippo-crypto")

	srv, err := server.NewServer(server.Config{
		Logger: logger,
		Bind:   cctx.String("bind"),
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cctx.Context)
	defer cancel()
	go func() {
		if err := metrics.RunServer(ctx, cctx.String("metrics-listen")); err != nil {
			logger.Error("failed to start metrics endpoint", "err", err)
		}
	}()

	return srv.RunAPI()
}
