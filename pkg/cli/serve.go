/*
Copyright (c) 2025, the cellgate authors.
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/cellgate/cellgate/pkg/api"
	"github.com/cellgate/cellgate/pkg/defaults"
)

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:                  "serve",
		EnableShellCompletion: true,
		Usage:                 "Run the notebook gateway",
		Description: `Run the HTTP gateway for an annotated notebook.

Code cells whose first line is an annotation comment such as

  # GET /hello/:name

become HTTP endpoints. Each request is executed on a kernel session borrowed
from a pool of long-lived interpreter processes; unannotated cells run once
on every fresh kernel before it serves traffic.

Configuration is layered: command line flags override environment variables,
which override the --config YAML file, which overrides built-in defaults.

# Examples

Serve a local notebook:
  cellgate serve --notebook api.ipynb

Serve a notebook from a URL with four kernels:
  cellgate serve --notebook https://example.com/api.ipynb --pool-size 4

Require a token and allow notebook download:
  cellgate serve -f api.ipynb --auth-token s3cret --allow-download

Run a custom kernel command instead of the embedded Python shim:
  cellgate serve -f api.ipynb --kernel-arg python3 --kernel-arg /opt/shim.py`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "notebook",
				Aliases: []string{"f"},
				Sources: cli.EnvVars("CELLGATE_NOTEBOOK"),
				Usage:   "Path/URI to the annotated notebook. Supports file paths and HTTP/HTTPS URLs.",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Sources: cli.EnvVars("CELLGATE_CONFIG"),
				Usage:   "YAML configuration file",
			},
			&cli.StringFlag{
				Name:    "address",
				Sources: cli.EnvVars("CELLGATE_ADDRESS"),
				Usage:   "Address to bind the HTTP listener to",
			},
			&cli.IntFlag{
				Name:    "port",
				Sources: cli.EnvVars("CELLGATE_PORT"),
				Usage:   "Port to bind the HTTP listener to",
			},
			&cli.IntFlag{
				Name:    "pool-size",
				Sources: cli.EnvVars("CELLGATE_POOL_SIZE"),
				Usage:   "Number of long-lived kernel sessions",
			},
			&cli.StringFlag{
				Name:    "auth-token",
				Sources: cli.EnvVars("CELLGATE_AUTH_TOKEN"),
				Usage:   "Require this token on every request (?token= or \"Authorization: token <value>\")",
			},
			&cli.BoolFlag{
				Name:    "allow-download",
				Sources: cli.EnvVars("CELLGATE_ALLOW_DOWNLOAD"),
				Usage:   "Expose the raw notebook at /_api/source",
			},
			&cli.StringFlag{
				Name:    "activity-db",
				Sources: cli.EnvVars("CELLGATE_ACTIVITY_DB"),
				Usage:   "SQLite file for kernel activity tracking (default: in-memory)",
			},
			&cli.StringFlag{
				Name:    "allow-origin",
				Sources: cli.EnvVars("CELLGATE_ALLOW_ORIGIN"),
				Usage:   "Access-Control-Allow-Origin header value for CORS",
			},
			&cli.StringSliceFlag{
				Name:  "kernel-arg",
				Usage: "Interpreter launcher argv (can be repeated; default: embedded Python shim)",
			},
			&cli.StringSliceFlag{
				Name:  "kernel-env",
				Usage: "Extra KEY=VALUE for kernel process environments (can be repeated)",
			},
			&cli.StringFlag{
				Name:  "kernel-dir",
				Usage: "Working directory for kernel processes",
			},
			&cli.DurationFlag{
				Name:  "exec-timeout",
				Value: defaults.KernelExecTimeout,
				Usage: "Timeout for a single cell execution",
			},
			&cli.DurationFlag{
				Name:  "checkout-timeout",
				Value: defaults.PoolCheckoutTimeout,
				Usage: "Timeout for waiting on a free kernel session",
			},
			&cli.IntFlag{
				Name:  "exhausted-status",
				Usage: "HTTP status returned when the kernel pool is exhausted (default: 503)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := buildServeConfig(cmd)
			if err != nil {
				return err
			}
			return api.Serve(ctx, cfg)
		},
	}
}

// buildServeConfig layers command line flags over the optional YAML config
// file. Only flags the user actually set (directly or through their
// environment sources) override the file.
func buildServeConfig(cmd *cli.Command) (*api.Config, error) {
	cfg := api.NewConfig()

	if path := cmd.String("config"); path != "" {
		loaded, err := api.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if cmd.IsSet("notebook") {
		cfg.Notebook = cmd.String("notebook")
	}
	if cmd.IsSet("address") {
		cfg.Address = cmd.String("address")
	}
	if cmd.IsSet("port") {
		cfg.Port = int(cmd.Int("port"))
	}
	if cmd.IsSet("pool-size") {
		cfg.PoolSize = int(cmd.Int("pool-size"))
	}
	if cmd.IsSet("auth-token") {
		cfg.AuthToken = cmd.String("auth-token")
	}
	if cmd.IsSet("allow-download") {
		cfg.AllowDownload = cmd.Bool("allow-download")
	}
	if cmd.IsSet("activity-db") {
		cfg.ActivityDB = cmd.String("activity-db")
	}
	if cmd.IsSet("allow-origin") {
		cfg.CORS.AllowOrigin = cmd.String("allow-origin")
	}
	if cmd.IsSet("kernel-arg") {
		cfg.KernelArgv = cmd.StringSlice("kernel-arg")
	}
	if cmd.IsSet("kernel-env") {
		cfg.KernelEnv = cmd.StringSlice("kernel-env")
	}
	if cmd.IsSet("kernel-dir") {
		cfg.KernelDir = cmd.String("kernel-dir")
	}
	if cmd.IsSet("exec-timeout") {
		cfg.ExecTimeoutSeconds = int(cmd.Duration("exec-timeout") / time.Second)
	}
	if cmd.IsSet("checkout-timeout") {
		cfg.CheckoutTimeoutSeconds = int(cmd.Duration("checkout-timeout") / time.Second)
	}
	if cmd.IsSet("exhausted-status") {
		cfg.ExhaustedStatus = int(cmd.Int("exhausted-status"))
	}

	return cfg, nil
}
