// The cellgated daemon serves one annotated notebook as an HTTP API. It is
// the headless sibling of "cellgate serve": configuration comes from a YAML
// file and environment variables only, which keeps systemd units and
// container images to a single flag.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/cellgate/cellgate/pkg/api"
)

func main() {
	cmd := &cli.Command{
		Name:  "cellgated",
		Usage: "Notebook HTTP gateway daemon",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Sources: cli.EnvVars("CELLGATE_CONFIG"),
				Usage:   "YAML configuration file",
			},
			&cli.StringFlag{
				Name:    "notebook",
				Aliases: []string{"f"},
				Sources: cli.EnvVars("CELLGATE_NOTEBOOK"),
				Usage:   "Path/URI to the annotated notebook",
			},
		},
		Action: run,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	cfg := api.NewConfig()
	if path := cmd.String("config"); path != "" {
		loaded, err := api.LoadConfig(path)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if cmd.IsSet("notebook") {
		cfg.Notebook = cmd.String("notebook")
	}
	return api.Serve(ctx, cfg)
}
