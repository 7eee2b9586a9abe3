/*
Copyright (c) 2025, the cellgate authors.
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/cellgate/cellgate/pkg/notebook"
	"github.com/cellgate/cellgate/pkg/route"
	"github.com/cellgate/cellgate/pkg/serializer"
)

func diffCmd() *cli.Command {
	return &cli.Command{
		Name:                  "diff",
		EnableShellCompletion: true,
		Usage:                 "Compare the route surfaces of two notebooks",
		Description: `Build the route table of two notebooks and report how the API surface
differs: routes added, routes removed, and routes whose cell count or
ResponseInfo presence changed. Removed routes break existing clients.

Either side may be a local file, an http(s) URL, or an oci:// reference,
so a working copy can be compared against what is actually deployed.

# Examples

Compare a working copy against the published artifact:
  cellgate diff --from oci://ghcr.io/acme/orders-api:v3 --to orders.ipynb

Gate CI on route changes:
  cellgate diff --from main.ipynb --to feature.ipynb --fail-on-change`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "from",
				Required: true,
				Usage:    "Baseline notebook (path, URL, or oci:// reference)",
			},
			&cli.StringFlag{
				Name:     "to",
				Required: true,
				Usage:    "Candidate notebook (path, URL, or oci:// reference)",
			},
			&cli.BoolFlag{
				Name:  "fail-on-change",
				Usage: "Exit non-zero when the route surface differs",
			},
			outputFlag,
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}

			loader := notebook.NewLoader()

			fromTable, err := loadTable(ctx, loader, cmd.String("from"))
			if err != nil {
				return err
			}
			toTable, err := loadTable(ctx, loader, cmd.String("to"))
			if err != nil {
				return err
			}

			d := route.Compare(fromTable, toTable)

			ser := serializer.NewFileWriterOrStdout(outFormat, cmd.String("output"))
			defer func() {
				if closer, ok := ser.(interface{ Close() error }); ok {
					if err := closer.Close(); err != nil {
						slog.Warn("failed to close serializer", "error", err)
					}
				}
			}()

			if err := ser.Serialize(ctx, d); err != nil {
				return fmt.Errorf("failed to serialize diff: %w", err)
			}

			if cmd.Bool("fail-on-change") && !d.Empty() {
				return fmt.Errorf("route surface changed: %d added, %d removed, %d changed",
					len(d.Added), len(d.Removed), len(d.Changed))
			}
			return nil
		},
	}
}

// loadTable fetches a notebook and builds its route table.
func loadTable(ctx context.Context, loader *notebook.Loader, uri string) (*route.Table, error) {
	nb, _, err := loader.Load(ctx, uri)
	if err != nil {
		return nil, fmt.Errorf("failed to load notebook from %q: %w", uri, err)
	}
	table, err := route.Build(nb)
	if err != nil {
		return nil, fmt.Errorf("notebook %q has no usable route table: %w", uri, err)
	}
	return table, nil
}
