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

// routeSummary is one route as listed by the routes command.
type routeSummary struct {
	Verb         string `json:"verb" yaml:"verb"`
	Path         string `json:"path" yaml:"path"`
	Cells        int    `json:"cells" yaml:"cells"`
	ResponseInfo bool   `json:"response_info" yaml:"response_info"`
}

func routesCmd() *cli.Command {
	return &cli.Command{
		Name:                  "routes",
		EnableShellCompletion: true,
		Usage:                 "List the HTTP routes a notebook declares",
		Description: `List every route the gateway would serve for a notebook, in declaration
order, without starting any kernels.

The listing can be output in JSON, YAML, or table format.

# Examples

List routes of a local notebook:
  cellgate routes --notebook api.ipynb

List routes of a remote notebook as JSON:
  cellgate routes -f https://example.com/api.ipynb --format json`,
		Flags: []cli.Flag{
			notebookFlag,
			outputFlag,
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}

			uri := cmd.String("notebook")
			nb, _, err := notebook.NewLoader().Load(ctx, uri)
			if err != nil {
				return fmt.Errorf("failed to load notebook from %q: %w", uri, err)
			}

			table, err := route.Build(nb)
			if err != nil {
				return fmt.Errorf("failed to build routes from %q: %w", uri, err)
			}

			summaries := make([]routeSummary, 0, len(table.Routes))
			for _, rt := range table.Routes {
				summaries = append(summaries, routeSummary{
					Verb:         rt.Verb,
					Path:         rt.Template,
					Cells:        len(rt.CellIndices),
					ResponseInfo: rt.ResponseCell >= 0,
				})
			}

			ser := serializer.NewFileWriterOrStdout(outFormat, cmd.String("output"))
			defer func() {
				if closer, ok := ser.(interface{ Close() error }); ok {
					if err := closer.Close(); err != nil {
						slog.Warn("failed to close serializer", "error", err)
					}
				}
			}()

			return ser.Serialize(ctx, summaries)
		},
	}
}
