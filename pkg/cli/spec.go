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

	"github.com/cellgate/cellgate/pkg/apidoc"
	"github.com/cellgate/cellgate/pkg/notebook"
	"github.com/cellgate/cellgate/pkg/route"
	"github.com/cellgate/cellgate/pkg/serializer"
)

func specCmd() *cli.Command {
	return &cli.Command{
		Name:                  "spec",
		EnableShellCompletion: true,
		Usage:                 "Emit the API descriptor for a notebook",
		Description: `Build the swagger-style API descriptor the gateway serves at
/_api/spec/swagger.json, without starting any kernels.

The descriptor can be output in JSON, YAML, or table format.

# Examples

Write the descriptor to a file:
  cellgate spec --notebook api.ipynb --format json --output swagger.json

Print the descriptor as YAML:
  cellgate spec -f api.ipynb`,
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

			doc, err := apidoc.Build(table, notebook.TitleFromPath(uri))
			if err != nil {
				return fmt.Errorf("failed to build API descriptor for %q: %w", uri, err)
			}

			ser := serializer.NewFileWriterOrStdout(outFormat, cmd.String("output"))
			defer func() {
				if closer, ok := ser.(interface{ Close() error }); ok {
					if err := closer.Close(); err != nil {
						slog.Warn("failed to close serializer", "error", err)
					}
				}
			}()

			return ser.Serialize(ctx, doc)
		},
	}
}
