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

// checkReport summarizes whether a notebook would serve.
type checkReport struct {
	Notebook string          `json:"notebook" yaml:"notebook"`
	Language string          `json:"language" yaml:"language"`
	Valid    bool            `json:"valid" yaml:"valid"`
	Routes   int             `json:"routes" yaml:"routes"`
	Seeds    int             `json:"seeds" yaml:"seeds"`
	Findings []route.Finding `json:"findings,omitempty" yaml:"findings,omitempty"`
	Error    string          `json:"error,omitempty" yaml:"error,omitempty"`
}

func checkCmd() *cli.Command {
	return &cli.Command{
		Name:                  "check",
		EnableShellCompletion: true,
		Usage:                 "Validate that a notebook parses into a usable route table",
		Description: `Validate a notebook the way the gateway would at startup: parse the
document, classify every code cell, and build the route table. No kernels are
started and no cells are executed.

The report is written in the requested format and the command exits non-zero
when the notebook would not serve, so it is suitable for CI pipelines. Valid
notebooks may still carry lint findings (ambiguous templates, duplicated
parameters); findings alone never fail the check.

# Examples

Check a notebook before deploying it:
  cellgate check --notebook api.ipynb

Check a remote notebook and keep the report:
  cellgate check -f https://example.com/api.ipynb --format json --output report.json`,
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

			report := checkReport{
				Notebook: uri,
				Language: nb.Language(),
			}

			table, buildErr := route.Build(nb)
			if buildErr != nil {
				report.Error = buildErr.Error()
			} else {
				report.Valid = true
				report.Routes = len(table.Routes)
				report.Seeds = len(table.Seeds)
				report.Findings = route.Lint(table)
			}

			ser := serializer.NewFileWriterOrStdout(outFormat, cmd.String("output"))
			defer func() {
				if closer, ok := ser.(interface{ Close() error }); ok {
					if err := closer.Close(); err != nil {
						slog.Warn("failed to close serializer", "error", err)
					}
				}
			}()

			if err := ser.Serialize(ctx, report); err != nil {
				return fmt.Errorf("failed to serialize check report: %w", err)
			}

			if buildErr != nil {
				return fmt.Errorf("notebook %q would not serve: %w", uri, buildErr)
			}
			return nil
		},
	}
}
