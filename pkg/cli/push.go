/*
Copyright (c) 2025, the cellgate authors.
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/cellgate/cellgate/pkg/notebook"
	"github.com/cellgate/cellgate/pkg/oci"
	"github.com/cellgate/cellgate/pkg/serializer"
)

func pushCmd() *cli.Command {
	return &cli.Command{
		Name:                  "push",
		EnableShellCompletion: true,
		Usage:                 "Publish a notebook to an OCI registry",
		Description: `Publish a notebook file as an OCI artifact so registries can version and
distribute it like any other artifact. The notebook becomes a single
application/x-ipynb+json layer; "cellgate serve -f oci://..." pulls it back.

The notebook is parsed before publishing, so a file that would not load is
never pushed. Registry credentials come from the docker credential helpers.

# Examples

Publish to GitHub Container Registry:
  cellgate push -f api.ipynb --to oci://ghcr.io/acme/orders-api:v3

Publish to a local registry (plain HTTP is implied for loopback hosts):
  cellgate push -f api.ipynb --to oci://localhost:5000/notebooks/api:latest`,
		Flags: []cli.Flag{
			notebookFlag,
			&cli.StringFlag{
				Name:     "to",
				Required: true,
				Usage:    "Target reference (oci://registry/repository:tag)",
			},
			&cli.BoolFlag{
				Name:  "plain-http",
				Usage: "Use HTTP instead of HTTPS for the registry connection",
			},
			&cli.BoolFlag{
				Name:  "insecure",
				Usage: "Skip TLS certificate verification",
			},
			outputFlag,
			formatFlag,
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}

			path := cmd.String("notebook")
			if oci.IsRef(path) || strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
				return fmt.Errorf("push requires a local notebook file, got %q", path)
			}

			nb, _, err := notebook.NewLoader().Load(ctx, path)
			if err != nil {
				return fmt.Errorf("refusing to push a notebook that does not load: %w", err)
			}

			ref, err := oci.ParseReference(cmd.String("to"))
			if err != nil {
				return err
			}

			result, err := oci.Push(ctx, oci.PushOptions{
				NotebookPath: path,
				Reference:    ref,
				PlainHTTP:    cmd.Bool("plain-http") || oci.IsLocalRegistry(ref.Registry),
				InsecureTLS:  cmd.Bool("insecure"),
				Annotations: map[string]string{
					"org.opencontainers.image.title":       filepath.Base(path),
					"org.opencontainers.image.version":     ref.TagOrDefault(),
					"org.opencontainers.image.description": notebook.TitleFromPath(path) + " notebook API",
				},
			})
			if err != nil {
				return fmt.Errorf("failed to push notebook: %w", err)
			}

			slog.Info("notebook published",
				"reference", result.Reference,
				"digest", result.Digest,
				"language", nb.Language(),
			)

			ser := serializer.NewFileWriterOrStdout(outFormat, cmd.String("output"))
			defer func() {
				if closer, ok := ser.(interface{ Close() error }); ok {
					if err := closer.Close(); err != nil {
						slog.Warn("failed to close serializer", "error", err)
					}
				}
			}()

			return ser.Serialize(ctx, result)
		},
	}
}
