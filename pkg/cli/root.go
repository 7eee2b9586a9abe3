/*
Copyright (c) 2025, the cellgate authors.
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/cellgate/cellgate/pkg/logging"
	"github.com/cellgate/cellgate/pkg/serializer"
)

const (
	name           = "cellgate"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Flags shared across commands.
var (
	outputFlag = &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Output file path (default: stdout)",
	}

	formatFlag = &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"t"},
		Value:   string(serializer.FormatYAML),
		Usage: fmt.Sprintf("Output format (supported values: %s)",
			strings.Join(serializer.SupportedFormats(), ", ")),
	}

	notebookFlag = &cli.StringFlag{
		Name:     "notebook",
		Aliases:  []string{"f"},
		Required: true,
		Sources:  cli.EnvVars("CELLGATE_NOTEBOOK"),
		Usage:    "Path/URI to the annotated notebook. Supports file paths, HTTP/HTTPS URLs, and oci:// references.",
	}
)

// parseOutputFormat reads and validates the --format flag.
func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	outFormat := serializer.Format(cmd.String("format"))
	if outFormat.IsUnknown() {
		return "", fmt.Errorf("unknown output format: %q", outFormat)
	}
	return outFormat, nil
}

func rootCmd() *cli.Command {
	return &cli.Command{
		Name:                  name,
		Usage:                 "Serve annotated notebook cells as HTTP endpoints",
		Version:               version,
		EnableShellCompletion: true,
		Description: fmt.Sprintf(`cellgate - notebook HTTP gateway

Version: %s
Commit:  %s
Built:   %s

Turns a notebook's annotated code cells into HTTP endpoints executed on a
pool of long-lived kernel sessions:

serve  - runs the gateway against a notebook
routes - lists the routes a notebook declares
spec   - emits the API descriptor built from the annotations
check  - validates that a notebook parses into a usable route table
diff   - compares the route surfaces of two notebooks
push   - publishes a notebook to an OCI registry`, version, commit, date),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
				Usage:   "log level (debug, info, warn, error)",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			logging.SetDefaultStructuredLoggerWithLevel(name, version, cmd.String("log-level"))
			return ctx, nil
		},
		Commands: []*cli.Command{
			serveCmd(),
			routesCmd(),
			specCmd(),
			checkCmd(),
			diffCmd(),
			pushCmd(),
			versionCmd(),
		},
	}
}

// Run executes the CLI with the given arguments. This is called by
// main.main() with os.Args.
func Run(ctx context.Context, args []string) error {
	return rootCmd().Run(ctx, args)
}
