// Package cli implements the command-line interface for the cellgate notebook gateway.
//
// # Overview
//
// The cellgate CLI runs and inspects notebook-defined HTTP APIs. A notebook
// whose code cells are annotated with comments such as "# GET /hello/:name"
// can be served directly, or examined ahead of time without starting any
// interpreter processes.
//
// # Commands
//
// serve - Run the gateway:
//
//	cellgate serve --notebook api.ipynb [--port 8080] [--pool-size 4]
//
// Loads the notebook, prespawns a pool of kernel sessions seeded with its
// unannotated cells, and serves every annotated route over HTTP until
// interrupted.
//
// routes - List declared routes:
//
//	cellgate routes --notebook api.ipynb [--format yaml|json|table]
//
// Lists the verb, path template, implementing cell count, and ResponseInfo
// presence for every route, in declaration order.
//
// spec - Emit the API descriptor:
//
//	cellgate spec --notebook api.ipynb --format json --output swagger.json
//
// Builds the same swagger-style descriptor the gateway serves at
// /_api/spec/swagger.json.
//
// check - Validate a notebook:
//
//	cellgate check --notebook api.ipynb
//
// Parses and classifies the notebook exactly as gateway startup would and
// exits non-zero when it would not serve. Suitable for CI pipelines.
//
// diff - Compare two notebooks' route surfaces:
//
//	cellgate diff --from main.ipynb --to feature.ipynb [--fail-on-change]
//
// Reports routes added, removed, or changed between two notebooks. Either
// side may be a local file, URL, or oci:// reference.
//
// push - Publish a notebook to an OCI registry:
//
//	cellgate push --notebook api.ipynb --to oci://ghcr.io/acme/orders-api:v3
//
// Packages the notebook as a single-layer OCI artifact. Serve it later with
// "cellgate serve -f oci://ghcr.io/acme/orders-api:v3".
//
// # Global Flags
//
//	--output, -o   Output file path (default: stdout)
//	--format, -t   Output format: yaml, json, table (default: yaml)
//	--log-level    Logging verbosity (debug, info, warn, error)
//	--help, -h     Show command help
//
// # Environment Variables
//
//	CELLGATE_NOTEBOOK    Notebook path/URI (equivalent to --notebook)
//	CELLGATE_AUTH_TOKEN  Token required on every request (serve)
//	CELLGATE_PORT        HTTP listener port (serve)
//	LOG_LEVEL            Logging verbosity
//
// # Exit Codes
//
//	0  Success
//	1  General error (invalid arguments, load failure, failed check)
//
// # Architecture
//
// The CLI uses the urfave/cli/v3 framework and delegates to specialized packages:
//   - pkg/api - gateway assembly and lifecycle
//   - pkg/notebook - notebook loading and parsing
//   - pkg/route - annotation classification and route tables
//   - pkg/apidoc - API descriptor generation
//   - pkg/oci - notebook distribution through OCI registries
//   - pkg/serializer - output formatting
//   - pkg/logging - structured logging
//
// Version information is embedded at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/cellgate/cellgate/pkg/cli.version=1.0.0'"
package cli
