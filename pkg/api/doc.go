// Package api assembles and runs the notebook gateway daemon.
//
// This package is the composition root. Serve loads the seed notebook,
// turns its annotated cells into a route table, prespawns the kernel pool,
// and hands the resulting handlers to the reusable pkg/server HTTP layer.
//
// # Usage
//
// To start the gateway:
//
//	package main
//
//	import (
//	    "context"
//	    "log"
//
//	    "github.com/cellgate/cellgate/pkg/api"
//	)
//
//	func main() {
//	    cfg := api.NewConfig()
//	    cfg.Notebook = "api.ipynb"
//	    if err := api.Serve(context.Background(), cfg); err != nil {
//	        log.Fatalf("server error: %v", err)
//	    }
//	}
//
// # Architecture
//
// The api layer is responsible for:
//   - Configuring structured logging with application name and version
//   - Loading the notebook (local path, http(s) URL, or oci:// reference) and building routes
//   - Prespawning kernel sessions seeded with the notebook's plain cells
//   - Wiring the execution coordinator and activity store into gateway handlers
//   - Delegating server lifecycle management to pkg/server
//
// The pkg/server package handles:
//   - HTTP server setup and graceful shutdown
//   - Middleware (rate limiting, token auth, CORS, logging, metrics, panic recovery)
//   - Health and readiness endpoints
//   - Prometheus metrics
//
// # Endpoints
//
// Application Endpoints (full middleware chain):
//   - Every route annotated in the notebook, e.g. "# GET /hello/:name"
//   - GET /_api/spec/swagger.json - API descriptor built from the annotations
//   - GET /_api/source - raw notebook source (only with allow_download)
//   - GET /_api/activity - per-kernel execution activity
//
// System Endpoints (no middleware):
//   - GET /health  - Health check (liveness probe)
//   - GET /ready   - Readiness check
//   - GET /metrics - Prometheus metrics
//
// # Configuration
//
// Configuration is YAML (see Config) layered under environment variables
// and the daemon's command line flags:
//
//	notebook: api.ipynb
//	pool_size: 4
//	auth_token: s3cret
//	allow_download: true
//	cors:
//	  allow_origin: "*"
//
// Version information is set at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/cellgate/cellgate/pkg/api.version=1.0.0'"
package api
