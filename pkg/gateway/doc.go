// Package gateway exposes a parsed notebook as HTTP endpoints.
//
// The dispatch handler owns the root pattern: every request is matched
// against the route table built from the notebook's annotations and
// executed on a pooled kernel session. The package also serves the
// well-known endpoints the gateway publishes about itself:
//
//   - GET /_api/spec/swagger.json: generated API descriptor
//   - GET /_api/source: raw notebook (when downloads are enabled)
//   - GET /_api/activity: per-kernel execution counters
//
// Handlers are plain http.HandlerFuncs; pkg/api registers them on
// pkg/server, which wraps them with auth, CORS, rate limiting, and the
// rest of the middleware chain.
package gateway
