package gateway

import (
	"context"
	"net/http"

	"github.com/cellgate/cellgate/pkg/activity"
	"github.com/cellgate/cellgate/pkg/apidoc"
	"github.com/cellgate/cellgate/pkg/errors"
	"github.com/cellgate/cellgate/pkg/invoke"
	"github.com/cellgate/cellgate/pkg/route"
)

// Executor runs one matched route on a kernel session.
// *invoke.Coordinator is the production implementation.
type Executor interface {
	Do(ctx context.Context, req *http.Request, rt *route.Route, params map[string]string) (*invoke.Response, error)
}

// Option configures the gateway.
type Option func(*Gateway)

// WithAPIDoc serves the given descriptor at /_api/spec/swagger.json.
func WithAPIDoc(doc *apidoc.Document) Option {
	return func(g *Gateway) {
		g.doc = doc
	}
}

// WithSource serves the raw notebook bytes at /_api/source. Only call
// this when downloads are allowed; without it the path stays a 404.
func WithSource(raw []byte) Option {
	return func(g *Gateway) {
		g.source = raw
	}
}

// WithActivity serves per-kernel execution counters at /_api/activity.
func WithActivity(store *activity.Store) Option {
	return func(g *Gateway) {
		g.activity = store
	}
}

// WithExhaustedStatus overrides the HTTP status reported when no kernel
// session becomes available in time. Defaults to 503.
func WithExhaustedStatus(status int) Option {
	return func(g *Gateway) {
		if status >= 100 && status <= 599 {
			g.exhaustedStatus = status
		}
	}
}

// Gateway owns the HTTP handlers for notebook-defined routes and the
// well-known /_api endpoints.
type Gateway struct {
	table *route.Table
	exec  Executor

	doc             *apidoc.Document
	source          []byte
	activity        *activity.Store
	exhaustedStatus int
}

// New creates a gateway for a route table and an executor.
func New(table *route.Table, exec Executor, opts ...Option) (*Gateway, error) {
	if table == nil {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "route table is required")
	}
	if exec == nil {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "executor is required")
	}

	g := &Gateway{
		table:           table,
		exec:            exec,
		exhaustedStatus: http.StatusServiceUnavailable,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Handlers returns the path-keyed handler map to register on the
// server. The notebook dispatch claims the root pattern; the /_api
// endpoints appear only when their backing data was configured.
func (g *Gateway) Handlers() map[string]http.HandlerFunc {
	h := map[string]http.HandlerFunc{
		"/": g.HandleNotebook,
	}
	if g.doc != nil {
		h["/_api/spec/swagger.json"] = g.HandleSpec
	}
	if g.source != nil {
		h["/_api/source"] = g.HandleSource
	}
	if g.activity != nil {
		h["/_api/activity"] = g.HandleActivity
	}
	return h
}
