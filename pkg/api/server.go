package api

import (
	"context"
	"log/slog"

	"github.com/cellgate/cellgate/pkg/activity"
	"github.com/cellgate/cellgate/pkg/apidoc"
	"github.com/cellgate/cellgate/pkg/defaults"
	"github.com/cellgate/cellgate/pkg/errors"
	"github.com/cellgate/cellgate/pkg/gateway"
	"github.com/cellgate/cellgate/pkg/invoke"
	"github.com/cellgate/cellgate/pkg/logging"
	"github.com/cellgate/cellgate/pkg/notebook"
	"github.com/cellgate/cellgate/pkg/pool"
	"github.com/cellgate/cellgate/pkg/route"
	"github.com/cellgate/cellgate/pkg/server"
)

const (
	name           = "cellgated"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags to reflect actual version info
	// e.g., -X "github.com/cellgate/cellgate/pkg/api.version=1.0.0"
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Serve runs the notebook gateway and blocks until shutdown.
// It loads the seed notebook, builds the route table and API descriptor,
// prespawns the kernel pool, and serves the annotated routes over HTTP.
// Returns an error if startup fails or the server exits abnormally.
func Serve(ctx context.Context, cfg *Config) error {
	if cfg == nil {
		cfg = NewConfig()
	}

	logging.SetDefaultStructuredLogger(name, version)
	slog.Info("starting",
		"name", name,
		"version", version,
		"commit", commit,
		"date", date,
		"notebook", cfg.Notebook,
	)

	if cfg.Notebook == "" {
		return errors.New(errors.ErrCodeInvalidRequest, "notebook location is required")
	}

	nb, raw, err := notebook.NewLoader().Load(ctx, cfg.Notebook)
	if err != nil {
		return errors.Wrap(errors.ErrCodeLoadFailed, "failed to load notebook", err)
	}

	table, err := route.Build(nb)
	if err != nil {
		return err
	}

	doc, err := apidoc.Build(table, notebook.TitleFromPath(cfg.Notebook))
	if err != nil {
		return err
	}

	store, err := activity.New(activity.Config{Path: cfg.ActivityDB})
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Warn("failed to close activity store", "error", err)
		}
	}()

	p, err := pool.New(kernelFactory(cfg, nb, table, store),
		pool.WithSize(cfg.PoolSize),
		pool.WithPingInterval(defaults.PoolPingInterval),
	)
	if err != nil {
		return err
	}
	if err := p.Start(ctx); err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), defaults.ServerShutdownTimeout)
		defer cancel()
		if err := p.Shutdown(sctx); err != nil {
			slog.Warn("kernel pool shutdown failed", "error", err)
		}
	}()

	coordinator, err := invoke.New(nb, p,
		invoke.WithActivity(store),
		invoke.WithExecTimeout(cfg.execTimeout()),
		invoke.WithCheckoutTimeout(cfg.checkoutTimeout()),
	)
	if err != nil {
		return err
	}

	opts := []gateway.Option{
		gateway.WithAPIDoc(doc),
		gateway.WithActivity(store),
	}
	if cfg.AllowDownload {
		opts = append(opts, gateway.WithSource(raw))
	}
	if cfg.ExhaustedStatus != 0 {
		opts = append(opts, gateway.WithExhaustedStatus(cfg.ExhaustedStatus))
	}
	g, err := gateway.New(table, coordinator, opts...)
	if err != nil {
		return err
	}

	s := server.New(
		server.WithConfig(cfg.serverConfig()),
		server.WithName(name),
		server.WithVersion(version),
		server.WithHandler(g.Handlers()),
	)

	slog.Info("gateway ready",
		"routes", len(table.Routes),
		"seeds", len(table.Seeds),
		"pool_size", cfg.PoolSize,
		"allow_download", cfg.AllowDownload,
	)

	if err := s.Run(ctx); err != nil {
		slog.Error("server exited with error", "error", err)
		return err
	}

	return nil
}
