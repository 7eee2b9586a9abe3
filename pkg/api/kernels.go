package api

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cellgate/cellgate/pkg/activity"
	"github.com/cellgate/cellgate/pkg/defaults"
	"github.com/cellgate/cellgate/pkg/errors"
	"github.com/cellgate/cellgate/pkg/kernel"
	"github.com/cellgate/cellgate/pkg/notebook"
	"github.com/cellgate/cellgate/pkg/pool"
	"github.com/cellgate/cellgate/pkg/route"
)

// kernelFactory builds the pool factory: launch an interpreter, replay the
// notebook's seed cells on it, and register it with the activity store. A
// failure during prespawn aborts startup; during replacement the pool
// retries with backoff.
func kernelFactory(cfg *Config, nb *notebook.Notebook, table *route.Table, store *activity.Store) pool.Factory {
	return func(ctx context.Context) (kernel.Session, error) {
		proc, err := kernel.StartProc(ctx, kernel.ProcConfig{
			Argv: cfg.KernelArgv,
			Env:  cfg.KernelEnv,
			Dir:  cfg.KernelDir,
		})
		if err != nil {
			return nil, err
		}

		if err := runSeeds(ctx, proc, nb, table.Seeds); err != nil {
			sctx, cancel := context.WithTimeout(context.Background(), defaults.KernelShutdownTimeout)
			_ = proc.Close(sctx)
			cancel()
			return nil, err
		}

		if err := store.RecordStart(ctx, proc.ID()); err != nil {
			slog.Warn("failed to record kernel start",
				"kernel", proc.ID(),
				"error", err,
			)
		}

		return proc, nil
	}
}

// runSeeds executes every unannotated code cell in notebook order so route
// cells see the same globals a straight top-to-bottom notebook run would.
func runSeeds(ctx context.Context, s kernel.Session, nb *notebook.Notebook, seeds []int) error {
	for _, idx := range seeds {
		ectx, cancel := context.WithTimeout(ctx, defaults.KernelExecTimeout)
		res, err := s.Submit(ectx, nb.Cells[idx].Source.String())
		cancel()
		if err != nil {
			return errors.WrapWithContext(errors.ErrCodeLoadFailed, "seed cell execution failed", err,
				map[string]any{"cell": idx})
		}
		if res.Error != nil {
			return errors.NewWithContext(errors.ErrCodeLoadFailed,
				fmt.Sprintf("seed cell raised %s: %s", res.Error.Name, res.Error.Message),
				map[string]any{"cell": idx})
		}
	}
	return nil
}
