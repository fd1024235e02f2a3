package probe

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/datecol/pkg/adapter"
	"github.com/leapstack-labs/datecol/pkg/datetime"
)

// Target is a named database to probe.
type Target struct {
	Name   string
	Config adapter.Config
}

// RunAll connects to each target and probes it, at most concurrency targets
// at a time (unbounded when concurrency is zero or less). Results are
// returned in target order. A target that cannot be reached or probed gets a
// result with Error set; only cancellation of ctx fails the whole call.
func RunAll(ctx context.Context, targets []Target, concurrency int, opts Options) ([]*Result, error) {
	results := make([]*Result, len(targets))

	g, gctx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}
	for i, t := range targets {
		g.Go(func() error {
			results[i] = runTarget(gctx, t, opts)
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return results, fmt.Errorf("probe cancelled: %w", err)
	}
	return results, nil
}

func runTarget(ctx context.Context, t Target, opts Options) *Result {
	logger := adapter.DiscardIfNil(opts.Logger)
	failed := func(err error) *Result {
		logger.Error("probe failed", "target", t.Name, "error", err)
		now := datetime.Now(opts.location())
		return &Result{
			ID:         uuid.NewString(),
			Target:     t.Name,
			Dialect:    t.Config.Type,
			StartedAt:  now,
			FinishedAt: now,
			Error:      err.Error(),
		}
	}

	a, err := adapter.NewAdapter(t.Config, logger)
	if err != nil {
		return failed(err)
	}
	if err := a.Connect(ctx, t.Config); err != nil {
		return failed(err)
	}
	defer func() { _ = a.Close() }()

	res, err := Run(ctx, t.Name, a, opts)
	if err != nil {
		res.Error = err.Error()
	}
	return res
}
