package engine

import (
	"context"
	"fmt"
	"runtime"
	"slices"

	"golang.org/x/sync/errgroup"
)

// RunBatch runs every config on its own engine with at most workers battles
// in flight (zero means GOMAXPROCS). Results keep the order of cfgs. The
// first failure cancels the battles that have not started yet.
//
// Options are applied to every engine, so writers passed with WithCombatLog
// must be safe for concurrent use.
func RunBatch(ctx context.Context, cfgs []BattleConfig, workers int, opts ...Option) ([]*Result, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	results := make([]*Result, len(cfgs))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	opts = append(slices.Clip(opts), WithContext(ctx))
	for i, cfg := range cfgs {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			e, err := New(cfg, opts...)
			if err != nil {
				return fmt.Errorf("battle %d: %w", i, err)
			}
			res, err := e.Run()
			if err != nil {
				return fmt.Errorf("battle %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
