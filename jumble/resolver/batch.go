package resolver

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sourcegraph/conc/pool"
)

// SolveAll solves every word concurrently over the shared index, bounded by
// the configured worker count. Results come back in input order. The first
// failure cancels the remaining solves; every failure is joined into the
// returned error.
func (r *Resolver) SolveAll(ctx context.Context, words []string) ([]*Result, error) {
	results := make([]*Result, len(words))
	if len(words) == 0 {
		return results, nil
	}

	workers := min(r.workerCount(), len(words))
	p := pool.New().WithMaxGoroutines(workers).WithContext(ctx).WithCancelOnError()

	for i, word := range words {
		i, word := i, word
		p.Go(func(ctx context.Context) error {
			res, err := r.SolveContext(ctx, word)
			if err != nil {
				return fmt.Errorf("word %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := p.Wait(); err != nil {
		slog.Debug("Batch solve failed", "words", len(words), "error", err)
		return nil, err
	}

	slog.Debug("Batch solve completed", "words", len(words), "workers", workers)
	return results, nil
}
