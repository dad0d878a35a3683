package engine

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/randseq/internal/rule"
)

// GenerateBatch runs n independent generations with at most parallel of
// them in flight, returning results in index order.
//
// ctx is checked before each generation starts, never during one. On
// cancellation the results gathered so far are discarded and ctx's error is
// returned. The engine's source must be goroutine-safe when parallel > 1.
func (e *Engine) GenerateBatch(ctx context.Context, settings *rule.Settings, n, parallel int) ([]*Result, error) {
	if n < 0 {
		return nil, fmt.Errorf("batch size must not be negative, got %d", n)
	}
	if parallel < 1 {
		parallel = 1
	}

	results := make([]*Result, n)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)

	for i := range n {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = e.Generate(settings)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
