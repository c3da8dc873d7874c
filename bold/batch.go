package bold

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// DeconvolveBatch runs Deconvolve on every signal with at most workers
// goroutines. workers <= 0 uses GOMAXPROCS. The first failure cancels the
// remaining work and is returned.
func DeconvolveBatch(ctx context.Context, signals [][]float64, h []float64, opts Options, workers int) ([]Estimate, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	out := make([]Estimate, len(signals))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for idx, y := range signals {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			est, err := Deconvolve(y, h, opts)
			if err != nil {
				return fmt.Errorf("signal %d: %w", idx, err)
			}
			out[idx] = est
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
