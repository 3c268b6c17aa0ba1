/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package pmap applies a function across independent inputs with a bounded
// worker pool. It is a caller convenience: nothing in the container adapter
// depends on it.
package pmap

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Map applies fn to every input and returns the results in input order,
// regardless of completion order. workers bounds concurrency: 1 means
// sequential, 0 or less means one worker per CPU. The first error cancels
// the remaining work and is returned.
func Map[T, R any](ctx context.Context, inputs []T, workers int, fn func(context.Context, T) (R, error)) ([]R, error) {
	results := make([]R, len(inputs))
	if len(inputs) == 0 {
		return results, nil
	}

	if workers == 1 {
		for i, in := range inputs {
			r, err := fn(ctx, in)
			if err != nil {
				return nil, err
			}
			results[i] = r
		}
		return results, nil
	}

	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, in := range inputs {
		i, in := i, in
		g.Go(func() error {
			r, err := fn(ctx, in)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
