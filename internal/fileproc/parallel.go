// Package fileproc provides bounded parallel processing for pipeline stages.
package fileproc

import (
	"context"
	"runtime"

	"github.com/sourcegraph/conc/pool"
)

// DefaultWorkerMultiplier is the multiplier applied to NumCPU for the worker
// count. Fingerprinting mixes file I/O with pure computation, so 2x keeps the
// cores busy while reads are in flight.
const DefaultWorkerMultiplier = 2

// ProgressFunc is called after each item is processed. It must be safe for
// concurrent use.
type ProgressFunc func()

// Map runs fn over items with at most maxWorkers goroutines (<= 0 means
// 2x NumCPU). Results and errors are returned in slices aligned with the
// input: results[i] corresponds to items[i], so output order never depends on
// goroutine scheduling. Verdicts must be reproducible run to run, which rules
// out unordered collection.
//
// A cancelled context stops new work; items not processed carry the context
// error in their error slot.
func Map[I, T any](ctx context.Context, items []I, maxWorkers int, fn func(I) (T, error), onProgress ProgressFunc) ([]T, []error) {
	if len(items) == 0 {
		return nil, nil
	}

	if maxWorkers <= 0 {
		maxWorkers = runtime.NumCPU() * DefaultWorkerMultiplier
	}

	results := make([]T, len(items))
	errs := make([]error, len(items))

	p := pool.New().WithMaxGoroutines(maxWorkers)
	for i := range items {
		p.Go(func() {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				if onProgress != nil {
					onProgress()
				}
				return
			}

			result, err := fn(items[i])
			if err != nil {
				errs[i] = err
			} else {
				results[i] = result
			}

			if onProgress != nil {
				onProgress()
			}
		})
	}
	p.Wait()

	return results, errs
}

// FirstError returns the first non-nil error in an error slice, nil if none.
func FirstError(errs []error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
