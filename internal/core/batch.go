package core

import (
	"context"

	"github.com/mhmtszr/concurrent-swiss-map"
	"golang.org/x/sync/errgroup"
)

// DefaultWorkerCount bounds ParseBatch when the caller passes zero.
const DefaultWorkerCount = 8

// BatchResult is the outcome for one filename of a batch.
type BatchResult struct {
	Raw    string
	Result Result
	Err    error
}

// ParseBatch parses raws on up to workers goroutines and returns the outcomes
// in input order. Per-file failures are reported in BatchResult.Err; the
// returned error is only set when ctx is canceled, in which case filenames
// that were never started carry ctx's error.
//
// Files are canonicalized concurrently, so when several new titles in one
// batch would match each other, which of them is learned first is not
// deterministic.
func (p *Pipeline) ParseBatch(ctx context.Context, raws []string, workers int) ([]BatchResult, error) {
	if workers <= 0 {
		workers = DefaultWorkerCount
	}

	results := csmap.Create[int, BatchResult]()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, raw := range raws {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := p.Parse(raw)
			results.Store(i, BatchResult{Raw: raw, Result: res, Err: err})
			return nil
		})
	}
	waitErr := g.Wait()

	out := make([]BatchResult, len(raws))
	for i, raw := range raws {
		if r, ok := results.Load(i); ok {
			out[i] = r
			continue
		}
		out[i] = BatchResult{Raw: raw, Err: ctx.Err()}
	}

	p.logger.Debug().Int("files", len(raws)).Int("workers", workers).Msg("batch parsed")

	if waitErr != nil {
		return out, waitErr
	}
	return out, ctx.Err()
}
