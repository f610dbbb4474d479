package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Batch is the outcome of converting several inputs.
type Batch struct {
	RunID    string
	Results  []*Result
	Duration time.Duration
}

// Succeeded returns the results that produced a document, in input order.
func (b *Batch) Succeeded() []*Result {
	out := make([]*Result, 0, len(b.Results))
	for _, r := range b.Results {
		if r != nil && r.Err == nil {
			out = append(out, r)
		}
	}
	return out
}

// Failed counts the inputs that produced no document.
func (b *Batch) Failed() int {
	return len(b.Results) - len(b.Succeeded())
}

// RunBatch converts inputs with at most Options.Workers conversions in flight.
// Results keep the order of inputs, and output names are made unique across
// the batch in that order. A failing input is recorded in its Result and does
// not stop the others; only cancellation of ctx is returned.
func (c *Converter) RunBatch(ctx context.Context, inputs []Input) (*Batch, error) {
	start := time.Now()
	batch := &Batch{
		RunID:   uuid.New().String(),
		Results: make([]*Result, len(inputs)),
	}
	log := c.log.WithFields(logrus.Fields{"run_id": batch.RunID, "inputs": len(inputs), "workers": c.opts.Workers})
	log.Info("batch.start")

	conv := c
	if c.opts.OnProgress != nil {
		var mu sync.Mutex
		onProgress := c.opts.OnProgress
		cp := *c
		cp.opts.OnProgress = func(event ProgressEvent) {
			mu.Lock()
			defer mu.Unlock()
			onProgress(event)
		}
		conv = &cp
	}

	var g errgroup.Group
	g.SetLimit(c.opts.Workers)
	for i, in := range inputs {
		i, in := i, in
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				batch.Results[i] = &Result{Source: in.Filename, Err: err}
				return nil
			}
			res, err := conv.convert(ctx, in, batch.RunID)
			if res == nil {
				res = &Result{Source: in.Filename, Err: err}
			}
			batch.Results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	used := make(map[string]int)
	for _, r := range batch.Succeeded() {
		r.OutputName = uniqueName(r.OutputName, used)
	}

	batch.Duration = time.Since(start)
	log.WithFields(logrus.Fields{
		"succeeded":   len(batch.Succeeded()),
		"failed":      batch.Failed(),
		"duration_ms": batch.Duration.Milliseconds(),
	}).Info("batch.done")

	if err := ctx.Err(); err != nil {
		return batch, err
	}
	return batch, nil
}
