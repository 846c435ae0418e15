/*******************************************************************************
 * Copyright (c) 2026 Genome Research Ltd.
 *
 * Permission is hereby granted, free of charge, to any person obtaining
 * a copy of this software and associated documentation files (the
 * "Software"), to deal in the Software without restriction, including
 * without limitation the rights to use, copy, modify, merge, publish,
 * distribute, sublicense, and/or sell copies of the Software, and to
 * permit persons to whom the Software is furnished to do so, subject to
 * the following conditions:
 *
 * The above copyright notice and this permission notice shall be included
 * in all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND,
 * EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF
 * MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.
 * IN NO EVENT SHALL THE AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY
 * CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER IN AN ACTION OF CONTRACT,
 * TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN CONNECTION WITH THE
 * SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
 ******************************************************************************/

// package merge runs many merge plans at once.

package merge

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/inconshreveable/log15"
	"github.com/wtsi-ssg/fqgroup/combine"
	"github.com/wtsi-ssg/fqgroup/plan"
	"github.com/wtsi-ssg/fqgroup/reporter"
	"golang.org/x/sync/errgroup"
)

type Error string

func (e Error) Error() string { return string(e) }

const ErrNotStarted = Error("merge not started")

// Merger is something that can carry out a single plan, like a
// *combine.Merger.
type Merger interface {
	Merge(ctx context.Context, p plan.Plan) combine.Result
}

// Orchestrator merges plans concurrently.
type Orchestrator struct {
	merger  Merger
	workers int
	logger  log15.Logger

	// ReportFrequency, if greater than 0, causes throughput to be logged this
	// often during Run().
	ReportFrequency time.Duration
}

// New returns an Orchestrator that will use merger to carry out at most
// workers plans at a time, logging progress to logger.
func New(merger Merger, workers int, logger log15.Logger) *Orchestrator {
	if workers < 1 {
		workers = 1
	}

	return &Orchestrator{
		merger:  merger,
		workers: workers,
		logger:  logger,
	}
}

// Run merges every plan and returns their Results in the same order as the
// plans. A failed plan doesn't affect the others. Once ctx is cancelled no
// further plans are started: those get an ErrNotStarted Result, and merges in
// progress are aborted.
func (o *Orchestrator) Run(ctx context.Context, plans []plan.Plan) []combine.Result {
	results := make([]combine.Result, len(plans))

	r := reporter.New("merge", o.logger)
	if o.ReportFrequency > 0 {
		r.StartReporting(o.ReportFrequency)
		defer r.StopReporting()
	}

	var g errgroup.Group

	g.SetLimit(o.workers)

	for i, p := range plans {
		if err := ctx.Err(); err != nil {
			results[i] = notStarted(p, err)

			continue
		}

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = notStarted(p, err)

				return nil
			}

			results[i] = o.merge(ctx, r, p)

			return nil
		})
	}

	g.Wait() //nolint:errcheck

	return results
}

func notStarted(p plan.Plan, err error) combine.Result {
	return combine.Result{Plan: p, Err: fmt.Errorf("%w: %w", ErrNotStarted, err)}
}

// merge carries out one plan, logging before and after.
func (o *Orchestrator) merge(ctx context.Context, r *reporter.Reporter, p plan.Plan) combine.Result {
	l := o.logger.New("output", p.OutputName, "group", p.Label(), "direction", p.Direction.String())
	l.Info("merging", "sources", len(p.Sources))

	var result combine.Result

	err := r.TimeMerge(func() (int64, error) {
		result = o.merger.Merge(ctx, p)

		return result.BytesRead, result.Err
	})
	if err != nil {
		l.Error("merge failed", "err", err)

		return result
	}

	l.Info("merged",
		"read", humanize.Bytes(uint64(result.BytesRead)),
		"written", humanize.Bytes(uint64(result.BytesWritten)),
		"time", result.Duration)

	return result
}
