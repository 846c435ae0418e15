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

// package reporter is used to report on the throughput of merges.

package reporter

import (
	"fmt"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/inconshreveable/log15"
)

// Reporter can be used to output timing and throughput information on how
// long merges are taking.
type Reporter struct {
	operation       string       // the name of the operation you will time, output in Report().
	logger          log15.Logger // where your reports will be logged to.
	currentDuration time.Duration
	totalDuration   time.Duration
	failedDuration  time.Duration
	currentCount    int64
	totalCount      int64
	failedCount     int64
	currentBytes    uint64
	totalBytes      uint64
	enabled         bool
	started         bool
	stopCh          chan struct{}
	doneCh          chan struct{}
	sync.Mutex
}

// New returns a reporter that will log how long operation took to logger.
func New(operation string, logger log15.Logger) *Reporter {
	return &Reporter{
		operation: operation,
		logger:    logger,
	}
}

// Enable will cause future TimeMerge() calls to time the merge. NB: this is
// NOT thread safe.
func (r *Reporter) Enable() {
	r.enabled = true
}

// TimeMerge, if Enable() has not yet been called, will simply call your given
// func and return its error. If Enable() has been called, it will time how
// long your func takes to run and record the number of bytes it says it
// processed, so that Report() can report details about your merges. It is
// safe to call concurrently.
func (r *Reporter) TimeMerge(f func() (int64, error)) error {
	if !r.enabled {
		_, err := f()

		return err
	}

	t := time.Now()
	n, err := f()
	d := time.Since(t)

	r.Lock()
	defer r.Unlock()

	if err != nil {
		r.failedCount++
		r.failedDuration += d
	} else {
		r.currentCount++
		r.currentDuration += d
		r.currentBytes += uint64(n)
	}

	return err
}

// Report outputs details of merges completed since the last Report() call.
// Merges that returned an error are not included in these reports.
func (r *Reporter) Report() {
	r.Lock()
	defer r.Unlock()

	r.logger.Info("report since last",
		"op", r.operation,
		"count", r.currentCount,
		"bytes", humanize.Bytes(r.currentBytes),
		"time", r.currentDuration,
		"rate", bytesPerSecond(r.currentBytes, r.currentDuration))

	r.totalCount += r.currentCount
	r.totalDuration += r.currentDuration
	r.totalBytes += r.currentBytes
	r.currentCount = 0
	r.currentDuration = 0
	r.currentBytes = 0
}

// ReportFinal reports overall and failed timings.
func (r *Reporter) ReportFinal() {
	r.Lock()
	defer r.Unlock()

	r.logger.Info("report overall",
		"op", r.operation,
		"count", r.totalCount,
		"bytes", humanize.Bytes(r.totalBytes),
		"time", r.totalDuration,
		"rate", bytesPerSecond(r.totalBytes, r.totalDuration))

	if r.failedCount > 0 {
		r.logger.Warn("report failed",
			"op", r.operation,
			"count", r.failedCount,
			"time", r.failedDuration)
	}
}

// bytesPerSecond returns a human readable n/d.Seconds, or n/a if either is 0.
// The duration is summed over concurrent merges, so this is the rate of a
// single merge, not of them all together.
func bytesPerSecond(n uint64, d time.Duration) string {
	if n == 0 || d == 0 {
		return "n/a"
	}

	return fmt.Sprintf("%s/s", humanize.Bytes(uint64(float64(n)/d.Seconds())))
}

// StartReporting calls Enable() and then Report() regularly every frequency.
// NB: this is NOT thread safe.
func (r *Reporter) StartReporting(frequency time.Duration) {
	r.Enable()

	r.started = true
	r.stopCh = make(chan struct{})
	r.doneCh = make(chan struct{})
	ticker := time.NewTicker(frequency)

	go func() {
		for {
			select {
			case <-ticker.C:
				r.Report()
			case <-r.stopCh:
				ticker.Stop()
				r.Report()
				r.ReportFinal()
				close(r.doneCh)

				return
			}
		}
	}()
}

// StopReporting stops the regular calling of Report() and triggers
// ReportFinal().
func (r *Reporter) StopReporting() {
	if !r.started {
		return
	}

	close(r.stopCh)
	<-r.doneCh

	r.started = false
}
