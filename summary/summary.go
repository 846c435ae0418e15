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

// package summary reports on the outcome of a run.

package summary

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/hashicorp/go-multierror"
	"github.com/olekukonko/tablewriter"
	"github.com/wtsi-ssg/fqgroup/combine"
	"github.com/wtsi-ssg/fqgroup/plan"
)

// Summary holds the results of merging and the warnings from planning.
type Summary struct {
	Results  []combine.Result
	Warnings []plan.Warning
}

// New returns a Summary of the given results and warnings.
func New(results []combine.Result, warnings []plan.Warning) *Summary {
	return &Summary{
		Results:  results,
		Warnings: warnings,
	}
}

// Failed returns the number of results with an error.
func (s *Summary) Failed() int {
	n := 0

	for _, r := range s.Results {
		if r.Err != nil {
			n++
		}
	}

	return n
}

// Err returns all the results' errors combined, each prefixed with its output
// name, or nil if every merge succeeded.
func (s *Summary) Err() error {
	var merr *multierror.Error

	for _, r := range s.Results {
		if r.Err != nil {
			merr = multierror.Append(merr, fmt.Errorf("%s: %w", r.Plan.OutputName, r.Err))
		}
	}

	return merr.ErrorOrNil()
}

// Render writes a table of the results, followed by a table of any warnings,
// to w.
func (s *Summary) Render(w io.Writer) {
	table := newTable(w, "Output", "Group", "Direction", "Sources", "Read", "Written", "Status")

	for _, r := range s.Results {
		table.Append([]string{
			r.Plan.OutputName,
			r.Plan.Label(),
			r.Plan.Direction.String(),
			strconv.Itoa(len(r.Plan.Sources)),
			humanize.Bytes(uint64(r.BytesRead)),
			humanize.Bytes(uint64(r.BytesWritten)),
			combine.Kind(r.Err),
		})
	}

	table.Render()

	RenderWarnings(w, s.Warnings)
}

// RenderWarnings writes a table of the given warnings to w, if there are any.
func RenderWarnings(w io.Writer, warnings []plan.Warning) {
	if len(warnings) == 0 {
		return
	}

	table := newTable(w, "Group", "Warning")

	for _, warning := range warnings {
		table.Append([]string{warning.GroupName(), warning.Error()})
	}

	table.Render()
}

// RenderPlans writes a table describing the given plans to w.
func RenderPlans(w io.Writer, plans []plan.Plan) {
	table := newTable(w, "Output", "Group", "Direction", "Sources")

	for _, p := range plans {
		names := make([]string, len(p.Sources))
		for i, src := range p.Sources {
			names[i] = src.Name
		}

		table.Append([]string{p.OutputName, p.Label(), p.Direction.String(), strings.Join(names, "\n")})
	}

	table.Render()
}

// newTable creates a table with the given header.
func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)

	return table
}
