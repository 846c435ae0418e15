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

package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/wtsi-ssg/fqgroup/summary"
)

// planCmd represents the plan command.
var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show how read files would be merged",
	Long: `Show how read files would be merged.

Takes the same arguments and grouping options as 'fqgroup merge', but instead of
merging anything it prints a table of the outputs that would be made and the
source files that would go in to each, in the order they would be concatenated,
followed by any warnings about groups or samples with missing files.

Nothing is written to the output directory, which needn't exist yet.`,
	Run: func(_ *cobra.Command, args []string) {
		g := resolveGrouping(args)

		summary.RenderPlans(os.Stdout, g.plans)
		summary.RenderWarnings(os.Stdout, g.warnings)
	},
}

func init() {
	RootCmd.AddCommand(planCmd)

	addGroupingFlags(planCmd)
}
