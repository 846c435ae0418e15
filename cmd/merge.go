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
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"code.cloudfoundry.org/bytefmt"
	"github.com/klauspost/pgzip"
	"github.com/spf13/cobra"
	"github.com/wtsi-ssg/fqgroup/combine"
	"github.com/wtsi-ssg/fqgroup/fs"
	"github.com/wtsi-ssg/fqgroup/merge"
	"github.com/wtsi-ssg/fqgroup/summary"
)

const defaultBlockSize = "1M"

// options for this cmd.
var (
	mergeBlockSize string
	mergeLevel     int
	mergeReport    time.Duration
	mergeLog       string
)

// mergeCmd represents the merge command.
var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge read files by group",
	Long: `Merge read files by group.

Given a directory of read files and an output directory, this concatenates the
read files of each group's samples and writes them gzip compressed to the output
directory, one file per group and direction. Files are named like
{group}{suffix}.fastq.gz, eg. control_forward.fastq.gz.

Read files are recognised by their suffix (--forward_suffix, --reverse_suffix)
followed by .fastq.gz, .fq.gz, .fastq or .fq, and the sample id is the part of
the name before the suffix. Files matching neither suffix are ignored.

Groups come from the --metadata table, which must have a header row containing
a sample_id column and the --group_col column. A sample can be in many groups,
and each group can have many samples. Rows with an empty sample_id or group are
skipped with a warning.

Within an output, reads are in sample id order, then in the order the files
were found. Outputs are first written to a hidden partial file that is renamed
in to place once complete, so a failed or interrupted merge never leaves a
truncated output behind, and any previous output is only replaced on success.

Without --metadata all files are merged, giving {fallback_name}_forward.fastq.gz
and {fallback_name}_reverse.fastq.gz.

A table summarising what was written is printed at the end. The exit code is
non-zero if any output could not be made.`,
	Run: func(_ *cobra.Command, args []string) {
		if mergeLog != "" {
			logToFile(mergeLog)
		}

		g := resolveGrouping(args)

		opts, err := compressionOptions(g.cfg.Workers)
		if err != nil {
			die("%s", err)
		}

		if err = fs.EnsureDir(g.cfg.OutputDir); err != nil {
			die("failed to create output directory: %s", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		orch := merge.New(combine.NewMerger(g.cfg.OutputDir, opts), g.cfg.Workers, appLogger)
		orch.ReportFrequency = mergeReport

		s := summary.New(orch.Run(ctx, g.plans), g.warnings)
		s.Render(os.Stdout)

		if err = s.Err(); err != nil {
			die("%d of %d outputs failed: %s", s.Failed(), len(s.Results), err)
		}

		info("merged %d outputs", len(s.Results))
	},
}

func init() {
	RootCmd.AddCommand(mergeCmd)

	addGroupingFlags(mergeCmd)

	mergeCmd.Flags().StringVar(&mergeBlockSize, "block_size", defaultBlockSize,
		"size of each independently compressed output block, eg. 512K, 1M")
	mergeCmd.Flags().IntVar(&mergeLevel, "level", pgzip.DefaultCompression,
		"gzip compression level, 1 (fastest) to 9 (best), or -1 for the default")
	mergeCmd.Flags().DurationVar(&mergeReport, "report", 0,
		"log throughput this often, eg. 1m (0 to disable)")
	mergeCmd.Flags().StringVar(&mergeLog, "log", "", "log to this file instead of STDERR")
}

// compressionOptions returns combine Options according to our flags, checking
// they are usable before anything gets written.
func compressionOptions(workers int) (combine.Options, error) {
	opts := combine.DefaultOptions(workers)

	blockSize, err := bytefmt.ToBytes(mergeBlockSize)
	if err != nil {
		return opts, err
	}

	opts.BlockSize = int(blockSize)
	opts.Level = mergeLevel

	w, err := combine.Compress(io.Discard, opts)
	if err != nil {
		return opts, err
	}

	return opts, w.Close()
}
