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
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/wtsi-ssg/fqgroup/catalog"
	"github.com/wtsi-ssg/fqgroup/config"
	"github.com/wtsi-ssg/fqgroup/fs"
	"github.com/wtsi-ssg/fqgroup/metadata"
	"github.com/wtsi-ssg/fqgroup/plan"
)

var ErrDirsRequired = errors.New("exactly 2 directories (fastq input, merged output) must be supplied")

// options common to merge and plan.
var (
	groupMetadata      string
	groupColumn        string
	groupSeparator     string
	groupForwardSuffix string
	groupReverseSuffix string
	groupFallbackName  string
	groupWorkers       int
)

// addGroupingFlags adds the flags that control how files are grouped to the
// given command.
func addGroupingFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&groupMetadata, "metadata", "m", "",
		"delimited metadata table with "+config.SampleColumn+" and group columns")
	cmd.Flags().StringVar(&groupColumn, "group_col", config.DefaultGroupColumn,
		"name of the metadata column holding groups")
	cmd.Flags().StringVar(&groupSeparator, "sep", string(config.DefaultSeparator),
		"metadata field separator (a character, or one of tab, comma, semicolon, space)")
	cmd.Flags().StringVar(&groupForwardSuffix, "forward_suffix", config.DefaultForwardSuffix,
		"file name suffix identifying forward reads")
	cmd.Flags().StringVar(&groupReverseSuffix, "reverse_suffix", config.DefaultReverseSuffix,
		"file name suffix identifying reverse reads")
	cmd.Flags().StringVar(&groupFallbackName, "fallback_name", config.DefaultFallbackName,
		"output base name when no metadata is supplied")
	cmd.Flags().IntVarP(&groupWorkers, "workers", "w", runtime.NumCPU(),
		"number of outputs to merge at once")
}

// grouping holds everything worked out before any merging happens.
type grouping struct {
	cfg      config.Config
	plans    []plan.Plan
	warnings []plan.Warning
}

// resolveGrouping turns the command line args and grouping flags in to plans,
// dying on any configuration error. It doesn't touch the output directory.
func resolveGrouping(args []string) *grouping {
	if len(args) != 2 {
		die("%s", ErrDirsRequired)
	}

	cfg, err := configFromFlags(args[1])
	if err != nil {
		die("%s", err)
	}

	idx, err := readMetadata(groupMetadata, cfg)
	if err != nil {
		die("%s", err)
	}

	files, err := catalogFiles(args[0], cfg)
	if err != nil {
		die("%s", err)
	}

	plans, warnings, err := plan.Build(idx, files, cfg)
	if err != nil {
		die("%s", err)
	}

	if err = plan.CheckCollisions(plans, files, cfg.OutputDir); err != nil {
		die("%s", err)
	}

	for _, w := range warnings {
		appLogger.Warn(w.Error(), "group", w.GroupName())
	}

	return &grouping{cfg: cfg, plans: plans, warnings: warnings}
}

// configFromFlags returns a validated Config based on our flags.
func configFromFlags(outDir string) (config.Config, error) {
	cfg := config.Default()

	sep, err := config.ParseSeparator(groupSeparator)
	if err != nil {
		return cfg, err
	}

	cfg.OutputDir, err = filepath.Abs(outDir)
	if err != nil {
		return cfg, fmt.Errorf("could not get the absolute path to [%s]: %w", outDir, err)
	}

	cfg.Separator = sep
	cfg.GroupColumn = groupColumn
	cfg.ForwardSuffix = groupForwardSuffix
	cfg.ReverseSuffix = groupReverseSuffix
	cfg.FallbackName = groupFallbackName
	cfg.Workers = groupWorkers

	return cfg, cfg.Validate()
}

// readMetadata reads and indexes the metadata file at path. If path is blank,
// returns a nil index, meaning all files should be merged together.
func readMetadata(path string, cfg config.Config) (*metadata.Index, error) {
	if path == "" {
		info("no metadata supplied; merging all files")

		return nil, nil //nolint:nilnil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open metadata file: %w", err)
	}

	defer f.Close()

	rows, skipped, err := metadata.Read(f, cfg.Separator, cfg.GroupColumn)
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata file [%s]: %w", path, err)
	}

	for _, s := range skipped {
		appLogger.Warn("skipped metadata row with a missing value",
			"line", s.Line, "sample", s.SampleID, "group", s.Group)
	}

	return metadata.Build(rows)
}

// catalogFiles lists and classifies the read files in dir.
func catalogFiles(dir string, cfg config.Config) (catalog.Files, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("could not get the absolute path to [%s]: %w", dir, err)
	}

	names, err := fs.ListFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list read files: %w", err)
	}

	return catalog.Build(names, dir, cfg)
}
