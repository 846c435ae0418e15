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

// package catalog matches read file names to sample ids and read directions.

package catalog

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/wtsi-ssg/fqgroup/config"
	"golang.org/x/exp/slices"
)

// Direction is the orientation of the reads in a file.
type Direction int

const (
	Forward Direction = iota
	Reverse
)

// Directions lists every Direction in output order.
var Directions = [...]Direction{Forward, Reverse} //nolint:gochecknoglobals

func (d Direction) String() string {
	if d == Reverse {
		return "reverse"
	}

	return "forward"
}

// Suffix returns the file name suffix the config uses for this direction.
func (d Direction) Suffix(cfg config.Config) string {
	if d == Reverse {
		return cfg.ReverseSuffix
	}

	return cfg.ForwardSuffix
}

// readExtensions are tried in order after the direction suffix. The final
// empty extension lets a suffix like "_R1.fastq.gz" be configured directly.
var readExtensions = [...]string{".fastq.gz", ".fq.gz", ".fastq", ".fq", ""} //nolint:gochecknoglobals

const gzipExtension = ".gz"

// AmbiguousSuffixError is returned when a file name could be either a forward
// or reverse read file.
type AmbiguousSuffixError struct {
	Name string
}

func (e *AmbiguousSuffixError) Error() string {
	return fmt.Sprintf("file name matches both forward and reverse suffixes: %s", e.Name)
}

// File is a read file discovered in the input directory.
type File struct {
	Path       string
	Name       string
	SampleID   string
	Direction  Direction
	Compressed bool
	Order      int
}

// Files are the read files found in a directory, in discovery order.
type Files []File

// Build classifies the given file names (basenames found in dir, in the order
// they were discovered). Names that don't end in either direction's suffix are
// ignored, but one that ends in both is an error.
func Build(names []string, dir string, cfg config.Config) (Files, error) {
	files := make(Files, 0, len(names))

	for _, name := range names {
		fwdSample, isFwd := sampleID(name, cfg.ForwardSuffix)
		revSample, isRev := sampleID(name, cfg.ReverseSuffix)

		if isFwd && isRev {
			return nil, &AmbiguousSuffixError{Name: name}
		}

		f := File{
			Path:       filepath.Join(dir, name),
			Name:       name,
			Compressed: strings.HasSuffix(name, gzipExtension),
			Order:      len(files),
		}

		switch {
		case isFwd:
			f.SampleID, f.Direction = fwdSample, Forward
		case isRev:
			f.SampleID, f.Direction = revSample, Reverse
		default:
			continue
		}

		files = append(files, f)
	}

	return files, nil
}

// sampleID strips suffix and the first matching read extension from name. The
// bool is false if name doesn't end that way or nothing would be left.
func sampleID(name, suffix string) (string, bool) {
	for _, ext := range readExtensions {
		ending := suffix + ext
		if !strings.HasSuffix(name, ending) || len(name) == len(ending) {
			continue
		}

		return strings.TrimSuffix(name, ending), true
	}

	return "", false
}

// StripExtension removes a recognised read file extension from the end of
// name.
func StripExtension(name string) string {
	for _, ext := range readExtensions {
		if ext != "" && strings.HasSuffix(name, ext) {
			return strings.TrimSuffix(name, ext)
		}
	}

	return name
}

// Directions returns the directions that at least one file has, in output
// order.
func (fs Files) Directions() []Direction {
	var found [len(Directions)]bool

	for _, f := range fs {
		found[f.Direction] = true
	}

	dirs := make([]Direction, 0, len(Directions))

	for _, d := range Directions {
		if found[d] {
			dirs = append(dirs, d)
		}
	}

	return dirs
}

// HasSample tells you if any file of direction d belongs to sample.
func (fs Files) HasSample(sample string, d Direction) bool {
	return slices.ContainsFunc(fs, func(f File) bool {
		return f.SampleID == sample && f.Direction == d
	})
}

// SampleIDs returns the distinct sample ids of the files, sorted.
func (fs Files) SampleIDs() []string {
	ids := make([]string, 0, len(fs))

	for _, f := range fs {
		ids = append(ids, f.SampleID)
	}

	slices.Sort(ids)

	return slices.Compact(ids)
}

// Select returns the files of direction d whose sample ids satisfy the given
// func (or all of direction d if it is nil), sorted on sample id and then
// discovery order.
func (fs Files) Select(d Direction, want func(sample string) bool) Files {
	var selected Files

	for _, f := range fs {
		if f.Direction == d && (want == nil || want(f.SampleID)) {
			selected = append(selected, f)
		}
	}

	slices.SortStableFunc(selected, func(a, b File) int {
		if c := strings.Compare(a.SampleID, b.SampleID); c != 0 {
			return c
		}

		return a.Order - b.Order
	})

	return selected
}
