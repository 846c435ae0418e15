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

// package plan resolves which read files get merged into which output files.

package plan

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/wtsi-ssg/fqgroup/catalog"
	"github.com/wtsi-ssg/fqgroup/config"
	"github.com/wtsi-ssg/fqgroup/metadata"
)

type Error string

func (e Error) Error() string { return string(e) }

const ErrNoReadFiles = Error("no forward or reverse read files found")

// Plan is one output file and the ordered source files that get merged into
// it. Group is blank when every file is being merged together.
type Plan struct {
	Group      string
	OutputName string
	Direction  catalog.Direction
	Sources    catalog.Files
}

// Label names the plan for log and summary output.
func (p Plan) Label() string {
	if p.Group == "" {
		return "(all)"
	}

	return p.Group
}

// Build returns the plans for the given index and files. A nil index means no
// metadata was supplied, in which case all files are merged per direction.
// Having no read files at all is an error either way.
func Build(idx *metadata.Index, files catalog.Files, cfg config.Config) ([]Plan, []Warning, error) {
	if len(files) == 0 {
		return nil, nil, ErrNoReadFiles
	}

	if idx == nil {
		plans, err := ForAll(files, cfg)

		return plans, nil, err
	}

	plans, warnings := ForGroups(idx, files, cfg)

	return plans, warnings, nil
}

// ForGroups returns a Plan for each group in the index and each direction
// found in files, in group then direction order. Group and direction pairs
// with no files are skipped with a NoMatchingFilesWarning, and each group
// member lacking files gets a MissingSampleWarning.
func ForGroups(idx *metadata.Index, files catalog.Files, cfg config.Config) ([]Plan, []Warning) {
	var (
		plans    []Plan
		warnings []Warning
	)

	dirs := files.Directions()

	for _, group := range idx.Groups() {
		warnings = append(warnings, missingSamples(idx, group, files, dirs)...)

		for _, d := range dirs {
			sources := files.Select(d, func(sample string) bool {
				return idx.IsMember(group, sample)
			})

			if len(sources) == 0 {
				warnings = append(warnings, &NoMatchingFilesWarning{Group: group, Direction: d})

				continue
			}

			plans = append(plans, Plan{
				Group:      group,
				OutputName: OutputName(group, d, cfg),
				Direction:  d,
				Sources:    sources,
			})
		}
	}

	return plans, warnings
}

func missingSamples(idx *metadata.Index, group string, files catalog.Files, dirs []catalog.Direction) []Warning {
	var warnings []Warning

	for _, sample := range idx.Samples(group) {
		var missing []catalog.Direction

		for _, d := range dirs {
			if !files.HasSample(sample, d) {
				missing = append(missing, d)
			}
		}

		if len(missing) > 0 || len(dirs) == 0 {
			warnings = append(warnings, &MissingSampleWarning{Group: group, SampleID: sample, Directions: missing})
		}
	}

	return warnings
}

// ForAll returns one Plan per direction found in files, each merging every
// file of that direction.
func ForAll(files catalog.Files, cfg config.Config) ([]Plan, error) {
	dirs := files.Directions()
	if len(dirs) == 0 {
		return nil, ErrNoReadFiles
	}

	plans := make([]Plan, 0, len(dirs))

	for _, d := range dirs {
		plans = append(plans, Plan{
			OutputName: OutputName(cfg.FallbackName, d, cfg),
			Direction:  d,
			Sources:    files.Select(d, nil),
		})
	}

	return plans, nil
}

// OutputName returns the file name used for the merged reads of the given base
// name (a group, or the fallback name) and direction.
func OutputName(base string, d catalog.Direction, cfg config.Config) string {
	return sanitise(base) + catalog.StripExtension(d.Suffix(cfg)) + cfg.OutputExtension
}

// sanitise makes sure base can't escape the output directory.
func sanitise(base string) string {
	if base == "" || base == "." || base == ".." {
		return "_"
	}

	return strings.Map(func(r rune) rune {
		if r == '/' || r == filepath.Separator || r == 0 {
			return '_'
		}

		return r
	}, base)
}

// OutputCollisionError is returned by CheckCollisions when two plans would
// write the same file, or a plan would write over a source file.
type OutputCollisionError struct {
	Path   string
	Groups []string
	Source bool
}

func (e *OutputCollisionError) Error() string {
	if e.Source {
		return fmt.Sprintf("output of group %s would overwrite input file %s", e.Groups[0], e.Path)
	}

	return fmt.Sprintf("groups %s would write to the same output file %s", strings.Join(e.Groups, " and "), e.Path)
}

// CheckCollisions checks all the plans together, before any are merged, to
// ensure each has its own output path in outDir and none of those paths is one
// of the given input files.
func CheckCollisions(plans []Plan, inputs catalog.Files, outDir string) error {
	outputs := make(map[string]Plan, len(plans))

	for _, p := range plans {
		path := filepath.Clean(filepath.Join(outDir, p.OutputName))

		if other, exists := outputs[path]; exists {
			return &OutputCollisionError{Path: path, Groups: []string{other.Label(), p.Label()}}
		}

		outputs[path] = p
	}

	for _, f := range inputs {
		if owner, clash := outputs[filepath.Clean(f.Path)]; clash {
			return &OutputCollisionError{Path: f.Path, Groups: []string{owner.Label()}, Source: true}
		}
	}

	return nil
}
