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

// package metadata reads sample to group assignments from a delimited table
// and indexes them in both directions.

package metadata

import (
	"fmt"

	"golang.org/x/exp/slices"
)

type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrMissingColumn   = Error("metadata is missing a required column")
	ErrDuplicateColumn = Error("metadata names a required column more than once")
	ErrEmptyMetadata   = Error("metadata file contains no sample rows")
)

// ColumnError is returned when the metadata header doesn't have exactly one of
// each required column.
type ColumnError struct {
	Column string
	Err    error
}

func (e *ColumnError) Error() string { return fmt.Sprintf("%s: %s", e.Err, e.Column) }

func (e *ColumnError) Unwrap() error { return e.Err }

// RowError is returned by Build() for a row that lacks a sample or group.
type RowError struct {
	Row Row
	Err error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: %s (sample_id=%q group=%q)", e.Row.Line, e.Err, e.Row.SampleID, e.Row.Group)
}

func (e *RowError) Unwrap() error { return e.Err }

// Row assigns one sample to one group. Line is the line of the metadata file
// the row came from, or 0.
type Row struct {
	SampleID string
	Group    string
	Line     int
}

type set map[string]struct{}

func (s set) sorted() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	return keys
}

// Index holds the many-to-many relation between samples and groups.
type Index struct {
	groups  map[string]set
	samples map[string]set
}

// Build indexes the given rows. Duplicate rows collapse. An empty rows slice
// is an error: callers without metadata should not call Build at all.
func Build(rows []Row) (*Index, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyMetadata
	}

	idx := &Index{
		groups:  make(map[string]set),
		samples: make(map[string]set),
	}

	for _, row := range rows {
		if row.SampleID == "" || row.Group == "" {
			return nil, &RowError{Row: row, Err: ErrMissingColumn}
		}

		addTo(idx.groups, row.Group, row.SampleID)
		addTo(idx.samples, row.SampleID, row.Group)
	}

	return idx, nil
}

func addTo(m map[string]set, key, val string) {
	s, ok := m[key]
	if !ok {
		s = make(set)
		m[key] = s
	}

	s[val] = struct{}{}
}

// Groups returns every group name, sorted.
func (idx *Index) Groups() []string {
	return keys(idx.groups)
}

// SampleIDs returns every sample id, sorted.
func (idx *Index) SampleIDs() []string {
	return keys(idx.samples)
}

func keys(m map[string]set) []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}

	slices.Sort(names)

	return names
}

// Samples returns the sorted sample ids that are members of the given group.
func (idx *Index) Samples(group string) []string {
	return idx.groups[group].sorted()
}

// GroupsOf returns the sorted names of the groups the given sample belongs to.
func (idx *Index) GroupsOf(sample string) []string {
	return idx.samples[sample].sorted()
}

// IsMember tells you if sample belongs to group.
func (idx *Index) IsMember(group, sample string) bool {
	_, ok := idx.groups[group][sample]

	return ok
}

// Len returns the number of groups.
func (idx *Index) Len() int {
	return len(idx.groups)
}
