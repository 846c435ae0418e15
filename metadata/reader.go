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

package metadata

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/wtsi-ssg/fqgroup/config"
)

const byteOrderMark = "\ufeff"

// Skipped describes a metadata row that was ignored because its sample or
// group was blank.
type Skipped struct {
	Line     int
	SampleID string
	Group    string
}

// Read parses a delimited table with a header line, returning a Row for each
// data line. The header must contain config.SampleColumn and groupColumn
// exactly once each; other columns are ignored. Lines with a blank sample or
// group are not returned as Rows but as Skipped, so they can be reported.
func Read(r io.Reader, sep rune, groupColumn string) ([]Row, []Skipped, error) {
	cr := csv.NewReader(r)
	cr.Comma = sep
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	sampleCol, groupCol, err := readHeader(cr, groupColumn)
	if err != nil {
		return nil, nil, err
	}

	var (
		rows    []Row
		skipped []Skipped
	)

	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return nil, nil, err
		}

		line, _ := cr.FieldPos(0)
		sample, group := field(record, sampleCol), field(record, groupCol)

		if sample == "" || group == "" {
			skipped = append(skipped, Skipped{Line: line, SampleID: sample, Group: group})

			continue
		}

		rows = append(rows, Row{SampleID: sample, Group: group, Line: line})
	}

	return rows, skipped, nil
}

// readHeader reads the first record and returns the column indexes of the
// sample and group columns. An empty input has no rows at all, which is
// ErrEmptyMetadata rather than a missing column.
func readHeader(cr *csv.Reader, groupColumn string) (int, int, error) {
	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return 0, 0, ErrEmptyMetadata
	} else if err != nil {
		return 0, 0, fmt.Errorf("failed to read metadata header: %w", err)
	}

	if groupColumn == config.SampleColumn {
		return 0, 0, &ColumnError{Column: groupColumn, Err: ErrDuplicateColumn}
	}

	sampleCol, err := columnIndex(header, config.SampleColumn)
	if err != nil {
		return 0, 0, err
	}

	groupCol, err := columnIndex(header, groupColumn)

	return sampleCol, groupCol, err
}

func columnIndex(header []string, name string) (int, error) {
	index := -1

	for i, col := range header {
		if i == 0 {
			col = strings.TrimPrefix(col, byteOrderMark)
		}

		if strings.TrimSpace(col) != name {
			continue
		}

		if index != -1 {
			return 0, &ColumnError{Column: name, Err: ErrDuplicateColumn}
		}

		index = i
	}

	if index == -1 {
		return 0, &ColumnError{Column: name, Err: ErrMissingColumn}
	}

	return index, nil
}

func field(record []string, i int) string {
	if i >= len(record) {
		return ""
	}

	return strings.TrimSpace(record[i])
}
