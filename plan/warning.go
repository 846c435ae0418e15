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

package plan

import (
	"fmt"
	"strings"

	"github.com/wtsi-ssg/fqgroup/catalog"
)

// Warning is a problem found while planning that doesn't stop merging.
type Warning interface {
	error
	GroupName() string
}

// NoMatchingFilesWarning is given when a group has no files of a direction
// that exists among the input files.
type NoMatchingFilesWarning struct {
	Group     string
	Direction catalog.Direction
}

func (w *NoMatchingFilesWarning) Error() string {
	return fmt.Sprintf("group %s has no %s read files", w.Group, w.Direction)
}

func (w *NoMatchingFilesWarning) GroupName() string { return w.Group }

// MissingSampleWarning is given for each group member that lacks read files.
// Directions lists the directions it has no file for; it is empty when there
// were no read files at all.
type MissingSampleWarning struct {
	Group      string
	SampleID   string
	Directions []catalog.Direction
}

func (w *MissingSampleWarning) Error() string {
	if len(w.Directions) == 0 {
		return fmt.Sprintf("sample %s of group %s has no read files", w.SampleID, w.Group)
	}

	dirs := make([]string, len(w.Directions))
	for i, d := range w.Directions {
		dirs[i] = d.String()
	}

	return fmt.Sprintf("sample %s of group %s has no %s read files", w.SampleID, w.Group, strings.Join(dirs, " or "))
}

func (w *MissingSampleWarning) GroupName() string { return w.Group }
