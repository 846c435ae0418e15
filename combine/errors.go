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

package combine

import (
	"errors"
	"fmt"
)

const ErrAborted = Error("merge aborted")

type Error string

func (e Error) Error() string { return string(e) }

// CorruptInputError is returned when a source file could not be decompressed.
type CorruptInputError struct {
	Path string
	Err  error
}

func (e *CorruptInputError) Error() string {
	return fmt.Sprintf("corrupt input %s: %s", e.Path, e.Err)
}

func (e *CorruptInputError) Unwrap() error { return e.Err }

// IOError is returned when a source couldn't be read, or the output couldn't
// be written.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// Kind returns a short description of the type of merge failure err is, for
// use in summaries.
func Kind(err error) string {
	var (
		corrupt *CorruptInputError
		ioErr   *IOError
	)

	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &corrupt):
		return "corrupt input"
	case errors.As(err, &ioErr):
		return "io error"
	case errors.Is(err, ErrAborted):
		return "aborted"
	}

	return "failed"
}
