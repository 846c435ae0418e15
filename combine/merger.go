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
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/wtsi-ssg/fqgroup/catalog"
	"github.com/wtsi-ssg/fqgroup/fs"
	"github.com/wtsi-ssg/fqgroup/plan"
)

const outputPerms = 0644

// Result is the outcome of merging one Plan. BytesRead is the decompressed
// size of the merged reads, BytesWritten the compressed size of the output.
type Result struct {
	Plan         plan.Plan
	BytesRead    int64
	BytesWritten int64
	Duration     time.Duration
	Err          error
}

// Merger merges plans into compressed files in an output directory.
type Merger struct {
	outDir string
	opts   Options
}

// NewMerger returns a Merger that writes to outDir, which must exist.
func NewMerger(outDir string, opts Options) *Merger {
	return &Merger{
		outDir: outDir,
		opts:   opts,
	}
}

// OutputPath returns where the output of the given plan will be written.
func (m *Merger) OutputPath(p plan.Plan) string {
	return filepath.Join(m.outDir, p.OutputName)
}

// Merge decompresses each of the plan's sources in order, and writes their
// concatenated content compressed to the plan's output file. Output goes to a
// partial file that is only renamed to the final name once complete; on any
// failure, or if ctx is cancelled, the partial file is deleted and any
// previous output of the same name is left alone.
func (m *Merger) Merge(ctx context.Context, p plan.Plan) Result {
	start := time.Now()
	final := m.OutputPath(p)
	partial := fs.PartialPath(final)

	r := Result{Plan: p}

	r.BytesRead, r.BytesWritten, r.Err = m.mergeTo(ctx, p.Sources, partial, final)
	if r.Err == nil {
		r.Err = rename(partial, final)
	}

	if r.Err != nil {
		if errr := removePartial(partial); errr != nil {
			r.Err = multierror.Append(r.Err, errr)
		}
	}

	r.Duration = time.Since(start)

	return r
}

// mergeTo creates the partial file and writes the compressed concatenation of
// the sources to it.
func (m *Merger) mergeTo(ctx context.Context, sources catalog.Files, partial,
	final string) (read int64, written int64, err error) {
	file, err := os.OpenFile(partial, os.O_WRONLY|os.O_CREATE|os.O_EXCL, outputPerms)
	if err != nil {
		return 0, 0, &IOError{Op: "create", Path: final, Err: err}
	}

	out := &trackingWriter{w: file}

	defer func() {
		if errc := file.Close(); errc != nil && err == nil {
			err = &IOError{Op: "close", Path: final, Err: errc}
		}
	}()

	zw, err := Compress(out, m.opts)
	if err != nil {
		return 0, 0, fmt.Errorf("bad compression options: %w", err)
	}

	read, err = Concatenate(ctx, sources, zw, final)
	if err != nil {
		zw.Close()

		return read, out.n, err
	}

	if err = zw.Close(); err != nil {
		return read, out.n, &IOError{Op: "write", Path: final, Err: err}
	}

	return read, out.n, nil
}

func rename(partial, final string) error {
	if err := os.Rename(partial, final); err != nil {
		return &IOError{Op: "rename", Path: final, Err: err}
	}

	return nil
}

func removePartial(partial string) error {
	if err := os.Remove(partial); err != nil && !os.IsNotExist(err) {
		return err
	}

	return nil
}
