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

// package combine merges read files: each source is decompressed in turn and
// the concatenated reads are compressed into a single output file.

package combine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/klauspost/pgzip"
	"github.com/wtsi-ssg/fqgroup/catalog"
)

const bytesInMB = 1000000
const pgzipWriterBlocksMultiplier = 2
const minBlocks = 2

// Options control the compression of merged output. Output is byte for byte
// reproducible for a given BlockSize and Level; Blocks only affects how much
// is compressed in parallel.
type Options struct {
	BlockSize int
	Blocks    int
	Level     int
}

// DefaultOptions returns Options that share the available processors between
// the given number of concurrent merges.
func DefaultOptions(workers int) Options {
	if workers < 1 {
		workers = 1
	}

	return Options{
		BlockSize: bytesInMB,
		Blocks:    max(minBlocks, runtime.GOMAXPROCS(0)*pgzipWriterBlocksMultiplier/workers),
		Level:     pgzip.DefaultCompression,
	}
}

// Compress wraps the given output to compress data written to it. Close the
// returned writer to flush the gzip trailer; that doesn't close output.
func Compress(output io.Writer, opts Options) (*pgzip.Writer, error) {
	compressedOutput, err := pgzip.NewWriterLevel(output, opts.Level)
	if err != nil {
		return nil, err
	}

	if err = compressedOutput.SetConcurrency(opts.BlockSize, opts.Blocks); err != nil {
		return nil, err
	}

	return compressedOutput, nil
}

// Concatenate copies the content of each source in order to output,
// decompressing the compressed ones, and returns the number of bytes copied.
// Only one source is open at a time, and it's closed as soon as it has been
// copied. outputName is used to describe write failures.
func Concatenate(ctx context.Context, sources catalog.Files, output io.Writer, outputName string) (int64, error) {
	buf := make([]byte, bytesInMB)
	out := &trackingWriter{w: output}

	var total int64

	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return total, fmt.Errorf("%w: %w", ErrAborted, err)
		}

		n, err := copySource(ctx, src, out, buf)
		total += n

		if err != nil {
			return total, classify(ctx, src, out, outputName, err)
		}
	}

	return total, nil
}

// copySource copies one source to out, closing it before returning.
func copySource(ctx context.Context, src catalog.File, out io.Writer, buf []byte) (int64, error) {
	file, err := os.Open(src.Path)
	if err != nil {
		return 0, &IOError{Op: "open", Path: src.Path, Err: err}
	}

	defer file.Close()

	in := &trackingReader{r: file}

	var reader io.Reader = in

	if src.Compressed {
		zr, err := pgzip.NewReader(in)
		if errors.Is(err, io.EOF) && in.n == 0 {
			return 0, nil
		} else if err != nil {
			return 0, sourceError(src, in, err)
		}

		defer zr.Close()

		reader = zr
	}

	n, err := io.CopyBuffer(out, &ctxReader{ctx: ctx, r: reader}, buf)
	if err != nil {
		return n, sourceError(src, in, err)
	}

	return n, nil
}

// sourceError works out if an error while reading src was from the file
// itself, or from decompressing its content.
func sourceError(src catalog.File, in *trackingReader, err error) error {
	if in.err != nil {
		return &IOError{Op: "read", Path: src.Path, Err: in.err}
	}

	return &CorruptInputError{Path: src.Path, Err: err}
}

// classify turns err, from copying src, into the error reported for the merge.
// Write failures and cancellation take precedence over whatever the read side
// then saw.
func classify(ctx context.Context, src catalog.File, out *trackingWriter, outputName string, err error) error {
	var ioErr *IOError

	switch {
	case out.err != nil:
		return &IOError{Op: "write", Path: outputName, Err: out.err}
	case ctx.Err() != nil:
		return fmt.Errorf("%w: %w", ErrAborted, ctx.Err())
	case errors.As(err, &ioErr):
		return ioErr
	}

	var corrupt *CorruptInputError
	if errors.As(err, &corrupt) {
		return corrupt
	}

	return &CorruptInputError{Path: src.Path, Err: err}
}

// trackingReader counts bytes read and remembers the first read failure.
type trackingReader struct {
	r   io.Reader
	n   int64
	err error
}

func (t *trackingReader) Read(p []byte) (int, error) {
	n, err := t.r.Read(p)
	t.n += int64(n)

	if err != nil && !errors.Is(err, io.EOF) && t.err == nil {
		t.err = err
	}

	return n, err
}

// trackingWriter counts bytes written and remembers the first write failure.
type trackingWriter struct {
	w   io.Writer
	n   int64
	err error
}

func (t *trackingWriter) Write(p []byte) (int, error) {
	n, err := t.w.Write(p)
	t.n += int64(n)

	if err != nil && t.err == nil {
		t.err = err
	}

	return n, err
}

// ctxReader stops reading once its context is done.
type ctxReader struct {
	ctx context.Context //nolint:containedctx
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}

	return c.r.Read(p)
}
