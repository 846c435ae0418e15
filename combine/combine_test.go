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
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/pgzip"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/wtsi-ssg/fqgroup/catalog"
	"github.com/wtsi-ssg/fqgroup/config"
	"github.com/wtsi-ssg/fqgroup/fs"
	"github.com/wtsi-ssg/fqgroup/internal"
	"github.com/wtsi-ssg/fqgroup/plan"
)

const (
	readsA1 = "@a1\nACGT\n+\nIIII\n"
	readsA2 = "@a2\nTTGCA\n+\nIIIII\n"
	readsB1 = "@b1\nGG\n+\nII\n"
)

func TestConcatenateAndCompress(t *testing.T) {
	Convey("Given compressed and uncompressed read files", t, func() {
		dir := t.TempDir()
		sources := createSources(t, dir, map[string]string{
			"A1_forward.fastq.gz": readsA1,
			"A2_forward.fastq":    readsA2,
			"B1_forward.fq.gz":    readsB1,
		})

		expected := readsA1 + readsA2 + readsB1

		Convey("You can concatenate their decompressed content to an output", func() {
			var buf bytes.Buffer

			n, err := Concatenate(context.Background(), sources, &buf, "out")
			So(err, ShouldBeNil)
			So(n, ShouldEqual, len(expected))
			So(buf.String(), ShouldEqual, expected)
		})

		Convey("You can concatenate them to a compressed output", func() {
			outputPath := filepath.Join(dir, "out.gz")
			output, err := os.Create(outputPath)
			So(err, ShouldBeNil)

			compressor, err := Compress(output, DefaultOptions(1))
			So(err, ShouldBeNil)

			_, err = Concatenate(context.Background(), sources, compressor, outputPath)
			So(err, ShouldBeNil)
			So(compressor.Close(), ShouldBeNil)
			So(output.Close(), ShouldBeNil)

			b, err := os.ReadFile(outputPath)
			So(err, ShouldBeNil)
			So(string(b), ShouldNotEqual, expected)

			actual, err := fs.ReadCompressedFile(outputPath)
			So(err, ShouldBeNil)
			So(actual, ShouldEqual, expected)
		})

		Convey("Bad compression options are rejected", func() {
			_, err := Compress(&bytes.Buffer{}, Options{BlockSize: 10, Blocks: 1, Level: pgzip.DefaultCompression})
			So(err, ShouldNotBeNil)

			_, err = Compress(&bytes.Buffer{}, Options{BlockSize: bytesInMB, Blocks: 1, Level: 42})
			So(err, ShouldNotBeNil)
		})
	})

	Convey("DefaultOptions always allows at least 2 blocks", t, func() {
		So(DefaultOptions(0).Blocks, ShouldBeGreaterThanOrEqualTo, minBlocks)
		So(DefaultOptions(1000).Blocks, ShouldEqual, minBlocks)
		So(DefaultOptions(1).BlockSize, ShouldEqual, bytesInMB)
	})
}

func TestMerger(t *testing.T) {
	Convey("Given a plan with several sources", t, func() {
		inDir := t.TempDir()
		outDir := t.TempDir()

		sources := createSources(t, inDir, map[string]string{
			"A1_forward.fastq.gz": readsA1,
			"A2_forward.fastq.gz": readsA2,
			"B1_forward.fastq":    readsB1,
		})

		p := plan.Plan{Group: "control", OutputName: "control_forward.fastq.gz", Sources: sources}
		m := NewMerger(outDir, DefaultOptions(1))
		outputPath := filepath.Join(outDir, p.OutputName)

		Convey("Merge writes the concatenated reads compressed to the output", func() {
			r := m.Merge(context.Background(), p)
			So(r.Err, ShouldBeNil)
			So(r.Plan.OutputName, ShouldEqual, p.OutputName)
			So(r.BytesRead, ShouldEqual, len(readsA1+readsA2+readsB1))
			So(m.OutputPath(p), ShouldEqual, outputPath)

			fi, err := os.Stat(outputPath)
			So(err, ShouldBeNil)
			So(r.BytesWritten, ShouldEqual, fi.Size())

			actual, err := fs.ReadCompressedFile(outputPath)
			So(err, ShouldBeNil)
			So(actual, ShouldEqual, readsA1+readsA2+readsB1)

			assertNoPartials(outDir)

			Convey("and merging again gives byte identical output", func() {
				first, err := os.ReadFile(outputPath)
				So(err, ShouldBeNil)

				other := NewMerger(t.TempDir(), Options{BlockSize: bytesInMB, Blocks: 7, Level: pgzip.DefaultCompression})
				r := other.Merge(context.Background(), p)
				So(r.Err, ShouldBeNil)

				second, err := os.ReadFile(other.OutputPath(p))
				So(err, ShouldBeNil)
				So(bytes.Equal(first, second), ShouldBeTrue)
			})
		})

		Convey("A single source is recompressed, not copied", func() {
			single := filepath.Join(inDir, "S_forward.fastq.gz")
			f, err := os.Create(single)
			So(err, ShouldBeNil)

			zw := gzip.NewWriter(f)
			zw.Name = "original name"
			_, err = zw.Write([]byte(readsA1))
			So(err, ShouldBeNil)
			So(zw.Close(), ShouldBeNil)
			So(f.Close(), ShouldBeNil)

			files, err := catalog.Build([]string{"S_forward.fastq.gz"}, inDir, config.Default())
			So(err, ShouldBeNil)

			p1 := plan.Plan{Group: "s", OutputName: "s_forward.fastq.gz", Sources: files}
			r := m.Merge(context.Background(), p1)
			So(r.Err, ShouldBeNil)

			in, err := os.ReadFile(single)
			So(err, ShouldBeNil)
			out, err := os.ReadFile(m.OutputPath(p1))
			So(err, ShouldBeNil)
			So(bytes.Equal(in, out), ShouldBeFalse)

			actual, err := fs.ReadCompressedFile(m.OutputPath(p1))
			So(err, ShouldBeNil)
			So(actual, ShouldEqual, readsA1)
		})

		Convey("Empty compressed sources are treated as having no reads", func() {
			So(os.WriteFile(filepath.Join(inDir, "E_forward.fastq.gz"), nil, 0600), ShouldBeNil)

			files, err := catalog.Build([]string{"E_forward.fastq.gz"}, inDir, config.Default())
			So(err, ShouldBeNil)

			p.Sources = append(files, p.Sources...)
			r := m.Merge(context.Background(), p)
			So(r.Err, ShouldBeNil)

			actual, err := fs.ReadCompressedFile(outputPath)
			So(err, ShouldBeNil)
			So(actual, ShouldEqual, readsA1+readsA2+readsB1)
		})

		Convey("A source that fails to decompress fails the merge without leaving output", func() {
			corrupt := filepath.Join(inDir, "A2_forward.fastq.gz")
			So(os.WriteFile(corrupt, []byte("this is not gzip data"), 0600), ShouldBeNil)

			r := m.Merge(context.Background(), p)
			So(r.Err, ShouldNotBeNil)

			var cerr *CorruptInputError
			So(errors.As(r.Err, &cerr), ShouldBeTrue)
			So(cerr.Path, ShouldEqual, corrupt)
			So(Kind(r.Err), ShouldEqual, "corrupt input")

			_, err := os.Stat(outputPath)
			So(os.IsNotExist(err), ShouldBeTrue)
			assertNoPartials(outDir)
		})

		Convey("A truncated source fails the merge and leaves previous output alone", func() {
			So(os.WriteFile(outputPath, []byte("previous"), 0600), ShouldBeNil)

			truncated := filepath.Join(inDir, "A1_forward.fastq.gz")
			b, err := os.ReadFile(truncated)
			So(err, ShouldBeNil)
			So(os.WriteFile(truncated, b[:len(b)-6], 0600), ShouldBeNil)

			r := m.Merge(context.Background(), p)

			var cerr *CorruptInputError
			So(errors.As(r.Err, &cerr), ShouldBeTrue)
			So(cerr.Path, ShouldEqual, truncated)

			b, err = os.ReadFile(outputPath)
			So(err, ShouldBeNil)
			So(string(b), ShouldEqual, "previous")
			assertNoPartials(outDir)
		})

		Convey("A missing source is an IOError", func() {
			missing := filepath.Join(inDir, "B1_forward.fastq")
			So(os.Remove(missing), ShouldBeNil)

			r := m.Merge(context.Background(), p)

			var ioErr *IOError
			So(errors.As(r.Err, &ioErr), ShouldBeTrue)
			So(ioErr.Op, ShouldEqual, "open")
			So(ioErr.Path, ShouldEqual, missing)
			So(Kind(r.Err), ShouldEqual, "io error")
			assertNoPartials(outDir)
		})

		Convey("An output directory that doesn't exist is an IOError", func() {
			bad := NewMerger(filepath.Join(outDir, "missing"), DefaultOptions(1))
			r := bad.Merge(context.Background(), p)

			var ioErr *IOError
			So(errors.As(r.Err, &ioErr), ShouldBeTrue)
			So(ioErr.Op, ShouldEqual, "create")
			So(ioErr.Path, ShouldEqual, bad.OutputPath(p))
		})

		Convey("A cancelled merge is aborted without leaving output", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			r := m.Merge(ctx, p)
			So(errors.Is(r.Err, ErrAborted), ShouldBeTrue)
			So(errors.Is(r.Err, context.Canceled), ShouldBeTrue)
			So(Kind(r.Err), ShouldEqual, "aborted")

			_, err := os.Stat(outputPath)
			So(os.IsNotExist(err), ShouldBeTrue)
			assertNoPartials(outDir)
		})
	})

	Convey("Kind describes errors", t, func() {
		So(Kind(nil), ShouldEqual, "ok")
		So(Kind(errors.New("other")), ShouldEqual, "failed")
	})
}

// createSources writes the given files to dir, gzip compressing those with a
// .gz extension, and returns them as catalog Files in sample order.
func createSources(t *testing.T, dir string, contents map[string]string) catalog.Files {
	t.Helper()

	names := make([]string, 0, len(contents))

	for name, content := range contents {
		path := filepath.Join(dir, name)
		names = append(names, name)

		if !strings.HasSuffix(name, ".gz") {
			if err := os.WriteFile(path, []byte(content), 0600); err != nil {
				t.Fatal(err)
			}

			continue
		}

		internal.WriteGzip(t, path, content)
	}

	files, err := catalog.Build(names, dir, config.Default())
	if err != nil {
		t.Fatal(err)
	}

	return files.Select(catalog.Forward, nil)
}

func assertNoPartials(dir string) {
	entries, err := os.ReadDir(dir)
	So(err, ShouldBeNil)

	for _, e := range entries {
		So(fs.IsPartial(e.Name()), ShouldBeFalse)
	}
}
