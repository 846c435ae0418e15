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

// package internal provides some test-related functions needed by multiple
// other packages.

package internal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/pgzip"
)

const DirPerms = 0755

// ExampleMetadata is a metadata table where one sample is in two groups, and
// one group shares its name with a sample.
const ExampleMetadata = `sample_id,group
A1,control
A2,control
B1,control
B2,treatment
A1,Test_Test
B2,B2
`

// ExampleSamples are the samples named in ExampleMetadata, sorted.
var ExampleSamples = []string{"A1", "A2", "B1", "B2"} //nolint:gochecknoglobals

// Reads returns a single fastq record identifying the sample and direction it
// came from.
func Reads(sample, direction string) string {
	return "@" + sample + "/" + direction + "\nACGTN\n+\nIIIII\n"
}

// WriteGzip writes content to a new gzip compressed file at path.
func WriteGzip(t *testing.T, path, content string) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}

	zw := pgzip.NewWriter(f)

	if _, err = zw.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}

	if err = zw.Close(); err != nil {
		t.Fatal(err)
	}

	if err = f.Close(); err != nil {
		t.Fatal(err)
	}
}

// CreateExampleReadDir creates a temporary directory containing a compressed
// forward and reverse file of Reads() for each of the ExampleSamples, named
// with the given suffixes, and returns its path.
func CreateExampleReadDir(t *testing.T, forwardSuffix, reverseSuffix string) string {
	t.Helper()

	dir := filepath.Join(t.TempDir(), "reads")
	if err := os.MkdirAll(dir, DirPerms); err != nil {
		t.Fatal(err)
	}

	for _, s := range ExampleSamples {
		WriteGzip(t, filepath.Join(dir, s+forwardSuffix+".fastq.gz"), Reads(s, "forward"))
		WriteGzip(t, filepath.Join(dir, s+reverseSuffix+".fastq.gz"), Reads(s, "reverse"))
	}

	return dir
}
