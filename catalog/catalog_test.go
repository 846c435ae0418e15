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

package catalog

import (
	"errors"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/wtsi-ssg/fqgroup/config"
)

func TestBuild(t *testing.T) {
	cfg := config.Default()

	Convey("Given a directory listing of read files and other files", t, func() {
		names := []string{
			"A1_forward.fastq.gz",
			"A1_reverse.fastq.gz",
			"A2_forward.fq",
			"A2_reverse.fq.gz",
			"README.md",
			"B1_forward.fastq.gz.md5",
			"_forward.fastq.gz",
			"B.1_forward",
		}

		Convey("Build classifies the read files by sample and direction", func() {
			files, err := Build(names, "/in", cfg)
			So(err, ShouldBeNil)
			So(len(files), ShouldEqual, 5)

			So(files[0], ShouldResemble, File{
				Path:       filepath.Join("/in", "A1_forward.fastq.gz"),
				Name:       "A1_forward.fastq.gz",
				SampleID:   "A1",
				Direction:  Forward,
				Compressed: true,
				Order:      0,
			})
			So(files[1].Direction, ShouldEqual, Reverse)
			So(files[2].SampleID, ShouldEqual, "A2")
			So(files[2].Compressed, ShouldBeFalse)
			So(files[3].Compressed, ShouldBeTrue)
			So(files[4].SampleID, ShouldEqual, "B.1")
			So(files[4].Order, ShouldEqual, 4)

			So(files.Directions(), ShouldResemble, []Direction{Forward, Reverse})
			So(files.SampleIDs(), ShouldResemble, []string{"A1", "A2", "B.1"})
			So(files.HasSample("B.1", Forward), ShouldBeTrue)
			So(files.HasSample("B.1", Reverse), ShouldBeFalse)
		})

		Convey("Suffixes can include the extension", func() {
			c := cfg
			c.ForwardSuffix = "_R1.fastq.gz"
			c.ReverseSuffix = "_R2.fastq.gz"

			files, err := Build([]string{"S_R1.fastq.gz", "S_R2.fastq.gz", "A1_forward.fastq.gz"}, "/in", c)
			So(err, ShouldBeNil)
			So(len(files), ShouldEqual, 2)
			So(files[0].SampleID, ShouldEqual, "S")
			So(files[1].SampleID, ShouldEqual, "S")
			So(files[1].Direction, ShouldEqual, Reverse)
		})

		Convey("A name matching both suffixes is always an error", func() {
			c := cfg
			c.ForwardSuffix = "_1"
			c.ReverseSuffix = "_R_1"

			_, err := Build(append(names, "X_R_1.fastq.gz", "Y_R_1.fq"), "/in", c)
			So(err, ShouldNotBeNil)

			var aerr *AmbiguousSuffixError
			So(errors.As(err, &aerr), ShouldBeTrue)
			So(aerr.Name, ShouldEqual, "X_R_1.fastq.gz")
		})

		Convey("Files only of one direction give one direction", func() {
			files, err := Build([]string{"A1_reverse.fastq.gz"}, "/in", cfg)
			So(err, ShouldBeNil)
			So(files.Directions(), ShouldResemble, []Direction{Reverse})
		})
	})

	Convey("Directions know their name and suffix", t, func() {
		So(Forward.String(), ShouldEqual, "forward")
		So(Reverse.String(), ShouldEqual, "reverse")
		So(Forward.Suffix(cfg), ShouldEqual, "_forward")
		So(Reverse.Suffix(cfg), ShouldEqual, "_reverse")
	})
}

func TestSelect(t *testing.T) {
	Convey("Given files discovered out of sample order", t, func() {
		files, err := Build([]string{
			"B_forward.fastq.gz",
			"A_forward.fastq",
			"C_reverse.fastq.gz",
			"A_forward.fastq.gz",
			"C_forward.fastq.gz",
		}, "/in", config.Default())
		So(err, ShouldBeNil)

		Convey("Select sorts on sample id, then discovery order", func() {
			selected := files.Select(Forward, nil)
			So(names(selected), ShouldResemble, []string{
				"A_forward.fastq", "A_forward.fastq.gz", "B_forward.fastq.gz", "C_forward.fastq.gz",
			})
		})

		Convey("Select filters on sample id and direction", func() {
			want := func(s string) bool { return s == "C" || s == "B" }

			So(names(files.Select(Forward, want)), ShouldResemble, []string{"B_forward.fastq.gz", "C_forward.fastq.gz"})
			So(names(files.Select(Reverse, want)), ShouldResemble, []string{"C_reverse.fastq.gz"})
			So(files.Select(Reverse, func(string) bool { return false }), ShouldBeEmpty)
		})
	})
}

func names(files Files) []string {
	n := make([]string, len(files))

	for i, f := range files {
		n[i] = f.Name
	}

	return n
}
