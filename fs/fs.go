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

// package fs has the file system helpers used to find read files and write
// merged output.

package fs

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/karrick/godirwalk"
	"github.com/klauspost/pgzip"
	"github.com/rs/xid"
	"golang.org/x/exp/slices"
)

type Error string

func (e Error) Error() string { return string(e) }

const ErrNotDir = Error("not a directory")

const (
	DirPerms      = 0755
	partialSuffix = ".partial"
	scratchSize   = 64 * 1024
)

// ListFiles returns the sorted basenames of the regular files (and symlinks)
// directly inside dir. Sub-directories and hidden files are not returned.
func ListFiles(dir string) ([]string, error) {
	fi, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}

	if !fi.IsDir() {
		return nil, &os.PathError{Op: "list", Path: dir, Err: ErrNotDir}
	}

	dirents, err := godirwalk.ReadDirents(dir, make([]byte, scratchSize))
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(dirents))

	for _, de := range dirents {
		if strings.HasPrefix(de.Name(), ".") || !(de.IsRegular() || de.IsSymlink()) {
			continue
		}

		names = append(names, de.Name())
	}

	slices.Sort(names)

	return names, nil
}

// EnsureDir creates dir and any missing parents.
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, DirPerms)
}

// PartialPath returns a unique hidden path in the same directory as path, to
// write to before renaming over path.
func PartialPath(path string) string {
	dir, base := filepath.Split(path)

	return filepath.Join(dir, "."+base+"."+xid.New().String()+partialSuffix)
}

// IsPartial tells you if the basename was made by PartialPath.
func IsPartial(name string) bool {
	return strings.HasPrefix(name, ".") && strings.HasSuffix(name, partialSuffix)
}

// ReadCompressedFile returns the decompressed content of a gzip file.
func ReadCompressedFile(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", err
	}

	defer file.Close()

	reader, err := pgzip.NewReader(file)
	if err != nil {
		return "", err
	}

	defer reader.Close()

	b, err := io.ReadAll(reader)

	return string(b), err
}
