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

// package config holds the settings that control how read files are
// discovered, grouped and merged.

package config

import (
	"fmt"
	"runtime"
	"strings"
	"unicode/utf8"
)

type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrEmptySuffix     = Error("forward and reverse suffixes must not be empty")
	ErrSameSuffix      = Error("forward and reverse suffixes must differ")
	ErrNoGroupColumn   = Error("group column name must not be empty")
	ErrBadSeparator    = Error("field separator must be a single character")
	ErrBadWorkers      = Error("worker count must be at least 1")
	ErrBadFallbackName = Error("fallback name must not be empty or contain a path separator")
)

const (
	// SampleColumn is the fixed name of the metadata column holding sample
	// identifiers.
	SampleColumn = "sample_id"

	DefaultGroupColumn     = "group"
	DefaultSeparator       = ','
	DefaultForwardSuffix   = "_forward"
	DefaultReverseSuffix   = "_reverse"
	DefaultFallbackName    = "merged"
	DefaultOutputExtension = ".fastq.gz"
)

// Config is the configuration consumed by the grouping and merging
// components. Pass it by value; nothing modifies it after Validate().
type Config struct {
	ForwardSuffix   string
	ReverseSuffix   string
	GroupColumn     string
	Separator       rune
	FallbackName    string
	OutputExtension string
	OutputDir       string
	Workers         int
}

// Default returns a Config with the same defaults as the command line.
func Default() Config {
	return Config{
		ForwardSuffix:   DefaultForwardSuffix,
		ReverseSuffix:   DefaultReverseSuffix,
		GroupColumn:     DefaultGroupColumn,
		Separator:       DefaultSeparator,
		FallbackName:    DefaultFallbackName,
		OutputExtension: DefaultOutputExtension,
		Workers:         runtime.NumCPU(),
	}
}

// Validate returns an error if the Config could not be used for a run.
func (c Config) Validate() error {
	switch {
	case c.ForwardSuffix == "" || c.ReverseSuffix == "":
		return ErrEmptySuffix
	case c.ForwardSuffix == c.ReverseSuffix:
		return ErrSameSuffix
	case c.GroupColumn == "":
		return ErrNoGroupColumn
	case c.Separator == 0 || c.Separator == '\n' || c.Separator == '\r' ||
		c.Separator == '"' || c.Separator == utf8.RuneError:
		return ErrBadSeparator
	case c.Workers < 1:
		return ErrBadWorkers
	case c.FallbackName == "" || strings.ContainsRune(c.FallbackName, '/'):
		return ErrBadFallbackName
	}

	return nil
}

// ParseSeparator converts a user supplied separator into the rune to split
// metadata columns on. Besides a single character it understands `\t` and the
// names tab, comma, semicolon and space.
func ParseSeparator(s string) (rune, error) {
	switch strings.ToLower(s) {
	case `\t`, "tab":
		return '\t', nil
	case "comma":
		return ',', nil
	case "semicolon":
		return ';', nil
	case "space":
		return ' ', nil
	}

	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || size != len(s) {
		return 0, fmt.Errorf("%w: %q", ErrBadSeparator, s)
	}

	return r, nil
}
