// Copyright (c) 2025, Red Hat, Inc. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package parser

import (
	"log/slog"
	"strings"

	cerrors "github.com/RedHatInsights/insights-core-sub003/pkg/errors"
)

// Option configures key/value parsing.
type Option func(*kvParser)

type kvParser struct {
	skipComments    bool
	commentChars    string
	kvDelimiter     string
	vDefault        string
	vTrimChars      string
	skipEmptyValues bool
}

// WithSkipComments controls whether comment lines are dropped.
func WithSkipComments(skip bool) Option {
	return func(p *kvParser) {
		p.skipComments = skip
	}
}

// WithCommentChars sets the characters that start a comment line.
func WithCommentChars(chars string) Option {
	return func(p *kvParser) {
		p.commentChars = chars
	}
}

// WithKVDelimiter sets the key/value separator.
func WithKVDelimiter(kvDelim string) Option {
	return func(p *kvParser) {
		p.kvDelimiter = kvDelim
	}
}

// WithVDefault sets the value of keys that have no separator.
func WithVDefault(vDefault string) Option {
	return func(p *kvParser) {
		p.vDefault = vDefault
	}
}

// WithVTrimChars sets characters trimmed from both ends of values.
func WithVTrimChars(trimChars string) Option {
	return func(p *kvParser) {
		p.vTrimChars = trimChars
	}
}

// WithSkipEmptyValues drops keys whose value is empty.
func WithSkipEmptyValues(skip bool) Option {
	return func(p *kvParser) {
		p.skipEmptyValues = skip
	}
}

func newKVParser(opts []Option) *kvParser {
	p := &kvParser{
		skipComments: true,
		commentChars: "#",
		kvDelimiter:  "=",
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// CleanLines trims lines and drops blanks and comment lines.
func CleanLines(lines []string, opts ...Option) []string {
	p := newKVParser(opts)

	result := make([]string, 0, len(lines))
	for _, line := range lines {
		clean := strings.TrimSpace(line)
		if clean == "" {
			continue
		}
		if p.skipComments && p.commentChars != "" && strings.ContainsRune(p.commentChars, rune(clean[0])) {
			continue
		}
		result = append(result, clean)
	}
	return result
}

// SplitKV splits line on the first delim and trims both sides.
func SplitKV(line, delim string) (key, value string, ok bool) {
	k, v, ok := strings.Cut(line, delim)
	return strings.TrimSpace(k), strings.TrimSpace(v), ok
}

// ParseKeyValue builds a map from key/value lines. Later keys win.
func ParseKeyValue(lines []string, opts ...Option) map[string]string {
	p := newKVParser(opts)

	result := make(map[string]string)
	for _, line := range CleanLines(lines, opts...) {
		key, value, ok := SplitKV(line, p.kvDelimiter)
		if key == "" {
			continue
		}

		if !ok {
			if p.skipEmptyValues && p.vDefault == "" {
				slog.Debug("skipping entry with key-only and empty default", slog.String("key", key))
				continue
			}
			result[key] = p.vDefault
			continue
		}

		if p.vTrimChars != "" {
			value = strings.Trim(value, p.vTrimChars)
		}

		if p.skipEmptyValues && value == "" {
			continue
		}

		result[key] = value
	}
	return result
}

// ParseTable parses a header row followed by whitespace separated rows.
// The last column takes the remainder of each row so it may contain spaces.
// Rows with fewer columns than the header are a parse error.
func ParseTable(lines []string) ([]map[string]string, error) {
	lines = CleanLines(lines, WithSkipComments(false))
	if len(lines) == 0 {
		return nil, cerrors.Skip("empty table")
	}

	header := strings.Fields(lines[0])
	rows := make([]map[string]string, 0, len(lines)-1)
	for _, line := range lines[1:] {
		fields := SplitFieldsN(line, len(header))
		if len(fields) < len(header) {
			return nil, cerrors.ParseError("row has fewer columns than the header", line)
		}
		row := make(map[string]string, len(header))
		for i, h := range header {
			row[h] = fields[i]
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// SplitFieldsN splits s on runs of whitespace into at most n fields; the
// last field holds the remainder with its inner spacing intact.
func SplitFieldsN(s string, n int) []string {
	s = strings.TrimSpace(s)
	if n <= 0 {
		return nil
	}

	var out []string
	for len(out) < n-1 && s != "" {
		i := strings.IndexAny(s, " \t")
		if i < 0 {
			break
		}
		out = append(out, s[:i])
		s = strings.TrimLeft(s[i:], " \t")
	}
	if s != "" {
		out = append(out, s)
	}
	return out
}

var commandErrorMarkers = []string{
	"command not found",
	"no such file or directory",
	"not a directory",
	"permission denied",
	"unrecognized option",
	"invalid option",
}

// CommandErrors reports a content error when the first lines of output are
// an error message from the collecting shell or tool rather than data.
func CommandErrors(lines []string) error {
	for i, line := range lines {
		if i > 2 {
			break
		}
		lower := strings.ToLower(line)
		for _, m := range commandErrorMarkers {
			if strings.Contains(lower, m) {
				return cerrors.NewWithContext(cerrors.ErrCodeContent, "command output is an error message", map[string]any{
					"line": line,
				})
			}
		}
	}
	return nil
}

// SkipEmpty returns a skip when every line is blank.
func SkipEmpty(lines []string) error {
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			return nil
		}
	}
	return cerrors.Skip("empty content")
}

// Validate runs SkipEmpty and CommandErrors.
func Validate(lines []string) error {
	if err := SkipEmpty(lines); err != nil {
		return err
	}
	return CommandErrors(lines)
}
