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

package datasource

import (
	"log/slog"
	"strings"
	"unicode/utf8"
)

// Content is one captured artifact.
type Content struct {
	// Spec is the name of the spec that produced the content.
	Spec string `json:"spec" yaml:"spec"`

	// Path is the file path, command line or URL the content came from.
	Path string `json:"path" yaml:"path"`

	// Lines is the content split on newlines, without line terminators.
	Lines []string `json:"-" yaml:"-"`
}

// NewContent builds content from raw text.
func NewContent(spec, path, text string) *Content {
	return &Content{
		Spec:  spec,
		Path:  path,
		Lines: SplitLines([]byte(text)),
	}
}

// Text returns the lines joined with newlines.
func (c *Content) Text() string {
	return strings.Join(c.Lines, "\n")
}

// Empty reports whether every line is blank.
func (c *Content) Empty() bool {
	for _, l := range c.Lines {
		if strings.TrimSpace(l) != "" {
			return false
		}
	}
	return true
}

// SplitLines splits raw bytes into lines. A trailing newline does not
// produce an empty last line and carriage returns are dropped. Invalid UTF-8
// is replaced rather than rejected.
func SplitLines(b []byte) []string {
	if len(b) == 0 {
		return nil
	}

	s := string(b)
	if !utf8.ValidString(s) {
		slog.Debug("content is not valid UTF-8, replacing invalid sequences")
		s = strings.ToValidUTF8(s, "�")
	}

	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return []string{}
	}
	return strings.Split(s, "\n")
}
