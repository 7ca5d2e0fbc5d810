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

package parsers

import (
	"strings"

	"github.com/RedHatInsights/insights-core-sub003/pkg/datasource"
	cerrors "github.com/RedHatInsights/insights-core-sub003/pkg/errors"
	"github.com/RedHatInsights/insights-core-sub003/pkg/parser"
	"github.com/RedHatInsights/insights-core-sub003/pkg/specs"
)

// LsAttrParser parses "lsattr -d" output.
var LsAttrParser = parser.New("lsattr", specs.LsAttr, ParseLsAttr)

// LsAttrEntry is the attribute set of one path.
type LsAttrEntry struct {
	Flags      string   `json:"flags" yaml:"flags"`
	Attributes []string `json:"attributes" yaml:"attributes"`
}

// LsAttr maps paths to their attributes.
type LsAttr struct {
	Paths map[string]LsAttrEntry `json:"paths" yaml:"paths"`

	// Errors holds the lsattr error lines for paths it could not stat.
	Errors []string `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// ParseLsAttr parses "<flags> <path>" lines.
func ParseLsAttr(c *datasource.Content) (*LsAttr, error) {
	if err := parser.SkipEmpty(c.Lines); err != nil {
		return nil, err
	}

	a := &LsAttr{Paths: make(map[string]LsAttrEntry)}
	for _, line := range parser.CleanLines(c.Lines, parser.WithSkipComments(false)) {
		if strings.HasPrefix(line, "lsattr:") {
			a.Errors = append(a.Errors, line)
			continue
		}
		fields := parser.SplitFieldsN(line, 2)
		if len(fields) != 2 {
			return nil, cerrors.ParseError("expected flags and path", line)
		}

		entry := LsAttrEntry{Flags: fields[0], Attributes: []string{}}
		for _, r := range fields[0] {
			if r != '-' {
				entry.Attributes = append(entry.Attributes, string(r))
			}
		}
		a.Paths[fields[1]] = entry
	}

	if len(a.Paths) == 0 {
		return nil, cerrors.Skip("no paths could be inspected")
	}
	return a, nil
}

// HasAttribute reports whether path carries the attribute letter.
func (a *LsAttr) HasAttribute(path, attr string) bool {
	e, ok := a.Paths[path]
	return ok && strings.Contains(e.Flags, attr)
}

// Immutable reports whether path has the immutable (i) attribute.
func (a *LsAttr) Immutable(path string) bool {
	return a.HasAttribute(path, "i")
}
