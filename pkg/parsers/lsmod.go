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
	"sort"
	"strconv"
	"strings"

	"github.com/RedHatInsights/insights-core-sub003/pkg/datasource"
	cerrors "github.com/RedHatInsights/insights-core-sub003/pkg/errors"
	"github.com/RedHatInsights/insights-core-sub003/pkg/parser"
	"github.com/RedHatInsights/insights-core-sub003/pkg/specs"
)

// LsModParser parses lsmod output.
var LsModParser = parser.New("lsmod", specs.LsMod, ParseLsMod)

// Module is one loaded kernel module.
type Module struct {
	Size   int      `json:"size" yaml:"size"`
	UsedBy []string `json:"used_by" yaml:"used_by"`

	// Depends is the reference count; it can exceed len(UsedBy).
	Depends int `json:"depends" yaml:"depends"`
}

// LsMod maps module names to their details.
type LsMod map[string]Module

// ParseLsMod parses the "Module Size Used by" table.
func ParseLsMod(c *datasource.Content) (LsMod, error) {
	if err := parser.Validate(c.Lines); err != nil {
		return nil, err
	}
	lines := parser.CleanLines(c.Lines, parser.WithSkipComments(false))
	if !strings.HasPrefix(lines[0], "Module") {
		return nil, cerrors.ParseError("missing lsmod header", lines[0])
	}

	mods := make(LsMod)
	for _, line := range lines[1:] {
		fields := strings.Fields(line)
		if len(fields) < 3 {
			return nil, cerrors.ParseError("lsmod line has fewer than three fields", line)
		}
		size, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, cerrors.ParseError("invalid module size", line)
		}
		refs, err := strconv.Atoi(fields[2])
		if err != nil {
			return nil, cerrors.ParseError("invalid reference count", line)
		}

		m := Module{Size: size, Depends: refs, UsedBy: []string{}}
		if len(fields) > 3 {
			for _, u := range strings.Split(fields[3], ",") {
				if u != "" {
					m.UsedBy = append(m.UsedBy, u)
				}
			}
		}
		mods[fields[0]] = m
	}
	return mods, nil
}

// Has reports whether the module is loaded.
func (l LsMod) Has(name string) bool {
	_, ok := l[name]
	return ok
}

// Names returns the loaded module names, sorted.
func (l LsMod) Names() []string {
	names := make([]string, 0, len(l))
	for n := range l {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
