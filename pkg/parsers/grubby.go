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
	"strconv"
	"strings"

	"github.com/RedHatInsights/insights-core-sub003/pkg/datasource"
	cerrors "github.com/RedHatInsights/insights-core-sub003/pkg/errors"
	"github.com/RedHatInsights/insights-core-sub003/pkg/parser"
	"github.com/RedHatInsights/insights-core-sub003/pkg/specs"
)

var (
	// GrubbyInfoAllParser parses "grubby --info=ALL".
	GrubbyInfoAllParser = parser.New("grubby_info_all", specs.GrubbyInfoAll, ParseGrubbyInfoAll)

	// GrubbyDefaultIndexParser parses "grubby --default-index".
	GrubbyDefaultIndexParser = parser.New("grubby_default_index", specs.GrubbyDefaultIndex, ParseGrubbyDefaultIndex)
)

// BootEntry is one boot loader entry.
type BootEntry struct {
	Index  int    `json:"index" yaml:"index"`
	Kernel string `json:"kernel" yaml:"kernel"`

	// Args is the raw argument string; it may reference grubenv variables
	// such as $kernelopts.
	Args   string `json:"args" yaml:"args"`
	Root   string `json:"root,omitempty" yaml:"root,omitempty"`
	Initrd string `json:"initrd,omitempty" yaml:"initrd,omitempty"`
	Title  string `json:"title,omitempty" yaml:"title,omitempty"`
	ID     string `json:"id,omitempty" yaml:"id,omitempty"`

	// Extra holds keys not listed above.
	Extra map[string]string `json:"extra,omitempty" yaml:"extra,omitempty"`
}

// ArgsVector returns the kernel arguments as individual words.
func (e BootEntry) ArgsVector() []string {
	return strings.Fields(e.Args)
}

// GrubbyInfoAll is the list of boot entries.
type GrubbyInfoAll struct {
	Entries []BootEntry `json:"entries" yaml:"entries"`
}

// ParseGrubbyInfoAll parses key=value blocks, each starting with index=N.
// Entries without a kernel ("non linux entry") are dropped.
func ParseGrubbyInfoAll(c *datasource.Content) (*GrubbyInfoAll, error) {
	if err := parser.Validate(c.Lines); err != nil {
		return nil, err
	}

	g := &GrubbyInfoAll{}
	var current *BootEntry
	flush := func() {
		if current != nil && current.Kernel != "" {
			g.Entries = append(g.Entries, *current)
		}
		current = nil
	}

	for _, line := range parser.CleanLines(c.Lines) {
		key, value, ok := parser.SplitKV(line, "=")
		if !ok {
			continue
		}
		value = strings.Trim(value, `"`)

		if key == "index" {
			flush()
			idx, err := strconv.Atoi(value)
			if err != nil {
				return nil, cerrors.ParseError("invalid boot entry index", line)
			}
			current = &BootEntry{Index: idx}
			continue
		}
		if current == nil {
			return nil, cerrors.ParseError("boot entry attribute before index", line)
		}

		switch key {
		case "kernel":
			current.Kernel = value
		case "args":
			current.Args = value
		case "root":
			current.Root = value
		case "initrd":
			current.Initrd = value
		case "title":
			current.Title = value
		case "id":
			current.ID = value
		default:
			if current.Extra == nil {
				current.Extra = make(map[string]string)
			}
			current.Extra[key] = value
		}
	}
	flush()

	if len(g.Entries) == 0 {
		return nil, cerrors.ParseError("no boot entries found", "")
	}
	return g, nil
}

// ByIndex returns the entry with the given index.
func (g *GrubbyInfoAll) ByIndex(i int) (BootEntry, bool) {
	for _, e := range g.Entries {
		if e.Index == i {
			return e, true
		}
	}
	return BootEntry{}, false
}

// ByID returns the entry with the given BLS id or title.
func (g *GrubbyInfoAll) ByID(id string) (BootEntry, bool) {
	for _, e := range g.Entries {
		if e.ID == id || e.Title == id {
			return e, true
		}
	}
	return BootEntry{}, false
}

// ParseGrubbyDefaultIndex parses the single default index line.
func ParseGrubbyDefaultIndex(c *datasource.Content) (int, error) {
	if err := parser.Validate(c.Lines); err != nil {
		return 0, err
	}
	lines := parser.CleanLines(c.Lines, parser.WithSkipComments(false))
	if len(lines) != 1 {
		return 0, cerrors.ParseError("expected a single index", strings.Join(lines, " "))
	}
	idx, err := strconv.Atoi(lines[0])
	if err != nil || idx < 0 {
		return 0, cerrors.ParseError("invalid default index", lines[0])
	}
	return idx, nil
}
