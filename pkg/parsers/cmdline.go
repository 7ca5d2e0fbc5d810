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

// CmdlineParser parses /proc/cmdline.
var CmdlineParser = parser.New("cmdline", specs.Cmdline, ParseCmdline)

// Cmdline is the kernel boot command line.
type Cmdline struct {
	Raw string `json:"raw" yaml:"raw"`

	// Params maps each parameter to every value it was given, in order.
	// Flags without a value map to a single empty string.
	Params map[string][]string `json:"params" yaml:"params"`
}

// ParseCmdline parses the kernel command line.
func ParseCmdline(c *datasource.Content) (*Cmdline, error) {
	lines := parser.CleanLines(c.Lines, parser.WithSkipComments(false))
	if len(lines) == 0 {
		return nil, cerrors.Skipf("%s is empty", c.Path)
	}

	raw := lines[0]
	return &Cmdline{Raw: raw, Params: ParseBootArgs(raw)}, nil
}

// ParseBootArgs splits a kernel argument string into parameters.
func ParseBootArgs(args string) map[string][]string {
	params := make(map[string][]string)
	for _, f := range strings.Fields(args) {
		k, v, _ := strings.Cut(f, "=")
		params[k] = append(params[k], strings.Trim(v, `"`))
	}
	return params
}

// Has reports whether key was given.
func (c *Cmdline) Has(key string) bool {
	_, ok := c.Params[key]
	return ok
}

// Get returns the last value of key; the kernel honours the last occurrence.
func (c *Cmdline) Get(key string) (string, bool) {
	v := c.Params[key]
	if len(v) == 0 {
		return "", false
	}
	return v[len(v)-1], true
}
