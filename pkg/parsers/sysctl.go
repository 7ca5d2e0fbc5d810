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

// SysctlParser parses "sysctl -a".
var SysctlParser = parser.New("sysctl", specs.Sysctl, ParseSysctl)

// Sysctl maps kernel parameter names to values.
type Sysctl map[string]string

// ParseSysctl parses "name = value" lines. Lines reported by sysctl itself
// (permission errors on individual keys) are ignored.
func ParseSysctl(c *datasource.Content) (Sysctl, error) {
	if err := parser.SkipEmpty(c.Lines); err != nil {
		return nil, err
	}

	lines := make([]string, 0, len(c.Lines))
	for _, l := range c.Lines {
		if strings.HasPrefix(strings.TrimSpace(l), "sysctl:") {
			continue
		}
		lines = append(lines, l)
	}

	s := Sysctl(parser.ParseKeyValue(lines))
	if len(s) == 0 {
		return nil, cerrors.ParseError("no kernel parameters found", "")
	}
	return s, nil
}

// Get returns the value of a parameter. Names may use '/' or '.' separators.
func (s Sysctl) Get(name string) (string, bool) {
	v, ok := s[strings.ReplaceAll(strings.TrimPrefix(name, "/proc/sys/"), "/", ".")]
	return v, ok
}
