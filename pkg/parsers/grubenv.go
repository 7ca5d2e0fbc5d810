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

// GrubEnvParser parses "grub2-editenv list".
var GrubEnvParser = parser.New("grubenv", specs.GrubEnv, ParseGrubEnv)

// GrubEnv is the GRUB environment block.
type GrubEnv map[string]string

// ParseGrubEnv parses name=value lines.
func ParseGrubEnv(c *datasource.Content) (GrubEnv, error) {
	if err := parser.Validate(c.Lines); err != nil {
		return nil, err
	}
	for _, l := range c.Lines {
		if strings.HasPrefix(l, "grub2-editenv:") {
			return nil, cerrors.NewWithContext(cerrors.ErrCodeContent, "grub2-editenv failed", map[string]any{"line": l})
		}
	}

	env := GrubEnv(parser.ParseKeyValue(c.Lines))
	if len(env) == 0 {
		return nil, cerrors.Skip("grub environment is empty")
	}
	return env, nil
}

// SavedEntry returns saved_entry.
func (g GrubEnv) SavedEntry() string { return g["saved_entry"] }

// KernelOpts returns kernelopts, the value "$kernelopts" in boot entries expands to.
func (g GrubEnv) KernelOpts() string { return g["kernelopts"] }

// Expand replaces $name and ${name} references with grubenv values.
// Unknown variables expand to the empty string, as GRUB does.
func (g GrubEnv) Expand(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '$' {
			sb.WriteByte(s[i])
			continue
		}

		j := i + 1
		var name string
		if j < len(s) && s[j] == '{' {
			end := strings.IndexByte(s[j:], '}')
			if end < 0 {
				sb.WriteString(s[i:])
				break
			}
			name = s[j+1 : j+end]
			j += end + 1
		} else {
			for j < len(s) && isVarChar(s[j]) {
				j++
			}
			name = s[i+1 : j]
		}

		if name == "" {
			sb.WriteByte('$')
			continue
		}
		sb.WriteString(g[name])
		i = j - 1
	}
	return sb.String()
}

func isVarChar(b byte) bool {
	return b == '_' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}
