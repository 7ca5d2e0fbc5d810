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
	"path"
	"strings"

	"github.com/RedHatInsights/insights-core-sub003/pkg/datasource"
	cerrors "github.com/RedHatInsights/insights-core-sub003/pkg/errors"
	"github.com/RedHatInsights/insights-core-sub003/pkg/parser"
	"github.com/RedHatInsights/insights-core-sub003/pkg/specs"
)

// CPUVulnsParser parses each file under /sys/devices/system/cpu/vulnerabilities.
var CPUVulnsParser = parser.New("cpu_vulns", specs.CPUVulns, ParseCPUVuln)

// CPUVuln is the status of one CPU vulnerability.
type CPUVuln struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// ParseCPUVuln parses one vulnerability file. The name is the file name.
func ParseCPUVuln(c *datasource.Content) (CPUVuln, error) {
	lines := parser.CleanLines(c.Lines, parser.WithSkipComments(false))
	if len(lines) == 0 {
		return CPUVuln{}, cerrors.Skipf("%s is empty", c.Path)
	}
	if len(lines) > 1 {
		return CPUVuln{}, cerrors.ParseError("vulnerability file has more than one line", lines[1])
	}
	return CPUVuln{Name: path.Base(c.Path), Value: lines[0]}, nil
}

// Vulnerable reports a "Vulnerable" status.
func (v CPUVuln) Vulnerable() bool {
	return strings.HasPrefix(v.Value, "Vulnerable")
}

// Mitigated reports a "Mitigation: ..." status.
func (v CPUVuln) Mitigated() bool {
	return strings.HasPrefix(v.Value, "Mitigation")
}

// NotAffected reports a "Not affected" status.
func (v CPUVuln) NotAffected() bool {
	return strings.HasPrefix(v.Value, "Not affected")
}
