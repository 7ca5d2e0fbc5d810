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

package combiners

import (
	"sort"
	"strings"

	"github.com/RedHatInsights/insights-core-sub003/pkg/dr"
	cerrors "github.com/RedHatInsights/insights-core-sub003/pkg/errors"
	"github.com/RedHatInsights/insights-core-sub003/pkg/parsers"
)

// BranchVulns are the branch and speculative-execution related vulnerabilities.
var BranchVulns = []string{
	"spectre_v1",
	"spectre_v2",
	"spec_store_bypass",
	"retbleed",
	"spec_rstack_overflow",
}

var (
	// CPUVulnsAllCombiner merges every CPU vulnerability file.
	CPUVulnsAllCombiner = New("cpu_vulns_all", "all CPU vulnerabilities and their status",
		Deps{Requires: []*dr.Component{parsers.CPUVulnsParser.Component()}},
		combineCPUVulnsAll)

	// CPUVulnsBranchCombiner selects the branch speculation vulnerabilities.
	CPUVulnsBranchCombiner = New("cpu_vulns_branch", "branch speculation CPU vulnerabilities",
		Deps{Requires: []*dr.Component{CPUVulnsAllCombiner.Component()}},
		combineCPUVulnsBranch)
)

// CPUVulns maps vulnerability names to the kernel reported status.
type CPUVulns map[string]string

// Names returns the vulnerability names, sorted.
func (v CPUVulns) Names() []string {
	names := make([]string, 0, len(v))
	for n := range v {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Affected returns the vulnerabilities reported as "Vulnerable", sorted.
func (v CPUVulns) Affected() []string {
	var out []string
	for _, n := range v.Names() {
		if strings.HasPrefix(v[n], "Vulnerable") {
			out = append(out, n)
		}
	}
	return out
}

// Mitigated returns the vulnerabilities reported with a mitigation, sorted.
func (v CPUVulns) Mitigated() []string {
	var out []string
	for _, n := range v.Names() {
		if strings.HasPrefix(v[n], "Mitigation") {
			out = append(out, n)
		}
	}
	return out
}

func combineCPUVulnsAll(b *dr.Broker) (CPUVulns, error) {
	vulns, _ := parsers.CPUVulnsParser.Values(b)
	out := make(CPUVulns, len(vulns))
	for _, v := range vulns {
		out[v.Name] = v.Value
	}
	if len(out) == 0 {
		return nil, cerrors.Skip("no CPU vulnerability data")
	}
	return out, nil
}

func combineCPUVulnsBranch(b *dr.Broker) (CPUVulns, error) {
	all, _ := CPUVulnsAllCombiner.Value(b)
	out := make(CPUVulns)
	for _, n := range BranchVulns {
		if v, ok := all[n]; ok {
			out[n] = v
		}
	}
	if len(out) == 0 {
		return nil, cerrors.Skip("no branch speculation vulnerability data")
	}
	return out, nil
}
