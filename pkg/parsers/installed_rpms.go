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
	"strings"

	"github.com/RedHatInsights/insights-core-sub003/pkg/datasource"
	cerrors "github.com/RedHatInsights/insights-core-sub003/pkg/errors"
	"github.com/RedHatInsights/insights-core-sub003/pkg/parser"
	"github.com/RedHatInsights/insights-core-sub003/pkg/specs"
	"github.com/RedHatInsights/insights-core-sub003/pkg/version"
)

// InstalledRPMsParser parses the installed package list.
var InstalledRPMsParser = parser.New("installed_rpms", specs.InstalledRPMs, ParseInstalledRPMs)

// InstalledRPM is one installed package.
type InstalledRPM struct {
	version.NVRA `yaml:",inline"`
	Vendor       string `json:"vendor,omitempty" yaml:"vendor,omitempty"`
}

// InstalledRPMs indexes installed packages by name. A name may be installed
// more than once (kernel, multilib).
type InstalledRPMs struct {
	Packages map[string][]InstalledRPM `json:"packages" yaml:"packages"`

	// Errors holds lines that were neither packages nor blank.
	Errors []string `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// ParseInstalledRPMs parses NAME-VERSION-RELEASE.ARCH<TAB>VENDOR lines.
func ParseInstalledRPMs(c *datasource.Content) (*InstalledRPMs, error) {
	if err := parser.Validate(c.Lines); err != nil {
		return nil, err
	}

	r := &InstalledRPMs{Packages: make(map[string][]InstalledRPM)}
	for _, line := range parser.CleanLines(c.Lines) {
		nvra, vendor, _ := strings.Cut(line, "\t")
		p, err := version.ParseNVRA(strings.TrimSpace(nvra))
		if err != nil {
			r.Errors = append(r.Errors, line)
			continue
		}

		vendor = strings.TrimSpace(vendor)
		if vendor == "(none)" {
			vendor = ""
		}
		r.Packages[p.Name] = append(r.Packages[p.Name], InstalledRPM{NVRA: p, Vendor: vendor})
	}

	if len(r.Packages) == 0 {
		return nil, cerrors.ParseError("no packages found", "")
	}
	for _, list := range r.Packages {
		sort.SliceStable(list, func(i, j int) bool { return version.CompareEVR(list[i].NVRA, list[j].NVRA) < 0 })
	}
	return r, nil
}

// Contains reports whether name is installed.
func (r *InstalledRPMs) Contains(name string) bool {
	return len(r.Packages[name]) > 0
}

// Get returns every installed instance of name, oldest first.
func (r *InstalledRPMs) Get(name string) []InstalledRPM {
	return r.Packages[name]
}

// Newest returns the newest installed instance of name.
func (r *InstalledRPMs) Newest(name string) (InstalledRPM, bool) {
	list := r.Packages[name]
	if len(list) == 0 {
		return InstalledRPM{}, false
	}
	return list[len(list)-1], true
}

// Oldest returns the oldest installed instance of name.
func (r *InstalledRPMs) Oldest(name string) (InstalledRPM, bool) {
	list := r.Packages[name]
	if len(list) == 0 {
		return InstalledRPM{}, false
	}
	return list[0], true
}

// Names returns the installed package names, sorted.
func (r *InstalledRPMs) Names() []string {
	names := make([]string, 0, len(r.Packages))
	for n := range r.Packages {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// HasPrefix reports the installed names starting with prefix.
func (r *InstalledRPMs) HasPrefix(prefix string) []string {
	var out []string
	for _, n := range r.Names() {
		if strings.HasPrefix(n, prefix) {
			out = append(out, n)
		}
	}
	return out
}
