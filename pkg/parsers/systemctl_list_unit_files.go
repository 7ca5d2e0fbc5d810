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

// UnitFilesParser parses the systemd unit file listing.
var UnitFilesParser = parser.New("systemctl_list_unit_files", specs.SystemctlListUnitFiles, ParseUnitFiles)

var unitSuffixes = []string{
	".service", ".socket", ".target", ".timer", ".mount", ".automount",
	".path", ".slice", ".scope", ".swap", ".device",
}

// UnitFiles maps unit names to their state and vendor preset.
type UnitFiles struct {
	States  map[string]string `json:"states" yaml:"states"`
	Presets map[string]string `json:"presets,omitempty" yaml:"presets,omitempty"`
}

// ParseUnitFiles parses systemctl list-unit-files output.
func ParseUnitFiles(c *datasource.Content) (*UnitFiles, error) {
	if err := parser.Validate(c.Lines); err != nil {
		return nil, err
	}

	u := &UnitFiles{States: make(map[string]string), Presets: make(map[string]string)}
	for _, line := range c.Lines {
		fields := strings.Fields(line)
		if len(fields) < 2 || !isUnitName(fields[0]) {
			continue
		}
		u.States[fields[0]] = fields[1]
		if len(fields) > 2 {
			u.Presets[fields[0]] = fields[2]
		}
	}

	if len(u.States) == 0 {
		return nil, cerrors.ParseError("no unit files listed", "")
	}
	return u, nil
}

func isUnitName(s string) bool {
	for _, suffix := range unitSuffixes {
		if strings.HasSuffix(s, suffix) {
			return true
		}
	}
	return false
}

// Exists reports whether the unit file is installed.
func (u *UnitFiles) Exists(unit string) bool {
	_, ok := u.States[unit]
	return ok
}

// IsEnabled reports whether the unit is enabled. Static and indirect units
// are not.
func (u *UnitFiles) IsEnabled(unit string) bool {
	switch u.States[unit] {
	case "enabled", "enabled-runtime":
		return true
	}
	return false
}
