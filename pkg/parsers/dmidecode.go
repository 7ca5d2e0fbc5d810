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
	"regexp"
	"strings"

	"github.com/RedHatInsights/insights-core-sub003/pkg/datasource"
	cerrors "github.com/RedHatInsights/insights-core-sub003/pkg/errors"
	"github.com/RedHatInsights/insights-core-sub003/pkg/parser"
	"github.com/RedHatInsights/insights-core-sub003/pkg/specs"
)

// DMIDecodeParser parses dmidecode output.
var DMIDecodeParser = parser.New("dmidecode", specs.DMIDecode, ParseDMIDecode)

var dmiHandle = regexp.MustCompile(`^Handle (0x[0-9A-Fa-f]+), DMI type (\d+)`)

// DMISection is one DMI structure. Field names are lower case with spaces
// replaced by underscores ("Product Name" is "product_name").
type DMISection struct {
	Handle string              `json:"handle" yaml:"handle"`
	Type   string              `json:"type" yaml:"type"`
	Fields map[string]string   `json:"fields" yaml:"fields"`
	Lists  map[string][]string `json:"lists,omitempty" yaml:"lists,omitempty"`
}

// DMIDecode holds every DMI structure keyed by section name
// ("bios_information", "system_information", ...).
type DMIDecode struct {
	Sections map[string][]DMISection `json:"sections" yaml:"sections"`
}

// ParseDMIDecode parses the output of dmidecode.
func ParseDMIDecode(c *datasource.Content) (*DMIDecode, error) {
	if err := parser.Validate(c.Lines); err != nil {
		return nil, err
	}
	for _, l := range c.Lines {
		if strings.Contains(l, "No SMBIOS nor DMI entry point found") {
			return nil, cerrors.Skip("no DMI data on this host")
		}
	}

	d := &DMIDecode{Sections: make(map[string][]DMISection)}

	var (
		current *DMISection
		name    string
		listKey string
	)
	flush := func() {
		if current != nil && name != "" {
			d.Sections[name] = append(d.Sections[name], *current)
		}
		current, name, listKey = nil, "", ""
	}

	for _, line := range c.Lines {
		trimmed := strings.TrimSpace(line)

		if m := dmiHandle.FindStringSubmatch(trimmed); m != nil {
			flush()
			current = &DMISection{Handle: m[1], Type: m[2], Fields: make(map[string]string)}
			continue
		}
		if current == nil || trimmed == "" {
			continue
		}

		switch {
		case !strings.HasPrefix(line, "\t"):
			if name == "" {
				name = dmiKey(trimmed)
			}
		case strings.HasPrefix(line, "\t\t"):
			if listKey != "" {
				current.Lists[listKey] = append(current.Lists[listKey], trimmed)
			}
		default:
			key, value, ok := parser.SplitKV(trimmed, ":")
			if !ok {
				continue
			}
			key = dmiKey(key)
			if value == "" {
				if current.Lists == nil {
					current.Lists = make(map[string][]string)
				}
				listKey = key
				continue
			}
			listKey = ""
			current.Fields[key] = value
		}
	}
	flush()

	if len(d.Sections) == 0 {
		return nil, cerrors.ParseError("no DMI structures found", "")
	}
	return d, nil
}

func dmiKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "_")
}

// Get returns every section called name.
func (d *DMIDecode) Get(name string) []DMISection {
	return d.Sections[name]
}

func (d *DMIDecode) first(section, field string) string {
	for _, s := range d.Sections[section] {
		if v, ok := s.Fields[field]; ok {
			return v
		}
	}
	return ""
}

// BIOSVendor returns the BIOS vendor.
func (d *DMIDecode) BIOSVendor() string { return d.first("bios_information", "vendor") }

// BIOSVersion returns the BIOS version.
func (d *DMIDecode) BIOSVersion() string { return d.first("bios_information", "version") }

// SystemManufacturer returns the system manufacturer.
func (d *DMIDecode) SystemManufacturer() string {
	return d.first("system_information", "manufacturer")
}

// SystemProductName returns the system product name.
func (d *DMIDecode) SystemProductName() string {
	return d.first("system_information", "product_name")
}

// SystemUUID returns the system UUID.
func (d *DMIDecode) SystemUUID() string { return d.first("system_information", "uuid") }
