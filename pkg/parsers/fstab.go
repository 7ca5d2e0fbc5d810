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

// FSTabParser parses /etc/fstab.
var FSTabParser = parser.New("fstab", specs.Fstab, ParseFSTab)

var octalEscapes = strings.NewReplacer(`\040`, " ", `\011`, "\t", `\134`, `\`)

// FSTabEntry is one file system line.
type FSTabEntry struct {
	Spec    string            `json:"fs_spec" yaml:"fs_spec"`
	File    string            `json:"fs_file" yaml:"fs_file"`
	VFSType string            `json:"fs_vfstype" yaml:"fs_vfstype"`
	Options map[string]string `json:"fs_mntops" yaml:"fs_mntops"`
	Freq    int               `json:"fs_freq" yaml:"fs_freq"`
	PassNo  int               `json:"fs_passno" yaml:"fs_passno"`
	Raw     string            `json:"raw" yaml:"raw"`
}

// HasOption reports whether the mount option is set.
func (e FSTabEntry) HasOption(name string) bool {
	_, ok := e.Options[name]
	return ok
}

// FSTab is the parsed file system table.
type FSTab struct {
	Entries []FSTabEntry `json:"entries" yaml:"entries"`
}

// ParseFSTab parses fstab lines. Freq and passno default to 0.
func ParseFSTab(c *datasource.Content) (*FSTab, error) {
	lines := parser.CleanLines(c.Lines)
	if len(lines) == 0 {
		return nil, cerrors.Skipf("%s has no entries", c.Path)
	}

	t := &FSTab{}
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) < 4 {
			return nil, cerrors.ParseError("fstab entry has fewer than four fields", line)
		}

		e := FSTabEntry{
			Spec:    octalEscapes.Replace(fields[0]),
			File:    octalEscapes.Replace(fields[1]),
			VFSType: fields[2],
			Options: parseMountOptions(fields[3]),
			Raw:     line,
		}
		var err error
		if len(fields) > 4 {
			if e.Freq, err = strconv.Atoi(fields[4]); err != nil {
				return nil, cerrors.ParseError("invalid dump frequency", line)
			}
		}
		if len(fields) > 5 {
			if e.PassNo, err = strconv.Atoi(fields[5]); err != nil {
				return nil, cerrors.ParseError("invalid pass number", line)
			}
		}
		t.Entries = append(t.Entries, e)
	}
	return t, nil
}

func parseMountOptions(s string) map[string]string {
	opts := make(map[string]string)
	for _, o := range strings.Split(s, ",") {
		if o == "" {
			continue
		}
		k, v, _ := strings.Cut(o, "=")
		opts[k] = v
	}
	return opts
}

// MountPoint returns the last entry mounted at file.
func (t *FSTab) MountPoint(file string) (FSTabEntry, bool) {
	for i := len(t.Entries) - 1; i >= 0; i-- {
		if t.Entries[i].File == file {
			return t.Entries[i], true
		}
	}
	return FSTabEntry{}, false
}

// ByVFSType returns the entries of a file system type.
func (t *FSTab) ByVFSType(vfs string) []FSTabEntry {
	var out []FSTabEntry
	for _, e := range t.Entries {
		if e.VFSType == vfs {
			out = append(out, e)
		}
	}
	return out
}
