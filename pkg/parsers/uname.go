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
	"fmt"
	"regexp"
	"strings"

	"github.com/RedHatInsights/insights-core-sub003/pkg/datasource"
	cerrors "github.com/RedHatInsights/insights-core-sub003/pkg/errors"
	"github.com/RedHatInsights/insights-core-sub003/pkg/parser"
	"github.com/RedHatInsights/insights-core-sub003/pkg/specs"
)

// UnameParser parses "uname -a".
var UnameParser = parser.New("uname", specs.Uname, ParseUname)

// rhelKernels maps the base kernel version and first release number of
// each GA kernel to its RHEL minor release.
var rhelKernels = map[string]string{
	"3.10.0-123": "7.0", "3.10.0-229": "7.1", "3.10.0-327": "7.2", "3.10.0-514": "7.3",
	"3.10.0-693": "7.4", "3.10.0-862": "7.5", "3.10.0-957": "7.6", "3.10.0-1062": "7.7",
	"3.10.0-1127": "7.8", "3.10.0-1160": "7.9",
	"4.18.0-80": "8.0", "4.18.0-147": "8.1", "4.18.0-193": "8.2", "4.18.0-240": "8.3",
	"4.18.0-305": "8.4", "4.18.0-348": "8.5", "4.18.0-372": "8.6", "4.18.0-425": "8.7",
	"4.18.0-477": "8.8", "4.18.0-513": "8.9", "4.18.0-553": "8.10",
	"5.14.0-70": "9.0", "5.14.0-162": "9.1", "5.14.0-284": "9.2", "5.14.0-362": "9.3",
	"5.14.0-427": "9.4", "5.14.0-503": "9.5", "5.14.0-570": "9.6",
}

var elTag = regexp.MustCompile(`\.el(\d+)(?:_(\d+))?`)

var knownKernelArches = map[string]bool{
	"x86_64": true, "i686": true, "i386": true, "aarch64": true,
	"ppc64le": true, "ppc64": true, "s390x": true,
}

// Uname is the parsed kernel identification.
type Uname struct {
	Kernel   string `json:"kernel" yaml:"kernel"`
	Hostname string `json:"hostname,omitempty" yaml:"hostname,omitempty"`

	// Release is the full kernel release ("5.14.0-362.8.1.el9_3.x86_64").
	Release string `json:"release" yaml:"release"`

	// Version is the upstream part of the release ("5.14.0").
	Version string `json:"version" yaml:"version"`

	// ReleaseNumber is the distribution part without the arch ("362.8.1.el9_3").
	ReleaseNumber string `json:"release_number" yaml:"release_number"`
	Arch          string `json:"arch,omitempty" yaml:"arch,omitempty"`
	BuildInfo     string `json:"build_info,omitempty" yaml:"build_info,omitempty"`

	// RHELRelease is "major.minor" of the RHEL release shipping this kernel,
	// empty when it cannot be determined.
	RHELRelease string `json:"rhel_release,omitempty" yaml:"rhel_release,omitempty"`
}

// ParseUname parses "uname -a" output or a bare kernel release.
func ParseUname(c *datasource.Content) (*Uname, error) {
	if err := parser.Validate(c.Lines); err != nil {
		return nil, err
	}
	lines := parser.CleanLines(c.Lines, parser.WithSkipComments(false))
	fields := strings.Fields(lines[0])

	u := &Uname{}
	switch {
	case len(fields) == 1:
		u.Kernel = "Linux"
		u.Release = fields[0]
	case len(fields) >= 3:
		u.Kernel, u.Hostname, u.Release = fields[0], fields[1], fields[2]
		u.BuildInfo = strings.Join(fields[3:], " ")
	default:
		return nil, cerrors.ParseError("too few fields in uname output", lines[0])
	}

	if err := u.splitRelease(); err != nil {
		return nil, err
	}
	if u.Arch == "" && len(fields) >= 4 {
		for _, f := range fields[3:] {
			if knownKernelArches[f] {
				u.Arch = f
				break
			}
		}
	}
	u.RHELRelease = rhelRelease(u.Version, u.ReleaseNumber)
	return u, nil
}

func (u *Uname) splitRelease() error {
	version, rel, ok := strings.Cut(u.Release, "-")
	if !ok || version == "" || rel == "" {
		return cerrors.ParseError("kernel release has no release number", u.Release)
	}
	if dot := strings.LastIndexByte(rel, '.'); dot > 0 && knownKernelArches[rel[dot+1:]] {
		u.Arch = rel[dot+1:]
		rel = rel[:dot]
	}
	u.Version = version
	u.ReleaseNumber = rel
	return nil
}

func rhelRelease(version, rel string) string {
	first, _, _ := strings.Cut(rel, ".")
	if r, ok := rhelKernels[version+"-"+first]; ok {
		return r
	}
	if m := elTag.FindStringSubmatch("." + rel); m != nil && m[2] != "" {
		return fmt.Sprintf("%s.%s", m[1], m[2])
	}
	return ""
}

// RHELMajor returns the major part of RHELRelease, or "" if unknown.
func (u *Uname) RHELMajor() string {
	major, _, _ := strings.Cut(u.RHELRelease, ".")
	return major
}
