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
	"strconv"
	"strings"

	"github.com/RedHatInsights/insights-core-sub003/pkg/datasource"
	cerrors "github.com/RedHatInsights/insights-core-sub003/pkg/errors"
	"github.com/RedHatInsights/insights-core-sub003/pkg/parser"
	"github.com/RedHatInsights/insights-core-sub003/pkg/specs"
)

// RedhatReleaseParser parses /etc/redhat-release.
var RedhatReleaseParser = parser.New("redhat_release", specs.RedhatRelease, ParseRedhatRelease)

var releaseLine = regexp.MustCompile(`^(.+?)\s+release\s+(\d+(?:\.\d+)*)\S*(?:\s+\((.*)\))?`)

// RedhatRelease is the parsed release string.
type RedhatRelease struct {
	Raw     string `json:"raw" yaml:"raw"`
	Product string `json:"product" yaml:"product"`
	Version string `json:"version" yaml:"version"`
	Major   int    `json:"major" yaml:"major"`

	// Minor is -1 when the release has no minor number (CentOS Stream, Fedora).
	Minor int    `json:"minor" yaml:"minor"`
	Code  string `json:"code,omitempty" yaml:"code,omitempty"`
}

// ParseRedhatRelease parses lines such as
// "Red Hat Enterprise Linux release 9.2 (Plow)".
func ParseRedhatRelease(c *datasource.Content) (*RedhatRelease, error) {
	lines := parser.CleanLines(c.Lines)
	if len(lines) == 0 {
		return nil, cerrors.Skipf("%s is empty", c.Path)
	}

	m := releaseLine.FindStringSubmatch(lines[0])
	if m == nil {
		return nil, cerrors.ParseError("unrecognized release string", lines[0])
	}

	r := &RedhatRelease{Raw: lines[0], Product: m[1], Version: m[2], Code: m[3], Minor: -1}
	parts := strings.Split(m[2], ".")
	r.Major, _ = strconv.Atoi(parts[0])
	if len(parts) > 1 {
		r.Minor, _ = strconv.Atoi(parts[1])
	}
	return r, nil
}

// IsRHEL reports a Red Hat Enterprise Linux product.
func (r *RedhatRelease) IsRHEL() bool {
	return strings.HasPrefix(r.Product, "Red Hat Enterprise Linux")
}

// IsCentOS reports a CentOS product.
func (r *RedhatRelease) IsCentOS() bool {
	return strings.HasPrefix(r.Product, "CentOS")
}

// IsFedora reports a Fedora product.
func (r *RedhatRelease) IsFedora() bool {
	return strings.HasPrefix(r.Product, "Fedora")
}
