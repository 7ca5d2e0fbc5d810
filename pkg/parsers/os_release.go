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
	"github.com/RedHatInsights/insights-core-sub003/pkg/datasource"
	cerrors "github.com/RedHatInsights/insights-core-sub003/pkg/errors"
	"github.com/RedHatInsights/insights-core-sub003/pkg/parser"
	"github.com/RedHatInsights/insights-core-sub003/pkg/specs"
)

// OSReleaseParser parses /etc/os-release.
var OSReleaseParser = parser.New("os_release", specs.OSRelease, ParseOSRelease)

// OSRelease holds the os-release variables.
type OSRelease map[string]string

// ParseOSRelease parses KEY=value lines, dropping quotes around values.
func ParseOSRelease(c *datasource.Content) (OSRelease, error) {
	if err := parser.SkipEmpty(c.Lines); err != nil {
		return nil, err
	}
	kv := parser.ParseKeyValue(c.Lines, parser.WithVTrimChars(`"'`))
	if len(kv) == 0 {
		return nil, cerrors.ParseError("no os-release variables found", "")
	}
	return OSRelease(kv), nil
}

// ID returns the ID variable ("rhel", "fedora", ...).
func (o OSRelease) ID() string { return o["ID"] }

// VersionID returns VERSION_ID.
func (o OSRelease) VersionID() string { return o["VERSION_ID"] }

// Name returns NAME.
func (o OSRelease) Name() string { return o["NAME"] }

// PrettyName returns PRETTY_NAME.
func (o OSRelease) PrettyName() string { return o["PRETTY_NAME"] }

// IsRHEL reports a Red Hat Enterprise Linux release.
func (o OSRelease) IsRHEL() bool { return o.ID() == "rhel" }
