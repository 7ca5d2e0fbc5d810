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

// HostnameParser parses "hostname -f".
var HostnameParser = parser.New("hostname", specs.Hostname, ParseHostname)

// Hostname splits a fully qualified host name.
type Hostname struct {
	FQDN     string `json:"fqdn" yaml:"fqdn"`
	Hostname string `json:"hostname" yaml:"hostname"`
	Domain   string `json:"domain,omitempty" yaml:"domain,omitempty"`
}

// ParseHostname parses a single host name line.
func ParseHostname(c *datasource.Content) (*Hostname, error) {
	if err := parser.Validate(c.Lines); err != nil {
		return nil, err
	}
	lines := parser.CleanLines(c.Lines, parser.WithSkipComments(false))
	if len(lines) != 1 {
		return nil, cerrors.ParseError("expected a single host name", strings.Join(lines, " "))
	}
	if strings.ContainsAny(lines[0], " \t") {
		return nil, cerrors.ParseError("host name contains whitespace", lines[0])
	}

	fqdn := lines[0]
	host, domain, _ := strings.Cut(fqdn, ".")
	return &Hostname{FQDN: fqdn, Hostname: host, Domain: domain}, nil
}
