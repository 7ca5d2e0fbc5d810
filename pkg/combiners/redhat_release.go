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
	"fmt"
	"strconv"

	"github.com/RedHatInsights/insights-core-sub003/pkg/dr"
	cerrors "github.com/RedHatInsights/insights-core-sub003/pkg/errors"
	"github.com/RedHatInsights/insights-core-sub003/pkg/parsers"
)

// RedHatReleaseCombiner determines the RHEL release from the kernel and
// the release file. The kernel wins when both are known.
var RedHatReleaseCombiner = New("redhat_release", "RHEL major and minor release",
	Deps{AnyOf: [][]*dr.Component{{
		parsers.UnameParser.Component(),
		parsers.RedhatReleaseParser.Component(),
	}}},
	combineRedHatRelease)

// RedHatRelease is the RHEL release of the host.
type RedHatRelease struct {
	Major int `json:"major" yaml:"major"`

	// Minor is -1 when unknown.
	Minor int `json:"minor" yaml:"minor"`

	// RHEL is "major.minor", or just "major" when the minor is unknown.
	RHEL    string `json:"rhel" yaml:"rhel"`
	Product string `json:"product,omitempty" yaml:"product,omitempty"`

	// Source names the parser that decided the release.
	Source string `json:"source" yaml:"source"`
}

func combineRedHatRelease(b *dr.Broker) (*RedHatRelease, error) {
	rel, hasRelease := parsers.RedhatReleaseParser.Value(b)

	r := &RedHatRelease{Minor: -1}
	if hasRelease {
		r.Product = rel.Product
	}

	if u, ok := parsers.UnameParser.Value(b); ok && u.RHELRelease != "" {
		major, minor, err := splitRelease(u.RHELRelease)
		if err == nil {
			r.Major, r.Minor, r.Source = major, minor, "uname"
			r.RHEL = u.RHELRelease
			return r, nil
		}
	}

	if hasRelease && rel.IsRHEL() {
		r.Major, r.Minor, r.Source = rel.Major, rel.Minor, "redhat_release"
		r.RHEL = strconv.Itoa(rel.Major)
		if rel.Minor >= 0 {
			r.RHEL = fmt.Sprintf("%d.%d", rel.Major, rel.Minor)
		}
		return r, nil
	}
	return nil, cerrors.Skip("not a RHEL host")
}

func splitRelease(s string) (int, int, error) {
	var major, minor int
	if _, err := fmt.Sscanf(s, "%d.%d", &major, &minor); err != nil {
		return 0, 0, fmt.Errorf("invalid release %q: %w", s, err)
	}
	return major, minor, nil
}
