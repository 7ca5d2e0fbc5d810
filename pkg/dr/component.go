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

package dr

import (
	"context"
	"sort"
	"strings"
)

// Kind classifies a component.
type Kind string

const (
	KindContext    Kind = "context"
	KindDatasource Kind = "datasource"
	KindParser     Kind = "parser"
	KindCombiner   Kind = "combiner"
	KindRule       Kind = "rule"
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	return string(k)
}

// Kinds is the list of all component kinds in execution order.
var Kinds = []Kind{
	KindContext,
	KindDatasource,
	KindParser,
	KindCombiner,
	KindRule,
}

// ParseKind parses a string into a Kind.
func ParseKind(s string) (Kind, bool) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// Func computes a component's value from the broker.
type Func func(ctx context.Context, b *Broker) (any, error)

// Component is a node of the dependency graph.
type Component struct {
	Name string
	Kind Kind

	// Requires must all have a value before Run is called.
	Requires []*Component

	// AnyOf is a list of groups; every group needs at least one member with a value.
	AnyOf [][]*Component

	// Optional components run first when present but never block this one.
	Optional []*Component

	// Run is nil only for context components, which are seeded into the broker.
	Run Func

	// Description is shown in listings.
	Description string
}

// String returns the component name.
func (c *Component) String() string {
	return c.Name
}

// Dependencies returns every direct dependency once, sorted by name.
func (c *Component) Dependencies() []*Component {
	seen := make(map[*Component]bool)
	var deps []*Component

	add := func(d *Component) {
		if d == nil || seen[d] {
			return
		}
		seen[d] = true
		deps = append(deps, d)
	}

	for _, d := range c.Requires {
		add(d)
	}
	for _, group := range c.AnyOf {
		for _, d := range group {
			add(d)
		}
	}
	for _, d := range c.Optional {
		add(d)
	}

	sort.Slice(deps, func(i, j int) bool { return deps[i].Name < deps[j].Name })
	return deps
}

// unmet returns the names of the dependencies that keep c from running.
func (c *Component) unmet(b *Broker) []string {
	var missing []string

	for _, d := range c.Requires {
		if !b.Has(d) {
			missing = append(missing, d.Name)
		}
	}

	for _, group := range c.AnyOf {
		found := false
		names := make([]string, 0, len(group))
		for _, d := range group {
			if b.Has(d) {
				found = true
				break
			}
			names = append(names, d.Name)
		}
		if !found && len(group) > 0 {
			missing = append(missing, "any of: "+strings.Join(names, ", "))
		}
	}

	return missing
}
