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

package api

import (
	"fmt"
	"strings"

	"github.com/RedHatInsights/insights-core-sub003/pkg/dr"
	cerrors "github.com/RedHatInsights/insights-core-sub003/pkg/errors"
	"github.com/RedHatInsights/insights-core-sub003/pkg/evaluator"
	"github.com/RedHatInsights/insights-core-sub003/pkg/filters"
	"github.com/RedHatInsights/insights-core-sub003/pkg/header"
	"github.com/RedHatInsights/insights-core-sub003/pkg/specs"
)

// SpecEntry describes one registered spec.
type SpecEntry struct {
	Name        string   `json:"name" yaml:"name"`
	Kind        string   `json:"kind" yaml:"kind"`
	Source      string   `json:"source" yaml:"source"`
	Filterable  bool     `json:"filterable,omitempty" yaml:"filterable,omitempty"`
	Filters     []string `json:"filters,omitempty" yaml:"filters,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
}

// SpecList is the spec catalog document.
type SpecList struct {
	header.Header `json:",inline" yaml:",inline"`

	Specs []SpecEntry `json:"specs" yaml:"specs"`
}

// Table implements serializer.Tabler.
func (l *SpecList) Table() ([]string, [][]string) {
	rows := make([][]string, 0, len(l.Specs))
	for _, s := range l.Specs {
		rows = append(rows, []string{s.Name, s.Kind, s.Source, strings.Join(s.Filters, ", ")})
	}
	return []string{"NAME", "KIND", "SOURCE", "FILTERS"}, rows
}

// NewSpecList lists every registered spec with its filters.
func NewSpecList(version string) *SpecList {
	all := specs.All()
	l := &SpecList{Specs: make([]SpecEntry, 0, len(all))}
	l.Init(header.KindSpecs, header.APIVersion, version)

	for _, s := range all {
		l.Specs = append(l.Specs, SpecEntry{
			Name:        s.Name,
			Kind:        string(s.Kind),
			Source:      s.Source(),
			Filterable:  s.IsFilterable(),
			Filters:     filters.Get(s.Name),
			Description: s.Description,
		})
	}
	return l
}

// ComponentEntry describes one registered component.
type ComponentEntry struct {
	Name         string   `json:"name" yaml:"name"`
	Kind         dr.Kind  `json:"kind" yaml:"kind"`
	Dependencies []string `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
	Description  string   `json:"description,omitempty" yaml:"description,omitempty"`
}

// ComponentList is the component catalog document.
type ComponentList struct {
	header.Header `json:",inline" yaml:",inline"`

	Components []ComponentEntry `json:"components" yaml:"components"`
}

// Table implements serializer.Tabler.
func (l *ComponentList) Table() ([]string, [][]string) {
	rows := make([][]string, 0, len(l.Components))
	for _, c := range l.Components {
		rows = append(rows, []string{c.Name, string(c.Kind), strings.Join(c.Dependencies, ", ")})
	}
	return []string{"NAME", "KIND", "DEPENDENCIES"}, rows
}

// NewComponentList lists comps in the given order, keeping only kinds when set.
func NewComponentList(version string, comps []*dr.Component, kinds []dr.Kind) *ComponentList {
	keep := make(map[dr.Kind]bool, len(kinds))
	for _, k := range kinds {
		keep[k] = true
	}

	l := &ComponentList{Components: make([]ComponentEntry, 0, len(comps))}
	l.Init(header.KindComponents, header.APIVersion, version)

	for _, c := range comps {
		if len(keep) > 0 && !keep[c.Kind] {
			continue
		}
		deps := c.Dependencies()
		names := make([]string, 0, len(deps))
		for _, d := range deps {
			names = append(names, d.Name)
		}
		l.Components = append(l.Components, ComponentEntry{
			Name:         c.Name,
			Kind:         c.Kind,
			Dependencies: names,
			Description:  c.Description,
		})
	}
	return l
}

// ListComponents returns every component of reg, or the execution order
// of targets when any are named.
func ListComponents(reg *dr.Registry, targets []string) ([]*dr.Component, error) {
	if len(targets) == 0 {
		return reg.Components(), nil
	}
	comps, err := evaluator.ResolveTargets(reg, targets)
	if err != nil {
		return nil, err
	}
	return dr.Resolve(comps...)
}

// ParseKinds parses component kind names, ignoring case.
func ParseKinds(names []string) ([]dr.Kind, error) {
	kinds := make([]dr.Kind, 0, len(names))
	for _, n := range names {
		k, ok := dr.ParseKind(strings.ToLower(n))
		if !ok {
			return nil, cerrors.NewWithContext(cerrors.ErrCodeInvalidRequest,
				fmt.Sprintf("unknown component kind: %q", n), map[string]any{"kinds": KindNames()})
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

// KindNames returns the component kinds as a comma separated list.
func KindNames() string {
	names := make([]string, 0, len(dr.Kinds))
	for _, k := range dr.Kinds {
		names = append(names, k.String())
	}
	return strings.Join(names, ", ")
}
