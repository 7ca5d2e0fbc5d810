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

package rules

import (
	"context"

	"github.com/RedHatInsights/insights-core-sub003/pkg/dr"
	cerrors "github.com/RedHatInsights/insights-core-sub003/pkg/errors"
)

// Deps lists the dependencies of a rule.
type Deps struct {
	Requires []*dr.Component
	AnyOf    [][]*dr.Component
	Optional []*dr.Component
}

// Func evaluates a rule against the broker. A nil response without error
// means the rule has nothing to report.
type Func func(b *dr.Broker) (*Response, error)

// Rule is a registered rule.
type Rule struct {
	Name string

	fn        Func
	component *dr.Component
}

// New registers a rule called name in the default registry.
func New(name, description string, deps Deps, fn Func) *Rule {
	r := newRule(name, description, deps, fn)
	dr.MustRegister(r.component)
	return r
}

func newRule(name, description string, deps Deps, fn Func) *Rule {
	r := &Rule{Name: name, fn: fn}
	r.component = &dr.Component{
		Name:        "rules." + name,
		Kind:        dr.KindRule,
		Requires:    deps.Requires,
		AnyOf:       deps.AnyOf,
		Optional:    deps.Optional,
		Description: description,
		Run:         r.run,
	}
	return r
}

// Component returns the rule component.
func (r *Rule) Component() *dr.Component {
	return r.component
}

// Evaluate runs the rule directly against b.
func (r *Rule) Evaluate(b *dr.Broker) (*Response, error) {
	resp, err := r.fn(b)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, cerrors.Skip("no response")
	}
	resp.Rule = r.Name
	return resp, nil
}

func (r *Rule) run(_ context.Context, b *dr.Broker) (any, error) {
	resp, err := r.Evaluate(b)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// ResponseOf returns the response a rule component stored in b.
func ResponseOf(b *dr.Broker, c *dr.Component) (*Response, bool) {
	return dr.Value[*Response](b, c)
}
