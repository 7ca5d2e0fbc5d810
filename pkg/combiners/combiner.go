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
	"context"

	"github.com/RedHatInsights/insights-core-sub003/pkg/dr"
)

// Deps lists the dependencies of a combiner.
type Deps struct {
	Requires []*dr.Component
	AnyOf    [][]*dr.Component
	Optional []*dr.Component
}

// Combiner is a registered combine function with a typed result.
type Combiner[T any] struct {
	Name string

	fn        func(b *dr.Broker) (T, error)
	component *dr.Component
}

// New registers a combiner called name in the default registry.
func New[T any](name, description string, deps Deps, fn func(b *dr.Broker) (T, error)) *Combiner[T] {
	c := &Combiner[T]{Name: name, fn: fn}
	c.component = dr.MustRegister(&dr.Component{
		Name:        "combiners." + name,
		Kind:        dr.KindCombiner,
		Requires:    deps.Requires,
		AnyOf:       deps.AnyOf,
		Optional:    deps.Optional,
		Description: description,
		Run: func(_ context.Context, b *dr.Broker) (any, error) {
			return c.fn(b)
		},
	})
	return c
}

// Component returns the registered component.
func (c *Combiner[T]) Component() *dr.Component {
	return c.component
}

// Value returns the combined value stored in b.
func (c *Combiner[T]) Value(b *dr.Broker) (T, bool) {
	return dr.Value[T](b, c.component)
}

// Combine runs the combine function directly against b.
func (c *Combiner[T]) Combine(b *dr.Broker) (T, error) {
	return c.fn(b)
}
