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
	"fmt"
	"sort"
	"sync"

	cerrors "github.com/RedHatInsights/insights-core-sub003/pkg/errors"
)

// Registry holds components by name.
type Registry struct {
	components map[string]*Component
	mu         sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		components: make(map[string]*Component),
	}
}

// defaultRegistry is populated by package-level declarations of parsers,
// combiners and rules.
var defaultRegistry = NewRegistry()

// Default returns the process-wide registry.
func Default() *Registry {
	return defaultRegistry
}

// Register adds a component to the registry.
func (r *Registry) Register(c *Component) error {
	if c == nil {
		return fmt.Errorf("component cannot be nil")
	}
	if c.Name == "" {
		return fmt.Errorf("component name cannot be empty")
	}
	if c.Run == nil && c.Kind != KindContext {
		return fmt.Errorf("component %s has no run function", c.Name)
	}
	if _, ok := ParseKind(string(c.Kind)); !ok {
		return fmt.Errorf("component %s has unknown kind %q", c.Name, c.Kind)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, exists := r.components[c.Name]; exists && existing != c {
		return fmt.Errorf("component %s already registered", c.Name)
	}

	r.components[c.Name] = c
	return nil
}

// MustRegister registers c and returns it, panicking on error.
func (r *Registry) MustRegister(c *Component) *Component {
	if err := r.Register(c); err != nil {
		panic(err)
	}
	return c
}

// Get looks up a component by name.
func (r *Registry) Get(name string) (*Component, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.components[name]
	return c, ok
}

// Components returns all components sorted by name.
func (r *Registry) Components() []*Component {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]*Component, 0, len(r.components))
	for _, c := range r.components {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}

// OfKind returns the components of the given kinds sorted by name.
func (r *Registry) OfKind(kinds ...Kind) []*Component {
	want := make(map[Kind]bool, len(kinds))
	for _, k := range kinds {
		want[k] = true
	}

	var list []*Component
	for _, c := range r.Components() {
		if want[c.Kind] {
			list = append(list, c)
		}
	}
	return list
}

// Resolve returns the named components in the given order, failing on
// the first unknown name.
func (r *Registry) Resolve(names ...string) ([]*Component, error) {
	list := make([]*Component, 0, len(names))
	for _, n := range names {
		c, ok := r.Get(n)
		if !ok {
			return nil, cerrors.NewWithContext(cerrors.ErrCodeNotFound,
				fmt.Sprintf("unknown component %q", n), map[string]any{"component": n})
		}
		list = append(list, c)
	}
	return list, nil
}

// Clone returns a registry with the same components.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := NewRegistry()
	for k, v := range r.components {
		out.components[k] = v
	}
	return out
}

// Register adds c to the default registry.
func Register(c *Component) error {
	return defaultRegistry.Register(c)
}

// MustRegister adds c to the default registry and returns it.
func MustRegister(c *Component) *Component {
	return defaultRegistry.MustRegister(c)
}
