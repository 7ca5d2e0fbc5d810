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
	"sort"
	"sync"
	"time"
)

// Status is the outcome of a component in one run.
type Status string

const (
	StatusUnset   Status = ""
	StatusOK      Status = "ok"
	StatusSkip    Status = "skip"
	StatusFailed  Status = "failed"
	StatusMissing Status = "missing"
)

// Broker stores the outcome of every component of a run. It is safe for
// concurrent use.
type Broker struct {
	mu        sync.RWMutex
	values    map[*Component]any
	skips     map[*Component]error
	failures  map[*Component]error
	missing   map[*Component][]string
	durations map[*Component]time.Duration
}

// NewBroker creates an empty broker.
func NewBroker() *Broker {
	return &Broker{
		values:    make(map[*Component]any),
		skips:     make(map[*Component]error),
		failures:  make(map[*Component]error),
		missing:   make(map[*Component][]string),
		durations: make(map[*Component]time.Duration),
	}
}

// Set stores the value of c. Seeding a value before Run keeps c from being executed.
func (b *Broker) Set(c *Component, v any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.values[c] = v
}

// Get returns the value of c.
func (b *Broker) Get(c *Component) (any, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	v, ok := b.values[c]
	return v, ok
}

// Has reports whether c has a value.
func (b *Broker) Has(c *Component) bool {
	_, ok := b.Get(c)
	return ok
}

// Value returns the value of c converted to T. It reports false when c has
// no value or the value is of another type.
func Value[T any](b *Broker, c *Component) (T, bool) {
	var zero T
	v, ok := b.Get(c)
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	if !ok {
		return zero, false
	}
	return t, true
}

func (b *Broker) skip(c *Component, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.skips[c] = err
}

func (b *Broker) fail(c *Component, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[c] = err
}

func (b *Broker) markMissing(c *Component, deps []string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.missing[c] = deps
}

func (b *Broker) observe(c *Component, d time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.durations[c] = d
}

// Status reports the outcome of c.
func (b *Broker) Status(c *Component) Status {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if _, ok := b.values[c]; ok {
		return StatusOK
	}
	if _, ok := b.failures[c]; ok {
		return StatusFailed
	}
	if _, ok := b.skips[c]; ok {
		return StatusSkip
	}
	if _, ok := b.missing[c]; ok {
		return StatusMissing
	}
	return StatusUnset
}

// Err returns the skip or failure error recorded for c.
func (b *Broker) Err(c *Component) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err, ok := b.failures[c]; ok {
		return err
	}
	return b.skips[c]
}

// Duration returns how long c took to run.
func (b *Broker) Duration(c *Component) time.Duration {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.durations[c]
}

// Failures returns the failure errors keyed by component name.
func (b *Broker) Failures() map[string]error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return byName(b.failures)
}

// Skips returns the skip reasons keyed by component name.
func (b *Broker) Skips() map[string]error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return byName(b.skips)
}

// Missing returns the unmet dependencies keyed by component name.
func (b *Broker) Missing() map[string][]string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make(map[string][]string, len(b.missing))
	for c, deps := range b.missing {
		out[c.Name] = append([]string(nil), deps...)
	}
	return out
}

// Components returns the components that have a value, sorted by name.
func (b *Broker) Components() []*Component {
	b.mu.RLock()
	defer b.mu.RUnlock()

	list := make([]*Component, 0, len(b.values))
	for c := range b.values {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}

func byName(in map[*Component]error) map[string]error {
	out := make(map[string]error, len(in))
	for c, err := range in {
		out[c.Name] = err
	}
	return out
}
