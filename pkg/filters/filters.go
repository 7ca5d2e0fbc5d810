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

// Package filters keeps the filter strings registered against filterable
// datasources. When collecting from a live host, only the lines of a
// filterable artifact that contain at least one registered filter are kept.
package filters

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Target is a datasource that may carry filters.
type Target interface {
	SpecName() string
	IsFilterable() bool
}

var (
	registry = make(map[string]map[string]struct{})
	mu       sync.RWMutex
)

// Add registers patterns for the target. Empty patterns are ignored.
func Add(t Target, patterns ...string) error {
	if !t.IsFilterable() {
		return fmt.Errorf("spec %s is not filterable", t.SpecName())
	}

	mu.Lock()
	defer mu.Unlock()

	set, ok := registry[t.SpecName()]
	if !ok {
		set = make(map[string]struct{})
		registry[t.SpecName()] = set
	}
	for _, p := range patterns {
		if p == "" {
			continue
		}
		set[p] = struct{}{}
	}
	return nil
}

// MustAdd is Add that panics on error. It is meant for package-level registration.
func MustAdd(t Target, patterns ...string) {
	if err := Add(t, patterns...); err != nil {
		panic(err)
	}
}

// Get returns the sorted filters registered for the spec.
func Get(spec string) []string {
	mu.RLock()
	defer mu.RUnlock()

	set := registry[spec]
	out := make([]string, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// All returns every spec with filters and its sorted patterns.
func All() map[string][]string {
	mu.RLock()
	specs := make([]string, 0, len(registry))
	for s := range registry {
		specs = append(specs, s)
	}
	mu.RUnlock()

	out := make(map[string][]string, len(specs))
	for _, s := range specs {
		out[s] = Get(s)
	}
	return out
}

// Apply keeps the lines that contain at least one pattern.
func Apply(lines []string, patterns []string) []string {
	if len(patterns) == 0 {
		return nil
	}

	out := make([]string, 0, len(lines))
	for _, line := range lines {
		for _, p := range patterns {
			if strings.Contains(line, p) {
				out = append(out, line)
				break
			}
		}
	}
	return out
}

// reset clears the registry. Used by tests.
func reset() {
	mu.Lock()
	defer mu.Unlock()
	registry = make(map[string]map[string]struct{})
}
