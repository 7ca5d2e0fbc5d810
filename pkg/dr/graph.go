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
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrCycle is returned when the dependency graph is not acyclic.
var ErrCycle = errors.New("dependency cycle")

const (
	unvisited = iota
	visiting
	done
)

// Resolve returns the transitive closure of targets with every component
// placed after all of its dependencies.
func Resolve(targets ...*Component) ([]*Component, error) {
	state := make(map[*Component]int)
	var order []*Component
	var stack []*Component

	var visit func(c *Component) error
	visit = func(c *Component) error {
		switch state[c] {
		case done:
			return nil
		case visiting:
			return fmt.Errorf("%w: %s", ErrCycle, cyclePath(stack, c))
		}

		state[c] = visiting
		stack = append(stack, c)
		for _, d := range c.Dependencies() {
			if err := visit(d); err != nil {
				return err
			}
		}
		stack = stack[:len(stack)-1]
		state[c] = done
		order = append(order, c)
		return nil
	}

	sorted := append([]*Component(nil), targets...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	for _, t := range sorted {
		if t == nil {
			continue
		}
		if err := visit(t); err != nil {
			return nil, err
		}
	}
	return order, nil
}

func cyclePath(stack []*Component, c *Component) string {
	start := 0
	for i, s := range stack {
		if s == c {
			start = i
			break
		}
	}
	names := make([]string, 0, len(stack)-start+1)
	for _, s := range stack[start:] {
		names = append(names, s.Name)
	}
	names = append(names, c.Name)
	return strings.Join(names, " -> ")
}

// Levels groups the resolved closure of targets by dependency depth. Every
// component in a level depends only on components of earlier levels.
func Levels(targets ...*Component) ([][]*Component, error) {
	order, err := Resolve(targets...)
	if err != nil {
		return nil, err
	}

	depth := make(map[*Component]int, len(order))
	maxDepth := 0
	for _, c := range order {
		d := 0
		for _, dep := range c.Dependencies() {
			if depth[dep]+1 > d {
				d = depth[dep] + 1
			}
		}
		depth[c] = d
		if d > maxDepth {
			maxDepth = d
		}
	}

	levels := make([][]*Component, maxDepth+1)
	for _, c := range order {
		levels[depth[c]] = append(levels[depth[c]], c)
	}
	if len(order) == 0 {
		return nil, nil
	}
	return levels, nil
}
