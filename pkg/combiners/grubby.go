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
	"strings"

	"github.com/RedHatInsights/insights-core-sub003/pkg/dr"
	cerrors "github.com/RedHatInsights/insights-core-sub003/pkg/errors"
	"github.com/RedHatInsights/insights-core-sub003/pkg/parsers"
)

// GrubbyCombiner resolves the default boot entry and its kernel arguments.
var GrubbyCombiner = New("grubby", "default boot entry with expanded kernel arguments",
	Deps{
		Requires: []*dr.Component{
			parsers.GrubbyInfoAllParser.Component(),
			parsers.GrubbyDefaultIndexParser.Component(),
		},
		Optional: []*dr.Component{parsers.GrubEnvParser.Component()},
	},
	combineGrubby)

// Grubby is the default boot configuration.
type Grubby struct {
	DefaultIndex  int                 `json:"default_index" yaml:"default_index"`
	DefaultEntry  parsers.BootEntry   `json:"default_entry" yaml:"default_entry"`
	DefaultKernel string              `json:"default_kernel" yaml:"default_kernel"`
	KernelArgs    []string            `json:"kernel_args" yaml:"kernel_args"`
	Params        map[string][]string `json:"params" yaml:"params"`
	Entries       []parsers.BootEntry `json:"entries" yaml:"entries"`
}

// HasParam reports whether the default kernel is booted with key.
func (g *Grubby) HasParam(key string) bool {
	_, ok := g.Params[key]
	return ok
}

func combineGrubby(b *dr.Broker) (*Grubby, error) {
	info, _ := parsers.GrubbyInfoAllParser.Value(b)
	idx, _ := parsers.GrubbyDefaultIndexParser.Value(b)
	env, _ := parsers.GrubEnvParser.Value(b)

	entry, ok := info.ByIndex(idx)
	if !ok {
		return nil, cerrors.NewWithContext(cerrors.ErrCodeParse, "default boot entry not found", map[string]any{
			"index": idx,
		})
	}

	args := entry.Args
	if strings.Contains(args, "$") {
		args = env.Expand(args)
	}
	vector := strings.Fields(args)

	return &Grubby{
		DefaultIndex:  idx,
		DefaultEntry:  entry,
		DefaultKernel: entry.Kernel,
		KernelArgs:    vector,
		Params:        parsers.ParseBootArgs(strings.Join(vector, " ")),
		Entries:       info.Entries,
	}, nil
}
