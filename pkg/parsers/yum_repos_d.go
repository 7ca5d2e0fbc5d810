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

package parsers

import (
	"sort"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/RedHatInsights/insights-core-sub003/pkg/datasource"
	cerrors "github.com/RedHatInsights/insights-core-sub003/pkg/errors"
	"github.com/RedHatInsights/insights-core-sub003/pkg/parser"
	"github.com/RedHatInsights/insights-core-sub003/pkg/specs"
)

// YumReposDParser parses every .repo file under /etc/yum.repos.d.
var YumReposDParser = parser.New("yum_repos_d", specs.YumReposD, ParseYumRepoFile)

// YumRepoFile is one .repo file: repository id to its options.
type YumRepoFile struct {
	Path  string                       `json:"path" yaml:"path"`
	Repos map[string]map[string]string `json:"repos" yaml:"repos"`
}

// ParseYumRepoFile parses an INI style repository definition file.
func ParseYumRepoFile(c *datasource.Content) (*YumRepoFile, error) {
	if err := parser.SkipEmpty(c.Lines); err != nil {
		return nil, err
	}

	cfg, err := ini.LoadSources(ini.LoadOptions{
		AllowBooleanKeys:           true,
		AllowPythonMultilineValues: true,
		SkipUnrecognizableLines:    true,
		IgnoreInlineComment:        true,
	}, []byte(c.Text()))
	if err != nil {
		return nil, cerrors.Wrap(cerrors.ErrCodeParse, "invalid repo file "+c.Path, err)
	}

	f := &YumRepoFile{Path: c.Path, Repos: make(map[string]map[string]string)}
	for _, section := range cfg.Sections() {
		if section.Name() == ini.DefaultSection {
			continue
		}
		opts := make(map[string]string)
		for _, key := range section.Keys() {
			opts[strings.ToLower(key.Name())] = strings.TrimSpace(key.Value())
		}
		f.Repos[section.Name()] = opts
	}

	if len(f.Repos) == 0 {
		return nil, cerrors.Skipf("%s defines no repositories", c.Path)
	}
	return f, nil
}

// Get returns the options of repository id.
func (f *YumRepoFile) Get(id string) (map[string]string, bool) {
	opts, ok := f.Repos[id]
	return opts, ok
}

// Enabled returns the ids of enabled repositories, sorted. Repositories
// without an enabled option are enabled.
func (f *YumRepoFile) Enabled() []string {
	var ids []string
	for id, opts := range f.Repos {
		v, ok := opts["enabled"]
		if !ok || isTrue(v) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

func isTrue(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "yes", "true", "on":
		return true
	}
	return false
}
