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
	"regexp"
	"strings"

	"github.com/RedHatInsights/insights-core-sub003/pkg/datasource"
	cerrors "github.com/RedHatInsights/insights-core-sub003/pkg/errors"
	"github.com/RedHatInsights/insights-core-sub003/pkg/parser"
	"github.com/RedHatInsights/insights-core-sub003/pkg/specs"
)

// YumRepoListParser parses "yum repolist" output.
var YumRepoListParser = parser.New("yum_repolist", specs.YumRepoList, ParseYumRepoList)

var repoCount = regexp.MustCompile(`^(?:(enabled|disabled):\s*)?[\d,]+$`)

// YumRepo is one row of the repository list.
type YumRepo struct {
	// ID is the repository id without the expired-metadata marker or the
	// "/releasever/basearch" suffix yum 3 appends.
	ID     string `json:"id" yaml:"id"`
	RawID  string `json:"raw_id" yaml:"raw_id"`
	Name   string `json:"name" yaml:"name"`
	Status string `json:"status,omitempty" yaml:"status,omitempty"`
}

// YumRepoList is the list of enabled repositories.
type YumRepoList struct {
	Repos []YumRepo `json:"repos" yaml:"repos"`
}

// ParseYumRepoList parses the table between the "repo id" header and the
// "repolist:" summary.
func ParseYumRepoList(c *datasource.Content) (*YumRepoList, error) {
	if err := parser.Validate(c.Lines); err != nil {
		return nil, err
	}

	r := &YumRepoList{}
	inTable := false
	hasStatus := false
	for _, line := range c.Lines {
		trimmed := strings.TrimSpace(line)
		lower := strings.ToLower(trimmed)

		switch {
		case strings.HasPrefix(lower, "repo id"):
			inTable = true
			hasStatus = strings.HasSuffix(lower, "status")
			continue
		case strings.HasPrefix(lower, "repolist:"):
			inTable = false
			continue
		case !inTable || trimmed == "":
			continue
		}

		fields := strings.Fields(trimmed)
		repo := YumRepo{RawID: fields[0], ID: cleanRepoID(fields[0])}
		rest := fields[1:]

		if hasStatus && len(rest) > 0 && repoCount.MatchString(rest[len(rest)-1]) {
			repo.Status = rest[len(rest)-1]
			rest = rest[:len(rest)-1]
			if n := len(rest); n > 0 && (rest[n-1] == "enabled:" || rest[n-1] == "disabled:") {
				repo.Status = rest[n-1] + " " + repo.Status
				rest = rest[:n-1]
			}
		}
		repo.Name = strings.Join(rest, " ")
		r.Repos = append(r.Repos, repo)
	}

	if len(r.Repos) == 0 {
		return nil, cerrors.Skip("no repositories listed")
	}
	return r, nil
}

func cleanRepoID(id string) string {
	id = strings.TrimLeft(id, "!*")
	if i := strings.IndexByte(id, '/'); i > 0 {
		id = id[:i]
	}
	return id
}

// Get returns the repository with the given id.
func (r *YumRepoList) Get(id string) (YumRepo, bool) {
	for _, repo := range r.Repos {
		if repo.ID == id {
			return repo, true
		}
	}
	return YumRepo{}, false
}

// IDs returns the repository ids in listing order.
func (r *YumRepoList) IDs() []string {
	ids := make([]string, 0, len(r.Repos))
	for _, repo := range r.Repos {
		ids = append(ids, repo.ID)
	}
	return ids
}
