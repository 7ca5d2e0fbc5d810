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

package datasource

import (
	"context"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// Context is the source of collected content.
type Context interface {
	// Name identifies the context kind ("host" or "archive").
	Name() string

	// Root is the directory host paths are resolved against.
	Root() string

	// ReadFile returns the content of a host path.
	ReadFile(ctx context.Context, path string) ([]byte, error)

	// Glob returns the host paths matching pattern, sorted.
	Glob(pattern string) ([]string, error)

	// Run returns the standard output of a command line.
	Run(ctx context.Context, command string) ([]byte, error)

	// Fetch returns the body of a URL.
	Fetch(ctx context.Context, url string, headers map[string]string) ([]byte, error)

	// UnitFiles returns the systemd unit file listing in systemctl list-unit-files format.
	UnitFiles(ctx context.Context) ([]byte, error)
}

// UnitFilesCommand is the command whose output UnitFiles mirrors.
const UnitFilesCommand = "/bin/systemctl list-unit-files"

// resolve maps a host path to a location under root. The path is cleaned
// as an absolute path first so it can never leave root.
func resolve(root, p string) string {
	return filepath.Join(root, filepath.FromSlash(path.Clean("/"+p)))
}

func globUnder(root, pattern string) ([]string, error) {
	matches, err := filepath.Glob(resolve(root, pattern))
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(matches))
	for _, m := range matches {
		rel, err := filepath.Rel(root, m)
		if err != nil || strings.HasPrefix(rel, "..") {
			continue
		}
		out = append(out, "/"+filepath.ToSlash(rel))
	}
	sort.Strings(out)
	return out, nil
}
