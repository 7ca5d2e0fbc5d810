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

package archive

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/RedHatInsights/insights-core-sub003/pkg/datasource"
	cerrors "github.com/RedHatInsights/insights-core-sub003/pkg/errors"
)

// Open prepares path for analysis and returns the archive root. A
// directory is used in place; a tarball is extracted to a temporary
// directory removed by cleanup. When the tree holds a single top-level
// directory that is not a host directory such as "etc", that directory is
// the root. opts bound the extraction of a tarball.
func Open(path string, opts ...ExtractOption) (root string, cleanup func(), err error) {
	cleanup = func() {}

	info, err := os.Stat(path)
	if err != nil {
		return "", cleanup, cerrors.Wrap(cerrors.ErrCodeNotFound, fmt.Sprintf("archive %s not found", path), err)
	}
	if info.IsDir() {
		root, err := findRoot(path)
		return root, cleanup, err
	}

	tmp, err := os.MkdirTemp("", "insights-")
	if err != nil {
		return "", cleanup, cerrors.Wrap(cerrors.ErrCodeInternal, "failed to create extraction directory", err)
	}
	cleanup = func() {
		if err := os.RemoveAll(tmp); err != nil {
			slog.Warn("failed to remove extracted archive", slog.String("path", tmp), slog.String("error", err.Error()))
		}
	}

	if err := Extract(path, tmp, opts...); err != nil {
		cleanup()
		return "", func() {}, err
	}
	root, err = findRoot(tmp)
	if err != nil {
		cleanup()
		return "", func() {}, err
	}

	slog.Debug("extracted archive", slog.String("archive", path), slog.String("root", root))
	return root, cleanup, nil
}

// hostDirs are top-level directories of a collected tree.
var hostDirs = map[string]bool{
	datasource.CommandsDir: true,
	"boot":                 true,
	"etc":                  true,
	"proc":                 true,
	"run":                  true,
	"sys":                  true,
	"usr":                  true,
	"var":                  true,
}

func findRoot(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", cerrors.Wrap(cerrors.ErrCodeInternal, fmt.Sprintf("failed to read %s", dir), err)
	}
	if len(entries) == 1 && entries[0].IsDir() && !hostDirs[entries[0].Name()] {
		return filepath.Join(dir, entries[0].Name()), nil
	}
	return dir, nil
}
