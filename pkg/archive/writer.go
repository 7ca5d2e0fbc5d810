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
	"sync"

	cerrors "github.com/RedHatInsights/insights-core-sub003/pkg/errors"
)

// Writer stores collected content under a root directory. It implements
// datasource.Sink and is safe for concurrent use.
type Writer struct {
	root string

	mu    sync.Mutex
	count int
}

// NewWriter creates root if needed and returns a Writer storing under it.
func NewWriter(root string) (*Writer, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, cerrors.Wrap(cerrors.ErrCodeInternal, fmt.Sprintf("failed to create archive directory %s", root), err)
	}
	return &Writer{root: root}, nil
}

// Root returns the archive root directory.
func (w *Writer) Root() string {
	return w.root
}

// Count returns the number of files written.
func (w *Writer) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.count
}

// Write stores data at relPath below the root. Paths escaping the root are
// rejected.
func (w *Writer) Write(relPath string, data []byte) error {
	if err := validateEntry(relPath, w.root); err != nil {
		return err
	}
	dest := filepath.Join(w.root, filepath.Clean(relPath))

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return cerrors.Wrap(cerrors.ErrCodeInternal, fmt.Sprintf("failed to create directory for %s", relPath), err)
	}
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return cerrors.Wrap(cerrors.ErrCodeInternal, fmt.Sprintf("failed to write %s", relPath), err)
	}

	w.mu.Lock()
	w.count++
	w.mu.Unlock()

	slog.Debug("stored artifact", slog.String("path", relPath), slog.Int("bytes", len(data)))
	return nil
}
