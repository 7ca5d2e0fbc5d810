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
	"errors"
	"io/fs"
	"path/filepath"

	cerrors "github.com/RedHatInsights/insights-core-sub003/pkg/errors"
)

// ArchiveContext reads content back from an extracted collection archive.
// Archives may come from untrusted uploads, so every read is size capped.
type ArchiveContext struct {
	root        string
	maxFileSize int64
}

// ArchiveOption configures an ArchiveContext.
type ArchiveOption func(*ArchiveContext)

// WithArchiveMaxFileSize limits the size of stored files and outputs read
// back from the archive.
func WithArchiveMaxFileSize(n int64) ArchiveOption {
	return func(a *ArchiveContext) {
		if n > 0 {
			a.maxFileSize = n
		}
	}
}

// NewArchiveContext creates a context over the archive directory root.
func NewArchiveContext(root string, opts ...ArchiveOption) *ArchiveContext {
	a := &ArchiveContext{root: root, maxFileSize: DefaultMaxFileSize}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Name returns "archive".
func (a *ArchiveContext) Name() string {
	return "archive"
}

// Root returns the archive directory.
func (a *ArchiveContext) Root() string {
	return a.root
}

// ReadFile reads a host path stored in the archive.
func (a *ArchiveContext) ReadFile(ctx context.Context, p string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return readFileLimited(resolve(a.root, p), a.maxFileSize)
}

// Glob returns the stored host paths matching pattern.
func (a *ArchiveContext) Glob(pattern string) ([]string, error) {
	return globUnder(a.root, pattern)
}

// Run returns the stored output of command.
func (a *ArchiveContext) Run(ctx context.Context, command string) ([]byte, error) {
	return a.stored(ctx, CommandPath(command), command)
}

// Fetch returns the stored body of url.
func (a *ArchiveContext) Fetch(ctx context.Context, url string, _ map[string]string) ([]byte, error) {
	return a.stored(ctx, URLPath(url), url)
}

// UnitFiles returns the stored unit file listing.
func (a *ArchiveContext) UnitFiles(ctx context.Context) ([]byte, error) {
	return a.stored(ctx, CommandPath(UnitFilesCommand), UnitFilesCommand)
}

func (a *ArchiveContext) stored(ctx context.Context, rel, what string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := readFileLimited(filepath.Join(a.root, filepath.FromSlash(rel)), a.maxFileSize)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, cerrors.Skipf("%s was not collected", what)
	}
	if err != nil {
		return nil, cerrors.ContentError("failed to read "+rel, err)
	}
	return data, nil
}
