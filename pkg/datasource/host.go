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
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/google/shlex"
	"golang.org/x/time/rate"

	"github.com/RedHatInsights/insights-core-sub003/pkg/defaults"
	cerrors "github.com/RedHatInsights/insights-core-sub003/pkg/errors"
)

const (
	// DefaultCommandTimeout bounds every command run by HostContext.
	DefaultCommandTimeout = defaults.CommandTimeout

	// DefaultFetchTimeout bounds every metadata fetch.
	DefaultFetchTimeout = defaults.FetchTimeout

	// DefaultMaxFileSize is the largest file HostContext reads.
	DefaultMaxFileSize = defaults.MaxFileSize
)

// HostOption configures a HostContext.
type HostOption func(*HostContext)

// WithRoot sets the directory host paths are read from.
func WithRoot(root string) HostOption {
	return func(h *HostContext) {
		if root != "" {
			h.root = root
		}
	}
}

// WithCommandTimeout sets the per-command timeout.
func WithCommandTimeout(d time.Duration) HostOption {
	return func(h *HostContext) {
		if d > 0 {
			h.commandTimeout = d
		}
	}
}

// WithFetchTimeout sets the per-request timeout for URL specs.
func WithFetchTimeout(d time.Duration) HostOption {
	return func(h *HostContext) {
		if d > 0 {
			h.fetchTimeout = d
		}
	}
}

// WithHTTPClient replaces the client used for URL specs.
func WithHTTPClient(c *http.Client) HostOption {
	return func(h *HostContext) {
		if c != nil {
			h.client = c
		}
	}
}

// WithMaxFileSize limits the size of files read from the host.
func WithMaxFileSize(n int64) HostOption {
	return func(h *HostContext) {
		if n > 0 {
			h.maxFileSize = n
		}
	}
}

// HostContext collects content from the running host.
type HostContext struct {
	root           string
	commandTimeout time.Duration
	fetchTimeout   time.Duration
	maxFileSize    int64
	client         *http.Client
	limiter        *rate.Limiter
	listUnitFiles  func(ctx context.Context) ([]byte, error)
}

// NewHostContext creates a host context rooted at "/" unless WithRoot says otherwise.
func NewHostContext(opts ...HostOption) *HostContext {
	h := &HostContext{
		root:           "/",
		commandTimeout: DefaultCommandTimeout,
		fetchTimeout:   DefaultFetchTimeout,
		maxFileSize:    DefaultMaxFileSize,
		client:         &http.Client{},
		limiter:        rate.NewLimiter(rate.Every(defaults.FetchInterval), defaults.FetchBurst),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.listUnitFiles = h.unitFilesFromDBus
	return h
}

// Name returns "host".
func (h *HostContext) Name() string {
	return "host"
}

// Root returns the host root directory.
func (h *HostContext) Root() string {
	return h.root
}

// ReadFile reads a host path under root.
func (h *HostContext) ReadFile(ctx context.Context, p string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return readFileLimited(resolve(h.root, p), h.maxFileSize)
}

// Glob returns the host paths matching pattern.
func (h *HostContext) Glob(pattern string) ([]string, error) {
	return globUnder(h.root, pattern)
}

// Run executes command with LC_ALL=C and returns its standard output.
func (h *HostContext) Run(ctx context.Context, command string) ([]byte, error) {
	args, err := shlex.Split(command)
	if err != nil {
		return nil, cerrors.Wrap(cerrors.ErrCodeInvalidRequest, fmt.Sprintf("invalid command %q", command), err)
	}
	if len(args) == 0 {
		return nil, cerrors.New(cerrors.ErrCodeInvalidRequest, "no command specified")
	}

	ctx, cancel := context.WithTimeout(ctx, h.commandTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Env = append(os.Environ(), "LC_ALL=C")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	slog.Debug("running command", slog.String("command", command))
	err = cmd.Run()

	switch {
	case err == nil:
		return stdout.Bytes(), nil
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return nil, cerrors.NewWithContext(cerrors.ErrCodeTimeout, "command timed out", map[string]any{
			"command": command,
			"timeout": h.commandTimeout.String(),
		})
	case errors.Is(err, exec.ErrNotFound), errors.Is(err, fs.ErrNotExist):
		return nil, cerrors.Skipf("command not found: %s", args[0])
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return nil, cerrors.WrapWithContext(cerrors.ErrCodeCalledProcess, "command exited non-zero", err, map[string]any{
			"command":   command,
			"exit_code": exitErr.ExitCode(),
			"stderr":    strings.TrimSpace(stderr.String()),
		})
	}
	return nil, cerrors.Wrap(cerrors.ErrCodeContent, fmt.Sprintf("failed to run %q", command), err)
}

// Fetch requests url with the given headers. Requests are rate limited.
func (h *HostContext) Fetch(ctx context.Context, url string, headers map[string]string) ([]byte, error) {
	if err := h.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, h.fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, cerrors.Wrap(cerrors.ErrCodeInvalidRequest, fmt.Sprintf("invalid url %q", url), err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, cerrors.ContentError(fmt.Sprintf("failed to fetch %s", url), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, defaults.MaxResponseSize))
	if err != nil {
		return nil, cerrors.ContentError(fmt.Sprintf("failed to read response from %s", url), err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, cerrors.NewWithContext(cerrors.ErrCodeContent, "unexpected response status", map[string]any{
			"url":    url,
			"status": resp.StatusCode,
		})
	}
	return body, nil
}

// UnitFiles lists unit files over D-Bus, falling back to systemctl when the
// bus is unavailable.
func (h *HostContext) UnitFiles(ctx context.Context) ([]byte, error) {
	out, err := h.listUnitFiles(ctx)
	if err == nil {
		return out, nil
	}
	slog.Debug("systemd D-Bus unavailable, falling back to systemctl", slog.String("error", err.Error()))
	return h.Run(ctx, UnitFilesCommand)
}

func readFileLimited(p string, limit int64) ([]byte, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, cerrors.NewWithContext(cerrors.ErrCodeContent, "file exceeds maximum size", map[string]any{
			"path":  p,
			"limit": limit,
		})
	}
	return data, nil
}
