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

package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestError(t *testing.T) {
	tests := []struct {
		name     string
		err      *StructuredError
		expected string
	}{
		{
			name:     "error without cause",
			err:      New(ErrCodeNotFound, "not found"),
			expected: "[NOT_FOUND] not found",
		},
		{
			name:     "error with cause",
			err:      Wrap(ErrCodeInternal, "failed", errors.New("root cause")),
			expected: "[INTERNAL] failed: root cause",
		},
		{
			name:     "skip",
			err:      Skipf("no %s", "content"),
			expected: "[SKIP] no content",
		},
		{
			name:     "content error",
			err:      ContentError("failed to read /proc/cmdline", errors.New("permission denied")),
			expected: "[CONTENT_ERROR] failed to read /proc/cmdline: permission denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.Error()
			if got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestWrapWithContext(t *testing.T) {
	cause := errors.New("exit status 1")
	err := WrapWithContext(ErrCodeCalledProcess, "command failed", cause, map[string]any{
		"command": "/usr/sbin/dmidecode",
	})

	if err.Code != ErrCodeCalledProcess {
		t.Errorf("expected code %s, got %s", ErrCodeCalledProcess, err.Code)
	}
	if err.Context["command"] != "/usr/sbin/dmidecode" {
		t.Errorf("expected command in context, got %v", err.Context)
	}
	if !errors.Is(err, cause) {
		t.Errorf("expected cause to be wrapped")
	}
}

func TestParseError(t *testing.T) {
	err := ParseError("bad header", "Attached")
	if err.Code != ErrCodeParse {
		t.Fatalf("expected %s, got %s", ErrCodeParse, err.Code)
	}
	if err.Context["line"] != "Attached" {
		t.Errorf("expected offending line in context, got %v", err.Context)
	}

	if ParseError("no line", "").Context != nil {
		t.Errorf("expected nil context when line is empty")
	}
}

func TestIsSkip(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain", errors.New("boom"), false},
		{"skip", Skip("empty"), true},
		{"wrapped skip", fmt.Errorf("parser cmdline: %w", Skip("empty")), true},
		{"skip as cause", Wrap(ErrCodeInternal, "outer", Skip("inner")), true},
		{"parse error", ParseError("bad", ""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsSkip(tt.err); got != tt.want {
				t.Errorf("IsSkip(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestCodeOf(t *testing.T) {
	if got := CodeOf(fmt.Errorf("wrapped: %w", ParseError("bad", ""))); got != ErrCodeParse {
		t.Errorf("expected %s, got %s", ErrCodeParse, got)
	}
	if got := CodeOf(errors.New("plain")); got != "" {
		t.Errorf("expected empty code, got %s", got)
	}
}
