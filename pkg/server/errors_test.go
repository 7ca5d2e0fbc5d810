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

package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	cerrors "github.com/RedHatInsights/insights-core-sub003/pkg/errors"
)

func TestHTTPStatusFromCode(t *testing.T) {
	tests := []struct {
		name string
		code cerrors.ErrorCode
		want int
	}{
		{"invalid request", cerrors.ErrCodeInvalidRequest, http.StatusBadRequest},
		{"parse", cerrors.ErrCodeParse, http.StatusBadRequest},
		{"not found", cerrors.ErrCodeNotFound, http.StatusNotFound},
		{"method not allowed", cerrors.ErrCodeMethodNotAllowed, http.StatusMethodNotAllowed},
		{"rate limit", cerrors.ErrCodeRateLimitExceeded, http.StatusTooManyRequests},
		{"unavailable", cerrors.ErrCodeUnavailable, http.StatusServiceUnavailable},
		{"timeout", cerrors.ErrCodeTimeout, http.StatusGatewayTimeout},
		{"internal", cerrors.ErrCodeInternal, http.StatusInternalServerError},
		{"unknown defaults to internal", cerrors.ErrorCode("SOMETHING_ELSE"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTTPStatusFromCode(tt.code); got != tt.want {
				t.Fatalf("HTTPStatusFromCode(%q) = %d, want %d", tt.code, got, tt.want)
			}
		})
	}
}

func TestRetryableFromCode(t *testing.T) {
	tests := []struct {
		name string
		code cerrors.ErrorCode
		want bool
	}{
		{"invalid request", cerrors.ErrCodeInvalidRequest, false},
		{"not found", cerrors.ErrCodeNotFound, false},
		{"method not allowed", cerrors.ErrCodeMethodNotAllowed, false},
		{"timeout", cerrors.ErrCodeTimeout, true},
		{"unavailable", cerrors.ErrCodeUnavailable, true},
		{"rate limit", cerrors.ErrCodeRateLimitExceeded, true},
		{"internal", cerrors.ErrCodeInternal, true},
		{"unknown defaults false", cerrors.ErrorCode("SOMETHING_ELSE"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := retryableFromCode(tt.code); got != tt.want {
				t.Fatalf("retryableFromCode(%q) = %v, want %v", tt.code, got, tt.want)
			}
		})
	}
}

func TestMergeDetails(t *testing.T) {
	t.Run("both empty returns nil", func(t *testing.T) {
		if got := mergeDetails(nil, nil); got != nil {
			t.Fatalf("expected nil, got %#v", got)
		}
		if got := mergeDetails(map[string]any{}, map[string]any{}); got != nil {
			t.Fatalf("expected nil, got %#v", got)
		}
	})

	t.Run("merges and second overwrites", func(t *testing.T) {
		got := mergeDetails(map[string]any{"a": 1, "shared": "old"}, map[string]any{"b": 2, "shared": "new"})
		if got["a"].(int) != 1 || got["b"].(int) != 2 {
			t.Fatalf("expected a=1 b=2, got %#v", got)
		}
		if got["shared"].(string) != "new" {
			t.Fatalf("expected shared to be overwritten to 'new', got %#v", got["shared"])
		}
	})
}

func TestWriteError_WritesErrorResponse(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(context.WithValue(req.Context(), contextKeyRequestID, "req-123"))
	w := httptest.NewRecorder()

	WriteError(w, req, http.StatusBadRequest, cerrors.ErrCodeInvalidRequest, "bad request", false, map[string]any{"k": "v"})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}

	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Code != string(cerrors.ErrCodeInvalidRequest) {
		t.Fatalf("expected code %q, got %q", cerrors.ErrCodeInvalidRequest, resp.Code)
	}
	if resp.Message != "bad request" {
		t.Fatalf("expected message %q, got %q", "bad request", resp.Message)
	}
	if resp.RequestID != "req-123" {
		t.Fatalf("expected requestId %q, got %q", "req-123", resp.RequestID)
	}
	if resp.Retryable {
		t.Fatalf("expected retryable=false, got true")
	}
	if resp.Details == nil || resp.Details["k"].(string) != "v" {
		t.Fatalf("expected details to include k=v, got %#v", resp.Details)
	}
}

func TestWriteErrorFromErr_StructuredErrorMapsStatusAndDetails(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	w := httptest.NewRecorder()

	cause := errors.New("unexpected EOF")
	err := cerrors.WrapWithContext(cerrors.ErrCodeInvalidRequest, "invalid archive", cause, map[string]any{"size": 12})

	WriteErrorFromErr(w, req, err, "fallback", map[string]any{"extra": "yes"})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
	}

	var resp ErrorResponse
	if uerr := json.Unmarshal(w.Body.Bytes(), &resp); uerr != nil {
		t.Fatalf("failed to unmarshal response: %v", uerr)
	}
	if resp.Code != string(cerrors.ErrCodeInvalidRequest) {
		t.Fatalf("expected code %q, got %q", cerrors.ErrCodeInvalidRequest, resp.Code)
	}
	if resp.Message != "invalid archive" {
		t.Fatalf("expected message %q, got %q", "invalid archive", resp.Message)
	}
	if resp.Retryable {
		t.Fatalf("expected retryable=false")
	}
	if resp.Details["size"].(float64) != 12 {
		t.Fatalf("expected size=12, got %#v", resp.Details["size"])
	}
	if resp.Details["extra"].(string) != "yes" {
		t.Fatalf("expected extra=yes, got %#v", resp.Details["extra"])
	}
	if resp.Details["error"].(string) != "unexpected EOF" {
		t.Fatalf("expected error cause propagated, got %#v", resp.Details["error"])
	}
}

func TestWriteErrorFromErr_NonStructuredFallsBackToInternal(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	WriteErrorFromErr(w, req, errors.New("boom"), "fallback", map[string]any{"x": "y"})

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}

	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if resp.Code != string(cerrors.ErrCodeInternal) {
		t.Fatalf("expected code %q, got %q", cerrors.ErrCodeInternal, resp.Code)
	}
	if resp.Message != "fallback" {
		t.Fatalf("expected message %q, got %q", "fallback", resp.Message)
	}
	if !resp.Retryable {
		t.Fatalf("expected retryable=true")
	}
	if resp.Details["x"].(string) != "y" || resp.Details["error"].(string) != "boom" {
		t.Fatalf("expected details x=y error=boom, got %#v", resp.Details)
	}
}
