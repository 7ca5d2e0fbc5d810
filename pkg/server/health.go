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
	"fmt"
	"net/http"
	"sort"
	"time"

	cerrors "github.com/RedHatInsights/insights-core-sub003/pkg/errors"
	"github.com/RedHatInsights/insights-core-sub003/pkg/serializer"
)

// readinessTimeout bounds all readiness checks of one /ready request.
const readinessTimeout = 2 * time.Second

// CheckFunc reports the state of something the service needs, such as the
// loaded component registry. The detail is shown on /ready.
type CheckFunc func(ctx context.Context) (detail string, err error)

type readinessCheck struct {
	name string
	fn   CheckFunc
}

// WithReadinessCheck adds a named check consulted by /ready.
func WithReadinessCheck(name string, fn CheckFunc) Option {
	return func(s *Server) {
		s.checks = append(s.checks, readinessCheck{name: name, fn: fn})
	}
}

// CheckResult is the outcome of one readiness check.
type CheckResult struct {
	OK     bool   `json:"ok" yaml:"ok"`
	Detail string `json:"detail,omitempty" yaml:"detail,omitempty"`
}

// HealthResponse is the body of /health and /ready.
type HealthResponse struct {
	Status    string                 `json:"status" yaml:"status"`
	Version   string                 `json:"version,omitempty" yaml:"version,omitempty"`
	Uptime    string                 `json:"uptime,omitempty" yaml:"uptime,omitempty"`
	Timestamp time.Time              `json:"timestamp" yaml:"timestamp"`
	Reason    string                 `json:"reason,omitempty" yaml:"reason,omitempty"`
	Checks    map[string]CheckResult `json:"checks,omitempty" yaml:"checks,omitempty"`
}

func (s *Server) getOnly(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodGet {
		return true
	}
	w.Header().Set("Allow", http.MethodGet)
	WriteError(w, r, http.StatusMethodNotAllowed, cerrors.ErrCodeMethodNotAllowed,
		"Method not allowed", false, map[string]any{"method": r.Method})
	return false
}

// handleHealth reports liveness only.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !s.getOnly(w, r) {
		return
	}
	serializer.RespondJSON(w, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Version:   s.config.Version,
		Uptime:    time.Since(s.started).Round(time.Second).String(),
		Timestamp: time.Now().UTC(),
	})
}

// handleReady reports whether uploads can be analyzed: the server is
// accepting requests and every readiness check passes.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if !s.getOnly(w, r) {
		return
	}

	resp := HealthResponse{
		Status:    "ready",
		Version:   s.config.Version,
		Timestamp: time.Now().UTC(),
	}

	s.mu.RLock()
	ready := s.ready
	s.mu.RUnlock()
	if !ready {
		resp.Status = "not_ready"
		resp.Reason = "server is not accepting requests"
		serializer.RespondJSON(w, http.StatusServiceUnavailable, resp)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	var failed []string
	resp.Checks = make(map[string]CheckResult, len(s.checks))
	for _, c := range s.checks {
		detail, err := c.fn(ctx)
		if err != nil {
			readinessFailures.WithLabelValues(c.name).Inc()
			failed = append(failed, c.name)
			resp.Checks[c.name] = CheckResult{Detail: err.Error()}
			continue
		}
		resp.Checks[c.name] = CheckResult{OK: true, Detail: detail}
	}

	if len(failed) > 0 {
		sort.Strings(failed)
		resp.Status = "not_ready"
		resp.Reason = fmt.Sprintf("failed checks: %v", failed)
		serializer.RespondJSON(w, http.StatusServiceUnavailable, resp)
		return
	}
	serializer.RespondJSON(w, http.StatusOK, resp)
}
