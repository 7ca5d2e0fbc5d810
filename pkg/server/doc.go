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

// Package server provides the HTTP server of the analysis service.
//
// The server wires application handlers behind a common middleware chain
// and adds the system endpoints. Handlers are supplied by the caller; see
// pkg/api for the analysis routes.
//
// # Middleware
//
// Application handlers run behind, from the outside in:
//
//   - request ID: X-Request-Id propagation, generated when absent or invalid
//   - observe: per-route request count, latency, upload and response sizes,
//     in-flight gauge and the access log
//   - version: API version negotiation through the Accept header
//   - panic recovery: a panic becomes a 500 error response
//   - rate limiting: token bucket, 429 with Retry-After when exhausted
//
// Metrics are labeled by the registered route, never the raw path.
//
// # System Endpoints
//
// System endpoints bypass rate limiting:
//
//   - GET /health  - liveness
//   - GET /ready   - readiness, including every WithReadinessCheck check
//   - GET /metrics - Prometheus metrics
//
// # Errors
//
// Errors are written as ErrorResponse documents. WriteErrorFromErr maps
// the code of a structured error to the HTTP status.
//
// # Configuration
//
// NewConfig reads PORT and SHUTDOWN_TIMEOUT_SECONDS from the environment.
//
//	s := server.New(
//	    server.WithName("insights"),
//	    server.WithVersion(version),
//	    server.WithHandler(map[string]http.HandlerFunc{"/v1/analyze": h.HandleAnalyze}),
//	)
//	if err := s.Run(ctx); err != nil {
//	    return err
//	}
package server
