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

// Package api implements the analysis service and the documents it shares
// with the command line.
//
// # Endpoints
//
// Application endpoints (with rate limiting):
//   - POST /v1/analyze    - evaluate an uploaded archive (.tar.gz or .tar body)
//   - GET  /v1/specs      - list the registered specs and their filters
//   - GET  /v1/components - list the registered components
//
// System endpoints (no rate limiting) are provided by pkg/server:
//   - GET /health, GET /ready, GET /metrics
//
// # Query Parameters
//
// POST /v1/analyze accepts:
//   - component: evaluate only this component and its dependencies (repeatable)
//   - format: json (default) or yaml
//   - facts: include parser and combiner values (true/false, default true)
//
// GET /v1/components accepts:
//   - kind: only list this kind (repeatable)
//   - target: list the execution order of this component (repeatable)
//
// # Example
//
//	curl -X POST --data-binary @host.tar.gz \
//	  "http://localhost:8080/v1/analyze?component=soft_lockup&format=yaml"
//
// The service never collects from the host it runs on. Uploads are
// extracted to a temporary directory with path traversal rejected and are
// removed when the request completes.
package api
