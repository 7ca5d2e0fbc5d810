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

// Package defaults provides centralized configuration constants for collection
// and evaluation.
//
// The configuration file, the host context, the archive extractor and the
// executor all start from these values. Override them through the
// configuration file or command line flags rather than editing them.
//
// # Categories
//
//   - Collection timeouts: commands and metadata requests on a live host
//   - Size limits: files, HTTP bodies and archive entries
//   - Execution: component concurrency
//   - Rate limits: metadata endpoint request pacing
//   - Server timeouts and upload limits: the analysis service
//
// # Usage
//
//	ctx, cancel := context.WithTimeout(ctx, defaults.CommandTimeout)
//	defer cancel()
package defaults
