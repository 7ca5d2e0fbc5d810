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

// Package cli implements the insights command line.
//
// # Commands
//
// collect - Collect from the live host and evaluate:
//
//	insights collect [--archive host.tar.gz] [--output report.json] [--format json|yaml|table]
//
// Runs every spec needed by the selected components against the local host,
// evaluates parsers, combiners and rules and writes the report. With
// --archive the collected artifacts are also packed into a tarball that
// analyze can read later.
//
// analyze - Evaluate a collected archive:
//
//	insights analyze --archive host.tar.gz
//
// Accepts a .tar.gz, a plain .tar or an extracted directory.
//
// specs - List the registered specs and their filters.
//
// components - List registered components, or with --target the execution
// order of the given components and their dependencies.
//
// serve - Run the analysis service:
//
//	insights serve --port 8080
//
// Evaluates archives posted to /v1/analyze and serves the spec and component
// catalogs. See package api.
//
// # Global Flags
//
//	--config       YAML configuration file (INSIGHTS_CONFIG)
//	--log-level    debug, info, warn or error (LOG_LEVEL)
//
// # Output
//
//	--output, -o   Output file path (default: stdout)
//	--format, -t   Output format: json, yaml, table (default: json)
//	--metrics-file Write Prometheus metrics in text format after the run
//
// The CLI uses the urfave/cli/v3 framework and delegates to the evaluator,
// archive, api and serializer packages.
package cli
