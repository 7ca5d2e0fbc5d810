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

// Package evaluator runs the component graph against a collection context
// and produces a report.
//
// # Usage
//
//	e := &evaluator.Evaluator{
//	    Version: "v1.0.0",
//	    Context: datasource.NewHostContext(),
//	    Options: &datasource.Options{Sink: w},
//	}
//	rep, err := e.Evaluate(ctx)
//
// Run evaluates and writes the report with the configured Serializer,
// defaulting to JSON on stdout.
//
// # Targets
//
// Targets names the components to evaluate, by full ("parsers.uname") or
// short ("uname") name. Without targets every registered rule, combiner and
// parser is evaluated. Dependencies of the targets are always run.
//
// # Metrics
//
// Evaluation duration, outcome and rule responses are recorded with
// promauto collectors in the default Prometheus registry.
package evaluator
