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

// Package dr implements the component runtime: registration of components,
// dependency resolution and execution against a Broker.
//
// # Components
//
// A Component is a named unit of work with declared dependencies. Kinds are
// context, datasource, parser, combiner and rule; the runtime treats them
// alike and only uses the kind for reporting and metrics.
//
//	var Uname = dr.MustRegister(&dr.Component{
//	    Name:     "parsers.uname",
//	    Kind:     dr.KindParser,
//	    Requires: []*dr.Component{specs.Uname.Component()},
//	    Run: func(ctx context.Context, b *dr.Broker) (any, error) {
//	        ...
//	    },
//	})
//
// Requires lists components that must all have produced a value. AnyOf lists
// groups where at least one member of every group must have a value.
// Optional components are ordered before the dependent but never block it.
//
// # Execution
//
// Run resolves the transitive closure of the targets, groups it into levels
// by dependency depth and executes each level concurrently. A component whose
// dependencies are unmet is recorded as missing; a skip error is recorded as
// a skip; any other error or a panic is recorded as a failure. Only context
// cancellation aborts a run.
package dr
