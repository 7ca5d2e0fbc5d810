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

// Package rules evaluates parser and combiner values and reports findings.
//
// A rule is a component returning a *Response:
//
//	var Example = rules.New("example", rules.Deps{Requires: ...},
//		func(b *dr.Broker) (*rules.Response, error) {
//			return rules.MakeFail("EXAMPLE_KEY", map[string]any{"why": "..."}), nil
//		})
//
// Rules that have nothing to report return a skip. Besides the built-in
// rules, LoadFile registers declarative rules whose condition is a CEL
// expression over the JSON view of the components they require.
package rules
