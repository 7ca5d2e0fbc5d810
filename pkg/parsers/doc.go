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

// Package parsers is the catalog of leaf parsers. Each file binds one spec
// to a parse function and a result type:
//
//	var UnameParser = parser.New("uname", specs.Uname, ParseUname)
//
// Parse functions return a skip for empty or inapplicable input, a
// PARSE_ERROR for malformed input and a CONTENT_ERROR when the collected
// output is an error message.
package parsers
