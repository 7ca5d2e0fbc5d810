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

// Package parser binds parse functions to specs and provides the text
// helpers most parsers share.
//
// A parser is declared once as a package variable:
//
//	var Uname = parser.New("uname", specs.Uname, parseUname)
//
// New registers a parser component depending on the spec's datasource
// component. For multi-output specs the stored value is []T; contents whose
// parse returns a skip are dropped.
//
// Helpers adapted from line/key-value file readers:
//
//	lines := parser.CleanLines(c.Lines)                 // trimmed, no blanks or comments
//	kv := parser.ParseKeyValue(lines, parser.WithVTrimChars(`"`))
//	rows, err := parser.ParseTable(c.Lines)             // header row + whitespace columns
package parser
