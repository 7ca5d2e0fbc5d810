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

// Package errors provides structured error types for better observability
// and programmatic error handling across the application.
//
// Besides the generic codes, the package carries the component outcome
// taxonomy used by the runtime: a skip signal (input absent or not
// applicable, not a failure), parse errors (input present but malformed)
// and content / called-process errors (collection itself failed).
//
// Example usage:
//
//	if len(lines) == 0 {
//	    return nil, errors.Skip("empty content")
//	}
//	return nil, errors.ParseError("unexpected header", lines[0])
package errors
