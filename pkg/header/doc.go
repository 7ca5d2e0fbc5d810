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

// Package header provides the common header of the documents the insights
// tool emits.
//
// A header carries the document kind, its API version and string metadata:
//
//	h := header.New(
//		header.WithKind(header.KindReport),
//		header.WithAPIVersion(header.APIVersion),
//		header.WithReportID(),
//	)
//
// Init stamps a header with a timestamp and the tool version. WithHost adds
// the identity of the local machine and is only meaningful when collecting
// from the live host.
package header
