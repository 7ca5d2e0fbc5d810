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

package defaults

import "time"

// Collection timeouts for a live host.
const (
	// CommandTimeout bounds every command run by the host context.
	// Commands still respect a shorter parent context deadline.
	CommandTimeout = 120 * time.Second

	// FetchTimeout bounds every cloud metadata request.
	FetchTimeout = 5 * time.Second
)

// Size limits.
const (
	// MaxFileSize is the largest file read from a live host.
	MaxFileSize = 64 << 20

	// MaxResponseSize is the largest metadata response body read.
	MaxResponseSize = 1 << 20

	// MaxArchiveEntrySize is the largest single file extracted from an archive.
	MaxArchiveEntrySize = 1 << 30

	// MaxExtractedSize is the largest total of file sizes extracted from
	// one archive.
	MaxExtractedSize = 4 << 30

	// MaxArchiveEntries is the largest number of entries extracted from
	// one archive.
	MaxArchiveEntries = 100_000
)

// Execution.
const (
	// Concurrency is the number of components run in parallel per level.
	Concurrency = 8
)

// Rate limits for metadata endpoints.
const (
	// FetchInterval is the minimum spacing between metadata requests.
	FetchInterval = 100 * time.Millisecond

	// FetchBurst is the number of metadata requests allowed back to back.
	FetchBurst = 2
)

// Server timeouts for the analysis service.
const (
	// ServerReadTimeout is the maximum duration for reading a request,
	// including an uploaded archive.
	ServerReadTimeout = 60 * time.Second

	// ServerReadHeaderTimeout prevents slow header attacks.
	ServerReadHeaderTimeout = 5 * time.Second

	// ServerWriteTimeout is the maximum duration for writing a response.
	ServerWriteTimeout = 150 * time.Second

	// ServerIdleTimeout is the maximum duration to wait for the next request.
	ServerIdleTimeout = 120 * time.Second

	// ServerShutdownTimeout is the maximum duration for graceful shutdown.
	ServerShutdownTimeout = 30 * time.Second

	// AnalyzeTimeout bounds the evaluation of one uploaded archive.
	// Should be less than ServerWriteTimeout to allow error handling.
	AnalyzeTimeout = 120 * time.Second
)

// Upload limits.
const (
	// MaxUploadSize is the largest archive accepted by the analysis service.
	MaxUploadSize = 256 << 20
)
