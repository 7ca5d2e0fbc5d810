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

// Package archive stores collected artifacts in a directory tree and
// moves that tree in and out of .tar.gz files.
//
// Files keep their host path below the archive root ("etc/os-release")
// and command output is stored under "insights_commands" with mangled
// names, so a collected archive can be analyzed with an ArchiveContext:
//
//	w, err := archive.NewWriter(dir)
//	opts := &datasource.Options{Sink: w}
//	...
//	err = archive.Pack(dir, "host.tar.gz")
//
//	root, cleanup, err := archive.Open("host.tar.gz")
//	defer cleanup()
//	dc := datasource.NewArchiveContext(root)
package archive
