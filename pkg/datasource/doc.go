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

// Package datasource turns named artifact definitions (specs) into captured
// content.
//
// # Contexts
//
// A Context is where content comes from. HostContext reads files under a
// root directory, runs commands with a timeout, fetches cloud metadata URLs
// and lists systemd unit files over D-Bus. ArchiveContext reads the same
// artifacts back from a collected archive directory, where files keep their
// host path and command or URL output is stored under insights_commands/
// with a mangled name (see MangleCommand).
//
// # Specs
//
// A Spec names one artifact:
//
//	var Cmdline = datasource.SimpleFile("cmdline", "/proc/cmdline")
//	var CPUVulns = datasource.Glob("cpu_vulns", "/sys/devices/system/cpu/vulnerabilities/*")
//	var Uname = datasource.Command("uname", "/usr/bin/uname -a")
//
// Every spec owns a datasource component registered in the default dr
// registry. It depends on ContextComponent and, optionally, on
// OptionsComponent; the evaluator seeds both. Glob specs produce
// []*Content, every other kind produces *Content.
//
// # Errors
//
// Absent files, missing commands and empty output are skips. Non-zero exit
// codes are CALLED_PROCESS_ERROR, read and fetch failures CONTENT_ERROR.
package datasource
