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

package datasource

import (
	"path"
	"regexp"
	"strings"
)

const (
	// CommandsDir is the archive directory holding command and URL output.
	CommandsDir = "insights_commands"

	maxMangledLength = 255
)

var (
	binPrefix    = regexp.MustCompile(`^/(usr/)?(s?bin)/`)
	unsafeChars  = regexp.MustCompile(`[^\w\-./]+`)
	edgeTrimmers = " ._-"
)

// MangleCommand turns a command line into a file name that is stable across
// collection and analysis: "/usr/sbin/grubby --info=ALL" becomes
// "grubby_--info_ALL".
func MangleCommand(command string) string {
	name := binPrefix.ReplaceAllString(strings.TrimSpace(command), "")
	name = unsafeChars.ReplaceAllString(name, "_")
	name = strings.ReplaceAll(name, "/", ".")
	name = strings.Trim(name, edgeTrimmers)
	if len(name) > maxMangledLength {
		name = name[:maxMangledLength]
	}
	return name
}

// CommandPath returns the archive-relative path of a command's output.
func CommandPath(command string) string {
	return path.Join(CommandsDir, MangleCommand(command))
}

// URLPath returns the archive-relative path of a fetched URL's body.
func URLPath(url string) string {
	return CommandPath("curl -s " + url)
}
