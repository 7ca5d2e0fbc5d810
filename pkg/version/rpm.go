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

package version

import (
	"fmt"
	"strconv"
	"strings"
)

// knownArches are the architecture suffixes recognised on NVRA strings.
var knownArches = map[string]bool{
	"noarch": true, "x86_64": true, "i686": true, "i386": true, "aarch64": true,
	"ppc64le": true, "ppc64": true, "s390x": true, "src": true,
}

// NVRA is a parsed RPM package identifier.
type NVRA struct {
	Name    string `json:"name" yaml:"name"`
	Epoch   int    `json:"epoch,omitempty" yaml:"epoch,omitempty"`
	Version string `json:"version" yaml:"version"`
	Release string `json:"release" yaml:"release"`
	Arch    string `json:"arch,omitempty" yaml:"arch,omitempty"`
}

// String renders the package as name-[epoch:]version-release[.arch].
func (p NVRA) String() string {
	var b strings.Builder
	b.WriteString(p.Name)
	b.WriteByte('-')
	if p.Epoch > 0 {
		fmt.Fprintf(&b, "%d:", p.Epoch)
	}
	b.WriteString(p.Version)
	b.WriteByte('-')
	b.WriteString(p.Release)
	if p.Arch != "" {
		b.WriteByte('.')
		b.WriteString(p.Arch)
	}
	return b.String()
}

// ParseNVRA parses strings such as "kernel-4.18.0-425.3.1.el8.x86_64",
// "bash-0:4.4.20-4.el8" or "openssl-libs-1:1.1.1k-7.el8_6.x86_64".
// The arch suffix is optional and only recognised for known architectures.
func ParseNVRA(s string) (NVRA, error) {
	s = strings.TrimSpace(s)
	var p NVRA

	if dot := strings.LastIndexByte(s, '.'); dot > 0 && knownArches[s[dot+1:]] {
		p.Arch = s[dot+1:]
		s = s[:dot]
	}

	relIdx := strings.LastIndexByte(s, '-')
	if relIdx <= 0 {
		return NVRA{}, fmt.Errorf("%w: %q", ErrInvalidNVRA, s)
	}
	verIdx := strings.LastIndexByte(s[:relIdx], '-')
	if verIdx <= 0 {
		return NVRA{}, fmt.Errorf("%w: %q", ErrInvalidNVRA, s)
	}

	p.Name = s[:verIdx]
	p.Version = s[verIdx+1 : relIdx]
	p.Release = s[relIdx+1:]

	if colon := strings.IndexByte(p.Version, ':'); colon >= 0 {
		epoch, err := strconv.Atoi(p.Version[:colon])
		if err != nil {
			return NVRA{}, fmt.Errorf("%w: bad epoch in %q", ErrInvalidNVRA, s)
		}
		p.Epoch = epoch
		p.Version = p.Version[colon+1:]
	}

	if p.Version == "" || p.Release == "" {
		return NVRA{}, fmt.Errorf("%w: %q", ErrInvalidNVRA, s)
	}
	return p, nil
}

// CompareEVR orders two packages by epoch, version and release.
func CompareEVR(a, b NVRA) int {
	switch {
	case a.Epoch < b.Epoch:
		return -1
	case a.Epoch > b.Epoch:
		return 1
	}
	if c := Compare(a.Version, b.Version); c != 0 {
		return c
	}
	return Compare(a.Release, b.Release)
}

// Compare implements the rpmvercmp ordering of two version or release
// strings: alternating numeric and alphabetic segments, '~' sorts before
// everything (pre-releases) and '^' sorts after the base version.
func Compare(a, b string) int {
	if a == b {
		return 0
	}

	for len(a) > 0 || len(b) > 0 {
		a = strings.TrimLeftFunc(a, isSeparator)
		b = strings.TrimLeftFunc(b, isSeparator)

		// tilde sorts before everything else
		if strings.HasPrefix(a, "~") || strings.HasPrefix(b, "~") {
			if !strings.HasPrefix(a, "~") {
				return 1
			}
			if !strings.HasPrefix(b, "~") {
				return -1
			}
			a, b = a[1:], b[1:]
			continue
		}

		// caret sorts after the base version but before any other segment
		if strings.HasPrefix(a, "^") || strings.HasPrefix(b, "^") {
			if a == "" {
				return -1
			}
			if b == "" {
				return 1
			}
			if !strings.HasPrefix(a, "^") {
				return 1
			}
			if !strings.HasPrefix(b, "^") {
				return -1
			}
			a, b = a[1:], b[1:]
			continue
		}

		if a == "" || b == "" {
			break
		}

		numeric := isDigit(rune(a[0]))
		segA, restA := splitSegment(a, numeric)
		segB, restB := splitSegment(b, numeric)

		if segB == "" {
			// numeric segments are newer than alpha segments
			if numeric {
				return 1
			}
			return -1
		}

		if numeric {
			segA = strings.TrimLeft(segA, "0")
			segB = strings.TrimLeft(segB, "0")
			if len(segA) != len(segB) {
				if len(segA) > len(segB) {
					return 1
				}
				return -1
			}
		}
		if c := strings.Compare(segA, segB); c != 0 {
			return c
		}
		a, b = restA, restB
	}

	switch {
	case a == "" && b == "":
		return 0
	case a == "":
		return -1
	default:
		return 1
	}
}

func splitSegment(s string, numeric bool) (string, string) {
	i := 0
	for i < len(s) {
		r := rune(s[i])
		if numeric && !isDigit(r) || !numeric && !isAlpha(r) {
			break
		}
		i++
	}
	return s[:i], s[i:]
}

func isSeparator(r rune) bool {
	return !isDigit(r) && !isAlpha(r) && r != '~' && r != '^'
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isAlpha(r rune) bool { return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' }
