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
	"fmt"
	"path"
	"regexp"
	"slices"
	"strings"

	"github.com/RedHatInsights/insights-core-sub003/pkg/dr"
)

var (
	// ContextComponent holds the Context of a run. It is seeded by the evaluator.
	ContextComponent = dr.MustRegister(&dr.Component{
		Name:        "datasource.context",
		Kind:        dr.KindContext,
		Description: "collection context (host or archive)",
	})

	// OptionsComponent holds the *Options of a run. Specs depend on it optionally.
	OptionsComponent = dr.MustRegister(&dr.Component{
		Name:        "datasource.options",
		Kind:        dr.KindContext,
		Description: "collection options (skip lists, redaction, filters, sink)",
	})
)

// Sink receives collected content. Paths are archive-relative.
type Sink interface {
	Write(relPath string, data []byte) error
}

// Options controls how specs collect content.
type Options struct {
	// SkipSpecs lists spec names that are never collected.
	SkipSpecs []string

	// SkipFiles lists host path patterns (path.Match syntax) that are never read.
	SkipFiles []string

	// SkipCommands lists command lines that are never run.
	SkipCommands []string

	// Cleaner redacts content before it is stored or parsed.
	Cleaner *Cleaner

	// ApplyFilters keeps only lines matching registered filters for filterable specs.
	ApplyFilters bool

	// Sink, when set, receives every collected artifact.
	Sink Sink
}

func (o *Options) skipSpec(name string) bool {
	return o != nil && slices.Contains(o.SkipSpecs, name)
}

func (o *Options) skipFile(p string) bool {
	if o == nil {
		return false
	}
	for _, pattern := range o.SkipFiles {
		if pattern == p {
			return true
		}
		if ok, err := path.Match(pattern, p); err == nil && ok {
			return true
		}
	}
	return false
}

func (o *Options) skipCommand(cmd string) bool {
	if o == nil {
		return false
	}
	for _, c := range o.SkipCommands {
		if strings.TrimSpace(c) == strings.TrimSpace(cmd) || MangleCommand(c) == MangleCommand(cmd) {
			return true
		}
	}
	return false
}

// Cleaner redacts collected lines.
type Cleaner struct {
	patterns []*regexp.Regexp
	keywords []string
}

// NewCleaner compiles the redaction patterns. Lines matching any pattern are
// dropped; each keyword is replaced with keyword<N>, N being its position.
func NewCleaner(patterns, keywords []string) (*Cleaner, error) {
	c := &Cleaner{}
	for _, p := range patterns {
		if p == "" {
			continue
		}
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid redaction pattern %q: %w", p, err)
		}
		c.patterns = append(c.patterns, re)
	}
	for _, k := range keywords {
		if k != "" {
			c.keywords = append(c.keywords, k)
		}
	}
	return c, nil
}

// Clean returns the redacted lines.
func (c *Cleaner) Clean(lines []string) []string {
	if c == nil || (len(c.patterns) == 0 && len(c.keywords) == 0) {
		return lines
	}

	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if c.drop(line) {
			continue
		}
		for i, k := range c.keywords {
			line = strings.ReplaceAll(line, k, fmt.Sprintf("keyword%d", i))
		}
		out = append(out, line)
	}
	return out
}

func (c *Cleaner) drop(line string) bool {
	for _, re := range c.patterns {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}
