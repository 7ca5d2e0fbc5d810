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

package parsers

import (
	"regexp"
	"strings"

	"github.com/RedHatInsights/insights-core-sub003/pkg/datasource"
	cerrors "github.com/RedHatInsights/insights-core-sub003/pkg/errors"
	"github.com/RedHatInsights/insights-core-sub003/pkg/parser"
	"github.com/RedHatInsights/insights-core-sub003/pkg/specs"
)

// MessagesParser parses /var/log/messages.
var MessagesParser = parser.New("messages", specs.Messages, ParseMessages)

var (
	bsdTimestamp = regexp.MustCompile(`^([A-Z][a-z]{2}\s+\d{1,2}\s+\d{2}:\d{2}:\d{2})\s+(.*)$`)
	isoTimestamp = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2}T\S+)\s+(.*)$`)
	procWithPID  = regexp.MustCompile(`^(.+?)\[(\d+)\]$`)
)

// LogLine is one syslog line.
type LogLine struct {
	Timestamp string `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
	Hostname  string `json:"hostname,omitempty" yaml:"hostname,omitempty"`
	ProcName  string `json:"procname,omitempty" yaml:"procname,omitempty"`
	PID       string `json:"pid,omitempty" yaml:"pid,omitempty"`
	Message   string `json:"message" yaml:"message"`
	Raw       string `json:"raw" yaml:"raw"`
}

// Messages holds the parsed system log lines.
type Messages struct {
	Lines []LogLine `json:"lines" yaml:"lines"`
}

// ParseMessages parses syslog lines with traditional or RFC 3339 timestamps.
// Lines in neither format are kept with only Message and Raw set.
func ParseMessages(c *datasource.Content) (*Messages, error) {
	if err := parser.SkipEmpty(c.Lines); err != nil {
		return nil, err
	}

	m := &Messages{}
	for _, raw := range c.Lines {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		m.Lines = append(m.Lines, parseLogLine(raw))
	}
	if len(m.Lines) == 0 {
		return nil, cerrors.Skipf("%s is empty", c.Path)
	}
	return m, nil
}

func parseLogLine(raw string) LogLine {
	l := LogLine{Raw: raw, Message: raw}

	sm := bsdTimestamp.FindStringSubmatch(raw)
	if sm == nil {
		sm = isoTimestamp.FindStringSubmatch(raw)
	}
	if sm == nil {
		return l
	}
	l.Timestamp = strings.Join(strings.Fields(sm[1]), " ")

	rest := parser.SplitFieldsN(sm[2], 3)
	if len(rest) == 0 {
		return l
	}
	l.Hostname = rest[0]
	l.Message = ""
	if len(rest) < 2 {
		return l
	}

	proc, ok := strings.CutSuffix(rest[1], ":")
	if !ok {
		l.Message = strings.Join(rest[1:], " ")
		return l
	}
	if pm := procWithPID.FindStringSubmatch(proc); pm != nil {
		proc, l.PID = pm[1], pm[2]
	}
	l.ProcName = proc
	if len(rest) > 2 {
		l.Message = rest[2]
	}
	return l
}

// Get returns the lines whose raw text contains s.
func (m *Messages) Get(s string) []LogLine {
	var out []LogLine
	for _, l := range m.Lines {
		if strings.Contains(l.Raw, s) {
			out = append(out, l)
		}
	}
	return out
}
