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

package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/RedHatInsights/insights-core-sub003/pkg/dr"
	"github.com/RedHatInsights/insights-core-sub003/pkg/header"
	"github.com/RedHatInsights/insights-core-sub003/pkg/rules"
)

// Report is the result of evaluating a host or an archive.
type Report struct {
	header.Header `json:",inline" yaml:",inline"`

	Summary Summary `json:"summary" yaml:"summary"`

	// Facts maps parser and combiner names to their values.
	Facts map[string]any `json:"facts,omitempty" yaml:"facts,omitempty"`

	// Responses holds the rule responses sorted by rule.
	Responses []*rules.Response `json:"responses" yaml:"responses"`

	// Skips maps component names to the reason they were skipped.
	Skips map[string]string `json:"skips,omitempty" yaml:"skips,omitempty"`

	// Failures maps component names to the error they failed with.
	Failures map[string]string `json:"failures,omitempty" yaml:"failures,omitempty"`

	// Missing maps component names to their unmet dependencies.
	Missing map[string][]string `json:"missing,omitempty" yaml:"missing,omitempty"`
}

// Summary counts the outcomes of a report.
type Summary struct {
	Fail    int `json:"fail" yaml:"fail"`
	Pass    int `json:"pass" yaml:"pass"`
	Info    int `json:"info" yaml:"info"`
	Facts   int `json:"facts" yaml:"facts"`
	Skipped int `json:"skipped" yaml:"skipped"`
	Failed  int `json:"failed" yaml:"failed"`
	Missing int `json:"missing" yaml:"missing"`
}

// Option configures New.
type Option func(*options)

type options struct {
	facts        bool
	contextSkips bool
}

// WithoutFacts leaves parser and combiner values out of the report.
func WithoutFacts() Option {
	return func(o *options) {
		o.facts = false
	}
}

// WithContextSkips keeps skips of unseeded context components, which are
// dropped by default.
func WithContextSkips() Option {
	return func(o *options) {
		o.contextSkips = true
	}
}

// New builds a report from the outcome stored in b.
func New(h header.Header, b *dr.Broker, opts ...Option) *Report {
	o := &options{facts: true}
	for _, opt := range opts {
		opt(o)
	}

	r := &Report{
		Header:    h,
		Facts:     make(map[string]any),
		Responses: make([]*rules.Response, 0),
		Skips:     make(map[string]string),
		Failures:  make(map[string]string),
		Missing:   b.Missing(),
	}

	for _, c := range b.Components() {
		switch c.Kind {
		case dr.KindRule:
			if resp, ok := rules.ResponseOf(b, c); ok {
				r.Responses = append(r.Responses, resp)
			}
		case dr.KindParser, dr.KindCombiner:
			if o.facts {
				v, _ := b.Get(c)
				r.Facts[c.Name] = v
			}
		}
	}
	sort.SliceStable(r.Responses, func(i, j int) bool {
		if r.Responses[i].Rule != r.Responses[j].Rule {
			return r.Responses[i].Rule < r.Responses[j].Rule
		}
		return r.Responses[i].Key < r.Responses[j].Key
	})

	kinds := kindsByName(b)
	for name, err := range b.Skips() {
		if !o.contextSkips && kinds[name] == dr.KindContext {
			continue
		}
		r.Skips[name] = err.Error()
	}
	for name, err := range b.Failures() {
		r.Failures[name] = err.Error()
	}

	r.Summary = summarize(r)
	return r
}

// kindsByName maps the names of all components recorded in b to their kind.
func kindsByName(b *dr.Broker) map[string]dr.Kind {
	out := make(map[string]dr.Kind)
	for _, c := range dr.Default().Components() {
		out[c.Name] = c.Kind
	}
	for _, c := range b.Components() {
		out[c.Name] = c.Kind
	}
	return out
}

func summarize(r *Report) Summary {
	s := Summary{
		Facts:   len(r.Facts),
		Skipped: len(r.Skips),
		Failed:  len(r.Failures),
		Missing: len(r.Missing),
	}
	for _, resp := range r.Responses {
		switch resp.Type {
		case rules.TypeFail:
			s.Fail++
		case rules.TypePass:
			s.Pass++
		case rules.TypeInfo:
			s.Info++
		}
	}
	return s
}

// Response returns the response of the named rule.
func (r *Report) Response(rule string) (*rules.Response, bool) {
	for _, resp := range r.Responses {
		if resp.Rule == rule {
			return resp, true
		}
	}
	return nil, false
}

// Fails returns the responses reporting a problem.
func (r *Report) Fails() []*rules.Response {
	var out []*rules.Response
	for _, resp := range r.Responses {
		if resp.Type == rules.TypeFail {
			out = append(out, resp)
		}
	}
	return out
}

// Table renders the responses as rows of rule, type, key and details.
func (r *Report) Table() ([]string, [][]string) {
	rows := make([][]string, 0, len(r.Responses))
	for _, resp := range r.Responses {
		rows = append(rows, []string{resp.Rule, string(resp.Type), resp.Key, formatDetails(resp.Details)})
	}
	return []string{"RULE", "TYPE", "KEY", "DETAILS"}, rows
}

func formatDetails(details map[string]any) string {
	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, details[k]))
	}
	return strings.Join(parts, " ")
}
