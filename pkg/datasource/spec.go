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
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/RedHatInsights/insights-core-sub003/pkg/dr"
	cerrors "github.com/RedHatInsights/insights-core-sub003/pkg/errors"
	"github.com/RedHatInsights/insights-core-sub003/pkg/filters"
)

// Kind is how a spec collects its content.
type Kind string

const (
	KindFile      Kind = "file"
	KindGlob      Kind = "glob"
	KindFirstFile Kind = "first_file"
	KindCommand   Kind = "command"
	KindURL       Kind = "url"
	KindUnitFiles Kind = "unit_files"
)

// vendorFiles are the DMI attributes checked by URL vendor preconditions.
var vendorFiles = []string{
	"/sys/class/dmi/id/sys_vendor",
	"/sys/class/dmi/id/bios_vendor",
	"/sys/class/dmi/id/bios_version",
	"/sys/class/dmi/id/chassis_asset_tag",
}

// Spec is a named artifact.
type Spec struct {
	Name        string            `json:"name" yaml:"name"`
	Kind        Kind              `json:"kind" yaml:"kind"`
	Paths       []string          `json:"paths,omitempty" yaml:"paths,omitempty"`
	Command     string            `json:"command,omitempty" yaml:"command,omitempty"`
	URL         string            `json:"url,omitempty" yaml:"url,omitempty"`
	Headers     map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Filterable  bool              `json:"filterable,omitempty" yaml:"filterable,omitempty"`
	Vendors     []string          `json:"vendors,omitempty" yaml:"vendors,omitempty"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`

	component *dr.Component
}

// SpecOption configures a Spec.
type SpecOption func(*Spec)

// Filterable marks the spec as one whose lines are reduced to registered filters.
func Filterable() SpecOption {
	return func(s *Spec) {
		s.Filterable = true
	}
}

// WithHeaders sets request headers for URL specs.
func WithHeaders(h map[string]string) SpecOption {
	return func(s *Spec) {
		s.Headers = h
	}
}

// WithVendors restricts a URL spec to hosts whose DMI data names one of vendors.
func WithVendors(vendors ...string) SpecOption {
	return func(s *Spec) {
		s.Vendors = vendors
	}
}

// WithDescription sets the spec description.
func WithDescription(d string) SpecOption {
	return func(s *Spec) {
		s.Description = d
	}
}

// SimpleFile defines a spec for a single file.
func SimpleFile(name, path string, opts ...SpecOption) *Spec {
	return newSpec(&Spec{Name: name, Kind: KindFile, Paths: []string{path}}, opts)
}

// Glob defines a multi-output spec for every file matching the patterns.
func Glob(name string, patterns []string, opts ...SpecOption) *Spec {
	return newSpec(&Spec{Name: name, Kind: KindGlob, Paths: patterns}, opts)
}

// FirstFile defines a spec for the first of paths that exists.
func FirstFile(name string, paths []string, opts ...SpecOption) *Spec {
	return newSpec(&Spec{Name: name, Kind: KindFirstFile, Paths: paths}, opts)
}

// Command defines a spec for the output of a command line.
func Command(name, command string, opts ...SpecOption) *Spec {
	return newSpec(&Spec{Name: name, Kind: KindCommand, Command: command}, opts)
}

// URL defines a spec for the body of an HTTP GET.
func URL(name, url string, opts ...SpecOption) *Spec {
	return newSpec(&Spec{Name: name, Kind: KindURL, URL: url}, opts)
}

// UnitFiles defines a spec for the systemd unit file listing.
func UnitFiles(name string, opts ...SpecOption) *Spec {
	return newSpec(&Spec{Name: name, Kind: KindUnitFiles, Command: UnitFilesCommand}, opts)
}

func newSpec(s *Spec, opts []SpecOption) *Spec {
	for _, opt := range opts {
		opt(s)
	}
	s.component = dr.MustRegister(&dr.Component{
		Name:        "specs." + s.Name,
		Kind:        dr.KindDatasource,
		Requires:    []*dr.Component{ContextComponent},
		Optional:    []*dr.Component{OptionsComponent},
		Run:         s.run,
		Description: s.Description,
	})
	return s
}

// Component returns the datasource component of the spec.
func (s *Spec) Component() *dr.Component {
	return s.component
}

// SpecName implements filters.Target.
func (s *Spec) SpecName() string {
	return s.Name
}

// IsFilterable implements filters.Target.
func (s *Spec) IsFilterable() bool {
	return s.Filterable
}

// Multi reports whether the spec yields []*Content.
func (s *Spec) Multi() bool {
	return s.Kind == KindGlob
}

// Source returns a printable description of what the spec collects.
func (s *Spec) Source() string {
	switch s.Kind {
	case KindCommand, KindUnitFiles:
		return s.Command
	case KindURL:
		return s.URL
	default:
		return strings.Join(s.Paths, ", ")
	}
}

func (s *Spec) run(ctx context.Context, b *dr.Broker) (any, error) {
	dc, ok := dr.Value[Context](b, ContextComponent)
	if !ok {
		return nil, cerrors.Skip("no collection context")
	}
	opts, _ := dr.Value[*Options](b, OptionsComponent)
	return s.Load(ctx, dc, opts)
}

// Load collects the spec from dc. Glob specs return []*Content, all other
// kinds *Content.
func (s *Spec) Load(ctx context.Context, dc Context, opts *Options) (any, error) {
	if opts.skipSpec(s.Name) {
		return nil, cerrors.Skipf("spec %s is disabled", s.Name)
	}

	switch s.Kind {
	case KindFile:
		return s.loadFile(ctx, dc, opts, s.Paths[0])
	case KindFirstFile:
		return s.loadFirst(ctx, dc, opts)
	case KindGlob:
		return s.loadGlob(ctx, dc, opts)
	case KindCommand:
		return s.loadCommand(ctx, dc, opts)
	case KindURL:
		return s.loadURL(ctx, dc, opts)
	case KindUnitFiles:
		data, err := dc.UnitFiles(ctx)
		if err != nil {
			return nil, err
		}
		return s.finish(opts, s.Command, CommandPath(s.Command), data)
	default:
		return nil, cerrors.New(cerrors.ErrCodeInvalidRequest, fmt.Sprintf("unknown spec kind %q", s.Kind))
	}
}

func (s *Spec) loadFile(ctx context.Context, dc Context, opts *Options, p string) (*Content, error) {
	if opts.skipFile(p) {
		return nil, cerrors.Skipf("%s is disabled", p)
	}

	data, err := dc.ReadFile(ctx, p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, cerrors.Skipf("%s does not exist", p)
	}
	if err != nil {
		if cerrors.CodeOf(err) != "" {
			return nil, err
		}
		return nil, cerrors.ContentError("failed to read "+p, err)
	}
	return s.finish(opts, p, strings.TrimPrefix(p, "/"), data)
}

func (s *Spec) loadFirst(ctx context.Context, dc Context, opts *Options) (*Content, error) {
	for _, p := range s.Paths {
		c, err := s.loadFile(ctx, dc, opts, p)
		if cerrors.IsSkip(err) {
			continue
		}
		return c, err
	}
	return nil, cerrors.Skipf("none of %s exist", strings.Join(s.Paths, ", "))
}

func (s *Spec) loadGlob(ctx context.Context, dc Context, opts *Options) ([]*Content, error) {
	var out []*Content
	for _, pattern := range s.Paths {
		matches, err := dc.Glob(pattern)
		if err != nil {
			return nil, cerrors.Wrap(cerrors.ErrCodeInvalidRequest, "invalid glob "+pattern, err)
		}
		for _, p := range matches {
			c, err := s.loadFile(ctx, dc, opts, p)
			if err != nil {
				if !cerrors.IsSkip(err) {
					slog.Debug("glob member failed", slog.String("spec", s.Name), slog.String("path", p), slog.String("error", err.Error()))
				}
				continue
			}
			out = append(out, c)
		}
	}
	if len(out) == 0 {
		return nil, cerrors.Skipf("no files match %s", strings.Join(s.Paths, ", "))
	}
	return out, nil
}

func (s *Spec) loadCommand(ctx context.Context, dc Context, opts *Options) (*Content, error) {
	if opts.skipCommand(s.Command) {
		return nil, cerrors.Skipf("command %q is disabled", s.Command)
	}
	data, err := dc.Run(ctx, s.Command)
	if err != nil {
		return nil, err
	}
	return s.finish(opts, s.Command, CommandPath(s.Command), data)
}

func (s *Spec) loadURL(ctx context.Context, dc Context, opts *Options) (*Content, error) {
	if !s.vendorMatches(ctx, dc) {
		return nil, cerrors.Skipf("host is not one of %s", strings.Join(s.Vendors, ", "))
	}
	data, err := dc.Fetch(ctx, s.URL, s.Headers)
	if err != nil {
		return nil, err
	}
	return s.finish(opts, s.URL, URLPath(s.URL), data)
}

// vendorMatches checks the DMI attributes against Vendors. Hosts without
// readable DMI data pass so archives collected elsewhere still load.
func (s *Spec) vendorMatches(ctx context.Context, dc Context) bool {
	if len(s.Vendors) == 0 {
		return true
	}

	readable := false
	for _, f := range vendorFiles {
		data, err := dc.ReadFile(ctx, f)
		if err != nil {
			continue
		}
		readable = true
		value := strings.ToLower(string(data))
		for _, v := range s.Vendors {
			if strings.Contains(value, strings.ToLower(v)) {
				return true
			}
		}
	}
	return !readable
}

func (s *Spec) finish(opts *Options, source, rel string, data []byte) (*Content, error) {
	lines := SplitLines(data)

	if s.Filterable && opts != nil && opts.ApplyFilters {
		patterns := filters.Get(s.Name)
		if len(patterns) == 0 {
			return nil, cerrors.Skipf("no filters registered for %s", s.Name)
		}
		lines = filters.Apply(lines, patterns)
	}
	if opts != nil {
		lines = opts.Cleaner.Clean(lines)
	}

	c := &Content{Spec: s.Name, Path: source, Lines: lines}
	if c.Empty() {
		return nil, cerrors.Skipf("%s is empty", source)
	}

	if opts != nil && opts.Sink != nil {
		if err := opts.Sink.Write(rel, []byte(c.Text()+"\n")); err != nil {
			slog.Warn("failed to store collected content",
				slog.String("spec", s.Name),
				slog.String("path", rel),
				slog.String("error", err.Error()),
			)
		}
	}
	return c, nil
}
