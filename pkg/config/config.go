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

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/RedHatInsights/insights-core-sub003/pkg/datasource"
	"github.com/RedHatInsights/insights-core-sub003/pkg/defaults"
	cerrors "github.com/RedHatInsights/insights-core-sub003/pkg/errors"
	"github.com/RedHatInsights/insights-core-sub003/pkg/serializer"
)

const (
	DefaultRoot           = "/"
	DefaultCommandTimeout = defaults.CommandTimeout
	DefaultFetchTimeout   = defaults.FetchTimeout
	DefaultConcurrency    = defaults.Concurrency
)

// Config is the tool configuration.
type Config struct {
	// Root is the host root that files are read below.
	Root string `json:"root" yaml:"root"`

	CommandTimeout time.Duration `json:"command_timeout" yaml:"command_timeout"`
	FetchTimeout   time.Duration `json:"fetch_timeout" yaml:"fetch_timeout"`
	Concurrency    int           `json:"concurrency" yaml:"concurrency"`

	// ApplyFilters trims filterable artifacts to the registered filters
	// when collecting from a live host.
	ApplyFilters bool `json:"apply_filters" yaml:"apply_filters"`

	// Components limits evaluation to these components and their
	// dependencies. Empty evaluates everything.
	Components []string `json:"components,omitempty" yaml:"components,omitempty"`

	Skip   Skip   `json:"skip" yaml:"skip"`
	Redact Redact `json:"redact" yaml:"redact"`

	// RulesFile is an optional YAML file of declarative rules.
	RulesFile string `json:"rules_file,omitempty" yaml:"rules_file,omitempty"`
}

// Skip lists what is never collected.
type Skip struct {
	Specs    []string `json:"specs,omitempty" yaml:"specs,omitempty"`
	Files    []string `json:"files,omitempty" yaml:"files,omitempty"`
	Commands []string `json:"commands,omitempty" yaml:"commands,omitempty"`
}

// Redact configures redaction of collected content.
type Redact struct {
	// Patterns are regular expressions; matching lines are dropped.
	Patterns []string `json:"patterns,omitempty" yaml:"patterns,omitempty"`

	// Keywords are replaced with keyword<N>.
	Keywords []string `json:"keywords,omitempty" yaml:"keywords,omitempty"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Root:           DefaultRoot,
		CommandTimeout: DefaultCommandTimeout,
		FetchTimeout:   DefaultFetchTimeout,
		Concurrency:    DefaultConcurrency,
		ApplyFilters:   true,
	}
}

// Load reads the file at path over the defaults. An empty path returns
// the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	r, err := serializer.NewFileReader(serializer.FormatFromPath(path), path)
	if err != nil {
		return nil, cerrors.Wrap(cerrors.ErrCodeNotFound, fmt.Sprintf("failed to open config %s", path), err)
	}
	defer r.Close()

	if err := r.Deserialize(cfg); err != nil {
		return nil, cerrors.Wrap(cerrors.ErrCodeInvalidRequest, fmt.Sprintf("failed to parse config %s", path), err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	slog.Debug("loaded config", slog.String("path", path))
	return cfg, nil
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	var errs []error
	if c.Root == "" {
		errs = append(errs, errors.New("root cannot be empty"))
	}
	if c.CommandTimeout <= 0 {
		errs = append(errs, fmt.Errorf("command_timeout must be positive, got %s", c.CommandTimeout))
	}
	if c.FetchTimeout <= 0 {
		errs = append(errs, fmt.Errorf("fetch_timeout must be positive, got %s", c.FetchTimeout))
	}
	if c.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("concurrency must be at least 1, got %d", c.Concurrency))
	}
	if _, err := datasource.NewCleaner(c.Redact.Patterns, c.Redact.Keywords); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return cerrors.Wrap(cerrors.ErrCodeInvalidRequest, "invalid config", errors.Join(errs...))
	}
	return nil
}

// HostOptions returns the options of a live host context.
func (c *Config) HostOptions() []datasource.HostOption {
	return []datasource.HostOption{
		datasource.WithRoot(c.Root),
		datasource.WithCommandTimeout(c.CommandTimeout),
		datasource.WithFetchTimeout(c.FetchTimeout),
	}
}

// CollectOptions returns the collection options for sink. Filters are
// applied only when filter is true and enabled in the configuration.
func (c *Config) CollectOptions(sink datasource.Sink, filter bool) (*datasource.Options, error) {
	cleaner, err := datasource.NewCleaner(c.Redact.Patterns, c.Redact.Keywords)
	if err != nil {
		return nil, cerrors.Wrap(cerrors.ErrCodeInvalidRequest, "invalid redaction settings", err)
	}
	opts := &datasource.Options{
		SkipSpecs:    c.Skip.Specs,
		SkipFiles:    c.Skip.Files,
		SkipCommands: c.Skip.Commands,
		Cleaner:      cleaner,
		ApplyFilters: filter && c.ApplyFilters,
	}
	if sink != nil {
		opts.Sink = sink
	}
	return opts, nil
}
