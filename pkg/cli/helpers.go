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

package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v3"

	"github.com/RedHatInsights/insights-core-sub003/pkg/config"
	"github.com/RedHatInsights/insights-core-sub003/pkg/dr"
	"github.com/RedHatInsights/insights-core-sub003/pkg/rules"
	"github.com/RedHatInsights/insights-core-sub003/pkg/serializer"
)

// Flags shared by several commands.

func newOutputFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "output file path (default: stdout)",
		Sources: cli.EnvVars(envPrefix + "OUTPUT"),
	}
}

func newFormatFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"t"},
		Value:   string(serializer.FormatJSON),
		Usage:   fmt.Sprintf("output format (supported values: %s)", strings.Join(serializer.SupportedFormats(), ", ")),
		Sources: cli.EnvVars(envPrefix + "FORMAT"),
	}
}

func newMetricsFileFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "metrics-file",
		Usage:   "write Prometheus metrics in text format to this file after the run",
		Sources: cli.EnvVars(envPrefix + "METRICS_FILE"),
	}
}

func newRulesFileFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "rules-file",
		Usage:   "YAML file of declarative rules",
		Sources: cli.EnvVars(envPrefix + "RULES_FILE"),
	}
}

func newComponentFlag() *cli.StringSliceFlag {
	return &cli.StringSliceFlag{
		Name:    "component",
		Aliases: []string{"k"},
		Usage:   "evaluate only this component and its dependencies (can be repeated)",
		Sources: cli.EnvVars(envPrefix + "COMPONENTS"),
	}
}

func newConcurrencyFlag() *cli.IntFlag {
	return &cli.IntFlag{
		Name:    "concurrency",
		Usage:   "maximum number of components run at once",
		Sources: cli.EnvVars(envPrefix + "CONCURRENCY"),
	}
}

// parseOutputFormat validates the --format flag.
func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	f := serializer.Format(cmd.String("format"))
	if f.IsUnknown() {
		return "", fmt.Errorf("unknown output format: %q", f)
	}
	return f, nil
}

// commandLister prints the visible subcommands of cmd.
func commandLister(_ context.Context, cmd *cli.Command) {
	if cmd == nil || len(cmd.Commands) == 0 {
		return
	}
	var w io.Writer = os.Stdout
	if cmd.Root().Writer != nil {
		w = cmd.Root().Writer
	}
	fmt.Fprintf(w, "Available commands:\n")
	for _, c := range cmd.Commands {
		if c.Hidden {
			continue
		}
		fmt.Fprintf(w, "  %-12s %s\n", c.Name, c.Usage)
	}
}

// loadConfig reads --config and applies the flags set on cmd.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, err
	}

	if cmd.IsSet("root") {
		cfg.Root = cmd.String("root")
	}
	if cmd.IsSet("command-timeout") {
		cfg.CommandTimeout = cmd.Duration("command-timeout")
	}
	if cmd.IsSet("fetch-timeout") {
		cfg.FetchTimeout = cmd.Duration("fetch-timeout")
	}
	if cmd.IsSet("concurrency") {
		cfg.Concurrency = int(cmd.Int("concurrency"))
	}
	if cmd.IsSet("component") {
		cfg.Components = cmd.StringSlice("component")
	}
	if cmd.IsSet("skip-spec") {
		cfg.Skip.Specs = append(cfg.Skip.Specs, cmd.StringSlice("skip-spec")...)
	}
	if cmd.IsSet("no-filters") && cmd.Bool("no-filters") {
		cfg.ApplyFilters = false
	}
	if cmd.IsSet("rules-file") {
		cfg.RulesFile = cmd.String("rules-file")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadRegistry returns the registry to evaluate with: the default one, or
// a copy holding the declarative rules of cfg.
func loadRegistry(cfg *config.Config) (*dr.Registry, error) {
	if cfg.RulesFile == "" {
		return dr.Default(), nil
	}
	reg := dr.Default().Clone()
	loaded, err := rules.LoadFile(cfg.RulesFile, reg)
	if err != nil {
		return nil, fmt.Errorf("failed to load rules from %q: %w", cfg.RulesFile, err)
	}
	slog.Debug("loaded declarative rules", slog.String("path", cfg.RulesFile), slog.Int("count", len(loaded)))
	return reg, nil
}

// writeMetrics writes the default Prometheus registry to path, if set.
func writeMetrics(path string) error {
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("failed to write metrics to %q: %w", path, err)
	}
	slog.Debug("wrote metrics", slog.String("path", path))
	return nil
}
