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
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/RedHatInsights/insights-core-sub003/pkg/archive"
	"github.com/RedHatInsights/insights-core-sub003/pkg/config"
	"github.com/RedHatInsights/insights-core-sub003/pkg/datasource"
	"github.com/RedHatInsights/insights-core-sub003/pkg/evaluator"
	"github.com/RedHatInsights/insights-core-sub003/pkg/header"
	"github.com/RedHatInsights/insights-core-sub003/pkg/serializer"

	// register the built-in catalog
	_ "github.com/RedHatInsights/insights-core-sub003/pkg/combiners"
	_ "github.com/RedHatInsights/insights-core-sub003/pkg/parsers"
	_ "github.com/RedHatInsights/insights-core-sub003/pkg/rules"
)

func collectCmd() *cli.Command {
	return &cli.Command{
		Name:                  "collect",
		EnableShellCompletion: true,
		Usage:                 "Collect from the live host and evaluate rules.",
		Description: `Collects the registered specs from the running host, parses and combines
them and evaluates the rules. The report is written in the selected format.

With --archive the collected (filtered and redacted) artifacts are also stored
in a gzipped tar archive that "analyze" can read later.

Examples:

Evaluate everything and print a table:
  insights collect --format table

Collect only what one rule needs and keep the archive:
  insights collect --component cpu_vulnerable --archive /tmp/host.tar.gz`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "root",
				Usage:   "path prefix of the host filesystem",
				Sources: cli.EnvVars(envPrefix + "ROOT"),
			},
			&cli.StringFlag{
				Name:    "archive",
				Aliases: []string{"a"},
				Usage:   "also write the collected artifacts to this .tar.gz file",
				Sources: cli.EnvVars(envPrefix + "ARCHIVE"),
			},
			&cli.DurationFlag{
				Name:    "command-timeout",
				Usage:   "timeout of each collected command",
				Sources: cli.EnvVars(envPrefix + "COMMAND_TIMEOUT"),
			},
			&cli.DurationFlag{
				Name:    "fetch-timeout",
				Usage:   "timeout of each metadata request",
				Sources: cli.EnvVars(envPrefix + "FETCH_TIMEOUT"),
			},
			&cli.StringSliceFlag{
				Name:  "skip-spec",
				Usage: "do not collect this spec (can be repeated)",
			},
			&cli.BoolFlag{
				Name:  "no-filters",
				Usage: "keep every line of filterable specs",
			},
			newComponentFlag(),
			newConcurrencyFlag(),
			newRulesFileFlag(),
			newOutputFlag(),
			newFormatFlag(),
			newMetricsFileFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			return runCollect(ctx, cfg, collectRun{
				archivePath: cmd.String("archive"),
				output:      cmd.String("output"),
				format:      outFormat,
				metricsFile: cmd.String("metrics-file"),
			})
		},
	}
}

// collectRun holds the per-invocation settings not covered by the config file.
type collectRun struct {
	archivePath string
	output      string
	format      serializer.Format
	metricsFile string
}

func runCollect(ctx context.Context, cfg *config.Config, run collectRun) error {
	reg, err := loadRegistry(cfg)
	if err != nil {
		return err
	}

	var sink *archive.Writer
	if run.archivePath != "" {
		dir, err := os.MkdirTemp("", "insights-collect-")
		if err != nil {
			return fmt.Errorf("failed to create staging directory: %w", err)
		}
		defer os.RemoveAll(dir)

		if sink, err = archive.NewWriter(dir); err != nil {
			return err
		}
	}

	var opts *datasource.Options
	if sink != nil {
		opts, err = cfg.CollectOptions(sink, true)
	} else {
		opts, err = cfg.CollectOptions(nil, true)
	}
	if err != nil {
		return err
	}

	ser := serializer.NewFileWriterOrStdout(run.format, run.output)
	defer func() {
		if closeErr := ser.Close(); closeErr != nil {
			slog.Warn("failed to close serializer", "error", closeErr)
		}
	}()

	e := &evaluator.Evaluator{
		Version:     version,
		Context:     datasource.NewHostContext(cfg.HostOptions()...),
		Options:     opts,
		Registry:    reg,
		Targets:     cfg.Components,
		Concurrency: cfg.Concurrency,
		Header:      []header.Option{header.WithHost(ctx)},
		Serializer:  ser,
	}
	if err := e.Run(ctx); err != nil {
		return err
	}

	if sink != nil {
		if err := archive.Pack(sink.Root(), run.archivePath); err != nil {
			return err
		}
		slog.Info("archive written",
			slog.String("path", run.archivePath),
			slog.Int("artifacts", sink.Count()))
	}

	return writeMetrics(run.metricsFile)
}
