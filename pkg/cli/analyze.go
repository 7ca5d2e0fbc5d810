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

	"github.com/urfave/cli/v3"

	"github.com/RedHatInsights/insights-core-sub003/pkg/archive"
	"github.com/RedHatInsights/insights-core-sub003/pkg/config"
	"github.com/RedHatInsights/insights-core-sub003/pkg/datasource"
	"github.com/RedHatInsights/insights-core-sub003/pkg/evaluator"
	"github.com/RedHatInsights/insights-core-sub003/pkg/header"
	"github.com/RedHatInsights/insights-core-sub003/pkg/report"
	"github.com/RedHatInsights/insights-core-sub003/pkg/serializer"
)

func analyzeCmd() *cli.Command {
	return &cli.Command{
		Name:                  "analyze",
		EnableShellCompletion: true,
		Usage:                 "Evaluate rules against a collected archive.",
		ArgsUsage:             "[ARCHIVE]",
		Description: `Reads a previously collected archive (a .tar.gz file or an extracted
directory), parses and combines its artifacts and evaluates the rules.
Nothing is executed on the local host. Filters are not applied again.

Examples:

  insights analyze /tmp/host.tar.gz
  insights analyze --archive ./sosreport-dir --component soft_lockup --format yaml`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "archive",
				Aliases: []string{"a"},
				Usage:   "archive file or directory to analyze",
				Sources: cli.EnvVars(envPrefix + "ARCHIVE"),
			},
			&cli.BoolFlag{
				Name:  "show-context-skips",
				Usage: "include skips of components needing a live host",
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

			path := cmd.String("archive")
			if path == "" {
				path = cmd.Args().First()
			}
			if path == "" {
				return fmt.Errorf("an archive is required: pass --archive or a path argument")
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			var repOpts []report.Option
			if cmd.Bool("show-context-skips") {
				repOpts = append(repOpts, report.WithContextSkips())
			}

			return runAnalyze(ctx, cfg, path, analyzeRun{
				output:      cmd.String("output"),
				format:      outFormat,
				metricsFile: cmd.String("metrics-file"),
				report:      repOpts,
			})
		},
	}
}

type analyzeRun struct {
	output      string
	format      serializer.Format
	metricsFile string
	report      []report.Option
}

func runAnalyze(ctx context.Context, cfg *config.Config, path string, run analyzeRun) error {
	reg, err := loadRegistry(cfg)
	if err != nil {
		return err
	}

	root, cleanup, err := archive.Open(path)
	if err != nil {
		return err
	}
	defer cleanup()
	slog.Debug("analyzing archive", slog.String("path", path), slog.String("root", root))

	opts, err := cfg.CollectOptions(nil, false)
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
		Context:     datasource.NewArchiveContext(root),
		Options:     opts,
		Registry:    reg,
		Targets:     cfg.Components,
		Concurrency: cfg.Concurrency,
		Header:      []header.Option{header.WithMetadata(header.KeySource, path)},
		Report:      run.report,
		Serializer:  ser,
	}
	if err := e.Run(ctx); err != nil {
		return err
	}

	return writeMetrics(run.metricsFile)
}
