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

	"github.com/urfave/cli/v3"

	"github.com/RedHatInsights/insights-core-sub003/pkg/api"
	"github.com/RedHatInsights/insights-core-sub003/pkg/defaults"
	"github.com/RedHatInsights/insights-core-sub003/pkg/server"
)

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the analysis service.",
		Description: `Serves POST /v1/analyze, which evaluates an uploaded archive and returns
the report, plus the spec and component catalogs. Nothing is collected from
the host the service runs on.

Example:

  insights serve --port 8080 &
  curl --data-binary @host.tar.gz localhost:8080/v1/analyze`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "address",
				Usage:   "listen address",
				Sources: cli.EnvVars(envPrefix + "ADDRESS"),
			},
			&cli.IntFlag{
				Name:    "port",
				Value:   8080,
				Usage:   "listen port",
				Sources: cli.EnvVars("PORT"),
			},
			&cli.DurationFlag{
				Name:    "analyze-timeout",
				Value:   defaults.AnalyzeTimeout,
				Usage:   "maximum time spent evaluating one uploaded archive",
				Sources: cli.EnvVars(envPrefix + "ANALYZE_TIMEOUT"),
			},
			newRulesFileFlag(),
			newConcurrencyFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			reg, err := loadRegistry(cfg)
			if err != nil {
				return err
			}

			h := api.NewHandler(
				api.WithVersion(version),
				api.WithRegistry(reg),
				api.WithConfig(cfg),
				api.WithAnalyzeTimeout(cmd.Duration("analyze-timeout")),
			)
			return api.Serve(ctx, h, server.WithAddress(cmd.String("address"), int(cmd.Int("port"))))
		},
	}
}
