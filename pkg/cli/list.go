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

	"github.com/RedHatInsights/insights-core-sub003/pkg/api"
	"github.com/RedHatInsights/insights-core-sub003/pkg/serializer"
)

func specsCmd() *cli.Command {
	return &cli.Command{
		Name:  "specs",
		Usage: "List the registered specs and their filters.",
		Flags: []cli.Flag{
			newOutputFlag(),
			newFormatFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}
			return serialize(ctx, outFormat, cmd.String("output"), api.NewSpecList(version))
		},
	}
}

func componentsCmd() *cli.Command {
	return &cli.Command{
		Name:  "components",
		Usage: "List the registered components.",
		Description: `Lists the components of the dependency graph. With --target only the
named components and their dependencies are listed, in execution order.

Examples:

  insights components --kind rule
  insights components --target cpu_vulnerable --format table`,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:  "kind",
				Usage: fmt.Sprintf("only list this kind (one of: %s)", api.KindNames()),
			},
			&cli.StringSliceFlag{
				Name:  "target",
				Usage: "list the execution order of this component (can be repeated)",
			},
			newRulesFileFlag(),
			newOutputFlag(),
			newFormatFlag(),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			outFormat, err := parseOutputFormat(cmd)
			if err != nil {
				return err
			}

			kinds, err := api.ParseKinds(cmd.StringSlice("kind"))
			if err != nil {
				return err
			}

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			reg, err := loadRegistry(cfg)
			if err != nil {
				return err
			}

			comps, err := api.ListComponents(reg, cmd.StringSlice("target"))
			if err != nil {
				return err
			}
			return serialize(ctx, outFormat, cmd.String("output"), api.NewComponentList(version, comps, kinds))
		},
	}
}

func serialize(ctx context.Context, format serializer.Format, output string, v any) error {
	ser := serializer.NewFileWriterOrStdout(format, output)
	defer func() {
		if closeErr := ser.Close(); closeErr != nil {
			slog.Warn("failed to close serializer", "error", closeErr)
		}
	}()
	return ser.Serialize(ctx, v)
}
