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

package api

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/RedHatInsights/insights-core-sub003/pkg/dr"
	cerrors "github.com/RedHatInsights/insights-core-sub003/pkg/errors"
	"github.com/RedHatInsights/insights-core-sub003/pkg/server"
	"github.com/RedHatInsights/insights-core-sub003/pkg/specs"
)

const name = "insights"

// Serve runs the analysis service until ctx is canceled.
func Serve(ctx context.Context, h *Handler, opts ...server.Option) error {
	opts = append([]server.Option{
		server.WithName(name),
		server.WithVersion(h.version),
		server.WithHandler(h.Routes()),
		server.WithReadinessCheck("registry", h.checkRegistry),
		server.WithReadinessCheck("catalog", h.checkCatalog),
	}, opts...)

	s := server.New(opts...)
	if err := s.Run(ctx); err != nil {
		slog.Error("server exited with error", "error", err)
		return err
	}
	return nil
}

// checkRegistry requires at least one rule to evaluate uploads against.
func (h *Handler) checkRegistry(context.Context) (string, error) {
	all := h.registry.Components()
	ruleCount := len(h.registry.OfKind(dr.KindRule))
	if ruleCount == 0 {
		return "", cerrors.NewWithContext(cerrors.ErrCodeUnavailable, "no rules registered",
			map[string]any{"components": len(all)})
	}
	return fmt.Sprintf("%d components, %d rules", len(all), ruleCount), nil
}

// checkCatalog requires registered specs for archives to be read back.
func (h *Handler) checkCatalog(context.Context) (string, error) {
	n := len(specs.All())
	if n == 0 {
		return "", cerrors.New(cerrors.ErrCodeUnavailable, "no specs registered")
	}
	return fmt.Sprintf("%d specs", n), nil
}
