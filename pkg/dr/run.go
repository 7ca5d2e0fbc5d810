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

package dr

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/RedHatInsights/insights-core-sub003/pkg/defaults"
	cerrors "github.com/RedHatInsights/insights-core-sub003/pkg/errors"
)

// DefaultConcurrency is the number of components run in parallel per level.
const DefaultConcurrency = defaults.Concurrency

// RunOption configures Run.
type RunOption func(*runConfig)

type runConfig struct {
	concurrency int
}

// WithConcurrency sets the per-level parallelism. Values below 1 run serially.
func WithConcurrency(n int) RunOption {
	return func(c *runConfig) {
		if n < 1 {
			n = 1
		}
		c.concurrency = n
	}
}

// Run executes the closure of targets against b. Component errors are
// recorded in the broker; the returned error is non-nil only for graph
// errors and context cancellation.
func Run(ctx context.Context, b *Broker, targets []*Component, opts ...RunOption) error {
	cfg := runConfig{concurrency: DefaultConcurrency}
	for _, opt := range opts {
		opt(&cfg)
	}

	levels, err := Levels(targets...)
	if err != nil {
		return err
	}

	slog.Debug("running component graph",
		slog.Int("targets", len(targets)),
		slog.Int("levels", len(levels)),
	)

	for _, level := range levels {
		if err := ctx.Err(); err != nil {
			return err
		}

		var g errgroup.Group
		g.SetLimit(cfg.concurrency)
		for _, c := range level {
			g.Go(func() error {
				execute(ctx, b, c)
				return nil
			})
		}
		_ = g.Wait()
	}

	return ctx.Err()
}

func execute(ctx context.Context, b *Broker, c *Component) {
	if b.Has(c) {
		return
	}

	if c.Run == nil {
		b.skip(c, cerrors.Skipf("%s was not provided", c.Name))
		componentRuns.WithLabelValues(c.Kind.String(), string(StatusSkip)).Inc()
		return
	}

	if missing := c.unmet(b); len(missing) > 0 {
		b.markMissing(c, missing)
		componentRuns.WithLabelValues(c.Kind.String(), string(StatusMissing)).Inc()
		slog.Debug("component missing dependencies", slog.String("component", c.Name), slog.Any("missing", missing))
		return
	}

	start := time.Now()
	v, err := safeRun(ctx, b, c)
	elapsed := time.Since(start)

	b.observe(c, elapsed)
	componentDuration.WithLabelValues(c.Kind.String()).Observe(elapsed.Seconds())

	switch {
	case cerrors.IsSkip(err):
		b.skip(c, err)
		componentRuns.WithLabelValues(c.Kind.String(), string(StatusSkip)).Inc()
		slog.Debug("component skipped", slog.String("component", c.Name), slog.String("reason", err.Error()))
	case err != nil:
		b.fail(c, err)
		componentRuns.WithLabelValues(c.Kind.String(), string(StatusFailed)).Inc()
		slog.Warn("component failed", slog.String("component", c.Name), slog.String("error", err.Error()))
	case v == nil:
		b.skip(c, cerrors.Skip("no value"))
		componentRuns.WithLabelValues(c.Kind.String(), string(StatusSkip)).Inc()
	default:
		b.Set(c, v)
		componentRuns.WithLabelValues(c.Kind.String(), string(StatusOK)).Inc()
	}
}

func safeRun(ctx context.Context, b *Broker, c *Component) (v any, err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.Debug("component panic", slog.String("component", c.Name), slog.String("stack", string(debug.Stack())))
			v = nil
			err = cerrors.Wrap(cerrors.ErrCodeInternal, "component panicked", fmt.Errorf("%v", r))
		}
	}()
	return c.Run(ctx, b)
}
