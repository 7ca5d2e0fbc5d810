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

package evaluator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/RedHatInsights/insights-core-sub003/pkg/datasource"
	"github.com/RedHatInsights/insights-core-sub003/pkg/dr"
	cerrors "github.com/RedHatInsights/insights-core-sub003/pkg/errors"
	"github.com/RedHatInsights/insights-core-sub003/pkg/header"
	"github.com/RedHatInsights/insights-core-sub003/pkg/report"
	"github.com/RedHatInsights/insights-core-sub003/pkg/serializer"
)

// Evaluator runs the component graph against one collection context.
type Evaluator struct {
	// Version is the tool version stamped into the report header.
	Version string

	// Context is the host or archive to collect from. Required.
	Context datasource.Context

	// Options controls collection. Nil collects everything unredacted.
	Options *datasource.Options

	// Registry resolves target names. Nil uses the default registry.
	Registry *dr.Registry

	// Targets names the components to evaluate. Empty evaluates every rule,
	// combiner and parser.
	Targets []string

	// Concurrency bounds the components run at once. Zero uses the default.
	Concurrency int

	// Header options applied to the report header.
	Header []header.Option

	// Report options.
	Report []report.Option

	// Serializer writes the report in Run. Nil writes JSON to stdout.
	Serializer serializer.Serializer
}

func (e *Evaluator) registry() *dr.Registry {
	if e.Registry == nil {
		return dr.Default()
	}
	return e.Registry
}

// Evaluate runs the graph and builds the report. Component skips and
// failures are recorded in the report; only graph errors, an invalid
// setup and cancellation are returned.
func (e *Evaluator) Evaluate(ctx context.Context) (*report.Report, error) {
	if e.Context == nil {
		return nil, cerrors.New(cerrors.ErrCodeInvalidRequest, "evaluator requires a collection context")
	}

	targets, err := ResolveTargets(e.registry(), e.Targets)
	if err != nil {
		evaluationTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	slog.Debug("starting evaluation",
		slog.String("context", e.Context.Name()),
		slog.String("root", e.Context.Root()),
		slog.Int("targets", len(targets)),
	)

	start := time.Now()
	defer func() {
		evaluationDuration.Observe(time.Since(start).Seconds())
	}()

	b := dr.NewBroker()
	b.Set(datasource.ContextComponent, e.Context)
	if e.Options != nil {
		b.Set(datasource.OptionsComponent, e.Options)
	}

	var opts []dr.RunOption
	if e.Concurrency > 0 {
		opts = append(opts, dr.WithConcurrency(e.Concurrency))
	}
	if err := dr.Run(ctx, b, targets, opts...); err != nil {
		evaluationTotal.WithLabelValues("error").Inc()
		return nil, cerrors.Wrap(cerrors.ErrCodeInternal, "failed to evaluate components", err)
	}

	h := header.New(header.WithReportID(), header.WithMetadata(header.KeySource, e.Context.Root()))
	h.Apply(e.Header...)
	h.Init(header.KindReport, header.APIVersion, e.Version)

	rep := report.New(*h, b, e.Report...)
	evaluationTotal.WithLabelValues("success").Inc()
	record(rep)

	slog.Info("evaluation complete",
		slog.Int("responses", len(rep.Responses)),
		slog.Int("facts", rep.Summary.Facts),
		slog.Int("skipped", rep.Summary.Skipped),
		slog.Int("failed", rep.Summary.Failed),
		slog.Int("missing", rep.Summary.Missing),
		slog.Duration("duration", time.Since(start)),
	)
	return rep, nil
}

func record(rep *report.Report) {
	for _, resp := range rep.Responses {
		ruleResponses.WithLabelValues(string(resp.Type)).Inc()
	}
	evaluationComponents.WithLabelValues(string(dr.StatusOK)).Set(float64(rep.Summary.Facts + len(rep.Responses)))
	evaluationComponents.WithLabelValues(string(dr.StatusSkip)).Set(float64(rep.Summary.Skipped))
	evaluationComponents.WithLabelValues(string(dr.StatusFailed)).Set(float64(rep.Summary.Failed))
	evaluationComponents.WithLabelValues(string(dr.StatusMissing)).Set(float64(rep.Summary.Missing))
}

// Run evaluates and serializes the report.
func (e *Evaluator) Run(ctx context.Context) error {
	rep, err := e.Evaluate(ctx)
	if err != nil {
		return err
	}

	if e.Serializer == nil {
		e.Serializer = serializer.NewStdoutWriter(serializer.FormatJSON)
	}
	if err := e.Serializer.Serialize(ctx, rep); err != nil {
		slog.Error("failed to serialize", slog.String("error", err.Error()))
		return fmt.Errorf("failed to serialize: %w", err)
	}
	return nil
}

// DefaultTargets returns every rule, combiner and parser in reg.
func DefaultTargets(reg *dr.Registry) []*dr.Component {
	return reg.OfKind(dr.KindRule, dr.KindCombiner, dr.KindParser)
}

// ResolveTargets looks up names with Lookup. No names yields DefaultTargets.
func ResolveTargets(reg *dr.Registry, names []string) ([]*dr.Component, error) {
	if len(names) == 0 {
		return DefaultTargets(reg), nil
	}

	targets := make([]*dr.Component, 0, len(names))
	for _, name := range names {
		c, ok := Lookup(reg, name)
		if !ok {
			return nil, cerrors.NewWithContext(cerrors.ErrCodeNotFound,
				fmt.Sprintf("unknown component %q", name), map[string]any{"component": name})
		}
		targets = append(targets, c)
	}
	return targets, nil
}

var prefixes = []string{"rules.", "combiners.", "parsers.", "specs."}

// Lookup resolves a full or short component name. Short names are tried
// as rules, then combiners, parsers and specs.
func Lookup(reg *dr.Registry, name string) (*dr.Component, bool) {
	if c, ok := reg.Get(name); ok {
		return c, true
	}
	for _, p := range prefixes {
		if c, ok := reg.Get(p + name); ok {
			return c, true
		}
	}
	return nil, false
}
