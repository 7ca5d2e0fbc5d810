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

package parser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/RedHatInsights/insights-core-sub003/pkg/datasource"
	"github.com/RedHatInsights/insights-core-sub003/pkg/dr"
	cerrors "github.com/RedHatInsights/insights-core-sub003/pkg/errors"
)

// Func turns one captured artifact into a value.
type Func[T any] func(c *datasource.Content) (T, error)

// Parser is a registered parse function bound to a spec.
type Parser[T any] struct {
	Name string
	Spec *datasource.Spec

	fn        Func[T]
	component *dr.Component
}

// New registers a parser called name in the default registry.
func New[T any](name string, spec *datasource.Spec, fn Func[T]) *Parser[T] {
	p := &Parser[T]{Name: name, Spec: spec, fn: fn}
	p.component = dr.MustRegister(&dr.Component{
		Name:        "parsers." + name,
		Kind:        dr.KindParser,
		Requires:    []*dr.Component{spec.Component()},
		Run:         p.run,
		Description: fmt.Sprintf("parses %s", spec.Name),
	})
	return p
}

// Component returns the registered component.
func (p *Parser[T]) Component() *dr.Component {
	return p.component
}

// Parse applies the parse function to one content.
func (p *Parser[T]) Parse(c *datasource.Content) (T, error) {
	return p.fn(c)
}

// ParseText parses raw text as if it had been collected by the spec.
func (p *Parser[T]) ParseText(text string) (T, error) {
	return p.fn(datasource.NewContent(p.Spec.Name, p.Spec.Source(), text))
}

// Value returns the parsed value of a single-output parser.
func (p *Parser[T]) Value(b *dr.Broker) (T, bool) {
	return dr.Value[T](b, p.component)
}

// Values returns the parsed values of a multi-output parser.
func (p *Parser[T]) Values(b *dr.Broker) ([]T, bool) {
	return dr.Value[[]T](b, p.component)
}

func (p *Parser[T]) run(_ context.Context, b *dr.Broker) (any, error) {
	v, _ := b.Get(p.Spec.Component())

	switch content := v.(type) {
	case *datasource.Content:
		return p.fn(content)
	case []*datasource.Content:
		return p.parseAll(content)
	default:
		return nil, cerrors.New(cerrors.ErrCodeInternal, fmt.Sprintf("unexpected content type %T", v))
	}
}

func (p *Parser[T]) parseAll(contents []*datasource.Content) ([]T, error) {
	out := make([]T, 0, len(contents))
	var errs error
	for _, c := range contents {
		v, err := p.fn(c)
		if err != nil {
			if !cerrors.IsSkip(err) {
				slog.Debug("parse failed", slog.String("parser", p.Name), slog.String("path", c.Path), slog.String("error", err.Error()))
				errs = errors.Join(errs, err)
			}
			continue
		}
		out = append(out, v)
	}

	if len(out) == 0 {
		if errs != nil {
			return nil, errs
		}
		return nil, cerrors.Skipf("no %s content could be parsed", p.Spec.Name)
	}
	return out, nil
}
