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

package rules

import (
	"encoding/json"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	"gopkg.in/yaml.v3"

	"github.com/RedHatInsights/insights-core-sub003/pkg/dr"
	cerrors "github.com/RedHatInsights/insights-core-sub003/pkg/errors"
)

// FactsVariable is the CEL variable holding the values of the required
// components, keyed by component kind and name:
//
//	facts.parsers.sysctl["net.ipv4.ip_forward"] == "1"
const FactsVariable = "facts"

// Definition is a declarative rule.
type Definition struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description,omitempty"`
	Type        string   `yaml:"type"`
	Key         string   `yaml:"key"`
	Requires    []string `yaml:"requires"`

	// Expr is a boolean CEL expression. The rule responds when it is true.
	Expr string `yaml:"expr"`

	// Details maps detail names to CEL expressions evaluated when the rule
	// responds.
	Details map[string]string `yaml:"details,omitempty"`
}

// File is the on-disk layout of a rules file.
type File struct {
	Rules []Definition `yaml:"rules"`
}

type program struct {
	def      Definition
	typ      ResponseType
	requires []*dr.Component
	expr     cel.Program
	details  map[string]cel.Program
}

// LoadFile reads a YAML rules file and registers its rules in reg.
func LoadFile(path string, reg *dr.Registry) ([]*Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, cerrors.Wrap(cerrors.ErrCodeNotFound, fmt.Sprintf("failed to read rules file %s", path), err)
	}
	return Load(data, reg)
}

// Load compiles the rules in data and registers them in reg. Required
// components are looked up in reg by full name ("parsers.uname") or by
// short name, parsers first, then combiners, then rules.
func Load(data []byte, reg *dr.Registry) ([]*Rule, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, cerrors.Wrap(cerrors.ErrCodeInvalidRequest, "failed to parse rules file", err)
	}

	env, err := cel.NewEnv(cel.Variable(FactsVariable, cel.MapType(cel.StringType, cel.DynType)))
	if err != nil {
		return nil, cerrors.Wrap(cerrors.ErrCodeInternal, "failed to create expression environment", err)
	}

	rules := make([]*Rule, 0, len(f.Rules))
	for _, def := range f.Rules {
		p, err := compile(env, reg, def)
		if err != nil {
			return nil, err
		}
		r := newRule(def.Name, def.Description, Deps{Requires: p.requires}, p.evaluate)
		if err := reg.Register(r.component); err != nil {
			return nil, cerrors.Wrap(cerrors.ErrCodeInvalidRequest, fmt.Sprintf("failed to register rule %s", def.Name), err)
		}
		rules = append(rules, r)
	}
	return rules, nil
}

func compile(env *cel.Env, reg *dr.Registry, def Definition) (*program, error) {
	invalid := func(format string, args ...any) error {
		return cerrors.NewWithContext(cerrors.ErrCodeInvalidRequest,
			fmt.Sprintf(format, args...), map[string]any{"rule": def.Name})
	}

	if def.Name == "" {
		return nil, invalid("rule name cannot be empty")
	}
	if def.Key == "" {
		return nil, invalid("rule %s has no key", def.Name)
	}
	if len(def.Requires) == 0 {
		return nil, invalid("rule %s requires no components", def.Name)
	}
	typ := TypeFail
	if def.Type != "" {
		var ok bool
		if typ, ok = ParseResponseType(def.Type); !ok {
			return nil, invalid("rule %s has unknown type %q", def.Name, def.Type)
		}
	}

	p := &program{def: def, typ: typ, details: make(map[string]cel.Program, len(def.Details))}
	for _, name := range def.Requires {
		c, ok := lookup(reg, name)
		if !ok {
			return nil, invalid("rule %s requires unknown component %q", def.Name, name)
		}
		p.requires = append(p.requires, c)
	}

	var err error
	if p.expr, err = compileExpr(env, def.Expr, true); err != nil {
		return nil, invalid("rule %s: %v", def.Name, err)
	}
	for k, expr := range def.Details {
		if p.details[k], err = compileExpr(env, expr, false); err != nil {
			return nil, invalid("rule %s detail %s: %v", def.Name, k, err)
		}
	}
	return p, nil
}

func compileExpr(env *cel.Env, expr string, boolean bool) (cel.Program, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, fmt.Errorf("expression cannot be empty")
	}
	ast, iss := env.Compile(expr)
	if iss.Err() != nil {
		return nil, iss.Err()
	}
	if boolean {
		out := ast.OutputType()
		if !out.IsExactType(cel.BoolType) && !out.IsExactType(cel.DynType) {
			return nil, fmt.Errorf("expression must be boolean, got %s", out)
		}
	}
	return env.Program(ast)
}

// lookup resolves a component name as written in a rules file.
func lookup(reg *dr.Registry, name string) (*dr.Component, bool) {
	if c, ok := reg.Get(name); ok {
		return c, true
	}
	for _, prefix := range []string{"parsers.", "combiners.", "rules."} {
		if c, ok := reg.Get(prefix + name); ok {
			return c, true
		}
	}
	return nil, false
}

func (p *program) evaluate(b *dr.Broker) (*Response, error) {
	facts, err := Facts(b, p.requires)
	if err != nil {
		return nil, err
	}
	vars := map[string]any{FactsVariable: facts}

	out, _, err := p.expr.Eval(vars)
	if err != nil {
		return nil, cerrors.Wrap(cerrors.ErrCodeInternal, fmt.Sprintf("failed to evaluate rule %s", p.def.Name), err)
	}
	matched, ok := out.Value().(bool)
	if !ok {
		return nil, cerrors.New(cerrors.ErrCodeInternal, fmt.Sprintf("rule %s evaluated to %s, not bool", p.def.Name, out.Type().TypeName()))
	}
	if !matched {
		return nil, nil
	}

	var details map[string]any
	if len(p.details) > 0 {
		details = make(map[string]any, len(p.details))
		for k, prg := range p.details {
			v, _, err := prg.Eval(vars)
			if err != nil {
				return nil, cerrors.Wrap(cerrors.ErrCodeInternal, fmt.Sprintf("failed to evaluate detail %s of rule %s", k, p.def.Name), err)
			}
			details[k] = native(v)
		}
	}
	return &Response{Type: p.typ, Key: p.def.Key, Details: details}, nil
}

// Facts returns the JSON view of the values of components in b, nested by
// kind ("parsers", "combiners", ...) and short name.
func Facts(b *dr.Broker, components []*dr.Component) (map[string]any, error) {
	facts := make(map[string]any)
	for _, c := range components {
		v, ok := b.Get(c)
		if !ok {
			continue
		}
		data, err := json.Marshal(v)
		if err != nil {
			return nil, cerrors.Wrap(cerrors.ErrCodeInternal, fmt.Sprintf("failed to encode %s", c.Name), err)
		}
		var view any
		if err := json.Unmarshal(data, &view); err != nil {
			return nil, cerrors.Wrap(cerrors.ErrCodeInternal, fmt.Sprintf("failed to decode %s", c.Name), err)
		}

		kind, name, found := strings.Cut(c.Name, ".")
		if !found {
			facts[c.Name] = view
			continue
		}
		group, ok := facts[kind].(map[string]any)
		if !ok {
			group = make(map[string]any)
			facts[kind] = group
		}
		group[name] = view
	}
	return facts, nil
}

var (
	listType = reflect.TypeOf([]any{})
	mapType  = reflect.TypeOf(map[string]any{})
)

// native converts a CEL value to plain Go values for serialization.
func native(v ref.Val) any {
	var target reflect.Type
	switch v.Type() {
	case types.ListType:
		target = listType
	case types.MapType:
		target = mapType
	default:
		return v.Value()
	}
	out, err := v.ConvertToNative(target)
	if err != nil {
		return fmt.Sprint(v.Value())
	}
	return out
}
