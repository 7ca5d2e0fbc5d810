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
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cerrors "github.com/RedHatInsights/insights-core-sub003/pkg/errors"
)

func constant(name string, kind Kind, v any, deps ...*Component) *Component {
	return &Component{
		Name:     name,
		Kind:     kind,
		Requires: deps,
		Run: func(context.Context, *Broker) (any, error) {
			return v, nil
		},
	}
}

func failing(name string, err error, deps ...*Component) *Component {
	return &Component{
		Name:     name,
		Kind:     KindParser,
		Requires: deps,
		Run: func(context.Context, *Broker) (any, error) {
			return nil, err
		},
	}
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()
	c := constant("parsers.a", KindParser, 1)

	require.NoError(t, r.Register(c))
	require.NoError(t, r.Register(c), "re-registering the same component is a no-op")
	assert.Error(t, r.Register(constant("parsers.a", KindParser, 2)))
	assert.Error(t, r.Register(&Component{Kind: KindParser}))
	assert.Error(t, r.Register(&Component{Name: "x", Kind: KindParser}))
	assert.Error(t, r.Register(constant("x", Kind("bogus"), 1)))
	assert.NoError(t, r.Register(&Component{Name: "ctx", Kind: KindContext}))

	got, ok := r.Get("parsers.a")
	require.True(t, ok)
	assert.Same(t, c, got)

	assert.Len(t, r.OfKind(KindParser), 1)
	assert.Len(t, r.OfKind(KindContext, KindParser), 2)

	list, err := r.Resolve("parsers.a", "ctx")
	require.NoError(t, err)
	assert.Same(t, c, list[0])
	assert.Equal(t, "ctx", list[1].Name)

	_, err = r.Resolve("parsers.a", "nope")
	assert.True(t, cerrors.Is(err, cerrors.ErrCodeNotFound))
}

func TestRegistry_MustRegisterPanics(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(constant("a", KindParser, 1))
	assert.Panics(t, func() { r.MustRegister(constant("a", KindParser, 1)) })
}

func TestResolve_Order(t *testing.T) {
	a := constant("a", KindDatasource, 1)
	b := constant("b", KindParser, 2, a)
	c := constant("c", KindCombiner, 3, b, a)

	order, err := Resolve(c)
	require.NoError(t, err)
	require.Len(t, order, 3)
	assert.Equal(t, []string{"a", "b", "c"}, names(order))

	levels, err := Levels(c)
	require.NoError(t, err)
	require.Len(t, levels, 3)
	assert.Equal(t, []string{"a"}, names(levels[0]))
	assert.Equal(t, []string{"c"}, names(levels[2]))
}

func TestResolve_Cycle(t *testing.T) {
	a := &Component{Name: "a", Kind: KindParser, Run: func(context.Context, *Broker) (any, error) { return 1, nil }}
	b := constant("b", KindParser, 2, a)
	a.Requires = []*Component{b}

	_, err := Resolve(a)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCycle))
	assert.Contains(t, err.Error(), "a -> b -> a")
}

func TestRun_Outcomes(t *testing.T) {
	ds := constant("ds", KindDatasource, "content")
	ok := constant("ok", KindParser, "parsed", ds)
	skip := failing("skip", cerrors.Skip("empty"), ds)
	fail := failing("fail", cerrors.ParseError("bad", "x"), ds)
	nilValue := constant("nil", KindParser, nil, ds)
	panics := &Component{
		Name: "panics", Kind: KindParser, Requires: []*Component{ds},
		Run: func(context.Context, *Broker) (any, error) { panic("boom") },
	}
	downstream := constant("downstream", KindCombiner, "combined", fail)

	b := NewBroker()
	err := Run(context.Background(), b, []*Component{ok, skip, fail, nilValue, panics, downstream})
	require.NoError(t, err)

	assert.Equal(t, StatusOK, b.Status(ok))
	assert.Equal(t, StatusSkip, b.Status(skip))
	assert.Equal(t, StatusFailed, b.Status(fail))
	assert.Equal(t, StatusSkip, b.Status(nilValue))
	assert.Equal(t, StatusFailed, b.Status(panics))
	assert.Equal(t, StatusMissing, b.Status(downstream))

	assert.True(t, cerrors.Is(b.Err(fail), cerrors.ErrCodeParse))
	assert.Contains(t, b.Err(panics).Error(), "boom")
	assert.Equal(t, []string{"fail"}, b.Missing()["downstream"])
	assert.Contains(t, b.Failures(), "fail")
	assert.Contains(t, b.Skips(), "skip")

	v, found := Value[string](b, ok)
	assert.True(t, found)
	assert.Equal(t, "parsed", v)

	_, found = Value[int](b, ok)
	assert.False(t, found, "wrong type must not be reported as found")
}

func TestRun_AnyOfAndOptional(t *testing.T) {
	present := constant("present", KindParser, 1)
	absent := failing("absent", cerrors.Skip("n/a"))
	optional := failing("optional", cerrors.Skip("n/a"))

	anyOK := &Component{
		Name:     "any_ok",
		Kind:     KindCombiner,
		AnyOf:    [][]*Component{{absent, present}},
		Optional: []*Component{optional},
		Run: func(_ context.Context, b *Broker) (any, error) {
			_, hasOptional := b.Get(optional)
			return !hasOptional, nil
		},
	}
	anyMissing := &Component{
		Name:  "any_missing",
		Kind:  KindCombiner,
		AnyOf: [][]*Component{{absent}},
		Run:   func(context.Context, *Broker) (any, error) { return 1, nil },
	}

	b := NewBroker()
	require.NoError(t, Run(context.Background(), b, []*Component{anyOK, anyMissing}))

	v, ok := Value[bool](b, anyOK)
	require.True(t, ok)
	assert.True(t, v)

	assert.Equal(t, StatusMissing, b.Status(anyMissing))
	assert.Equal(t, []string{"any of: absent"}, b.Missing()["any_missing"])
}

func TestRun_SeededValuesAreNotRerun(t *testing.T) {
	var calls atomic.Int32
	ctxComp := &Component{Name: "context", Kind: KindContext}
	ds := &Component{
		Name:     "ds",
		Kind:     KindDatasource,
		Requires: []*Component{ctxComp},
		Run: func(_ context.Context, b *Broker) (any, error) {
			calls.Add(1)
			v, _ := Value[string](b, ctxComp)
			return v + "!", nil
		},
	}

	b := NewBroker()
	b.Set(ctxComp, "host")
	require.NoError(t, Run(context.Background(), b, []*Component{ds}, WithConcurrency(1)))
	require.NoError(t, Run(context.Background(), b, []*Component{ds}))

	v, _ := Value[string](b, ds)
	assert.Equal(t, "host!", v)
	assert.Equal(t, int32(1), calls.Load())
}

func TestRun_UnseededContextIsSkipped(t *testing.T) {
	ctxComp := &Component{Name: "context", Kind: KindContext}
	ds := constant("ds", KindDatasource, 1, ctxComp)

	b := NewBroker()
	require.NoError(t, Run(context.Background(), b, []*Component{ds}))
	assert.Equal(t, StatusSkip, b.Status(ctxComp))
	assert.Equal(t, StatusMissing, b.Status(ds))
}

func TestRun_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := NewBroker()
	err := Run(ctx, b, []*Component{constant("a", KindParser, 1)})
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestComponent_Dependencies(t *testing.T) {
	a := constant("a", KindParser, 1)
	b := constant("b", KindParser, 1)
	c := &Component{
		Name:     "c",
		Requires: []*Component{b, a},
		AnyOf:    [][]*Component{{a}},
		Optional: []*Component{b},
	}
	assert.Equal(t, []string{"a", "b"}, names(c.Dependencies()))
}

func names(list []*Component) []string {
	out := make([]string, 0, len(list))
	for _, c := range list {
		out = append(out, c.Name)
	}
	return out
}
