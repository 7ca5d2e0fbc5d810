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

package filters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type target struct {
	name       string
	filterable bool
}

func (t target) SpecName() string   { return t.name }
func (t target) IsFilterable() bool { return t.filterable }

func TestAddGet(t *testing.T) {
	t.Cleanup(reset)
	reset()

	messages := target{name: "messages", filterable: true}
	require.NoError(t, Add(messages, "soft lockup", "Out of memory", ""))
	require.NoError(t, Add(messages, "soft lockup"))

	assert.Equal(t, []string{"Out of memory", "soft lockup"}, Get("messages"))
	assert.Empty(t, Get("unknown"))
	assert.Equal(t, map[string][]string{"messages": {"Out of memory", "soft lockup"}}, All())
}

func TestAdd_NotFilterable(t *testing.T) {
	t.Cleanup(reset)
	reset()

	err := Add(target{name: "uname"}, "Linux")
	assert.Error(t, err)
	assert.Panics(t, func() { MustAdd(target{name: "uname"}, "Linux") })
}

func TestApply(t *testing.T) {
	lines := []string{
		"Jan  1 00:00:01 host kernel: watchdog: BUG: soft lockup - CPU#3 stuck for 22s!",
		"Jan  1 00:00:02 host systemd[1]: Started Session 1 of user root.",
		"Jan  1 00:00:03 host kernel: Out of memory: Killed process 1234 (java)",
	}

	got := Apply(lines, []string{"soft lockup", "Out of memory"})
	assert.Equal(t, []string{lines[0], lines[2]}, got)

	assert.Nil(t, Apply(lines, nil))
}
