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
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RedHatInsights/insights-core-sub003/pkg/combiners"
	"github.com/RedHatInsights/insights-core-sub003/pkg/dr"
	cerrors "github.com/RedHatInsights/insights-core-sub003/pkg/errors"
	"github.com/RedHatInsights/insights-core-sub003/pkg/filters"
	"github.com/RedHatInsights/insights-core-sub003/pkg/parser"
	"github.com/RedHatInsights/insights-core-sub003/pkg/parsers"
	"github.com/RedHatInsights/insights-core-sub003/pkg/specs"
)

func seed[T any](t *testing.T, b *dr.Broker, p *parser.Parser[T], text string) {
	t.Helper()
	v, err := p.ParseText(text)
	require.NoError(t, err)
	b.Set(p.Component(), v)
}

const rhel93Uname = "Linux host.example.com 5.14.0-362.8.1.el9_3.x86_64 #1 SMP PREEMPT_DYNAMIC Tue Oct 3 11:12:36 EDT 2023 x86_64 x86_64 x86_64 GNU/Linux\n"

func TestMakeResponses(t *testing.T) {
	assert.Equal(t, TypeFail, MakeFail("K", nil).Type)
	assert.Equal(t, TypePass, MakePass("K", nil).Type)
	info := MakeInfo("K", map[string]any{"a": 1})
	assert.Equal(t, TypeInfo, info.Type)
	assert.Equal(t, "K", info.Key)
	assert.Equal(t, 1, info.Details["a"])

	typ, ok := ParseResponseType("fail")
	assert.True(t, ok)
	assert.Equal(t, TypeFail, typ)
	_, ok = ParseResponseType("warn")
	assert.False(t, ok)
}

func TestRuleComponent(t *testing.T) {
	c := CPUVulnerable.Component()
	assert.Equal(t, "rules.cpu_vulnerable", c.Name)
	assert.Equal(t, dr.KindRule, c.Kind)

	got, ok := dr.Default().Get("rules.soft_lockup")
	require.True(t, ok)
	assert.Same(t, SoftLockup.Component(), got)
}

func TestCPUVulnerable(t *testing.T) {
	t.Run("vulnerable", func(t *testing.T) {
		b := dr.NewBroker()
		b.Set(combiners.CPUVulnsAllCombiner.Component(), combiners.CPUVulns{
			"meltdown":   "Not affected",
			"spectre_v2": "Vulnerable, IBPB: disabled",
		})
		resp, err := CPUVulnerable.Evaluate(b)
		require.NoError(t, err)
		assert.Equal(t, TypeFail, resp.Type)
		assert.Equal(t, "cpu_vulnerable", resp.Rule)
		assert.Equal(t, []string{"spectre_v2"}, resp.Details["vulnerable"])
		assert.Equal(t, false, resp.Details["mitigations_off"])
	})

	t.Run("mitigations off on cmdline", func(t *testing.T) {
		b := dr.NewBroker()
		seed(t, b, parsers.CmdlineParser, "BOOT_IMAGE=/vmlinuz ro mitigations=off quiet\n")
		resp, err := CPUVulnerable.Evaluate(b)
		require.NoError(t, err)
		assert.Equal(t, TypeFail, resp.Type)
		assert.Equal(t, true, resp.Details["mitigations_off"])
	})

	t.Run("mitigated", func(t *testing.T) {
		b := dr.NewBroker()
		b.Set(combiners.CPUVulnsAllCombiner.Component(), combiners.CPUVulns{
			"spectre_v1": "Mitigation: usercopy/swapgs barriers",
		})
		seed(t, b, parsers.CmdlineParser, "BOOT_IMAGE=/vmlinuz ro quiet\n")
		resp, err := CPUVulnerable.Evaluate(b)
		require.NoError(t, err)
		assert.Equal(t, TypePass, resp.Type)
		assert.Equal(t, KeyCPUVulnerable, resp.Key)
	})
}

func TestCloudHost(t *testing.T) {
	b := dr.NewBroker()
	b.Set(combiners.CloudProviderCombiner.Component(), &combiners.CloudProvider{})
	_, err := CloudHost.Evaluate(b)
	assert.True(t, cerrors.IsSkip(err))

	b = dr.NewBroker()
	b.Set(combiners.CloudProviderCombiner.Component(), &combiners.CloudProvider{
		Provider: combiners.ProviderAWS,
		Source:   combiners.SourceRPM,
	})
	b.Set(combiners.CloudInstanceCombiner.Component(), &combiners.CloudInstance{
		Provider: combiners.ProviderAWS,
		ID:       "i-0123456789abcdef0",
		Type:     "m5",
		Size:     "large",
	})
	resp, err := CloudHost.Evaluate(b)
	require.NoError(t, err)
	assert.Equal(t, TypeInfo, resp.Type)
	assert.Equal(t, "aws", resp.Details["provider"])
	assert.Equal(t, "m5", resp.Details["instance_type"])
	assert.Equal(t, "large", resp.Details["instance_size"])
	assert.Equal(t, "i-0123456789abcdef0", resp.Details["instance_id"])
}

func TestSoftLockup(t *testing.T) {
	assert.Contains(t, filters.Get(specs.Messages.SpecName()), "soft lockup")

	b := dr.NewBroker()
	seed(t, b, parsers.MessagesParser, `Oct 16 10:00:01 web01 kernel: watchdog: BUG: soft lockup - CPU#1 stuck for 22s! [java:1234]
Oct 16 10:00:05 web01 sshd[4242]: Accepted publickey for root
Oct 16 10:01:01 web01 kernel: watchdog: BUG: soft lockup - CPU#1 stuck for 23s! [java:1234]
Oct 16 10:02:01 web01 kernel: watchdog: BUG: soft lockup - CPU#3 stuck for 21s! [kworker:77]
`)

	require.NoError(t, dr.Run(context.Background(), b, []*dr.Component{SoftLockup.Component()}))
	resp, ok := ResponseOf(b, SoftLockup.Component())
	require.True(t, ok)
	assert.Equal(t, TypeFail, resp.Type)
	assert.Equal(t, "soft_lockup", resp.Rule)
	assert.Equal(t, 3, resp.Details["count"])
	assert.Equal(t, 2, resp.Details["cpus"])
	assert.Equal(t, "Oct 16 10:00:01", resp.Details["first"])
	assert.Equal(t, "Oct 16 10:02:01", resp.Details["last"])

	b = dr.NewBroker()
	seed(t, b, parsers.MessagesParser, "Oct 16 10:00:05 web01 sshd[4242]: Accepted publickey for root\n")
	resp, err := SoftLockup.Evaluate(b)
	require.NoError(t, err)
	assert.Equal(t, TypePass, resp.Type)
}

func TestLockupCPU(t *testing.T) {
	assert.Equal(t, "12", lockupCPU("soft lockup - CPU#12 stuck for 22s!"))
	assert.Equal(t, "3", lockupCPU("CPU#3"))
	assert.Empty(t, lockupCPU("soft lockup"))
}

func TestRHELKernelMismatch(t *testing.T) {
	tests := []struct {
		name    string
		release string
		want    ResponseType
	}{
		{"match", "Red Hat Enterprise Linux release 9.3 (Plow)\n", TypePass},
		{"mismatch", "Red Hat Enterprise Linux release 9.4 (Plow)\n", TypeFail},
		{"major only", "Red Hat Enterprise Linux release 9 (Plow)\n", TypePass},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := dr.NewBroker()
			seed(t, b, parsers.UnameParser, rhel93Uname)
			seed(t, b, parsers.RedhatReleaseParser, tt.release)
			resp, err := RHELKernelMismatch.Evaluate(b)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.Type)
			assert.Equal(t, "9.3", resp.Details["kernel_release"])
		})
	}

	b := dr.NewBroker()
	seed(t, b, parsers.UnameParser, rhel93Uname)
	seed(t, b, parsers.RedhatReleaseParser, "Fedora release 39 (Thirty Nine)\n")
	_, err := RHELKernelMismatch.Evaluate(b)
	assert.True(t, cerrors.IsSkip(err))
}

const testRules = `
rules:
  - name: ip_forwarding
    description: IPv4 forwarding is enabled
    type: fail
    key: IP_FORWARDING_ENABLED
    requires: [sysctl]
    expr: 'facts.parsers.sysctl["net.ipv4.ip_forward"] == "1"'
    details:
      value: 'facts.parsers.sysctl["net.ipv4.ip_forward"]'
      keys: '[size(facts.parsers.sysctl)]'
  - name: selinux_disabled_cmdline
    type: info
    key: SELINUX_DISABLED
    requires: [parsers.cmdline]
    expr: '"selinux" in facts.parsers.cmdline.params && facts.parsers.cmdline.params["selinux"][0] == "0"'
`

func TestLoad(t *testing.T) {
	reg := dr.Default().Clone()
	loaded, err := Load([]byte(testRules), reg)
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	c, ok := reg.Get("rules.ip_forwarding")
	require.True(t, ok)
	assert.Equal(t, []*dr.Component{parsers.SysctlParser.Component()}, c.Requires)
	_, ok = dr.Default().Get("rules.ip_forwarding")
	assert.False(t, ok)

	b := dr.NewBroker()
	b.Set(parsers.SysctlParser.Component(), parsers.Sysctl{
		"net.ipv4.ip_forward": "1",
		"kernel.pid_max":      "4194304",
	})
	require.NoError(t, dr.Run(context.Background(), b, []*dr.Component{c}))
	resp, ok := ResponseOf(b, c)
	require.True(t, ok)
	assert.Equal(t, TypeFail, resp.Type)
	assert.Equal(t, "IP_FORWARDING_ENABLED", resp.Key)
	assert.Equal(t, "ip_forwarding", resp.Rule)
	assert.Equal(t, "1", resp.Details["value"])
	assert.Equal(t, []any{int64(2)}, resp.Details["keys"])

	b = dr.NewBroker()
	b.Set(parsers.SysctlParser.Component(), parsers.Sysctl{"net.ipv4.ip_forward": "0"})
	_, err = loaded[0].Evaluate(b)
	assert.True(t, cerrors.IsSkip(err))

	b = dr.NewBroker()
	seed(t, b, parsers.CmdlineParser, "ro selinux=0 quiet\n")
	resp, err = loaded[1].Evaluate(b)
	require.NoError(t, err)
	assert.Equal(t, TypeInfo, resp.Type)
	assert.Nil(t, resp.Details)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		rules string
	}{
		{"bad yaml", "rules: [\n"},
		{"no name", "rules:\n  - key: K\n    requires: [sysctl]\n    expr: 'true'\n"},
		{"no key", "rules:\n  - name: r\n    requires: [sysctl]\n    expr: 'true'\n"},
		{"no requires", "rules:\n  - name: r\n    key: K\n    expr: 'true'\n"},
		{"unknown component", "rules:\n  - name: r\n    key: K\n    requires: [nope]\n    expr: 'true'\n"},
		{"unknown type", "rules:\n  - name: r\n    type: warn\n    key: K\n    requires: [sysctl]\n    expr: 'true'\n"},
		{"syntax", "rules:\n  - name: r\n    key: K\n    requires: [sysctl]\n    expr: 'facts.parsers.('\n"},
		{"not boolean", "rules:\n  - name: r\n    key: K\n    requires: [sysctl]\n    expr: '1 + 2'\n"},
		{"empty", "rules:\n  - name: r\n    key: K\n    requires: [sysctl]\n    expr: ' '\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load([]byte(tt.rules), dr.Default().Clone())
			require.Error(t, err)
			assert.True(t, cerrors.Is(err, cerrors.ErrCodeInvalidRequest))
		})
	}
}

func TestLoad_Duplicate(t *testing.T) {
	reg := dr.Default().Clone()
	_, err := Load([]byte(testRules), reg)
	require.NoError(t, err)
	_, err = Load([]byte(testRules), reg)
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testRules), 0o600))

	loaded, err := LoadFile(path, dr.Default().Clone())
	require.NoError(t, err)
	assert.Len(t, loaded, 2)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"), dr.NewRegistry())
	assert.True(t, cerrors.Is(err, cerrors.ErrCodeNotFound))
}

func TestFacts(t *testing.T) {
	b := dr.NewBroker()
	seed(t, b, parsers.HostnameParser, "web01.example.com\n")
	b.Set(combiners.RedHatReleaseCombiner.Component(), &combiners.RedHatRelease{Major: 9, Minor: 3, RHEL: "9.3", Source: "uname"})

	facts, err := Facts(b, []*dr.Component{
		parsers.HostnameParser.Component(),
		combiners.RedHatReleaseCombiner.Component(),
		parsers.SysctlParser.Component(),
	})
	require.NoError(t, err)

	host := facts["parsers"].(map[string]any)["hostname"].(map[string]any)
	assert.Equal(t, "web01", host["hostname"])
	rel := facts["combiners"].(map[string]any)["redhat_release"].(map[string]any)
	assert.Equal(t, float64(9), rel["major"])
	assert.NotContains(t, facts["parsers"], "sysctl")
}
