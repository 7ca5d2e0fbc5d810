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

package combiners

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RedHatInsights/insights-core-sub003/pkg/dr"
	cerrors "github.com/RedHatInsights/insights-core-sub003/pkg/errors"
	"github.com/RedHatInsights/insights-core-sub003/pkg/parser"
	"github.com/RedHatInsights/insights-core-sub003/pkg/parsers"
)

func seed[T any](t *testing.T, b *dr.Broker, p *parser.Parser[T], text string) {
	t.Helper()
	v, err := p.ParseText(text)
	require.NoError(t, err)
	b.Set(p.Component(), v)
}

func TestCPUVulns(t *testing.T) {
	b := dr.NewBroker()
	b.Set(parsers.CPUVulnsParser.Component(), []parsers.CPUVuln{
		{Name: "meltdown", Value: "Not affected"},
		{Name: "spectre_v1", Value: "Mitigation: usercopy/swapgs barriers and __user pointer sanitization"},
		{Name: "spectre_v2", Value: "Vulnerable, IBPB: disabled, STIBP: disabled"},
		{Name: "retbleed", Value: "Vulnerable"},
		{Name: "mds", Value: "Vulnerable: Clear CPU buffers attempted, no microcode"},
	})

	require.NoError(t, dr.Run(context.Background(), b, []*dr.Component{CPUVulnsBranchCombiner.Component()}))

	all, ok := CPUVulnsAllCombiner.Value(b)
	require.True(t, ok)
	assert.Len(t, all, 5)
	assert.Equal(t, []string{"mds", "retbleed", "spectre_v2"}, all.Affected())
	assert.Equal(t, []string{"spectre_v1"}, all.Mitigated())

	branch, ok := CPUVulnsBranchCombiner.Value(b)
	require.True(t, ok)
	assert.Equal(t, []string{"retbleed", "spectre_v1", "spectre_v2"}, branch.Names())
	assert.Equal(t, []string{"retbleed", "spectre_v2"}, branch.Affected())
}

func TestCPUVulnsBranch_NoneKnown(t *testing.T) {
	b := dr.NewBroker()
	b.Set(CPUVulnsAllCombiner.Component(), CPUVulns{"meltdown": "Not affected"})

	_, err := CPUVulnsBranchCombiner.Combine(b)
	assert.True(t, cerrors.IsSkip(err))
}

func TestCloudProvider(t *testing.T) {
	tests := []struct {
		name     string
		rpms     string
		dmi      string
		repolist string
		provider string
		source   string
	}{
		{
			name:     "aws from rpm",
			rpms:     "rh-amazon-rhui-client-4.0.5-1.el8.noarch\tRed Hat, Inc.\nbash-4.4.20-4.el8.x86_64\tRed Hat, Inc.\n",
			provider: ProviderAWS,
			source:   SourceRPM,
		},
		{
			name:     "azure from rpm over aws dmi",
			rpms:     "WALinuxAgent-2.7.0.6-9.el8.noarch\tRed Hat, Inc.\n",
			dmi:      "Handle 0x0000, DMI type 0, 24 bytes\nBIOS Information\n\tVendor: Xen\n\tVersion: 4.11.amazon\n",
			provider: ProviderAzure,
			source:   SourceRPM,
		},
		{
			name:     "google from dmi",
			rpms:     "bash-4.4.20-4.el8.x86_64\tRed Hat, Inc.\n",
			dmi:      "Handle 0x0000, DMI type 0, 24 bytes\nBIOS Information\n\tVendor: Google\n\tVersion: Google\n",
			provider: ProviderGCP,
			source:   SourceDMI,
		},
		{
			name:     "alibaba from dmi",
			dmi:      "Handle 0x0100, DMI type 1, 27 bytes\nSystem Information\n\tManufacturer: Alibaba Cloud\n\tProduct Name: Alibaba Cloud ECS\n",
			provider: ProviderAlibaba,
			source:   SourceDMI,
		},
		{
			name:     "azure from repos",
			repolist: "repo id                              repo name\nrhui-microsoft-azure-rhel8           Microsoft Azure RPMs for RHEL8\n",
			provider: ProviderAzure,
			source:   SourceRepo,
		},
		{
			name:     "bare metal",
			rpms:     "bash-4.4.20-4.el8.x86_64\tRed Hat, Inc.\n",
			dmi:      "Handle 0x0000, DMI type 0, 24 bytes\nBIOS Information\n\tVendor: Dell Inc.\n",
			provider: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := dr.NewBroker()
			if tt.rpms != "" {
				seed(t, b, parsers.InstalledRPMsParser, tt.rpms)
			}
			if tt.dmi != "" {
				seed(t, b, parsers.DMIDecodeParser, tt.dmi)
			}
			if tt.repolist != "" {
				seed(t, b, parsers.YumRepoListParser, tt.repolist)
			}

			cp, err := CloudProviderCombiner.Combine(b)
			require.NoError(t, err)
			assert.Equal(t, tt.provider, cp.Provider)
			assert.Equal(t, tt.source, cp.Source)
			assert.Equal(t, tt.provider != "", cp.IsCloud())
		})
	}
}

func TestCloudProvider_EvidenceFromRepoFiles(t *testing.T) {
	b := dr.NewBroker()
	b.Set(parsers.YumReposDParser.Component(), []*parsers.YumRepoFile{{
		Path: "/etc/yum.repos.d/rh-cloud.repo",
		Repos: map[string]map[string]string{
			"rhui-client-config-server-8": {"enabled": "1"},
			"rhel-8-baseos-rhui-rpms":     {"enabled": "1"},
		},
	}})

	cp, err := CloudProviderCombiner.Combine(b)
	require.NoError(t, err)
	assert.Equal(t, ProviderAWS, cp.Provider)
	assert.Equal(t, []string{"rhui-client-config-server-8"}, cp.Evidence[ProviderAWS][SourceRepo])
}

func TestCloudInstance(t *testing.T) {
	b := dr.NewBroker()
	b.Set(CloudProviderCombiner.Component(), &CloudProvider{Provider: ProviderAWS})
	b.Set(parsers.AWSInstanceIDDocParser.Component(), &parsers.AWSInstanceIDDoc{
		InstanceID:   "i-0123456789abcdef0",
		InstanceType: "m5.large",
	})

	ci, err := CloudInstanceCombiner.Combine(b)
	require.NoError(t, err)
	assert.Equal(t, &CloudInstance{Provider: ProviderAWS, ID: "i-0123456789abcdef0", Type: "m5", Size: "large"}, ci)

	b = dr.NewBroker()
	b.Set(CloudProviderCombiner.Component(), &CloudProvider{Provider: ProviderAzure})
	b.Set(parsers.AzureInstanceTypeParser.Component(), &parsers.AzureInstanceType{Raw: "Standard_NV48s_v3", Type: "Standard", Size: "NV48s", Version: "v3"})
	ci, err = CloudInstanceCombiner.Combine(b)
	require.NoError(t, err)
	assert.Equal(t, "NV48s_v3", ci.Size)
	assert.Empty(t, ci.ID, "vmId not collected")

	b.Set(parsers.AzureInstanceIDParser.Component(), &parsers.InstanceID{ID: "8c5e1f6a-2b1d-4c7e-9f0a-3d2b1c4e5f60"})
	ci, err = CloudInstanceCombiner.Combine(b)
	require.NoError(t, err)
	assert.Equal(t, &CloudInstance{Provider: ProviderAzure, ID: "8c5e1f6a-2b1d-4c7e-9f0a-3d2b1c4e5f60", Type: "Standard", Size: "NV48s_v3"}, ci)

	b = dr.NewBroker()
	b.Set(CloudProviderCombiner.Component(), &CloudProvider{Provider: ProviderGCP})
	_, err = CloudInstanceCombiner.Combine(b)
	assert.True(t, cerrors.IsSkip(err))

	b.Set(parsers.GCPInstanceTypeParser.Component(), &parsers.GCPInstanceType{Raw: "projects/1/machineTypes/n2-highcpu-16", Type: "n2", Size: "highcpu-16"})
	b.Set(parsers.GCPInstanceIDParser.Component(), &parsers.InstanceID{ID: "4520031799977173127"})
	ci, err = CloudInstanceCombiner.Combine(b)
	require.NoError(t, err)
	assert.Equal(t, &CloudInstance{Provider: ProviderGCP, ID: "4520031799977173127", Type: "n2", Size: "highcpu-16"}, ci)

	b = dr.NewBroker()
	b.Set(CloudProviderCombiner.Component(), &CloudProvider{})
	_, err = CloudInstanceCombiner.Combine(b)
	assert.True(t, cerrors.IsSkip(err))
}

func TestGrubby(t *testing.T) {
	b := dr.NewBroker()
	seed(t, b, parsers.GrubbyInfoAllParser, `index=0
kernel="/boot/vmlinuz-5.14.0-362.el9.x86_64"
args="$kernelopts $tuned_params"
index=1
kernel="/boot/vmlinuz-5.14.0-284.el9.x86_64"
args="ro quiet"
`)
	seed(t, b, parsers.GrubbyDefaultIndexParser, "0\n")
	seed(t, b, parsers.GrubEnvParser, "kernelopts=root=/dev/mapper/rhel-root ro mitigations=off\ntuned_params=skew_tick=1\n")

	g, err := GrubbyCombiner.Combine(b)
	require.NoError(t, err)
	assert.Equal(t, "/boot/vmlinuz-5.14.0-362.el9.x86_64", g.DefaultKernel)
	assert.Equal(t, []string{"root=/dev/mapper/rhel-root", "ro", "mitigations=off", "skew_tick=1"}, g.KernelArgs)
	assert.True(t, g.HasParam("mitigations"))
	assert.Len(t, g.Entries, 2)

	seed(t, b, parsers.GrubbyDefaultIndexParser, "5\n")
	_, err = GrubbyCombiner.Combine(b)
	assert.True(t, cerrors.Is(err, cerrors.ErrCodeParse))
}

func TestGrubby_WithoutGrubEnv(t *testing.T) {
	b := dr.NewBroker()
	seed(t, b, parsers.GrubbyInfoAllParser, "index=0\nkernel=/boot/vmlinuz\nargs=\"$kernelopts quiet\"\n")
	seed(t, b, parsers.GrubbyDefaultIndexParser, "0\n")

	g, err := GrubbyCombiner.Combine(b)
	require.NoError(t, err)
	assert.Equal(t, []string{"quiet"}, g.KernelArgs)
}

func TestRedHatRelease(t *testing.T) {
	t.Run("uname wins", func(t *testing.T) {
		b := dr.NewBroker()
		seed(t, b, parsers.UnameParser, "Linux h 5.14.0-362.8.1.el9_3.x86_64 #1 SMP x86_64 GNU/Linux\n")
		seed(t, b, parsers.RedhatReleaseParser, "Red Hat Enterprise Linux release 9.2 (Plow)\n")

		r, err := RedHatReleaseCombiner.Combine(b)
		require.NoError(t, err)
		assert.Equal(t, 9, r.Major)
		assert.Equal(t, 3, r.Minor)
		assert.Equal(t, "9.3", r.RHEL)
		assert.Equal(t, "uname", r.Source)
		assert.Equal(t, "Red Hat Enterprise Linux", r.Product)
	})

	t.Run("release file fallback", func(t *testing.T) {
		b := dr.NewBroker()
		seed(t, b, parsers.UnameParser, "Linux h 6.5.0-14-generic #14 SMP x86_64 GNU/Linux\n")
		seed(t, b, parsers.RedhatReleaseParser, "Red Hat Enterprise Linux Server release 7.9 (Maipo)\n")

		r, err := RedHatReleaseCombiner.Combine(b)
		require.NoError(t, err)
		assert.Equal(t, "7.9", r.RHEL)
		assert.Equal(t, "redhat_release", r.Source)
	})

	t.Run("not rhel", func(t *testing.T) {
		b := dr.NewBroker()
		seed(t, b, parsers.RedhatReleaseParser, "Fedora release 38 (Thirty Eight)\n")
		_, err := RedHatReleaseCombiner.Combine(b)
		assert.True(t, cerrors.IsSkip(err))
	})
}
