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
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"github.com/RedHatInsights/insights-core-sub003/pkg/dr"
	"github.com/RedHatInsights/insights-core-sub003/pkg/parsers"
)

// Cloud providers.
const (
	ProviderAWS     = "aws"
	ProviderAzure   = "azure"
	ProviderGCP     = "google"
	ProviderAlibaba = "alibaba"
	ProviderIBM     = "ibm"
)

// Evidence sources, in the order they are consulted.
const (
	SourceRPM  = "rpm"
	SourceDMI  = "dmidecode"
	SourceRepo = "yum_repos"
)

type providerHints struct {
	name    string
	rpms    []string
	dmi     []string
	repoIDs []string
}

// hints lists, per provider, RPM name prefixes, DMI vendor/version/manufacturer
// substrings and repository id substrings. The order breaks ties.
var hints = []providerHints{
	{
		name:    ProviderAWS,
		rpms:    []string{"rh-amazon-rhui-client", "amazon-ssm-agent", "amazon-ec2-utils"},
		dmi:     []string{"amazon"},
		repoIDs: []string{"rhui-client-config-server"},
	},
	{
		name:    ProviderAzure,
		rpms:    []string{"rhui-azure-rhel", "walinuxagent"},
		dmi:     []string{"microsoft corporation"},
		repoIDs: []string{"rhui-microsoft-azure", "azure"},
	},
	{
		name:    ProviderGCP,
		rpms:    []string{"google-rhui-client", "google-compute-engine", "google-guest-agent"},
		dmi:     []string{"google"},
		repoIDs: []string{"google-compute-engine", "rhui-rhel-google"},
	},
	{
		name: ProviderAlibaba,
		rpms: []string{"aliyun", "alibaba-cloud"},
		dmi:  []string{"alibaba cloud"},
	},
	{
		name: ProviderIBM,
		rpms: []string{"ibm-cloud-", "ibmcloud-"},
		dmi:  []string{"ibm:pvm", "ibm cloud"},
	},
}

// CloudProviderCombiner identifies the cloud provider of the host.
var CloudProviderCombiner = New("cloud_provider", "cloud provider from packages, DMI data and repositories",
	Deps{AnyOf: [][]*dr.Component{{
		parsers.InstalledRPMsParser.Component(),
		parsers.DMIDecodeParser.Component(),
		parsers.YumRepoListParser.Component(),
		parsers.YumReposDParser.Component(),
	}}},
	combineCloudProvider)

// CloudProvider is the identified provider with the evidence found for
// every candidate.
type CloudProvider struct {
	// Provider is empty when no heuristic matched.
	Provider string `json:"provider" yaml:"provider"`

	// Source is the evidence source that decided Provider.
	Source string `json:"source,omitempty" yaml:"source,omitempty"`

	// Evidence maps provider to source to the matching values.
	Evidence map[string]map[string][]string `json:"evidence" yaml:"evidence"`
}

// IsCloud reports whether a provider was identified.
func (c *CloudProvider) IsCloud() bool {
	return c.Provider != ""
}

func combineCloudProvider(b *dr.Broker) (*CloudProvider, error) {
	fold := cases.Fold()
	cp := &CloudProvider{Evidence: make(map[string]map[string][]string)}

	add := func(provider, source, value string) {
		if cp.Evidence[provider] == nil {
			cp.Evidence[provider] = make(map[string][]string)
		}
		cp.Evidence[provider][source] = append(cp.Evidence[provider][source], value)
	}

	if rpms, ok := parsers.InstalledRPMsParser.Value(b); ok {
		names := rpms.Names()
		for _, h := range hints {
			for _, n := range names {
				if hasAnyPrefix(fold.String(n), h.rpms) {
					add(h.name, SourceRPM, n)
				}
			}
		}
	}

	if dmi, ok := parsers.DMIDecodeParser.Value(b); ok {
		values := []string{dmi.BIOSVendor(), dmi.BIOSVersion(), dmi.SystemManufacturer(), dmi.SystemProductName()}
		for _, h := range hints {
			for _, v := range values {
				if v != "" && containsAny(fold.String(v), h.dmi) {
					add(h.name, SourceDMI, v)
				}
			}
		}
	}

	repoIDs := collectRepoIDs(b)
	for _, h := range hints {
		for _, id := range repoIDs {
			if containsAny(fold.String(id), h.repoIDs) {
				add(h.name, SourceRepo, id)
			}
		}
	}

	for _, source := range []string{SourceRPM, SourceDMI, SourceRepo} {
		for _, h := range hints {
			if len(cp.Evidence[h.name][source]) > 0 {
				cp.Provider, cp.Source = h.name, source
				return cp, nil
			}
		}
	}
	return cp, nil
}

func collectRepoIDs(b *dr.Broker) []string {
	seen := make(map[string]bool)
	if list, ok := parsers.YumRepoListParser.Value(b); ok {
		for _, id := range list.IDs() {
			seen[id] = true
		}
	}
	if files, ok := parsers.YumReposDParser.Values(b); ok {
		for _, f := range files {
			for _, id := range f.Enabled() {
				seen[id] = true
			}
		}
	}

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
