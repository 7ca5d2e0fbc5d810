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
	"strings"

	"github.com/RedHatInsights/insights-core-sub003/pkg/dr"
	cerrors "github.com/RedHatInsights/insights-core-sub003/pkg/errors"
	"github.com/RedHatInsights/insights-core-sub003/pkg/parsers"
)

// CloudInstanceCombiner combines the provider with its instance metadata.
var CloudInstanceCombiner = New("cloud_instance", "cloud instance id, type and size",
	Deps{
		Requires: []*dr.Component{CloudProviderCombiner.Component()},
		AnyOf: [][]*dr.Component{{
			parsers.AWSInstanceIDDocParser.Component(),
			parsers.AzureInstanceTypeParser.Component(),
			parsers.GCPInstanceTypeParser.Component(),
		}},
		Optional: []*dr.Component{
			parsers.AzureInstanceIDParser.Component(),
			parsers.GCPInstanceIDParser.Component(),
		},
	},
	combineCloudInstance)

// CloudInstance describes the cloud instance the host runs on.
type CloudInstance struct {
	Provider string `json:"provider" yaml:"provider"`
	ID       string `json:"id,omitempty" yaml:"id,omitempty"`
	Type     string `json:"type" yaml:"type"`
	Size     string `json:"size" yaml:"size"`
}

func combineCloudInstance(b *dr.Broker) (*CloudInstance, error) {
	cp, _ := CloudProviderCombiner.Value(b)
	if cp == nil || !cp.IsCloud() {
		return nil, cerrors.Skip("not a cloud host")
	}

	ci := &CloudInstance{Provider: cp.Provider}
	switch cp.Provider {
	case ProviderAWS:
		doc, ok := parsers.AWSInstanceIDDocParser.Value(b)
		if !ok {
			break
		}
		ci.ID = doc.InstanceID
		ci.Type, ci.Size, _ = strings.Cut(doc.InstanceType, ".")
		return ci, nil
	case ProviderAzure:
		t, ok := parsers.AzureInstanceTypeParser.Value(b)
		if !ok {
			break
		}
		ci.Type, ci.Size = t.Type, t.Size
		if t.Version != "" {
			ci.Size += "_" + t.Version
		}
		if id, ok := parsers.AzureInstanceIDParser.Value(b); ok {
			ci.ID = id.ID
		}
		return ci, nil
	case ProviderGCP:
		t, ok := parsers.GCPInstanceTypeParser.Value(b)
		if !ok {
			break
		}
		ci.Type, ci.Size = t.Type, t.Size
		if id, ok := parsers.GCPInstanceIDParser.Value(b); ok {
			ci.ID = id.ID
		}
		return ci, nil
	}
	return nil, cerrors.Skipf("no instance metadata for %s", cp.Provider)
}
