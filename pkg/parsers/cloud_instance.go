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

package parsers

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/RedHatInsights/insights-core-sub003/pkg/datasource"
	cerrors "github.com/RedHatInsights/insights-core-sub003/pkg/errors"
	"github.com/RedHatInsights/insights-core-sub003/pkg/parser"
	"github.com/RedHatInsights/insights-core-sub003/pkg/specs"
)

var (
	// AWSInstanceIDDocParser parses the EC2 instance identity document.
	AWSInstanceIDDocParser = parser.New("aws_instance_id_doc", specs.AWSInstanceIDDoc, ParseAWSInstanceIDDoc)

	// AzureInstanceTypeParser parses the Azure VM size.
	AzureInstanceTypeParser = parser.New("azure_instance_type", specs.AzureInstanceType, ParseAzureInstanceType)

	// AzureInstanceIDParser parses the Azure vmId.
	AzureInstanceIDParser = parser.New("azure_instance_id", specs.AzureInstanceID, ParseAzureInstanceID)

	// GCPInstanceTypeParser parses the GCE machine type.
	GCPInstanceTypeParser = parser.New("gcp_instance_type", specs.GCPInstanceType, ParseGCPInstanceType)

	// GCPInstanceIDParser parses the GCE instance id.
	GCPInstanceIDParser = parser.New("gcp_instance_id", specs.GCPInstanceID, ParseGCPInstanceID)
)

// InstanceID is the provider-assigned identifier of a cloud instance.
type InstanceID struct {
	ID string `json:"id" yaml:"id"`
}

// ParseAzureInstanceID accepts the vmId UUID, normalized to lower case.
func ParseAzureInstanceID(c *datasource.Content) (*InstanceID, error) {
	raw, err := singleMetadataLine(c)
	if err != nil {
		return nil, err
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, cerrors.ParseError("vmId is not a UUID", raw)
	}
	return &InstanceID{ID: id.String()}, nil
}

// ParseGCPInstanceID accepts the unsigned 64-bit instance id.
func ParseGCPInstanceID(c *datasource.Content) (*InstanceID, error) {
	raw, err := singleMetadataLine(c)
	if err != nil {
		return nil, err
	}
	if _, err := strconv.ParseUint(raw, 10, 64); err != nil {
		return nil, cerrors.ParseError("instance id is not numeric", raw)
	}
	return &InstanceID{ID: raw}, nil
}

// AWSInstanceIDDoc is the EC2 instance identity document.
type AWSInstanceIDDoc struct {
	AccountID               string   `json:"accountId" yaml:"account_id"`
	Architecture            string   `json:"architecture" yaml:"architecture"`
	AvailabilityZone        string   `json:"availabilityZone" yaml:"availability_zone"`
	BillingProducts         []string `json:"billingProducts" yaml:"billing_products"`
	ImageID                 string   `json:"imageId" yaml:"image_id"`
	InstanceID              string   `json:"instanceId" yaml:"instance_id"`
	InstanceType            string   `json:"instanceType" yaml:"instance_type"`
	KernelID                string   `json:"kernelId" yaml:"kernel_id"`
	MarketplaceProductCodes []string `json:"marketplaceProductCodes" yaml:"marketplace_product_codes"`
	PendingTime             string   `json:"pendingTime" yaml:"pending_time"`
	PrivateIP               string   `json:"privateIp" yaml:"private_ip"`
	RamdiskID               string   `json:"ramdiskId" yaml:"ramdisk_id"`
	Region                  string   `json:"region" yaml:"region"`
	Version                 string   `json:"version" yaml:"version"`
}

// ParseAWSInstanceIDDoc decodes the identity document JSON.
func ParseAWSInstanceIDDoc(c *datasource.Content) (*AWSInstanceIDDoc, error) {
	if err := metadataErrors(c); err != nil {
		return nil, err
	}

	doc := &AWSInstanceIDDoc{}
	if err := json.Unmarshal([]byte(c.Text()), doc); err != nil {
		return nil, cerrors.Wrap(cerrors.ErrCodeParse, "invalid instance identity document", err)
	}
	if doc.InstanceID == "" && doc.InstanceType == "" {
		return nil, cerrors.ParseError("identity document has no instance id or type", "")
	}
	return doc, nil
}

// AzureInstanceType is a VM size such as Standard_D2s_v3.
type AzureInstanceType struct {
	Raw     string `json:"raw" yaml:"raw"`
	Type    string `json:"type" yaml:"type"`
	Size    string `json:"size" yaml:"size"`
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
}

// ParseAzureInstanceType splits tier, size and version.
func ParseAzureInstanceType(c *datasource.Content) (*AzureInstanceType, error) {
	raw, err := singleMetadataLine(c)
	if err != nil {
		return nil, err
	}

	parts := strings.Split(raw, "_")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return nil, cerrors.ParseError("unrecognized VM size", raw)
	}
	t := &AzureInstanceType{Raw: raw, Type: parts[0], Size: parts[1]}
	if len(parts) > 2 {
		t.Version = strings.Join(parts[2:], "_")
	}
	return t, nil
}

// GCPInstanceType is a machine type such as n2-highcpu-16.
type GCPInstanceType struct {
	Raw  string `json:"raw" yaml:"raw"`
	Type string `json:"type" yaml:"type"`
	Size string `json:"size" yaml:"size"`
}

// ParseGCPInstanceType parses "projects/<n>/machineTypes/<type>".
func ParseGCPInstanceType(c *datasource.Content) (*GCPInstanceType, error) {
	raw, err := singleMetadataLine(c)
	if err != nil {
		return nil, err
	}

	_, machine, ok := strings.Cut(raw, "machineTypes/")
	if !ok || machine == "" || strings.Contains(machine, "/") {
		return nil, cerrors.ParseError("unrecognized machine type", raw)
	}
	family, size, _ := strings.Cut(machine, "-")
	return &GCPInstanceType{Raw: raw, Type: family, Size: size}, nil
}

func metadataErrors(c *datasource.Content) error {
	if err := parser.Validate(c.Lines); err != nil {
		return err
	}
	for _, l := range c.Lines {
		if strings.HasPrefix(l, "curl:") || strings.Contains(l, "<html") {
			return cerrors.NewWithContext(cerrors.ErrCodeContent, "metadata request failed", map[string]any{"line": l})
		}
	}
	return nil
}

func singleMetadataLine(c *datasource.Content) (string, error) {
	if err := metadataErrors(c); err != nil {
		return "", err
	}
	lines := parser.CleanLines(c.Lines, parser.WithSkipComments(false))
	if len(lines) != 1 || strings.ContainsAny(lines[0], " \t") {
		return "", cerrors.ParseError("expected a single value", strings.Join(lines, " "))
	}
	return lines[0], nil
}
