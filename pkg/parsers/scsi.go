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
	"regexp"
	"strings"

	"github.com/RedHatInsights/insights-core-sub003/pkg/datasource"
	cerrors "github.com/RedHatInsights/insights-core-sub003/pkg/errors"
	"github.com/RedHatInsights/insights-core-sub003/pkg/parser"
	"github.com/RedHatInsights/insights-core-sub003/pkg/specs"
)

// SCSIParser parses /proc/scsi/scsi.
var SCSIParser = parser.New("scsi", specs.SCSI, ParseSCSI)

const scsiHeader = "Attached devices:"

var scsiKeys = regexp.MustCompile(`(Host|Channel|Id|Lun|Vendor|Model|Rev|Type|ANSI\s+SCSI revision):`)

// SCSIDevice is one attached device.
type SCSIDevice struct {
	Host         string `json:"host" yaml:"host"`
	Channel      string `json:"channel" yaml:"channel"`
	ID           string `json:"id" yaml:"id"`
	Lun          string `json:"lun" yaml:"lun"`
	Vendor       string `json:"vendor" yaml:"vendor"`
	Model        string `json:"model" yaml:"model"`
	Rev          string `json:"rev" yaml:"rev"`
	Type         string `json:"type" yaml:"type"`
	ANSIRevision string `json:"ansi_scsi_revision" yaml:"ansi_scsi_revision"`
}

// ParseSCSI parses the device list. The content must begin with
// "Attached devices:".
func ParseSCSI(c *datasource.Content) ([]SCSIDevice, error) {
	lines := parser.CleanLines(c.Lines, parser.WithSkipComments(false))
	if len(lines) == 0 {
		return nil, cerrors.Skipf("%s is empty", c.Path)
	}
	if lines[0] != scsiHeader {
		return nil, cerrors.ParseError("expected "+scsiHeader, lines[0])
	}

	devices := []SCSIDevice{}
	var current *SCSIDevice
	for _, line := range lines[1:] {
		fields := scsiFields(line)
		if len(fields) == 0 {
			return nil, cerrors.ParseError("unrecognized device line", line)
		}
		if _, ok := fields["Host"]; ok {
			devices = append(devices, SCSIDevice{})
			current = &devices[len(devices)-1]
		}
		if current == nil {
			return nil, cerrors.ParseError("device attributes before Host line", line)
		}
		current.set(fields)
	}
	return devices, nil
}

func scsiFields(line string) map[string]string {
	idx := scsiKeys.FindAllStringSubmatchIndex(line, -1)
	out := make(map[string]string, len(idx))
	for i, m := range idx {
		end := len(line)
		if i+1 < len(idx) {
			end = idx[i+1][0]
		}
		key := strings.Join(strings.Fields(line[m[2]:m[3]]), " ")
		out[key] = strings.TrimSpace(line[m[1]:end])
	}
	return out
}

func (d *SCSIDevice) set(fields map[string]string) {
	for k, v := range fields {
		switch k {
		case "Host":
			d.Host = v
		case "Channel":
			d.Channel = v
		case "Id":
			d.ID = v
		case "Lun":
			d.Lun = v
		case "Vendor":
			d.Vendor = v
		case "Model":
			d.Model = v
		case "Rev":
			d.Rev = v
		case "Type":
			d.Type = v
		case "ANSI SCSI revision":
			d.ANSIRevision = v
		}
	}
}
