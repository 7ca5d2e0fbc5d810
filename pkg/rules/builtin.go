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
	"fmt"
	"strconv"
	"strings"

	"github.com/RedHatInsights/insights-core-sub003/pkg/combiners"
	"github.com/RedHatInsights/insights-core-sub003/pkg/dr"
	cerrors "github.com/RedHatInsights/insights-core-sub003/pkg/errors"
	"github.com/RedHatInsights/insights-core-sub003/pkg/filters"
	"github.com/RedHatInsights/insights-core-sub003/pkg/parsers"
	"github.com/RedHatInsights/insights-core-sub003/pkg/specs"
)

// Error keys reported by the built-in rules.
const (
	KeyCPUVulnerable      = "CPU_VULNERABLE"
	KeyCloudHost          = "CLOUD_HOST"
	KeySoftLockup         = "SOFT_LOCKUP"
	KeyRHELKernelMismatch = "RHEL_KERNEL_MISMATCH"
)

const softLockupFilter = "soft lockup"

func init() {
	filters.MustAdd(specs.Messages, softLockupFilter)
}

// CPUVulnerable fails when the kernel reports a vulnerable CPU or runs
// with mitigations disabled.
var CPUVulnerable = New("cpu_vulnerable", "CPU vulnerabilities without mitigation",
	Deps{AnyOf: [][]*dr.Component{{
		combiners.CPUVulnsAllCombiner.Component(),
		parsers.CmdlineParser.Component(),
	}}, Optional: []*dr.Component{combiners.GrubbyCombiner.Component()}},
	cpuVulnerable)

func cpuVulnerable(b *dr.Broker) (*Response, error) {
	var affected []string
	if vulns, ok := combiners.CPUVulnsAllCombiner.Value(b); ok {
		affected = vulns.Affected()
	}

	mitigationsOff := false
	if cmd, ok := parsers.CmdlineParser.Value(b); ok {
		if v, found := cmd.Get("mitigations"); found && v == "off" {
			mitigationsOff = true
		}
	}
	if g, ok := combiners.GrubbyCombiner.Value(b); ok {
		for _, v := range g.Params["mitigations"] {
			if v == "off" {
				mitigationsOff = true
			}
		}
	}

	if len(affected) == 0 && !mitigationsOff {
		return MakePass(KeyCPUVulnerable, nil), nil
	}
	return MakeFail(KeyCPUVulnerable, map[string]any{
		"vulnerable":      affected,
		"mitigations_off": mitigationsOff,
	}), nil
}

// CloudHost reports the cloud provider and instance of a cloud host.
var CloudHost = New("cloud_host", "cloud provider and instance of the host",
	Deps{
		Requires: []*dr.Component{combiners.CloudProviderCombiner.Component()},
		Optional: []*dr.Component{combiners.CloudInstanceCombiner.Component()},
	},
	cloudHost)

func cloudHost(b *dr.Broker) (*Response, error) {
	cp, ok := combiners.CloudProviderCombiner.Value(b)
	if !ok || !cp.IsCloud() {
		return nil, cerrors.Skip("not a cloud host")
	}

	details := map[string]any{
		"provider": cp.Provider,
		"source":   cp.Source,
	}
	if inst, ok := combiners.CloudInstanceCombiner.Value(b); ok {
		details["instance_type"] = inst.Type
		if inst.Size != "" {
			details["instance_size"] = inst.Size
		}
		if inst.ID != "" {
			details["instance_id"] = inst.ID
		}
	}
	return MakeInfo(KeyCloudHost, details), nil
}

// SoftLockup fails when the system log records soft lockups.
var SoftLockup = New("soft_lockup", "kernel soft lockups in the system log",
	Deps{Requires: []*dr.Component{parsers.MessagesParser.Component()}},
	softLockup)

func softLockup(b *dr.Broker) (*Response, error) {
	msgs, ok := parsers.MessagesParser.Value(b)
	if !ok {
		return nil, cerrors.Skip("no messages")
	}

	lines := msgs.Get(softLockupFilter)
	if len(lines) == 0 {
		return MakePass(KeySoftLockup, nil), nil
	}

	cpus := make(map[string]struct{})
	for _, l := range lines {
		if cpu := lockupCPU(l.Message); cpu != "" {
			cpus[cpu] = struct{}{}
		}
	}
	details := map[string]any{
		"count": len(lines),
		"first": lines[0].Timestamp,
		"last":  lines[len(lines)-1].Timestamp,
	}
	if len(cpus) > 0 {
		details["cpus"] = len(cpus)
	}
	return MakeFail(KeySoftLockup, details), nil
}

// lockupCPU extracts N from "... soft lockup - CPU#N stuck for ...".
func lockupCPU(msg string) string {
	_, rest, ok := strings.Cut(msg, "CPU#")
	if !ok {
		return ""
	}
	end := strings.IndexFunc(rest, func(r rune) bool { return r < '0' || r > '9' })
	if end == -1 {
		end = len(rest)
	}
	return rest[:end]
}

// RHELKernelMismatch fails when the running kernel belongs to a different
// RHEL release than the one installed.
var RHELKernelMismatch = New("rhel_kernel_mismatch", "running kernel does not match the installed RHEL release",
	Deps{Requires: []*dr.Component{
		parsers.UnameParser.Component(),
		parsers.RedhatReleaseParser.Component(),
	}},
	rhelKernelMismatch)

func rhelKernelMismatch(b *dr.Broker) (*Response, error) {
	u, ok := parsers.UnameParser.Value(b)
	if !ok || u.RHELRelease == "" {
		return nil, cerrors.Skip("kernel is not a known RHEL kernel")
	}
	rel, ok := parsers.RedhatReleaseParser.Value(b)
	if !ok || !rel.IsRHEL() {
		return nil, cerrors.Skip("host is not RHEL")
	}

	installed := strconv.Itoa(rel.Major)
	kernel := u.RHELRelease
	if rel.Minor >= 0 {
		installed = fmt.Sprintf("%d.%d", rel.Major, rel.Minor)
	} else {
		kernel = u.RHELMajor()
	}

	details := map[string]any{
		"kernel":         u.Release,
		"kernel_release": u.RHELRelease,
		"release":        rel.Version,
	}
	if kernel == installed {
		return MakePass(KeyRHELKernelMismatch, details), nil
	}
	return MakeFail(KeyRHELKernelMismatch, details), nil
}
