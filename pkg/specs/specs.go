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

package specs

import (
	"sort"

	"github.com/RedHatInsights/insights-core-sub003/pkg/datasource"
)

const (
	awsIdentityURL = "http://169.254.169.254/latest/dynamic/instance-identity/document"
	azureVMSizeURL = "http://169.254.169.254/metadata/instance/compute/vmSize?api-version=2021-12-13&format=text"
	azureVMIDURL   = "http://169.254.169.254/metadata/instance/compute/vmId?api-version=2021-12-13&format=text"
	gcpMachineURL  = "http://metadata.google.internal/computeMetadata/v1/instance/machine-type"
	gcpInstanceURL = "http://metadata.google.internal/computeMetadata/v1/instance/id"

	// InstalledRPMsCommand prints one NAME-VERSION-RELEASE.ARCH<TAB>VENDOR line per package.
	InstalledRPMsCommand = "/bin/rpm -qa --qf '%{NAME}-%{VERSION}-%{RELEASE}.%{ARCH}\\t%{VENDOR}\\n'"
)

var (
	Cmdline = datasource.SimpleFile("cmdline", "/proc/cmdline",
		datasource.WithDescription("kernel boot command line"))

	CPUVulns = datasource.Glob("cpu_vulns", []string{"/sys/devices/system/cpu/vulnerabilities/*"},
		datasource.WithDescription("CPU vulnerability status files"))

	DMIDecode = datasource.Command("dmidecode", "/usr/sbin/dmidecode",
		datasource.WithDescription("DMI/SMBIOS tables"))

	InstalledRPMs = datasource.Command("installed_rpms", InstalledRPMsCommand,
		datasource.WithDescription("installed RPM packages with vendor"))

	YumRepoList = datasource.Command("yum_repolist", "/usr/bin/yum -C --noplugins repolist",
		datasource.WithDescription("enabled yum repositories"))

	YumReposD = datasource.Glob("yum_repos_d", []string{"/etc/yum.repos.d/*.repo"},
		datasource.WithDescription("yum repository definitions"))

	OSRelease = datasource.FirstFile("os_release", []string{"/etc/os-release", "/usr/lib/os-release"},
		datasource.WithDescription("operating system identification"))

	RedhatRelease = datasource.SimpleFile("redhat_release", "/etc/redhat-release",
		datasource.WithDescription("Red Hat release string"))

	Uname = datasource.Command("uname", "/usr/bin/uname -a",
		datasource.WithDescription("kernel name, release and machine"))

	Hostname = datasource.Command("hostname", "/usr/bin/hostname -f",
		datasource.WithDescription("fully qualified host name"))

	Fstab = datasource.SimpleFile("fstab", "/etc/fstab",
		datasource.WithDescription("static file system table"))

	SCSI = datasource.SimpleFile("scsi", "/proc/scsi/scsi",
		datasource.WithDescription("attached SCSI devices"))

	LsAttr = datasource.Command("lsattr", "/usr/bin/lsattr -d /etc/resolv.conf /etc/hosts /etc/passwd /etc/shadow",
		datasource.WithDescription("file attributes of sensitive configuration files"))

	GrubbyInfoAll = datasource.Command("grubby_info_all", "/usr/sbin/grubby --info=ALL",
		datasource.WithDescription("boot loader entries"))

	GrubbyDefaultIndex = datasource.Command("grubby_default_index", "/usr/sbin/grubby --default-index",
		datasource.WithDescription("index of the default boot entry"))

	GrubEnv = datasource.Command("grubenv", "/usr/bin/grub2-editenv list",
		datasource.WithDescription("GRUB environment block"))

	Sysctl = datasource.Command("sysctl", "/sbin/sysctl -a",
		datasource.WithDescription("kernel parameters"))

	LsMod = datasource.Command("lsmod", "/sbin/lsmod",
		datasource.WithDescription("loaded kernel modules"))

	SystemctlListUnitFiles = datasource.UnitFiles("systemctl_list_unit_files",
		datasource.WithDescription("systemd unit files and their state"))

	Messages = datasource.SimpleFile("messages", "/var/log/messages",
		datasource.Filterable(),
		datasource.WithDescription("system log, reduced to registered filters"))

	AWSInstanceIDDoc = datasource.URL("aws_instance_id_doc", awsIdentityURL,
		datasource.WithVendors("amazon"),
		datasource.WithDescription("EC2 instance identity document"))

	AzureInstanceType = datasource.URL("azure_instance_type", azureVMSizeURL,
		datasource.WithHeaders(map[string]string{"Metadata": "true"}),
		datasource.WithVendors("microsoft"),
		datasource.WithDescription("Azure VM size"))

	AzureInstanceID = datasource.URL("azure_instance_id", azureVMIDURL,
		datasource.WithHeaders(map[string]string{"Metadata": "true"}),
		datasource.WithVendors("microsoft"),
		datasource.WithDescription("Azure VM unique id"))

	GCPInstanceType = datasource.URL("gcp_instance_type", gcpMachineURL,
		datasource.WithHeaders(map[string]string{"Metadata-Flavor": "Google"}),
		datasource.WithVendors("google"),
		datasource.WithDescription("GCE machine type"))

	GCPInstanceID = datasource.URL("gcp_instance_id", gcpInstanceURL,
		datasource.WithHeaders(map[string]string{"Metadata-Flavor": "Google"}),
		datasource.WithVendors("google"),
		datasource.WithDescription("GCE numeric instance id"))
)

var all = []*datasource.Spec{
	Cmdline, CPUVulns, DMIDecode, InstalledRPMs, YumRepoList, YumReposD, OSRelease,
	RedhatRelease, Uname, Hostname, Fstab, SCSI, LsAttr, GrubbyInfoAll, GrubbyDefaultIndex,
	GrubEnv, Sysctl, LsMod, SystemctlListUnitFiles, Messages, AWSInstanceIDDoc,
	AzureInstanceType, AzureInstanceID, GCPInstanceType, GCPInstanceID,
}

// All returns every spec sorted by name.
func All() []*datasource.Spec {
	out := make([]*datasource.Spec, len(all))
	copy(out, all)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Get returns the spec called name.
func Get(name string) (*datasource.Spec, bool) {
	for _, s := range all {
		if s.Name == name {
			return s, true
		}
	}
	return nil, false
}
