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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RedHatInsights/insights-core-sub003/pkg/datasource"
	cerrors "github.com/RedHatInsights/insights-core-sub003/pkg/errors"
)

func content(path, text string) *datasource.Content {
	return datasource.NewContent("test", path, text)
}

func assertSkip(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, cerrors.IsSkip(err), "expected skip, got %v", err)
}

func assertParseError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, cerrors.Is(err, cerrors.ErrCodeParse), "expected parse error, got %v", err)
}

func assertContentError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, cerrors.Is(err, cerrors.ErrCodeContent), "expected content error, got %v", err)
}

func TestParseCmdline(t *testing.T) {
	c, err := CmdlineParser.ParseText("BOOT_IMAGE=(hd0,msdos1)/vmlinuz-5.14.0-362.el9.x86_64 root=/dev/mapper/rhel-root ro " +
		"crashkernel=1G-4G:192M,4G-64G:256M rd.lvm.lv=rhel/root rd.lvm.lv=rhel/swap rhgb quiet mitigations=off\n")
	require.NoError(t, err)

	assert.True(t, c.Has("ro"))
	assert.Equal(t, []string{""}, c.Params["quiet"])
	assert.Equal(t, []string{"rhel/root", "rhel/swap"}, c.Params["rd.lvm.lv"])
	v, ok := c.Get("mitigations")
	assert.True(t, ok)
	assert.Equal(t, "off", v)
	_, ok = c.Get("nosmt")
	assert.False(t, ok)

	_, err = CmdlineParser.ParseText("\n")
	assertSkip(t, err)
}

func TestParseCPUVuln(t *testing.T) {
	v, err := ParseCPUVuln(content("/sys/devices/system/cpu/vulnerabilities/spectre_v2",
		"Mitigation: Retpolines, IBPB: conditional, IBRS_FW, STIBP: conditional, RSB filling\n"))
	require.NoError(t, err)
	assert.Equal(t, "spectre_v2", v.Name)
	assert.True(t, v.Mitigated())
	assert.False(t, v.Vulnerable())

	v, err = ParseCPUVuln(content("/sys/devices/system/cpu/vulnerabilities/mds", "Vulnerable: Clear CPU buffers attempted, no microcode; SMT Host state unknown\n"))
	require.NoError(t, err)
	assert.True(t, v.Vulnerable())

	_, err = ParseCPUVuln(content("/x/meltdown", ""))
	assertSkip(t, err)

	_, err = ParseCPUVuln(content("/x/meltdown", "Not affected\nextra\n"))
	assertParseError(t, err)
}

const dmidecodeAWS = `# dmidecode 3.3
Getting SMBIOS data from sysfs.
SMBIOS 2.7 present.

Handle 0x0000, DMI type 0, 24 bytes
BIOS Information
	Vendor: Xen
	Version: 4.11.amazon
	Release Date: 08/24/2006
	Characteristics:
		PCI is supported
		EDD is supported
	BIOS Revision: 4.11

Handle 0x0100, DMI type 1, 27 bytes
System Information
	Manufacturer: Xen
	Product Name: HVM domU
	Version: 4.11.amazon
	UUID: ec2e1a6e-8d5b-7e4c-a1c2-0f3e4d5c6b7a

Handle 0x0300, DMI type 4, 26 bytes
Processor Information
	Socket Designation: CPU 1
	Type: Central Processor

Handle 0x0301, DMI type 4, 26 bytes
Processor Information
	Socket Designation: CPU 2
	Type: Central Processor
`

func TestParseDMIDecode(t *testing.T) {
	d, err := DMIDecodeParser.ParseText(dmidecodeAWS)
	require.NoError(t, err)

	assert.Equal(t, "Xen", d.BIOSVendor())
	assert.Equal(t, "4.11.amazon", d.BIOSVersion())
	assert.Equal(t, "Xen", d.SystemManufacturer())
	assert.Equal(t, "HVM domU", d.SystemProductName())
	assert.Equal(t, "ec2e1a6e-8d5b-7e4c-a1c2-0f3e4d5c6b7a", d.SystemUUID())

	bios := d.Get("bios_information")
	require.Len(t, bios, 1)
	assert.Equal(t, "0x0000", bios[0].Handle)
	assert.Equal(t, "0", bios[0].Type)
	assert.Equal(t, "08/24/2006", bios[0].Fields["release_date"])
	assert.Equal(t, []string{"PCI is supported", "EDD is supported"}, bios[0].Lists["characteristics"])
	assert.Equal(t, "4.11", bios[0].Fields["bios_revision"])

	assert.Len(t, d.Get("processor_information"), 2)

	_, err = DMIDecodeParser.ParseText("# dmidecode 3.3\n# No SMBIOS nor DMI entry point found, sorry.\n")
	assertSkip(t, err)

	_, err = DMIDecodeParser.ParseText("bash: dmidecode: command not found\n")
	assertContentError(t, err)
}

func TestParseInstalledRPMs(t *testing.T) {
	r, err := InstalledRPMsParser.ParseText(`kernel-4.18.0-477.10.1.el8_8.x86_64	Red Hat, Inc.
kernel-4.18.0-425.3.1.el8.x86_64	Red Hat, Inc.
bash-4.4.20-4.el8_6.x86_64	Red Hat, Inc.
gpg-pubkey-fd431d51-4ae0493b	(none)
rh-amazon-rhui-client-4.0.5-1.el8.noarch	Red Hat, Inc.
error: rpmdbNextIterator: skipping h#     294 Header V4 RSA/SHA256 Signature
`)
	require.NoError(t, err)

	assert.True(t, r.Contains("kernel"))
	assert.Len(t, r.Get("kernel"), 2)

	newest, ok := r.Newest("kernel")
	require.True(t, ok)
	assert.Equal(t, "4.18.0", newest.Version)
	assert.Equal(t, "477.10.1.el8_8", newest.Release)
	assert.Equal(t, "Red Hat, Inc.", newest.Vendor)

	oldest, ok := r.Oldest("kernel")
	require.True(t, ok)
	assert.Equal(t, "425.3.1.el8", oldest.Release)

	gpg, ok := r.Newest("gpg-pubkey")
	require.True(t, ok)
	assert.Empty(t, gpg.Vendor)

	assert.Equal(t, []string{"rh-amazon-rhui-client"}, r.HasPrefix("rh-amazon"))
	assert.Len(t, r.Errors, 1)

	_, err = InstalledRPMsParser.ParseText("garbage\n")
	assertParseError(t, err)
}

func TestParseYumRepoList(t *testing.T) {
	t.Run("yum 3 with status", func(t *testing.T) {
		r, err := YumRepoListParser.ParseText(`Loaded plugins: langpacks, product-id, search-disabled-repos, subscription-manager
repo id                                        repo name                                                 status
!rhel-7-server-rpms/7Server/x86_64             Red Hat Enterprise Linux 7 Server (RPMs)                  28,159
*rhui-rhel-7-server-rhui-extras-rpms/x86_64    Red Hat Enterprise Linux 7 Server - Extras from RHUI      disabled: 1,427
repolist: 29,586
`)
		require.NoError(t, err)
		require.Len(t, r.Repos, 2)
		assert.Equal(t, "rhel-7-server-rpms", r.Repos[0].ID)
		assert.Equal(t, "!rhel-7-server-rpms/7Server/x86_64", r.Repos[0].RawID)
		assert.Equal(t, "Red Hat Enterprise Linux 7 Server (RPMs)", r.Repos[0].Name)
		assert.Equal(t, "28,159", r.Repos[0].Status)
		assert.Equal(t, "disabled: 1,427", r.Repos[1].Status)
		assert.Equal(t, []string{"rhel-7-server-rpms", "rhui-rhel-7-server-rhui-extras-rpms"}, r.IDs())
	})

	t.Run("dnf without status", func(t *testing.T) {
		r, err := YumRepoListParser.ParseText(`Updating Subscription Management repositories.
repo id                                              repo name
rhel-9-for-x86_64-appstream-rpms                     Red Hat Enterprise Linux 9 for x86_64 - AppStream (RPMs)
rhel-9-for-x86_64-baseos-rpms                        Red Hat Enterprise Linux 9 for x86_64 - BaseOS (RPMs)
`)
		require.NoError(t, err)
		repo, ok := r.Get("rhel-9-for-x86_64-baseos-rpms")
		require.True(t, ok)
		assert.Equal(t, "Red Hat Enterprise Linux 9 for x86_64 - BaseOS (RPMs)", repo.Name)
		assert.Empty(t, repo.Status)
	})

	t.Run("no repositories", func(t *testing.T) {
		_, err := YumRepoListParser.ParseText("This system is not registered with an entitlement server.\nrepolist: 0\n")
		assertSkip(t, err)
	})
}

func TestParseYumRepoFile(t *testing.T) {
	f, err := ParseYumRepoFile(content("/etc/yum.repos.d/redhat-rhui.repo", `[rhel-8-baseos-rhui-rpms]
name=Red Hat Enterprise Linux 8 for $basearch - BaseOS from RHUI (RPMs)
mirrorlist=https://rhui.REGION.aws.ce.redhat.com/pulp/mirror/content/dist/rhel8/rhui/$releasever/$basearch/baseos/os
enabled=1
gpgcheck=1

[rhel-8-baseos-rhui-debug-rpms]
name=Red Hat Enterprise Linux 8 for $basearch - BaseOS from RHUI (Debug RPMs)
enabled=0

# comment
[local]
baseurl=file:///srv/repo
`))
	require.NoError(t, err)
	assert.Len(t, f.Repos, 3)
	assert.Equal(t, []string{"local", "rhel-8-baseos-rhui-rpms"}, f.Enabled())

	opts, ok := f.Get("rhel-8-baseos-rhui-rpms")
	require.True(t, ok)
	assert.Equal(t, "1", opts["gpgcheck"])
	assert.Contains(t, opts["mirrorlist"], "rhui.REGION.aws")

	_, err = ParseYumRepoFile(content("/etc/yum.repos.d/empty.repo", "# nothing\n"))
	assertSkip(t, err)
}

func TestParseOSRelease(t *testing.T) {
	o, err := OSReleaseParser.ParseText(`NAME="Red Hat Enterprise Linux"
VERSION="9.2 (Plow)"
ID="rhel"
ID_LIKE="fedora"
VERSION_ID="9.2"
PRETTY_NAME="Red Hat Enterprise Linux 9.2 (Plow)"
`)
	require.NoError(t, err)
	assert.Equal(t, "rhel", o.ID())
	assert.Equal(t, "9.2", o.VersionID())
	assert.Equal(t, "Red Hat Enterprise Linux", o.Name())
	assert.Equal(t, "Red Hat Enterprise Linux 9.2 (Plow)", o.PrettyName())
	assert.True(t, o.IsRHEL())

	_, err = OSReleaseParser.ParseText("")
	assertSkip(t, err)
}

func TestParseRedhatRelease(t *testing.T) {
	tests := []struct {
		in      string
		product string
		version string
		major   int
		minor   int
		code    string
		rhel    bool
	}{
		{"Red Hat Enterprise Linux release 9.2 (Plow)", "Red Hat Enterprise Linux", "9.2", 9, 2, "Plow", true},
		{"Red Hat Enterprise Linux Server release 7.9 (Maipo)", "Red Hat Enterprise Linux Server", "7.9", 7, 9, "Maipo", true},
		{"CentOS Stream release 9", "CentOS Stream", "9", 9, -1, "", false},
		{"CentOS Linux release 7.9.2009 (Core)", "CentOS Linux", "7.9.2009", 7, 9, "Core", false},
		{"Fedora release 38 (Thirty Eight)", "Fedora", "38", 38, -1, "Thirty Eight", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			r, err := RedhatReleaseParser.ParseText(tt.in + "\n")
			require.NoError(t, err)
			assert.Equal(t, tt.product, r.Product)
			assert.Equal(t, tt.version, r.Version)
			assert.Equal(t, tt.major, r.Major)
			assert.Equal(t, tt.minor, r.Minor)
			assert.Equal(t, tt.code, r.Code)
			assert.Equal(t, tt.rhel, r.IsRHEL())
		})
	}

	_, err := RedhatReleaseParser.ParseText("not a release\n")
	assertParseError(t, err)
}

func TestParseUname(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		release string
		version string
		relnum  string
		arch    string
		rhel    string
	}{
		{
			name:    "rhel 9.3 z-stream",
			in:      "Linux host.example.com 5.14.0-362.8.1.el9_3.x86_64 #1 SMP PREEMPT_DYNAMIC Tue Oct 3 11:12:36 EDT 2023 x86_64 x86_64 x86_64 GNU/Linux",
			release: "5.14.0-362.8.1.el9_3.x86_64",
			version: "5.14.0",
			relnum:  "362.8.1.el9_3",
			arch:    "x86_64",
			rhel:    "9.3",
		},
		{
			name:    "rhel 7.9 GA",
			in:      "Linux rhel7 3.10.0-1160.el7.x86_64 #1 SMP Tue Aug 18 14:50:17 EDT 2020 x86_64 x86_64 x86_64 GNU/Linux",
			release: "3.10.0-1160.el7.x86_64",
			version: "3.10.0",
			relnum:  "1160.el7",
			arch:    "x86_64",
			rhel:    "7.9",
		},
		{
			name:    "release only",
			in:      "4.18.0-425.3.1.el8.aarch64",
			release: "4.18.0-425.3.1.el8.aarch64",
			version: "4.18.0",
			relnum:  "425.3.1.el8",
			arch:    "aarch64",
			rhel:    "8.7",
		},
		{
			name:    "upstream kernel",
			in:      "Linux box 6.5.0-14-generic #14-Ubuntu SMP PREEMPT_DYNAMIC Tue Nov 14 14:59:49 UTC 2023 x86_64 x86_64 x86_64 GNU/Linux",
			release: "6.5.0-14-generic",
			version: "6.5.0",
			relnum:  "14-generic",
			arch:    "x86_64",
			rhel:    "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := UnameParser.ParseText(tt.in + "\n")
			require.NoError(t, err)
			assert.Equal(t, tt.release, u.Release)
			assert.Equal(t, tt.version, u.Version)
			assert.Equal(t, tt.relnum, u.ReleaseNumber)
			assert.Equal(t, tt.arch, u.Arch)
			assert.Equal(t, tt.rhel, u.RHELRelease)
		})
	}

	_, err := UnameParser.ParseText("Linux host\n")
	assertParseError(t, err)
	_, err = UnameParser.ParseText("\n")
	assertSkip(t, err)
}

func TestParseHostname(t *testing.T) {
	h, err := HostnameParser.ParseText("web01.prod.example.com\n")
	require.NoError(t, err)
	assert.Equal(t, "web01.prod.example.com", h.FQDN)
	assert.Equal(t, "web01", h.Hostname)
	assert.Equal(t, "prod.example.com", h.Domain)

	h, err = HostnameParser.ParseText("localhost\n")
	require.NoError(t, err)
	assert.Empty(t, h.Domain)

	_, err = HostnameParser.ParseText("a\nb\n")
	assertParseError(t, err)
}
