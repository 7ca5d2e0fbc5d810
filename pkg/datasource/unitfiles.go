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

package datasource

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/coreos/go-systemd/v22/dbus"
)

func (h *HostContext) unitFilesFromDBus(ctx context.Context) ([]byte, error) {
	conn, err := dbus.NewSystemdConnectionContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to systemd: %w", err)
	}
	defer conn.Close()

	files, err := conn.ListUnitFilesContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list unit files: %w", err)
	}

	return FormatUnitFiles(files), nil
}

// FormatUnitFiles renders unit files the way systemctl list-unit-files does.
func FormatUnitFiles(files []dbus.UnitFile) []byte {
	sorted := make([]dbus.UnitFile, len(files))
	copy(sorted, files)
	sort.Slice(sorted, func(i, j int) bool {
		return path.Base(sorted[i].Path) < path.Base(sorted[j].Path)
	})

	width := len("UNIT FILE")
	for _, f := range sorted {
		width = max(width, len(path.Base(f.Path)))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%-*s %s\n", width, "UNIT FILE", "STATE")
	for _, f := range sorted {
		fmt.Fprintf(&sb, "%-*s %s\n", width, path.Base(f.Path), f.Type)
	}
	fmt.Fprintf(&sb, "\n%d unit files listed.\n", len(sorted))
	return []byte(sb.String())
}
