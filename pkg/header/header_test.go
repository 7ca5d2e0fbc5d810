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

package header

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKind(t *testing.T) {
	for _, k := range []Kind{KindReport, KindSpecs, KindComponents} {
		assert.True(t, k.IsValid(), k.String())
	}
	bad := Kind("Snapshot")
	assert.False(t, bad.IsValid())
}

func TestNew(t *testing.T) {
	h := New(
		WithKind(KindReport),
		WithAPIVersion(APIVersion),
		WithMetadata(KeySource, "/tmp/archive"),
		WithMetadata("empty", ""),
		WithReportID(),
	)
	assert.Equal(t, KindReport, h.Kind)
	assert.Equal(t, APIVersion, h.APIVersion)
	assert.Equal(t, "/tmp/archive", h.Metadata[KeySource])
	assert.NotContains(t, h.Metadata, "empty")

	_, err := uuid.Parse(h.Metadata[KeyReportID])
	assert.NoError(t, err)
}

func TestInit(t *testing.T) {
	var h Header
	h.Apply(WithMetadata(KeySource, "host"))
	h.Init(KindReport, APIVersion, "v1.2.3")

	assert.Equal(t, "host", h.Metadata[KeySource])
	assert.Equal(t, "v1.2.3", h.Metadata[KeyVersion])
	_, err := time.Parse(time.RFC3339, h.Metadata[KeyTimestamp])
	require.NoError(t, err)

	h.Init(KindReport, APIVersion, "")
	assert.Equal(t, "v1.2.3", h.Metadata[KeyVersion])
}

func TestWithHost(t *testing.T) {
	if testing.Short() {
		t.Skip("reads host information")
	}
	h := New(WithHost(context.Background()))
	assert.NotEmpty(t, h.Metadata[KeyHostname])
}

func TestJoinNonEmpty(t *testing.T) {
	assert.Equal(t, "rhel 9.3", joinNonEmpty("rhel", "9.3"))
	assert.Equal(t, "rhel", joinNonEmpty("rhel", ""))
	assert.Equal(t, "9.3", joinNonEmpty("", "9.3"))
}
