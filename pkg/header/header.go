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
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shirou/gopsutil/v4/host"
)

// APIVersion is the schema version of emitted documents.
const APIVersion = "insights.redhat.com/v1"

// Metadata keys.
const (
	KeyTimestamp = "timestamp"
	KeyVersion   = "version"
	KeyReportID  = "report-id"
	KeySource    = "source"
	KeyHostname  = "hostname"
	KeyPlatform  = "platform"
	KeyKernel    = "kernel"
	KeyArch      = "arch"
)

// Kind represents the type of an emitted document.
type Kind string

const (
	KindReport     Kind = "Report"
	KindSpecs      Kind = "SpecList"
	KindComponents Kind = "ComponentList"
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	return string(k)
}

// IsValid checks if the Kind is one of the recognized kinds.
func (k *Kind) IsValid() bool {
	switch *k {
	case KindReport, KindSpecs, KindComponents:
		return true
	default:
		return false
	}
}

// Option is a functional option for configuring Header instances.
type Option func(*Header)

// WithMetadata adds a metadata key-value pair to the Header.
func WithMetadata(key, value string) Option {
	return func(h *Header) {
		h.set(key, value)
	}
}

// WithKind sets the Kind of the Header.
func WithKind(kind Kind) Option {
	return func(h *Header) {
		h.Kind = kind
	}
}

// WithAPIVersion sets the APIVersion of the Header.
func WithAPIVersion(version string) Option {
	return func(h *Header) {
		h.APIVersion = version
	}
}

// WithReportID stamps the Header with a random report ID.
func WithReportID() Option {
	return func(h *Header) {
		h.set(KeyReportID, uuid.NewString())
	}
}

// WithHost adds the hostname, platform, kernel and architecture of the
// local machine. Lookup failures are logged and leave the metadata unset.
func WithHost(ctx context.Context) Option {
	return func(h *Header) {
		info, err := host.InfoWithContext(ctx)
		if err != nil {
			slog.Warn("failed to read host info", slog.String("error", err.Error()))
			return
		}
		h.set(KeyHostname, info.Hostname)
		h.set(KeyPlatform, joinNonEmpty(info.Platform, info.PlatformVersion))
		h.set(KeyKernel, info.KernelVersion)
		h.set(KeyArch, info.KernelArch)
	}
}

func joinNonEmpty(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	default:
		return a + " " + b
	}
}

// New creates a new Header with the provided options.
func New(opts ...Option) *Header {
	h := &Header{
		Metadata: make(map[string]string),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Header contains metadata and versioning information of a document.
type Header struct {
	// Kind is the type of the document.
	Kind Kind `json:"kind,omitempty" yaml:"kind,omitempty"`

	// APIVersion is the API version of the document.
	APIVersion string `json:"apiVersion,omitempty" yaml:"apiVersion,omitempty"`

	// Metadata contains key-value pairs describing the document.
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

func (h *Header) set(key, value string) {
	if value == "" {
		return
	}
	if h.Metadata == nil {
		h.Metadata = make(map[string]string)
	}
	h.Metadata[key] = value
}

// Init sets the kind and API version and stamps the current time and the
// tool version. Existing metadata is kept.
func (h *Header) Init(kind Kind, apiVersion, version string) {
	h.Kind = kind
	h.APIVersion = apiVersion
	h.set(KeyTimestamp, time.Now().UTC().Format(time.RFC3339))
	h.set(KeyVersion, version)
}

// Apply applies options to an existing Header.
func (h *Header) Apply(opts ...Option) {
	for _, opt := range opts {
		opt(h)
	}
}
