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

package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/RedHatInsights/insights-core-sub003/pkg/archive"
	"github.com/RedHatInsights/insights-core-sub003/pkg/config"
	"github.com/RedHatInsights/insights-core-sub003/pkg/datasource"
	"github.com/RedHatInsights/insights-core-sub003/pkg/defaults"
	"github.com/RedHatInsights/insights-core-sub003/pkg/dr"
	cerrors "github.com/RedHatInsights/insights-core-sub003/pkg/errors"
	"github.com/RedHatInsights/insights-core-sub003/pkg/evaluator"
	"github.com/RedHatInsights/insights-core-sub003/pkg/header"
	"github.com/RedHatInsights/insights-core-sub003/pkg/report"
	"github.com/RedHatInsights/insights-core-sub003/pkg/serializer"
	"github.com/RedHatInsights/insights-core-sub003/pkg/server"
)

// Handler serves the analysis endpoints.
type Handler struct {
	version        string
	registry       *dr.Registry
	config         *config.Config
	maxUploadSize  int64
	analyzeTimeout time.Duration
	extractOptions []archive.ExtractOption
}

// Option configures a Handler.
type Option func(*Handler)

// WithVersion sets the version stamped into documents.
func WithVersion(version string) Option {
	return func(h *Handler) {
		h.version = version
	}
}

// WithRegistry sets the registry components are resolved from.
func WithRegistry(reg *dr.Registry) Option {
	return func(h *Handler) {
		h.registry = reg
	}
}

// WithConfig sets the redaction, skip and concurrency settings used for
// every analysis.
func WithConfig(cfg *config.Config) Option {
	return func(h *Handler) {
		h.config = cfg
	}
}

// WithMaxUploadSize bounds the accepted archive size.
func WithMaxUploadSize(n int64) Option {
	return func(h *Handler) {
		h.maxUploadSize = n
	}
}

// WithAnalyzeTimeout bounds the evaluation of one upload.
func WithAnalyzeTimeout(d time.Duration) Option {
	return func(h *Handler) {
		if d > 0 {
			h.analyzeTimeout = d
		}
	}
}

// WithExtractOptions sets the limits applied when unpacking uploads.
func WithExtractOptions(opts ...archive.ExtractOption) Option {
	return func(h *Handler) {
		h.extractOptions = append(h.extractOptions, opts...)
	}
}

// NewHandler creates a Handler over the default registry and configuration.
func NewHandler(opts ...Option) *Handler {
	h := &Handler{
		version:        "dev",
		registry:       dr.Default(),
		config:         config.Default(),
		maxUploadSize:  defaults.MaxUploadSize,
		analyzeTimeout: defaults.AnalyzeTimeout,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes returns the application routes of h.
func (h *Handler) Routes() map[string]http.HandlerFunc {
	return map[string]http.HandlerFunc{
		"/v1/analyze":    h.HandleAnalyze,
		"/v1/specs":      h.HandleSpecs,
		"/v1/components": h.HandleComponents,
	}
}

func allowMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	server.WriteError(w, r, http.StatusMethodNotAllowed, cerrors.ErrCodeMethodNotAllowed,
		"Method not allowed", false, map[string]any{"method": r.Method})
	return false
}

func responseFormat(r *http.Request) (serializer.Format, error) {
	f := serializer.Format(r.URL.Query().Get("format"))
	switch f {
	case "":
		return serializer.FormatJSON, nil
	case serializer.FormatJSON, serializer.FormatYAML:
		return f, nil
	default:
		return "", cerrors.NewWithContext(cerrors.ErrCodeInvalidRequest,
			fmt.Sprintf("unsupported format: %q", f), map[string]any{"supported": "json, yaml"})
	}
}

// HandleAnalyze handles POST /v1/analyze.
func (h *Handler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	format, err := responseFormat(r)
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "Invalid format", nil)
		return
	}

	var repOpts []report.Option
	if v := r.URL.Query().Get("facts"); v != "" {
		include, perr := strconv.ParseBool(v)
		if perr != nil {
			server.WriteError(w, r, http.StatusBadRequest, cerrors.ErrCodeInvalidRequest,
				"Invalid facts parameter", false, map[string]any{"facts": v})
			return
		}
		if !include {
			repOpts = append(repOpts, report.WithoutFacts())
		}
	}

	rep, err := h.analyze(r.Context(), w, r, repOpts)
	recordAnalysis(rep, err)
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "Failed to analyze archive", nil)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	serializer.Respond(w, http.StatusOK, format, rep)
}

// analyze stores the request body, extracts it and evaluates it.
func (h *Handler) analyze(ctx context.Context, w http.ResponseWriter, r *http.Request, repOpts []report.Option) (*report.Report, error) {
	dir, err := os.MkdirTemp("", "insights-upload-")
	if err != nil {
		return nil, cerrors.Wrap(cerrors.ErrCodeInternal, "failed to create upload directory", err)
	}
	defer os.RemoveAll(dir)

	upload := filepath.Join(dir, "upload.tar.gz")
	n, err := h.store(w, r, upload)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, cerrors.New(cerrors.ErrCodeInvalidRequest, "request body is empty")
	}
	analyzeUploadBytes.Observe(float64(n))

	root, cleanup, err := archive.Open(upload, h.extractOptions...)
	if err != nil {
		return nil, cerrors.Wrap(cerrors.ErrCodeInvalidRequest, "invalid archive", err)
	}
	defer cleanup()

	opts, err := h.config.CollectOptions(nil, false)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, h.analyzeTimeout)
	defer cancel()

	e := &evaluator.Evaluator{
		Version:     h.version,
		Context:     datasource.NewArchiveContext(root),
		Options:     opts,
		Registry:    h.registry,
		Targets:     r.URL.Query()["component"],
		Concurrency: h.config.Concurrency,
		Header: []header.Option{
			header.WithMetadata(header.KeySource, "upload"),
			header.WithMetadata("request-id", server.RequestID(r.Context())),
		},
		Report: repOpts,
	}

	rep, err := e.Evaluate(ctx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, cerrors.Wrap(cerrors.ErrCodeTimeout, "analysis timed out", err)
		}
		return nil, err
	}

	slog.Debug("analyzed upload",
		slog.String("requestID", server.RequestID(r.Context())),
		slog.Int64("bytes", n),
		slog.Int("responses", len(rep.Responses)))
	return rep, nil
}

// store copies the request body to path, bounded by the upload limit.
func (h *Handler) store(w http.ResponseWriter, r *http.Request, path string) (int64, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, cerrors.Wrap(cerrors.ErrCodeInternal, "failed to store upload", err)
	}
	defer f.Close()

	n, err := io.Copy(f, http.MaxBytesReader(w, r.Body, h.maxUploadSize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return 0, cerrors.NewWithContext(cerrors.ErrCodeInvalidRequest, "archive too large",
				map[string]any{"limit": h.maxUploadSize})
		}
		return 0, cerrors.Wrap(cerrors.ErrCodeInvalidRequest, "failed to read upload", err)
	}
	return n, nil
}

// HandleSpecs handles GET /v1/specs.
func (h *Handler) HandleSpecs(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	format, err := responseFormat(r)
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "Invalid format", nil)
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=300")
	serializer.Respond(w, http.StatusOK, format, NewSpecList(h.version))
}

// HandleComponents handles GET /v1/components.
func (h *Handler) HandleComponents(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	format, err := responseFormat(r)
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "Invalid format", nil)
		return
	}

	q := r.URL.Query()
	kinds, err := ParseKinds(q["kind"])
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "Invalid kind", nil)
		return
	}
	comps, err := ListComponents(h.registry, q["target"])
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "Failed to list components", nil)
		return
	}

	serializer.Respond(w, http.StatusOK, format, NewComponentList(h.version, comps, kinds))
}
