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
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	cerrors "github.com/RedHatInsights/insights-core-sub003/pkg/errors"
	"github.com/RedHatInsights/insights-core-sub003/pkg/report"
)

var (
	analyzeTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "insights_analyze_uploads_total",
			Help: "Uploaded archives by outcome: ok or the lower-cased error code.",
		},
		[]string{"outcome"},
	)

	analyzeUploadBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "insights_analyze_upload_size_bytes",
			Help:    "Stored size of uploaded archives.",
			Buckets: prometheus.ExponentialBuckets(1<<10, 4, 10),
		},
	)

	analyzeRuleResponses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "insights_analyze_rule_responses_total",
			Help: "Rule responses returned for uploads, by response type and rule.",
		},
		[]string{"type", "rule"},
	)
)

// recordAnalysis counts the outcome of one upload.
func recordAnalysis(rep *report.Report, err error) {
	if err != nil {
		outcome := string(cerrors.CodeOf(err))
		if outcome == "" {
			outcome = string(cerrors.ErrCodeInternal)
		}
		analyzeTotal.WithLabelValues(strings.ToLower(outcome)).Inc()
		return
	}
	analyzeTotal.WithLabelValues("ok").Inc()
	for _, r := range rep.Responses {
		analyzeRuleResponses.WithLabelValues(string(r.Type), r.Rule).Inc()
	}
}
