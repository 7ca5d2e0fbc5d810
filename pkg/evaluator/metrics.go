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

package evaluator

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	evaluationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "insights_evaluation_duration_seconds",
			Help:    "Time taken to evaluate the component graph",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300},
		},
	)

	evaluationTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "insights_evaluation_total",
			Help: "Total number of evaluations",
		},
		[]string{"status"}, // success or error
	)

	ruleResponses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "insights_rule_responses_total",
			Help: "Rule responses by type",
		},
		[]string{"type"},
	)

	evaluationComponents = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "insights_evaluation_components",
			Help: "Components of the last evaluation by status",
		},
		[]string{"status"}, // ok, skip, failed, missing
	)
)
