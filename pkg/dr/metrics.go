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

package dr

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	componentRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "insights_component_runs_total",
			Help: "Total number of component executions by outcome",
		},
		[]string{"kind", "status"}, // ok, skip, failed, missing
	)

	componentDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "insights_component_duration_seconds",
			Help:    "Time taken by individual components",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 30},
		},
		[]string{"kind"},
	)
)
