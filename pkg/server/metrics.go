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

package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Sizes of uploaded archives and rendered reports span bytes to hundreds
// of megabytes.
var sizeBuckets = prometheus.ExponentialBuckets(1<<10, 4, 10)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "insights_http_requests_total",
			Help: "HTTP requests by route, method and status.",
		},
		[]string{"route", "method", "status"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "insights_http_request_duration_seconds",
			Help:    "HTTP request latency by route, including archive evaluation.",
			Buckets: []float64{.01, .05, .1, .5, 1, 5, 15, 30, 60, 120},
		},
		[]string{"route"},
	)

	requestBytes = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "insights_http_request_size_bytes",
			Help:    "Declared request body size by route; uploads land on /v1/analyze.",
			Buckets: sizeBuckets,
		},
		[]string{"route"},
	)

	responseBytes = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "insights_http_response_size_bytes",
			Help:    "Response body size by route.",
			Buckets: sizeBuckets,
		},
		[]string{"route"},
	)

	requestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "insights_http_requests_in_flight",
			Help: "HTTP requests being served.",
		},
	)

	rateLimitRejects = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "insights_rate_limit_rejects_total",
			Help: "Requests rejected by the rate limiter, by route.",
		},
		[]string{"route"},
	)

	panicRecoveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "insights_panic_recoveries_total",
			Help: "Panics recovered in handlers, by route.",
		},
		[]string{"route"},
	)

	readinessFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "insights_readiness_check_failures_total",
			Help: "Failed readiness checks by check name.",
		},
		[]string{"check"},
	)
)
