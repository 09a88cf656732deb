// Copyright (c) 2026 John Earle
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

// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Provider metrics
	ProviderRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodboard_provider_requests_total",
			Help: "Content provider calls by outcome (ok, empty, not_configured, auth, transport, status, decode, unavailable)",
		},
		[]string{"provider", "outcome"},
	)

	ProviderRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "moodboard_provider_request_duration_seconds",
			Help:    "Duration of content provider calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "moodboard_circuit_breaker_state",
			Help: "Circuit breaker state per provider (0=closed, 1=half-open, 2=open)",
		},
		[]string{"provider"},
	)

	ProviderFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodboard_provider_fallbacks_total",
			Help: "Static fallback results served in place of a failed provider call",
		},
		[]string{"provider"},
	)

	// Cache metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodboard_cache_hits_total",
			Help: "Recommendation cache hits by domain",
		},
		[]string{"domain"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodboard_cache_misses_total",
			Help: "Recommendation cache misses by domain",
		},
		[]string{"domain"},
	)

	// Classifier metrics
	Classifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodboard_classifications_total",
			Help: "Emotion classifications by input kind and detected label (label=none when no face)",
		},
		[]string{"input", "label"},
	)

	ClassificationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodboard_classification_errors_total",
			Help: "Emotion model invocation failures by input kind",
		},
		[]string{"input"},
	)

	// Journal metrics
	JournalEntries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodboard_journal_entries_total",
			Help: "Journal entries written by emotion",
		},
		[]string{"emotion"},
	)

	JournalReadFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodboard_journal_read_failures_total",
			Help: "Journal loads that fell back to an empty journal, by reason",
		},
		[]string{"reason"},
	)

	// HTTP API metrics
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moodboard_http_requests_total",
			Help: "HTTP API requests by route pattern, method and status",
		},
		[]string{"route", "method", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "moodboard_http_request_duration_seconds",
			Help:    "HTTP API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
)
