// lazy-milktea - Android bugreport/logcat indexing and query engine
// Copyright 2026 leaf76
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/leaf76/lazy-milktea

// Package metrics exposes Prometheus instrumentation for the Streaming
// Index Builder and Query Executor.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BuildDuration records the wall-clock time of a full Parse/ParseStreaming
	// call, labeled by outcome (complete, cancelled, error) so cancellations
	// and failed builds are distinguishable from clean completions.
	BuildDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lazymilktea_build_duration_seconds",
			Help:    "Duration of a full bugreport build (parse + index + FTS).",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 12),
		},
		[]string{"outcome"},
	)

	// BuildRowsTotal counts rows inserted into the Index Store across all
	// builds, labeled by level so error/fatal volume is visible without a
	// query round trip.
	BuildRowsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lazymilktea_build_rows_total",
			Help: "Total logcat rows inserted into the Index Store.",
		},
		[]string{"level"},
	)

	// BuildLinesSkippedTotal counts input lines that did not match the
	// threadtime grammar (§4.1) and were silently skipped.
	BuildLinesSkippedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lazymilktea_build_lines_skipped_total",
			Help: "Total input lines that failed to parse as a logcat line.",
		},
	)

	// QueryDuration records Query Executor latency, labeled by direction.
	QueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lazymilktea_query_duration_seconds",
			Help:    "Duration of a single cursor-paginated query.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"direction"},
	)

	// QueryRowsReturned records the page size actually returned, so a host
	// can distinguish "ran out of matching rows" from "limit satisfied".
	QueryRowsReturned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "lazymilktea_query_rows_returned",
			Help:    "Number of rows returned per query page.",
			Buckets: []float64{0, 1, 10, 50, 100, 250, 500, 1000},
		},
	)

	// RegexRejectionsTotal counts Regex Safety Gate rejections, labeled by
	// reason (too_long, denylist, compile_error, program_too_large).
	RegexRejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lazymilktea_regex_rejections_total",
			Help: "Total user regex filters rejected by the Regex Safety Gate.",
		},
		[]string{"reason"},
	)

	// CachePageHits/CachePageMisses track the Query Executor's page cache
	// (internal/cache.PageCache).
	CachePageHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lazymilktea_query_cache_hits_total",
			Help: "Total query page-cache hits.",
		},
	)

	CachePageMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lazymilktea_query_cache_misses_total",
			Help: "Total query page-cache misses.",
		},
	)
)

// ObserveBuild records a completed build's duration under the given
// outcome label ("complete", "cancelled", "error").
func ObserveBuild(outcome string, d time.Duration) {
	BuildDuration.WithLabelValues(outcome).Observe(d.Seconds())
}

// ObserveQuery records a completed query's duration and page size.
func ObserveQuery(direction string, d time.Duration, rows int) {
	QueryDuration.WithLabelValues(direction).Observe(d.Seconds())
	QueryRowsReturned.Observe(float64(rows))
}
