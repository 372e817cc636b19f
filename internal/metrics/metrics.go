// Package metrics exposes prometheus counters for the encode pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// EncodesTotal counts encode calls by outcome.
	EncodesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "utsf_encodes_total",
		Help: "Total encode calls, labeled by outcome.",
	}, []string{"outcome"})

	// EncodeWarningsTotal counts recoverable warnings surfaced by encodes.
	EncodeWarningsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "utsf_encode_warnings_total",
		Help: "Recoverable warnings surfaced during encoding, labeled by kind.",
	}, []string{"kind"})

	// EncodeDuration observes end-to-end encode latency.
	EncodeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "utsf_encode_duration_seconds",
		Help:    "End-to-end encode latency.",
		Buckets: prometheus.DefBuckets,
	})

	// DirectoryLoadsTotal counts master directory fetches (cache misses and
	// forced refreshes; memoized hits are not counted).
	DirectoryLoadsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "utsf_directory_loads_total",
		Help: "Master directory loads from the backing source.",
	})
)
