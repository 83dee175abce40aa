// Package metrics exposes the server's Prometheus instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LocationUpdates counts ingestion outcomes. result is "accepted"
	// when a sample was persisted, "suppressed" when the gate dropped it.
	LocationUpdates = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bustracker_location_updates_total",
		Help: "GPS location updates by ingestion outcome.",
	}, []string{"result"})

	GeminiRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bustracker_gemini_requests_total",
		Help: "Outbound Gemini API calls by outcome.",
	}, []string{"outcome"})
)
