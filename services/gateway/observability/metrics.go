// Copyright (C) 2025 DeepPredict Labs (oss@deeppredict.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package observability provides Prometheus metrics for the gateway.
//
// Metrics are exposed via the /metrics endpoint. All operations are
// thread-safe via Prometheus's internal locking.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "deeppredict"
const gatewaySubsystem = "gateway"

// Endpoint label values.
const (
	EndpointChat   = "chat"
	EndpointImage  = "image"
	EndpointHealth = "health"
)

// Status label values.
const (
	StatusSuccess   = "success"
	StatusClientErr = "client_error"
	StatusServerErr = "server_error"
)

// GatewayMetrics holds all Prometheus metrics for the request pipeline.
//
// # Fields
//
//   - RequestsTotal: Counter of requests by endpoint and status
//   - UpstreamDurationSeconds: Histogram of model-server call latency by backend
//   - InflightRequests: Gauge of requests currently being handled
type GatewayMetrics struct {
	RequestsTotal           *prometheus.CounterVec
	UpstreamDurationSeconds *prometheus.HistogramVec
	InflightRequests        prometheus.Gauge
}

// NewGatewayMetrics creates and registers the gateway metrics on the given
// registerer. Pass prometheus.DefaultRegisterer in main; tests use a fresh
// prometheus.NewRegistry() to avoid duplicate-registration panics.
func NewGatewayMetrics(reg prometheus.Registerer) *GatewayMetrics {
	factory := promauto.With(reg)
	return &GatewayMetrics{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: gatewaySubsystem,
				Name:      "requests_total",
				Help:      "Total number of gateway requests by endpoint and status",
			},
			[]string{"endpoint", "status"},
		),
		UpstreamDurationSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: gatewaySubsystem,
				Name:      "upstream_duration_seconds",
				Help:      "Latency of model-server calls in seconds",
				Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
			},
			[]string{"backend"},
		),
		InflightRequests: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Subsystem: gatewaySubsystem,
				Name:      "inflight_requests",
				Help:      "Number of gateway requests currently being handled",
			},
		),
	}
}

// RecordRequest increments the request counter for one finished request.
func (m *GatewayMetrics) RecordRequest(endpoint, status string) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(endpoint, status).Inc()
}

// ObserveUpstream records one model-server call duration.
func (m *GatewayMetrics) ObserveUpstream(backend string, seconds float64) {
	if m == nil {
		return
	}
	m.UpstreamDurationSeconds.WithLabelValues(backend).Observe(seconds)
}

// TrackInflight increments the in-flight gauge and returns the matching
// decrement, for use with defer.
func (m *GatewayMetrics) TrackInflight() func() {
	if m == nil {
		return func() {}
	}
	m.InflightRequests.Inc()
	return m.InflightRequests.Dec
}
