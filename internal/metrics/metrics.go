// Cultiva - Plant Care Realtime Gateway
// Copyright 2026 Vansh Parate
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Vansh-Parate/Cultiva

// Package metrics holds the Prometheus collectors for the realtime service.
//
// Collectors are registered on the default registry at init through promauto
// and exposed by the API at GET /metrics. Callers use the Record* helpers
// rather than touching label values directly.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Drop and protocol error reasons.
const (
	ReasonBufferFull       = "buffer_full"
	ReasonConnectionClosed = "connection_closed"
	ReasonEncodeFailed     = "encode_failed"
	ReasonMalformedFrame   = "malformed_frame"
	ReasonUnknownType      = "unknown_type"
	ReasonNotAuthenticated = "not_authenticated"
	ReasonInvalidPayload   = "invalid_payload"
	ReasonInvalidToken     = "invalid_credential"
	ReasonRateLimited      = "rate_limited"
	ReasonMessageTooLarge  = "message_too_large"
	ReasonMirrorQueueFull  = "mirror_queue_full"
)

var (
	// Gateway
	RealtimeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "realtime_connections",
			Help: "Current number of open websocket connections",
		},
	)

	RealtimePrincipalsOnline = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "realtime_principals_online",
			Help: "Current number of principals with at least one authenticated connection",
		},
	)

	RealtimeTopics = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "realtime_topics",
			Help: "Current number of materialized topics",
		},
	)

	RealtimeConnectionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "realtime_connections_total",
			Help: "Total websocket connections accepted",
		},
	)

	RealtimeFramesSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "realtime_frames_sent_total",
			Help: "Frames queued for delivery, by event name",
		},
		[]string{"event"},
	)

	RealtimeFramesDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "realtime_frames_dropped_total",
			Help: "Frames that could not be queued, by reason",
		},
		[]string{"reason"},
	)

	RealtimeSlowConsumers = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "realtime_slow_consumers_total",
			Help: "Connections closed because their send buffer was full",
		},
	)

	RealtimeInboundFrames = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "realtime_inbound_frames_total",
			Help: "Client frames received, by frame type",
		},
		[]string{"type"},
	)

	RealtimeProtocolErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "realtime_protocol_errors_total",
			Help: "Client frames rejected as protocol errors, by reason",
		},
		[]string{"reason"},
	)

	RealtimePresenceTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "realtime_presence_transitions_total",
			Help: "Principal online/offline transitions",
		},
		[]string{"state"},
	)

	// Event bus
	BusEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventbus_events_total",
			Help: "Domain events published on the bus, by kind",
		},
		[]string{"kind"},
	)

	BusDeliveries = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "eventbus_deliveries",
			Help:    "Frames delivered per domain event",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100, 250, 1000},
		},
		[]string{"kind"},
	)

	BusListenerPanics = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "eventbus_listener_panics_total",
			Help: "In-process listeners that panicked",
		},
	)

	// NATS relay
	RelayPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_messages_published_total",
			Help: "Domain records mirrored to NATS, by result",
		},
		[]string{"result"}, // success, failure, rejected
	)

	RelayMirrorDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "relay_mirror_dropped_total",
			Help: "Domain records dropped because the mirror queue was full",
		},
	)

	RelayIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_messages_ingested_total",
			Help: "Publications consumed from NATS, by result",
		},
		[]string{"result"}, // dispatched, invalid
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// API
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Number of API requests currently being processed",
		},
	)

	IngestRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_ingest_requests_total",
			Help: "Publications received on POST /api/v1/events, by result",
		},
		[]string{"result"}, // accepted, invalid, unauthorized
	)
)

// RecordFramesSent counts n frames queued for one emission.
func RecordFramesSent(event string, n int) {
	RealtimeFramesSent.WithLabelValues(event).Add(float64(n))
}

// RecordFrameDropped counts one frame that did not reach a connection.
func RecordFrameDropped(reason string) {
	RealtimeFramesDropped.WithLabelValues(reason).Inc()
}

// RecordProtocolError counts one rejected client frame.
func RecordProtocolError(reason string) {
	RealtimeProtocolErrors.WithLabelValues(reason).Inc()
}

// RecordInboundFrame counts one client frame by its declared type.
func RecordInboundFrame(frameType string) {
	RealtimeInboundFrames.WithLabelValues(frameType).Inc()
}

// RecordPresence counts an online/offline transition.
func RecordPresence(online bool) {
	state := "offline"
	if online {
		state = "online"
	}
	RealtimePresenceTransitions.WithLabelValues(state).Inc()
}

// UpdateRealtimeGauges sets the connection, principal and topic gauges.
func UpdateRealtimeGauges(connections, principals, topics int) {
	RealtimeConnections.Set(float64(connections))
	RealtimePrincipalsOnline.Set(float64(principals))
	RealtimeTopics.Set(float64(topics))
}

// RecordBusEvent counts a bus publication and how many frames it produced.
func RecordBusEvent(kind string, delivered int) {
	BusEvents.WithLabelValues(kind).Inc()
	BusDeliveries.WithLabelValues(kind).Observe(float64(delivered))
}

// RecordRelayPublish counts a mirror publish attempt.
func RecordRelayPublish(result string) {
	RelayPublished.WithLabelValues(result).Inc()
}

// RecordRelayIngest counts an ingested NATS message.
func RecordRelayIngest(result string) {
	RelayIngested.WithLabelValues(result).Inc()
}

// RecordCircuitBreakerTransition updates state and counts the transition.
func RecordCircuitBreakerTransition(name, from, to string, state float64) {
	CircuitBreakerState.WithLabelValues(name).Set(state)
	CircuitBreakerTransitions.WithLabelValues(name, from, to).Inc()
}

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks in-flight API requests.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
