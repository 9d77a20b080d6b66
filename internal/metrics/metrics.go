// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package metrics holds the prometheus collectors of the salon and identity
// binaries: HTTP traffic, authentication events, session expirations and
// record store operations.
//
// Every [Metrics] value owns its own registry, so tests and multiple
// binaries in one process never collide on the default registerer.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MKhiriev/go-salon-keeper/models"
)

const namespace = "salon_keeper"

// Result label values of [Metrics.ObserveRecordOp].
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Metrics is the set of collectors exported on /metrics.
type Metrics struct {
	registry *prometheus.Registry

	httpInFlight        prometheus.Gauge
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	authEvents         *prometheus.CounterVec
	sessionExpirations *prometheus.CounterVec
	sessionWarnings    prometheus.Counter
	signedIn           prometheus.Gauge

	recordOps *prometheus.CounterVec
}

// New registers all collectors, plus the Go runtime and process
// collectors, in a fresh registry labelled with service.
func New(service string) *Metrics {
	constLabels := prometheus.Labels{"service": service}

	m := &Metrics{
		registry: prometheus.NewRegistry(),

		httpInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "http_in_flight_requests",
			Help:        "In-flight HTTP requests.",
			ConstLabels: constLabels,
		}),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests.",
			ConstLabels: constLabels,
		}, []string{"method", "path", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   namespace,
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request latencies in seconds.",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: constLabels,
		}, []string{"method", "path", "status"}),

		authEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "auth_events_total",
			Help:        "Security log events by kind.",
			ConstLabels: constLabels,
		}, []string{"event"}),
		sessionExpirations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "session_expirations_total",
			Help:        "Sessions evicted because they stopped being valid.",
			ConstLabels: constLabels,
		}, []string{"reason"}),
		sessionWarnings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "session_warnings_total",
			Help:        "Expiry warnings emitted.",
			ConstLabels: constLabels,
		}),
		signedIn: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "session_signed_in",
			Help:        "1 while a session is active, 0 otherwise.",
			ConstLabels: constLabels,
		}),

		recordOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "record_operations_total",
			Help:        "Record store operations by kind, data type and result.",
			ConstLabels: constLabels,
		}, []string{"operation", "data_type", "result"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpInFlight,
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.authEvents,
		m.sessionExpirations,
		m.sessionWarnings,
		m.signedIn,
		m.recordOps,
	)

	return m
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Instrument is chi middleware counting requests and their latency by
// route pattern, so /api/records/id/{id} is one series regardless of id.
func (m *Metrics) Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.httpInFlight.Inc()
		defer m.httpInFlight.Dec()

		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}

		next.ServeHTTP(sw, r)

		path := "unknown"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			path = rctx.RoutePattern()
		}
		status := strconv.Itoa(sw.code)

		m.httpRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
		m.httpRequestDuration.WithLabelValues(r.Method, path, status).Observe(time.Since(start).Seconds())
	})
}

// ObserveAuthEvent counts one security log event ("login", "logout", ...).
func (m *Metrics) ObserveAuthEvent(event string) {
	m.authEvents.WithLabelValues(event).Inc()
}

// ObserveAuthState tracks whether somebody is signed in.
func (m *Metrics) ObserveAuthState(state models.AuthState) {
	if state.SignedIn {
		m.signedIn.Set(1)
		return
	}
	m.signedIn.Set(0)
}

// ObserveWarning counts an expiry warning.
func (m *Metrics) ObserveWarning(models.SessionWarning) {
	m.sessionWarnings.Inc()
}

// ObserveExpiration counts an evicted session by reason.
func (m *Metrics) ObserveExpiration(evt models.SessionExpired) {
	m.sessionExpirations.WithLabelValues(string(evt.Reason)).Inc()
}

// ObserveRecordOp counts one record store call.
func (m *Metrics) ObserveRecordOp(operation string, dataType models.DataType, err error) {
	result := ResultOK
	if err != nil {
		result = ResultError
	}
	if dataType == "" {
		dataType = "any"
	}
	m.recordOps.WithLabelValues(operation, string(dataType), result).Inc()
}

type statusWriter struct {
	http.ResponseWriter
	code        int
	wroteHeader bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.code = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	w.wroteHeader = true
	return w.ResponseWriter.Write(b)
}

// Unwrap lets http.ResponseController reach the underlying writer, which
// server-sent event streams need for flushing.
func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
