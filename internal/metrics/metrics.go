// Package metrics exposes the service counters to Prometheus. A nil
// *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "condo"

// Vote outcomes.
const (
	VoteAccepted      = "accepted"
	VoteAlreadyVoted  = "already_voted"
	VoteClosed        = "closed"
	VoteUnknownPoll   = "unknown_poll"
	VoteUnknownOption = "unknown_option"
)

type Metrics struct {
	registry *prometheus.Registry

	mutations        *prometheus.CounterVec
	votes            *prometheus.CounterVec
	persistFailures  prometheus.Counter
	assistantCalls   *prometheus.CounterVec
	notifyFailures   prometheus.Counter
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
	rateLimited      prometheus.Counter
	suspicious       prometheus.Counter
	activityConsumed *prometheus.CounterVec
}

// New builds a Metrics on its own registry, including Go runtime collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mutations_total",
			Help:      "Records appended or updated, by collection.",
		}, []string{"collection"}),
		votes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "poll_votes_total",
			Help:      "Vote attempts by outcome.",
		}, []string{"outcome"}),
		persistFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "persist_failures_total",
			Help:      "Snapshot writes that failed.",
		}),
		assistantCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assistant_calls_total",
			Help:      "Assistant requests by kind and outcome.",
		}, []string{"kind", "outcome"}),
		notifyFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notify_failures_total",
			Help:      "Notifications that could not be delivered.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method and status code.",
		}, []string{"method", "code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_rate_limited_total",
			Help:      "Requests rejected by the rate limiter.",
		}),
		suspicious: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_suspicious_requests_total",
			Help:      "Requests matching a suspicious pattern.",
		}),
		activityConsumed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "activity_events_total",
			Help:      "Activity events handled by the worker, by outcome.",
		}, []string{"outcome"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.mutations, m.votes, m.persistFailures, m.assistantCalls, m.notifyFailures,
		m.httpRequests, m.httpDuration, m.rateLimited, m.suspicious, m.activityConsumed,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) RecordMutation(collection string) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(collection).Inc()
}

func (m *Metrics) RecordVote(outcome string) {
	if m == nil {
		return
	}
	m.votes.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordPersistFailure() {
	if m == nil {
		return
	}
	m.persistFailures.Inc()
}

func (m *Metrics) RecordAssistantCall(kind, outcome string) {
	if m == nil {
		return
	}
	m.assistantCalls.WithLabelValues(kind, outcome).Inc()
}

func (m *Metrics) RecordNotifyFailure() {
	if m == nil {
		return
	}
	m.notifyFailures.Inc()
}

func (m *Metrics) RecordHTTPRequest(method string, code int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, strconv.Itoa(code)).Inc()
	m.httpDuration.WithLabelValues(method).Observe(d.Seconds())
}

func (m *Metrics) RecordRateLimited() {
	if m == nil {
		return
	}
	m.rateLimited.Inc()
}

func (m *Metrics) RecordSuspicious() {
	if m == nil {
		return
	}
	m.suspicious.Inc()
}

func (m *Metrics) RecordActivity(outcome string) {
	if m == nil {
		return
	}
	m.activityConsumed.WithLabelValues(outcome).Inc()
}
