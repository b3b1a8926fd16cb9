// Package metrics exposes Prometheus instrumentation for the gateway
// pipeline.
package metrics

import (
	"github.com/mikey/spam-gateway/internal/core"
	"github.com/prometheus/client_golang/prometheus"
)

// Latency buckets sized for a pipeline whose slow path includes one or two
// generative-model calls.
var requestLatencyBuckets = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0}

// Recorder holds the gateway's Prometheus metrics
type Recorder struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewRecorder creates and registers the gateway metrics
func NewRecorder(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "spam_gateway_requests_total",
			Help: "Analysis requests by routing decision and terminal status",
		}, []string{"routing", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "spam_gateway_request_duration_seconds",
			Help:    "End-to-end pipeline duration by routing decision",
			Buckets: requestLatencyBuckets,
		}, []string{"routing"}),
	}
	reg.MustRegister(r.requestsTotal, r.requestDuration)
	return r
}

// ObserveRequest records one finished analysis request
func (r *Recorder) ObserveRequest(routing core.RoutingDecision, status core.SessionStatus, seconds float64) {
	label := string(routing)
	if label == "" {
		label = "none"
	}
	r.requestsTotal.WithLabelValues(label, string(status)).Inc()
	r.requestDuration.WithLabelValues(label).Observe(seconds)
}
