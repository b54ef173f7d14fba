package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups all Prometheus instruments used by the service.
type Metrics struct {
	GenerationCalls     *prometheus.CounterVec
	GenerationLatency   prometheus.Histogram
	ActiveConversations prometheus.Gauge
	ChatEvents          *prometheus.CounterVec
	WSMessages          *prometheus.CounterVec
}

func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		GenerationCalls: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generation_calls_total",
			Help:      "Text-generation upstream calls by outcome classification.",
		}, []string{"outcome"}),
		GenerationLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_latency_ms",
			Help:      "Latency of text-generation upstream calls in milliseconds.",
			Buckets:   []float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000},
		}),
		ActiveConversations: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_conversations",
			Help:      "Number of users currently holding chat history.",
		}),
		ChatEvents: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_events_total",
			Help:      "Chat pipeline events by type.",
		}, []string{"event"}),
		WSMessages: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ws_messages_total",
			Help:      "WebSocket chat messages by direction.",
		}, []string{"direction"}),
	}
}

func (m *Metrics) ObserveGeneration(outcome string, d time.Duration) {
	m.GenerationCalls.WithLabelValues(outcome).Inc()
	m.GenerationLatency.Observe(float64(d.Milliseconds()))
}

func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
