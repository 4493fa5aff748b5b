// monitor/monitor.go
package monitor

import (
	"expvar"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	ActiveGames      prometheus.Gauge
	ConnectedClients prometheus.Gauge
	ActionsReceived  prometheus.Counter
	RoundsCompleted  prometheus.Counter
	NarrativeLatency prometheus.Histogram
}

func NewMetrics(namespace string) *Metrics {
	m := &Metrics{
		ActiveGames: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_games",
			Help:      "Number of games held in the store",
		}),
		ConnectedClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connected_clients",
			Help:      "Number of live websocket connections",
		}),
		ActionsReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "actions_received_total",
			Help:      "Total number of accepted player actions",
		}),
		RoundsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rounds_completed_total",
			Help:      "Total number of rounds folded into the narrative",
		}),
		NarrativeLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "narrative_latency_seconds",
			Help:      "Narrative generation latency",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12),
		}),
	}

	prometheus.MustRegister(
		m.ActiveGames,
		m.ConnectedClients,
		m.ActionsReceived,
		m.RoundsCompleted,
		m.NarrativeLatency,
	)

	return m
}

type Monitor struct {
	metrics   *Metrics
	startTime time.Time
}

func NewMonitor(namespace string) *Monitor {
	return &Monitor{
		metrics:   NewMetrics(namespace),
		startTime: time.Now(),
	}
}

// StartServer exposes /metrics on its own mux so it never collides with the
// game server's router.
func (m *Monitor) StartServer(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	expvar.Publish("uptime", expvar.Func(func() interface{} {
		return time.Since(m.startTime).Seconds()
	}))
	mux.Handle("/debug/vars", expvar.Handler())

	go http.ListenAndServe(addr, mux)
}

func (m *Monitor) SetActiveGames(count int) {
	m.metrics.ActiveGames.Set(float64(count))
}

func (m *Monitor) IncConnectedClients() {
	m.metrics.ConnectedClients.Inc()
}

func (m *Monitor) DecConnectedClients() {
	m.metrics.ConnectedClients.Dec()
}

func (m *Monitor) IncActionsReceived() {
	m.metrics.ActionsReceived.Inc()
}

func (m *Monitor) IncRoundsCompleted() {
	m.metrics.RoundsCompleted.Inc()
}

func (m *Monitor) ObserveNarrativeLatency(duration time.Duration) {
	m.metrics.NarrativeLatency.Observe(duration.Seconds())
}
