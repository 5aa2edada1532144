package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mohdshuhaib/pmsa-fest-26-bot/internal/media"
)

// Namespace prefixes every metric name.
const Namespace = "pmsa_bot"

// Collector holds the bot's Prometheus metrics on a private registry.
// It implements media.Observer, wizard.Observer and bot.UpdateObserver.
type Collector struct {
	registry *prometheus.Registry

	updates        *prometheus.CounterVec
	storeOps       *prometheus.CounterVec
	storeDuration  *prometheus.HistogramVec
	activeSessions prometheus.Gauge
	saved          *prometheus.CounterVec
}

// NewCollector creates a collector. Go runtime and process metrics are
// registered alongside the bot's own.
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		updates: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "updates_total",
				Help:      "Total number of Telegram updates received",
			},
			[]string{"kind"},
		),
		storeOps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "store_operations_total",
				Help:      "Total number of media store operations",
			},
			[]string{"operation", "status"},
		),
		storeDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "store_operation_duration_seconds",
				Help:      "Media store operation duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		activeSessions: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: Namespace,
				Name:      "wizard_active_sessions",
				Help:      "Number of chats with an open upload session",
			},
		),
		saved: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "media_saved_total",
				Help:      "Total number of media records saved by the upload wizard",
			},
			[]string{"category_type"},
		),
	}

	registry.MustRegister(
		c.updates,
		c.storeOps,
		c.storeDuration,
		c.activeSessions,
		c.saved,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// ObserveUpdate counts one inbound update.
func (c *Collector) ObserveUpdate(kind string) {
	c.updates.WithLabelValues(kind).Inc()
}

// ObserveStoreOp records the outcome and latency of a store call.
func (c *Collector) ObserveStoreOp(op string, err error, elapsed time.Duration) {
	status := "success"
	if err != nil {
		status = "error"
	}
	c.storeOps.WithLabelValues(op, status).Inc()
	c.storeDuration.WithLabelValues(op).Observe(elapsed.Seconds())
}

// ObserveSessions sets the number of open wizard sessions.
func (c *Collector) ObserveSessions(active int) {
	c.activeSessions.Set(float64(active))
}

// ObserveSaved counts one record saved by the wizard.
func (c *Collector) ObserveSaved(ct media.CategoryType) {
	c.saved.WithLabelValues(string(ct)).Inc()
}
