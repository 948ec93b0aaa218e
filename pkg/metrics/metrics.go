// Package metrics exposes the activity of event sources as Prometheus
// metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/go-rfc/eventsource/pkg/base"
	"github.com/go-rfc/eventsource/pkg/eventsource"
	"github.com/go-rfc/eventsource/pkg/retry"
)

const namespace = "sse"

var _ eventsource.Observer = (*Collector)(nil)

// Collector is an eventsource.Observer that records what it observes.
type Collector struct {
	// ReadyState of the last observed status.
	ReadyState prometheus.Gauge

	// Connections counts the responses accepted as event streams.
	Connections prometheus.Counter

	// Messages counts received messages per event name.
	Messages *prometheus.CounterVec

	// Errors counts stream errors per kind.
	Errors *prometheus.CounterVec

	// Retries counts scheduled reconnections.
	Retries prometheus.Counter

	// RetryDelay observes the delay of scheduled reconnections.
	RetryDelay prometheus.Histogram
}

// NewCollector creates the metrics of a collector and registers them
// in reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)
	return &Collector{
		ReadyState: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ready_state",
			Help:      "Ready state of the event source (0 connecting, 1 open, 2 closed)",
		}),
		Connections: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connections_total",
			Help:      "Total number of established connections",
		}),
		Messages: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_total",
			Help:      "Total number of received messages",
		}, []string{"event"}),
		Errors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "Total number of stream errors",
		}, []string{"kind"}),
		Retries: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "retries_total",
			Help:      "Total number of scheduled reconnections",
		}),
		RetryDelay: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "retry_delay_seconds",
			Help:      "Delay before scheduled reconnections in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10),
		}),
	}
}

func (c *Collector) StatusChanged(status eventsource.Status) {
	c.ReadyState.Set(float64(status.ReadyState))
	if status.ReadyState == eventsource.Open {
		c.Connections.Inc()
	}
	if status.Err != nil {
		c.Errors.WithLabelValues(eventsource.KindOf(status.Err).String()).Inc()
	}
}

func (c *Collector) MessageReceived(ev *base.MessageEvent) {
	c.Messages.WithLabelValues(ev.Name).Inc()
}

func (c *Collector) RetryScheduled(_ error, state retry.State) {
	c.Retries.Inc()
	c.RetryDelay.Observe(state.Delay.Seconds())
}
