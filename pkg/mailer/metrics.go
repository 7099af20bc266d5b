package mailer

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the collectors recorded by an instrumented Sender.
type Metrics struct {
	sends    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates mailer collectors and registers them with reg.
// A nil registerer leaves the collectors unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		sends: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mailer_send_total",
			Help: "Number of emails handed to the transport, by result.",
		}, []string{"transport", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mailer_send_duration_seconds",
			Help:    "Time spent waiting for the transport to accept an email.",
			Buckets: prometheus.DefBuckets,
		}, []string{"transport"}),
	}
	if reg != nil {
		reg.MustRegister(m.sends, m.duration)
	}
	return m
}

// Instrument wraps sender so every Send is counted and timed under the transport label.
func Instrument(sender Sender, transport string, m *Metrics) Sender {
	return SenderFunc(func(ctx context.Context, email *Email) error {
		start := time.Now()
		err := sender.Send(ctx, email)
		m.duration.WithLabelValues(transport).Observe(time.Since(start).Seconds())

		result := "success"
		if err != nil {
			result = "failure"
		}
		m.sends.WithLabelValues(transport, result).Inc()
		return err
	})
}
