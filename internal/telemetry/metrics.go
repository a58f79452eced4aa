package telemetry

import (
	"context"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Metrics is the set of gauges/counters describing per-epoch generator
// state. The scheduler does not update them; whoever holds the instance
// sets them. Kept as a flat struct (rather than a free-floating registry)
// so a caller can hold one instance per running scenario.
//
// Grounded on FengXuebin-gnssgo/app/plot/plot.go's OutMetrics/
// PushGaugeMetric (GaugeVec construction and pushgateway usage); the
// long-running /metrics HTTP surface is grounded on the "tfd-sim"
// reference simulator, which serves promhttp.Handler() directly rather
// than pushing, a better fit here since the generator runs continuously
// instead of exiting after one batch.
type Metrics struct {
	Registry *prometheus.Registry

	EpochsGenerated prometheus.Counter
	ActiveChannels  prometheus.Gauge
	SatelliteCN0    *prometheus.GaugeVec
	BufferStalls    prometheus.Counter

	pusher *push.Pusher
}

// NewMetrics builds a fresh Prometheus registry and all of the
// simulator's gauges/counters, registering them against it.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		Registry: reg,
		EpochsGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gps_sim_epochs_generated_total",
			Help: "Number of 100ms IQ epochs generated since start.",
		}),
		ActiveChannels: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gps_sim_active_channels",
			Help: "Number of satellites currently allocated to a channel.",
		}),
		SatelliteCN0: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "gps_sim_satellite_gain_db",
			Help: "Per-satellite combined path loss and antenna gain, in dB.",
		}, []string{"prn"}),
		BufferStalls: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gps_sim_fifo_buffer_stalls_total",
			Help: "Number of times an epoch had to wait for a free fifo buffer.",
		}),
	}

	reg.MustRegister(m.EpochsGenerated, m.ActiveChannels, m.SatelliteCN0, m.BufferStalls)
	return m
}

// Handler returns the HTTP handler to mount at /metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// EnablePush sets the Prometheus pushgateway at gatewayURL and the job
// name that Push and RunPusher send to, for setups that prefer a
// gateway over scraping a long-running process. It sends nothing itself.
func (m *Metrics) EnablePush(gatewayURL, job string) {
	m.pusher = push.New(gatewayURL, job).Gatherer(m.Registry)
}

// Push sends one pushgateway update. It returns an error if EnablePush
// was never called, and otherwise wraps any transport failure.
func (m *Metrics) Push() error {
	if m.pusher == nil {
		return errors.New("telemetry: push not enabled, call EnablePush first")
	}
	return errors.Wrap(m.pusher.Push(), "telemetry: push to gateway failed")
}

// RunPusher pushes metrics to the configured gateway every interval
// until ctx is canceled. Errors are logged rather than fatal, since a
// gateway hiccup shouldn't stop IQ generation.
func (m *Metrics) RunPusher(ctx context.Context, log *Logger, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := m.Push(); err != nil && log != nil {
				log.Trace(2, "telemetry push failed: %v\n", err)
			}
		}
	}
}
