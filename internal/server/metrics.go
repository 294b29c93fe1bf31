package server

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shahar-caura/irisform/internal/species"
)

const namespace = "iris"

// metrics holds the collectors of one Server. Each Server owns its registry
// so several can run in one process.
type metrics struct {
	registry *prometheus.Registry

	predictions *prometheus.CounterVec
	rejected    *prometheus.CounterVec
	reloads     *prometheus.CounterVec
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		predictions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "predictions_total",
				Help:      "Count of predictions served, by species.",
			},
			[]string{"species"},
		),
		rejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rejected_requests_total",
				Help:      "Count of predict requests answered with an error status, by status code.",
			},
			[]string{"code"},
		),
		reloads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "model_reloads_total",
				Help:      "Count of model reload attempts, by result.",
			},
			[]string{"result"},
		),
	}
	m.registry.MustRegister(m.predictions, m.rejected, m.reloads)
	return m
}

func (m *metrics) recordPrediction(class int) {
	m.predictions.WithLabelValues(species.Label(class)).Inc()
}

func (m *metrics) recordRejected(status int) {
	m.rejected.WithLabelValues(strconv.Itoa(status)).Inc()
}

func (m *metrics) recordReload(err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	m.reloads.WithLabelValues(result).Inc()
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
