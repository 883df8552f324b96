package job

import "github.com/prometheus/client_golang/prometheus"

const metricsNamespace = "strand"

type metrics struct {
	startedTotal  prometheus.Counter
	failedTotal   prometheus.Counter
	panickedTotal prometheus.Counter
	running       prometheus.Gauge
}

func newMetrics() *metrics {
	return &metrics{
		startedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "jobs",
			Name:      "started_total",
			Help:      "Number of jobs started on the runtime.",
		}),
		failedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "jobs",
			Name:      "failed_total",
			Help:      "Number of jobs that returned an error.",
		}),
		panickedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "jobs",
			Name:      "panicked_total",
			Help:      "Number of jobs that panicked.",
		}),
		running: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "jobs",
			Name:      "running",
			Help:      "Number of jobs currently running.",
		}),
	}
}

func (m *metrics) register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		m.startedTotal, m.failedTotal, m.panickedTotal, m.running,
	} {
		if err := reg.Register(c); err != nil {
			return err //nolint:wrapcheck // Wrapped by caller.
		}
	}
	return nil
}

func (m *metrics) started() {
	m.startedTotal.Inc()
	m.running.Inc()
}

func (m *metrics) finished(err error) {
	m.running.Dec()
	if err != nil {
		m.failedTotal.Inc()
	}
}

func (m *metrics) panicked() {
	m.running.Dec()
	m.panickedTotal.Inc()
}
