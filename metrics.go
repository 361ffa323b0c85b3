package cosmic

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics aggregates session observations for Prometheus scraping. The core
// only feeds the collectors; serving them over HTTP is the embedder's job.
type Metrics struct {
	ticks               prometheus.Counter
	objectivesCompleted prometheus.Counter
	missionsCompleted   prometheus.Counter
	missionsFailed      *prometheus.CounterVec
	fuel                prometheus.Gauge
	oxygen              prometheus.Gauge
}

// NewMetrics builds and registers the simulator collectors. A nil registerer
// falls back to the Prometheus default registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cosmic",
			Name:      "ticks_total",
			Help:      "Simulation ticks advanced.",
		}),
		objectivesCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cosmic",
			Name:      "objectives_completed_total",
			Help:      "Mission objectives completed.",
		}),
		missionsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cosmic",
			Name:      "missions_completed_total",
			Help:      "Missions that reached the Completed state.",
		}),
		missionsFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cosmic",
			Name:      "missions_failed_total",
			Help:      "Missions that reached the Failed state, by reason.",
		}, []string{"reason"}),
		fuel: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "cosmic",
			Name:      "fuel_liters",
			Help:      "Remaining spacecraft fuel.",
		}),
		oxygen: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "cosmic",
			Name:      "oxygen_percent",
			Help:      "Remaining cabin oxygen.",
		}),
	}
	reg.MustRegister(m.ticks, m.objectivesCompleted, m.missionsCompleted, m.missionsFailed, m.fuel, m.oxygen)
	return m
}

// Observe records one published session state.
func (m *Metrics) Observe(st SessionState) {
	m.ticks.Inc()
	m.objectivesCompleted.Add(float64(len(st.NewlyCompleted)))
	m.fuel.Set(st.Fuel)
	m.oxygen.Set(st.Oxygen)
	switch st.Status {
	case Completed:
		m.missionsCompleted.Inc()
	case Failed:
		m.missionsFailed.WithLabelValues(failureClass(st.FailureReason)).Inc()
	}
}

// failureClass bounds the reason label cardinality: "collision:luna" and
// "collision:earth" both count under "collision".
func failureClass(reason string) string {
	if i := strings.IndexByte(reason, ':'); i >= 0 {
		return reason[:i]
	}
	return reason
}
