package cosmic

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsObserve(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	m.Observe(SessionState{Status: InProgress, Fuel: 750, Oxygen: 98, NewlyCompleted: []string{"r1", "r2"}})
	m.Observe(SessionState{Status: Completed, Fuel: 500, Oxygen: 97})

	if got := testutil.ToFloat64(m.ticks); got != 2 {
		t.Fatalf("ticks %f", got)
	}
	if got := testutil.ToFloat64(m.objectivesCompleted); got != 2 {
		t.Fatalf("objectives completed %f", got)
	}
	if got := testutil.ToFloat64(m.missionsCompleted); got != 1 {
		t.Fatalf("missions completed %f", got)
	}
	if got := testutil.ToFloat64(m.fuel); got != 500 {
		t.Fatalf("fuel gauge %f", got)
	}
}

func TestMetricsFailureReasonClass(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	m.Observe(SessionState{Status: Failed, FailureReason: "collision:luna"})
	m.Observe(SessionState{Status: Failed, FailureReason: "collision:earth"})
	m.Observe(SessionState{Status: Failed, FailureReason: "time_limit_exceeded"})

	if got := testutil.ToFloat64(m.missionsFailed.WithLabelValues("collision")); got != 2 {
		t.Fatalf("collision failures %f", got)
	}
	if got := testutil.ToFloat64(m.missionsFailed.WithLabelValues("time_limit_exceeded")); got != 1 {
		t.Fatalf("time limit failures %f", got)
	}
	if failureClass("objective_failed:av1") != "objective_failed" {
		t.Fatal("reason class must strip the detail suffix")
	}
}
