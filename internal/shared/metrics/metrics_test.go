package metrics

import (
	"strings"
	"testing"
)

func TestRenderIncludesCounters(t *testing.T) {
	IncConsultationStarted()
	IncConsultationCompleted()
	IncConsultationBlocked()

	out := Render()
	for _, name := range []string{
		"consultation_started_total",
		"consultation_completed_total",
		"consultation_blocked_total",
		"consultation_contested_total",
	} {
		if !strings.Contains(out, "# TYPE "+name+" counter") {
			t.Fatalf("missing counter %s in:\n%s", name, out)
		}
	}
}

func TestHistogramBucketsAreCumulative(t *testing.T) {
	h := newHistogram([]float64{10, 100})
	h.Observe(5)
	h.Observe(50)
	h.Observe(50)
	h.Observe(1000)

	snap := h.Snapshot()
	if snap.count != 4 {
		t.Fatalf("count = %d, want 4", snap.count)
	}
	if snap.counts[0] != 1 || snap.counts[1] != 2 {
		t.Fatalf("bucket counts = %v, want [1 2]", snap.counts)
	}
	if snap.sum != 1105 {
		t.Fatalf("sum = %v, want 1105", snap.sum)
	}
}

func TestObserveClampsNegativeDurations(t *testing.T) {
	before := consultationDuration.Snapshot().count
	ObserveConsultationDurationMs(-5)
	after := consultationDuration.Snapshot()
	if after.count != before+1 {
		t.Fatalf("observation dropped")
	}
}
