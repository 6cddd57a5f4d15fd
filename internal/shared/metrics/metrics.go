package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var (
	consultationStartedTotal   atomic.Uint64
	consultationCompletedTotal atomic.Uint64
	consultationBlockedTotal   atomic.Uint64
	consultationContestedTotal atomic.Uint64

	consultationDuration = newHistogram([]float64{5, 10, 25, 50, 100, 250, 500, 1000, 2000, 5000})
)

// IncConsultationStarted increments the started counter.
func IncConsultationStarted() {
	consultationStartedTotal.Add(1)
}

// IncConsultationCompleted increments the completed counter.
func IncConsultationCompleted() {
	consultationCompletedTotal.Add(1)
}

// IncConsultationBlocked increments the safety-blocked counter.
func IncConsultationBlocked() {
	consultationBlockedTotal.Add(1)
}

// IncConsultationContested increments the contested counter.
func IncConsultationContested() {
	consultationContestedTotal.Add(1)
}

// ObserveConsultationDurationMs records a full council round duration in milliseconds.
func ObserveConsultationDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	consultationDuration.Observe(value)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "consultation_started_total", "Total consultations started", consultationStartedTotal.Load())
	writeCounter(&buf, "consultation_completed_total", "Total consultations completed", consultationCompletedTotal.Load())
	writeCounter(&buf, "consultation_blocked_total", "Total consultations blocked by the safety domain", consultationBlockedTotal.Load())
	writeCounter(&buf, "consultation_contested_total", "Total consultations ending contested", consultationContestedTotal.Load())
	writeHistogram(&buf, "consultation_duration_ms", "Council round duration in milliseconds", consultationDuration.Snapshot())
	return buf.String()
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			break
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}
