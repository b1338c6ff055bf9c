// Package metrics exposes process-local counters in Prometheus text format.
package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

var (
	applicationsTotal        atomic.Uint64
	interviewsStartedTotal   atomic.Uint64
	interviewsCompletedTotal atomic.Uint64
	answersRecordedTotal     atomic.Uint64
	aiFallbackTotal          atomic.Uint64

	answerDuration = newHistogram([]float64{5, 10, 20, 30, 60, 120, 300, 600})
)

// IncApplication increments the submitted-applications counter.
func IncApplication() {
	applicationsTotal.Add(1)
}

// IncInterviewStarted increments the started-interviews counter.
func IncInterviewStarted() {
	interviewsStartedTotal.Add(1)
}

// IncInterviewCompleted increments the completed-interviews counter.
func IncInterviewCompleted() {
	interviewsCompletedTotal.Add(1)
}

// IncAnswerRecorded increments the recorded-answers counter.
func IncAnswerRecorded() {
	answersRecordedTotal.Add(1)
}

// IncAIFallback increments the AI-fallback counter.
func IncAIFallback() {
	aiFallbackTotal.Add(1)
}

// ObserveAnswerDurationSeconds records how long a candidate spent on one answer.
func ObserveAnswerDurationSeconds(value float64) {
	if value < 0 {
		value = 0
	}
	answerDuration.Observe(value)
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
	writeCounter(&buf, "applications_total", "Total applications submitted", applicationsTotal.Load())
	writeCounter(&buf, "interviews_started_total", "Total interview sessions started", interviewsStartedTotal.Load())
	writeCounter(&buf, "interviews_completed_total", "Total interviews completed", interviewsCompletedTotal.Load())
	writeCounter(&buf, "answers_recorded_total", "Total interview answers recorded", answersRecordedTotal.Load())
	writeCounter(&buf, "ai_fallback_total", "Total AI operations served by fallback values", aiFallbackTotal.Load())
	writeHistogram(&buf, "answer_duration_seconds", "Time candidates spent per answer in seconds", answerDuration.Snapshot())
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
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
	return out
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

// NowMillis returns current time in milliseconds, useful for callers without time utilities.
func NowMillis() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Millisecond)
}
