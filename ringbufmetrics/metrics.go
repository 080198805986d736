// Package ringbufmetrics wraps ringbuf.Producer and ringbuf.Consumer with
// Prometheus instrumentation and cheap local counters, following the same
// record/update split the rest of this stack uses for its own metrics: a
// package-level registry of bounded-cardinality series, updated through
// small Record*/Update* functions rather than threading a *prometheus.Desc
// through every call site.
package ringbufmetrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pushDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ringbuf_push_duration_seconds",
		Help:    "Time spent in a successful Push call",
		Buckets: []float64{0.0000001, 0.0000005, 0.000001, 0.000005, 0.00001, 0.0001},
	})

	popDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ringbuf_pop_duration_seconds",
		Help:    "Time spent in a successful Pop call",
		Buckets: []float64{0.0000001, 0.0000005, 0.000001, 0.000005, 0.00001, 0.0001},
	})

	slotsUsed = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "ringbuf_slots_used",
		Help: "Slots currently holding an unread element, by buffer name",
	}, []string{"buffer"})

	pushTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ringbuf_push_total",
		Help: "Total successful pushes, by buffer name",
	}, []string{"buffer"})

	pushRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ringbuf_push_rejected_total",
		Help: "Pushes rejected because the buffer was full, by buffer name",
	}, []string{"buffer"})

	popTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ringbuf_pop_total",
		Help: "Total successful pops, by buffer name",
	}, []string{"buffer"})

	popEmptyTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ringbuf_pop_empty_total",
		Help: "Pops rejected because the buffer was empty, by buffer name",
	}, []string{"buffer"})

	endpointsClosedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ringbuf_endpoints_closed_total",
		Help: "Total Producer/Consumer Close calls across all wrapped buffers",
	})
)

// recordPush observes a successful push for the named buffer.
func recordPush(name string, d time.Duration) {
	pushDuration.Observe(d.Seconds())
	pushTotal.WithLabelValues(name).Inc()
}

// recordPushRejected records a push that failed because the buffer was full.
func recordPushRejected(name string) {
	pushRejectedTotal.WithLabelValues(name).Inc()
}

// recordPop observes a successful pop for the named buffer.
func recordPop(name string, d time.Duration) {
	popDuration.Observe(d.Seconds())
	popTotal.WithLabelValues(name).Inc()
}

// recordPopEmpty records a pop that failed because the buffer was empty.
func recordPopEmpty(name string) {
	popEmptyTotal.WithLabelValues(name).Inc()
}

// updateSlotsUsed publishes the current slot occupancy for the named buffer.
func updateSlotsUsed(name string, n int) {
	slotsUsed.WithLabelValues(name).Set(float64(n))
}

// recordClosed increments the global endpoint-close counter.
func recordClosed() {
	endpointsClosedTotal.Inc()
}
