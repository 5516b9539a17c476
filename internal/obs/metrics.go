package obs

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	cyclesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "attendance_sync_cycles_total",
			Help: "Completed sync cycles by outcome.",
		},
		[]string{"outcome"},
	)

	punchesPulled = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "attendance_punches_pulled_total",
		Help: "Raw punches pulled from the terminal source.",
	})

	punchesDeduplicated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "attendance_punches_deduplicated_total",
		Help: "Punches dropped by the duplicate window.",
	})

	eventsDelivered = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "attendance_events_delivered_total",
		Help: "Classified events confirmed accepted by the ingest API.",
	})

	shiftRefreshFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "attendance_shift_refresh_failures_total",
		Help: "Shift configuration refreshes that fell back to the cache.",
	})
)

// InitMetrics registers the worker metrics with the default registry.
func InitMetrics() {
	prometheus.MustRegister(
		cyclesTotal,
		punchesPulled,
		punchesDeduplicated,
		eventsDelivered,
		shiftRefreshFailures,
	)
}

// MetricsHandler serves the prometheus scrape endpoint.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}

// CycleFinished records one completed cycle with its outcome label.
func CycleFinished(outcome string) {
	cyclesTotal.WithLabelValues(outcome).Inc()
}

// PunchesPulled records punches read from the terminal this cycle.
func PunchesPulled(n int) {
	punchesPulled.Add(float64(n))
}

// PunchDeduplicated records one dropped duplicate.
func PunchDeduplicated() {
	punchesDeduplicated.Inc()
}

// EventsDelivered records a committed batch's size.
func EventsDelivered(n int) {
	eventsDelivered.Add(float64(n))
}

// ShiftRefreshFailed records a refresh falling back to the cache.
func ShiftRefreshFailed() {
	shiftRefreshFailures.Inc()
}
