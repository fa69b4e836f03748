package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hotelier",
			Name:      "http_requests_total",
			Help:      "Count of dashboard API requests by endpoint.",
		},
		[]string{"endpoint"},
	)

	aggregations = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "hotelier",
			Name:      "occupancy_aggregations_total",
			Help:      "Count of occupancy aggregation runs.",
		},
	)

	synthesizedTypes = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "hotelier",
			Name:      "occupancy_synthesized_types_total",
			Help:      "Count of room types seen in bookings but missing from inventory.",
		},
	)

	snapshotRefresh = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hotelier",
			Name:      "snapshot_refresh_total",
			Help:      "Count of upstream snapshot refreshes by outcome.",
		},
		[]string{"outcome"},
	)

	reportExports = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "hotelier",
			Name:      "report_exports_total",
			Help:      "Count of occupancy report exports by target.",
		},
		[]string{"target"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, aggregations, synthesizedTypes, snapshotRefresh, reportExports)
	})
}

func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}

func IncAggregation() {
	aggregations.Inc()
}

func AddSynthesizedTypes(n int) {
	synthesizedTypes.Add(float64(n))
}

func IncSnapshotRefresh(outcome string) {
	snapshotRefresh.WithLabelValues(outcome).Inc()
}

func IncReportExport(target string) {
	reportExports.WithLabelValues(target).Inc()
}
