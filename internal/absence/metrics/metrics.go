package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the absence module.
// Tracks request lifecycle counts and decision path durations.
type Metrics struct {
	RequestsCreated   prometheus.Counter
	OverlapRejections prometheus.Counter
	Decisions         *prometheus.CounterVec
	StagesTraversed   prometheus.Histogram
	DecideDuration    prometheus.Histogram
	RequestsArchived  prometheus.Counter
	RequestsDeleted   prometheus.Counter
}

// New creates a new Metrics instance with all absence module metrics registered.
func New() *Metrics {
	return &Metrics{
		RequestsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "hrgate_requests_created_total",
			Help: "Total number of absence requests created",
		}),
		OverlapRejections: promauto.NewCounter(prometheus.CounterOpts{
			Name: "hrgate_overlap_rejections_total",
			Help: "Total number of requests rejected for overlapping dates",
		}),
		Decisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "hrgate_decisions_total",
			Help: "Total number of stage decisions by outcome",
		}, []string{"action"}),
		StagesTraversed: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "hrgate_stages_traversed_per_decision",
			Help:    "Stages covered by a single approval action (combined roles traverse more than one)",
			Buckets: []float64{1, 2, 3, 4},
		}),
		DecideDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "hrgate_decide_duration_seconds",
			Help:    "Duration of Decide operations (approval critical path)",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		RequestsArchived: promauto.NewCounter(prometheus.CounterOpts{
			Name: "hrgate_requests_archived_total",
			Help: "Total number of decided requests archived",
		}),
		RequestsDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "hrgate_requests_deleted_total",
			Help: "Total number of pending requests deleted",
		}),
	}
}

// IncrementRequestsCreated records a successful request creation.
func (m *Metrics) IncrementRequestsCreated() {
	m.RequestsCreated.Inc()
}

// IncrementOverlapRejections records a creation blocked by the overlap check.
func (m *Metrics) IncrementOverlapRejections() {
	m.OverlapRejections.Inc()
}

// ObserveDecision records one decision with its outcome, stage coverage and
// duration. Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveDecision(action string, stages int, start time.Time) {
	m.Decisions.WithLabelValues(action).Inc()
	m.StagesTraversed.Observe(float64(stages))
	m.DecideDuration.Observe(time.Since(start).Seconds())
}

// IncrementRequestsArchived records a successful archival.
func (m *Metrics) IncrementRequestsArchived() {
	m.RequestsArchived.Inc()
}

// IncrementRequestsDeleted records a successful deletion.
func (m *Metrics) IncrementRequestsDeleted() {
	m.RequestsDeleted.Inc()
}
