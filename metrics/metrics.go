package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	StatusSuccess = "success"
	StatusFailure = "failure"
	StatusDropped = "dropped"
)

var (
	// ScheduleDuration tracks the latency of building display buckets
	ScheduleDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "promotion_schedule_duration_seconds",
			Help: "Duration of promotion scheduling in seconds",
			Buckets: []float64{
				0.001, // 1ms
				0.005, // 5ms
				0.01,  // 10ms
				0.025, // 25ms
				0.05,  // 50ms
				0.1,   // 100ms
				0.25,  // 250ms
				0.5,   // 500ms
				1.0,   // 1s
			},
		},
		[]string{"status"}, // success or failure
	)

	// AnalyticsEvents counts analytics events by type and outcome
	AnalyticsEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "promotion_analytics_events_total",
			Help: "Analytics events processed, by event type and status",
		},
		[]string{"event_type", "status"}, // success, failure or dropped
	)

	// ScheduledItems reports the size of each bucket from the last schedule
	ScheduledItems = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "promotion_scheduled_items",
			Help: "Number of promotions in each display bucket of the last schedule",
		},
		[]string{"mode"},
	)
)

// RecordScheduleDuration records the duration of a schedule call
func RecordScheduleDuration(status string, duration float64) {
	ScheduleDuration.WithLabelValues(status).Observe(duration)
}

// RecordAnalyticsEvent counts one analytics event outcome
func RecordAnalyticsEvent(eventType, status string) {
	AnalyticsEvents.WithLabelValues(eventType, status).Inc()
}

func SetScheduledItems(mode string, n int) {
	ScheduledItems.WithLabelValues(mode).Set(float64(n))
}
