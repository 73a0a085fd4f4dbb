package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	LessonsScheduled   prometheus.Counter
	LessonsCanceled    prometheus.Counter
	BookingsRejected   *prometheus.CounterVec
	RemindersSent      prometheus.Counter
	AlertsRaised       prometheus.Gauge
	SchedulingDuration prometheus.Histogram
}

// NewMetrics creates new prometheus metrics
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		LessonsScheduled: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lessons_scheduled_total",
			Help:      "The total number of lessons committed",
		}),
		LessonsCanceled: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lessons_canceled_total",
			Help:      "The total number of lessons canceled",
		}),
		BookingsRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_rejected_total",
			Help:      "The total number of booking attempts rejected",
		}, []string{"reason"}),
		RemindersSent: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reminders_sent_total",
			Help:      "The total number of lesson reminder emails sent",
		}),
		AlertsRaised: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "maintenance_alerts",
			Help:      "Vehicles flagged by the last maintenance alert scan",
		}),
		SchedulingDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scheduling_duration_seconds",
			Help:      "Time taken to validate and commit a booking",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}
