package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	NotificationsSentTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quizhub_notifications_sent_total",
			Help: "Notifications delivered to a chat, by channel and kind",
		},
		[]string{"channel", "kind"},
	)

	NotificationsFailedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quizhub_notifications_failed_total",
			Help: "Notifications that could not be delivered, by channel and kind",
		},
		[]string{"channel", "kind"},
	)

	RemindersDispatchedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quizhub_reminders_dispatched_total",
			Help: "Reminder summaries dispatched, by offset in hours",
		},
		[]string{"offset_hours"},
	)
)

func notifyCollectors() []prometheus.Collector {
	return []prometheus.Collector{
		NotificationsSentTotal,
		NotificationsFailedTotal,
		RemindersDispatchedTotal,
	}
}
