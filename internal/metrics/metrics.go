package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "medilink_orders_created_total",
		Help: "Total number of orders successfully placed.",
	})

	EmergencyOrdersTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "medilink_emergency_orders_total",
		Help: "Total number of orders flagged as emergency at creation.",
	})

	OrderTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "medilink_order_transitions_total",
		Help: "Total number of successful order status transitions.",
	},
		[]string{"status"},
	)

	RatingsRecordedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "medilink_ratings_recorded_total",
		Help: "Total number of post-delivery ratings recorded.",
	})

	NotificationEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "medilink_notification_events_total",
		Help: "Total number of notification events emitted.",
	},
		[]string{"kind"},
	)

	NotificationDropsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "medilink_notification_drops_total",
		Help: "Total number of notification events dropped because a subscriber was slow or absent.",
	})

	ComplaintsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "medilink_complaints_created_total",
		Help: "Total number of complaint tickets opened.",
	})

	HealthReadingsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "medilink_health_readings_total",
		Help: "Total number of kiosk screening readings recorded, by risk flag.",
	},
		[]string{"risk"},
	)

	OperationErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "medilink_operation_errors_total",
		Help: "Total number of errors encountered during specific operations.",
	},
		[]string{"operation"},
	)

	OrderCacheItems = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "medilink_order_cache_items",
		Help: "Current number of items in the order cache.",
	})
)
