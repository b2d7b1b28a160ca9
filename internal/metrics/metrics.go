package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ReservationsSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reservations_submitted_total",
		Help: "Reservations successfully written to the store.",
	})
	ReservationsConfirmed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reservations_confirmed_total",
		Help: "Pending reservations confirmed by an admin.",
	})
	DispatchFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "notification_dispatch_failures_total",
		Help: "Notification dispatches that failed after the store commit.",
	})
	FeedEvents = promauto.NewCounter(prometheus.CounterOpts{
		Name: "feed_events_total",
		Help: "Change-feed events decoded from the store.",
	})
)
