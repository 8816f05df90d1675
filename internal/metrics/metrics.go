package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// WebhookDeliveries counts processed webhook deliveries by outcome
	// (completed, duplicate, ignored, invalid_signature, failed).
	WebhookDeliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reunion_webhook_deliveries_total",
		Help: "Webhook deliveries processed, by outcome.",
	}, []string{"outcome"})

	RegistrationsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reunion_registrations_created_total",
		Help: "Registrations persisted from completed checkout sessions.",
	})

	CheckoutSessionsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reunion_checkout_sessions_created_total",
		Help: "Checkout sessions created with the payment provider.",
	})
)
