package handlers

import (
	"context"
	"log/slog"

	"github.com/callowayfam/reunion-api/internal/metrics"
	"github.com/callowayfam/reunion-api/internal/payments"
	"github.com/callowayfam/reunion-api/internal/reconcile"
	"github.com/danielgtaylor/huma/v2"
)

type WebhookHandler struct {
	verifier   *payments.Verifier
	reconciler *reconcile.Reconciler
}

func NewWebhookHandler(verifier *payments.Verifier, reconciler *reconcile.Reconciler) *WebhookHandler {
	return &WebhookHandler{verifier: verifier, reconciler: reconciler}
}

type WebhookInput struct {
	StripeSignature string `header:"Stripe-Signature" doc:"Provider signature over the raw body"`
	RawBody         []byte
}

type WebhookOutput struct {
	Body struct {
		Received bool `json:"received"`
	}
}

// HandleWebhook verifies the delivery before anything touches the database,
// then hands it to the reconciler. A 400 means the provider should not
// bother retrying; a 500 means it should.
func (h *WebhookHandler) HandleWebhook(ctx context.Context, input *WebhookInput) (*WebhookOutput, error) {
	event, err := h.verifier.Verify(input.RawBody, input.StripeSignature)
	if err != nil {
		metrics.WebhookDeliveries.WithLabelValues("invalid_signature").Inc()
		slog.Warn("webhook rejected", "error", err)
		return nil, huma.Error400BadRequest("Invalid webhook signature")
	}

	result, err := h.reconciler.Process(ctx, event)
	if err != nil {
		metrics.WebhookDeliveries.WithLabelValues("failed").Inc()
		slog.Error("webhook reconciliation failed", "event_id", event.ID, "error", err)
		return nil, huma.Error500InternalServerError("Internal server error")
	}

	metrics.WebhookDeliveries.WithLabelValues(string(result)).Inc()
	if result == reconcile.ResultCompleted {
		metrics.RegistrationsCreated.Inc()
	}

	res := &WebhookOutput{}
	res.Body.Received = true
	return res, nil
}
