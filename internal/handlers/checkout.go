package handlers

import (
	"context"
	"errors"
	"log/slog"
	"math"

	"github.com/callowayfam/reunion-api/internal/metrics"
	"github.com/callowayfam/reunion-api/internal/payments"
	"github.com/danielgtaylor/huma/v2"
)

type CheckoutHandler struct {
	client *payments.Client
}

func NewCheckoutHandler(client *payments.Client) *CheckoutHandler {
	return &CheckoutHandler{client: client}
}

type CheckoutRequest struct {
	Body struct {
		Amount           float64                   `json:"amount" doc:"Amount in major units (e.g. 150 for $150.00)"`
		Currency         string                    `json:"currency" enum:"CAD,USD" doc:"Payment currency"`
		RegistrationData payments.RegistrationData `json:"registrationData" doc:"Registration form submission"`
		PaymentType      string                    `json:"paymentType" enum:"deposit,full_payment" doc:"Deposit or full payment"`
	}
}

type CheckoutResponse struct {
	Body struct {
		SessionID string `json:"sessionId"`
		URL       string `json:"url"`
	}
}

func (h *CheckoutHandler) HandleCheckout(ctx context.Context, input *CheckoutRequest) (*CheckoutResponse, error) {
	if input.Body.Amount <= 0 {
		return nil, huma.Error400BadRequest("Amount must be greater than zero")
	}

	session, err := h.client.CreateCheckoutSession(ctx, payments.CheckoutParams{
		AmountCents:  int64(math.Round(input.Body.Amount * 100)),
		Currency:     input.Body.Currency,
		PaymentType:  input.Body.PaymentType,
		Registration: input.Body.RegistrationData,
	})
	if err != nil {
		if errors.Is(err, payments.ErrInvalidParams) {
			return nil, huma.Error400BadRequest(err.Error())
		}
		// Provider detail is already logged in the client; callers get a
		// generic failure.
		slog.Error("checkout session creation failed", "error", err)
		return nil, huma.Error500InternalServerError("Internal server error")
	}

	metrics.CheckoutSessionsCreated.Inc()

	res := &CheckoutResponse{}
	res.Body.SessionID = session.ID
	res.Body.URL = session.URL
	return res, nil
}
