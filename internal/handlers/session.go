package handlers

import (
	"context"
	"errors"
	"log/slog"

	"github.com/callowayfam/reunion-api/internal/payments"
	"github.com/danielgtaylor/huma/v2"
)

type SessionHandler struct {
	client *payments.Client
}

func NewSessionHandler(client *payments.Client) *SessionHandler {
	return &SessionHandler{client: client}
}

type SessionRequest struct {
	SessionID string `query:"session_id" required:"true" doc:"Checkout session id"`
}

type SessionResponse struct {
	Body struct {
		SessionID     string            `json:"sessionId"`
		Amount        float64           `json:"amount"`
		Currency      string            `json:"currency"`
		PaymentStatus string            `json:"paymentStatus"`
		CustomerEmail string            `json:"customerEmail"`
		Metadata      map[string]string `json:"metadata"`
		PaymentType   string            `json:"paymentType"`
	}
}

// HandleSession is a pure read-through to the payment provider, used by the
// post-payment redirect page to render a confirmation. The payment status is
// passed through verbatim (paid, unpaid, no_payment_required).
func (h *SessionHandler) HandleSession(ctx context.Context, input *SessionRequest) (*SessionResponse, error) {
	session, err := h.client.RetrieveSession(ctx, input.SessionID)
	if err != nil {
		if errors.Is(err, payments.ErrSessionNotFound) {
			return nil, huma.Error404NotFound("Session not found")
		}
		slog.Error("session retrieval failed", "session_id", input.SessionID, "error", err)
		return nil, huma.Error500InternalServerError("Internal server error")
	}

	res := &SessionResponse{}
	res.Body.SessionID = session.ID
	res.Body.Amount = float64(session.AmountTotal) / 100
	res.Body.Currency = session.Currency
	res.Body.PaymentStatus = session.PaymentStatus
	res.Body.CustomerEmail = session.CustomerEmail
	res.Body.Metadata = session.Metadata
	res.Body.PaymentType = session.Metadata["payment_type"]
	return res, nil
}
