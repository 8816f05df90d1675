package payments

import (
	"fmt"

	stripe "github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

// Verifier authenticates inbound webhook deliveries. Verification runs over
// the raw, unparsed request body; re-serializing parsed JSON first would
// break the HMAC over whitespace and key-order differences.
type Verifier struct {
	secret string
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: secret}
}

// Verify checks the signature header against the raw payload and returns the
// parsed event. Requests without a signature header are rejected before the
// body is looked at.
func (v *Verifier) Verify(payload []byte, sigHeader string) (*stripe.Event, error) {
	if sigHeader == "" {
		return nil, ErrMissingSignature
	}

	event, err := webhook.ConstructEventWithOptions(payload, sigHeader, v.secret, webhook.ConstructEventOptions{
		// Dashboard-configured endpoints can deliver events pinned to an
		// API version older than the one this SDK tracks.
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("webhook signature verification failed: %w", err)
	}

	return &event, nil
}
