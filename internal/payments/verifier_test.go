package payments

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"testing"
	"time"
)

const testWebhookSecret = "whsec_test_secret"

// signPayload produces a Stripe-Signature header value: an HMAC-SHA256 of
// "<timestamp>.<payload>" with the endpoint secret.
func signPayload(payload []byte, secret string) string {
	ts := time.Now().Unix()
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.", ts)
	mac.Write(payload)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func TestVerify(t *testing.T) {
	verifier := NewVerifier(testWebhookSecret)
	payload := []byte(`{"id":"evt_1","type":"checkout.session.completed","data":{"object":{"id":"cs_test_1"}}}`)

	t.Run("ValidSignature", func(t *testing.T) {
		event, err := verifier.Verify(payload, signPayload(payload, testWebhookSecret))
		if err != nil {
			t.Fatalf("Verify returned error: %v", err)
		}
		if event.ID != "evt_1" {
			t.Errorf("expected event id evt_1, got %s", event.ID)
		}
	})

	t.Run("MissingHeader", func(t *testing.T) {
		_, err := verifier.Verify(payload, "")
		if !errors.Is(err, ErrMissingSignature) {
			t.Fatalf("expected ErrMissingSignature, got %v", err)
		}
	})

	t.Run("TamperedBody", func(t *testing.T) {
		header := signPayload(payload, testWebhookSecret)
		tampered := []byte(`{"id":"evt_1","type":"checkout.session.completed","data":{"object":{"id":"cs_evil"}}}`)
		if _, err := verifier.Verify(tampered, header); err == nil {
			t.Fatal("expected error for tampered body, got nil")
		}
	})

	t.Run("WrongSecret", func(t *testing.T) {
		if _, err := verifier.Verify(payload, signPayload(payload, "whsec_other")); err == nil {
			t.Fatal("expected error for signature from wrong secret, got nil")
		}
	})
}
