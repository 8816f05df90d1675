package handlers

import (
	"context"
	"testing"
)

func TestHandleSession(t *testing.T) {
	srv := newStripeStub(t, nil)
	defer srv.Close()

	handler := NewSessionHandler(testPaymentsClient(srv.URL))

	t.Run("Known", func(t *testing.T) {
		resp, err := handler.HandleSession(context.Background(), &SessionRequest{SessionID: "cs_test_1"})
		if err != nil {
			t.Fatalf("HandleSession returned error: %v", err)
		}
		if resp.Body.Amount != 150 {
			t.Errorf("expected amount 150.00, got %v", resp.Body.Amount)
		}
		if resp.Body.PaymentStatus != "paid" {
			t.Errorf("expected payment status paid, got %s", resp.Body.PaymentStatus)
		}
		if resp.Body.PaymentType != "deposit" {
			t.Errorf("expected payment type deposit, got %s", resp.Body.PaymentType)
		}
		if resp.Body.CustomerEmail != "a@b.com" {
			t.Errorf("expected customer email a@b.com, got %s", resp.Body.CustomerEmail)
		}
	})

	t.Run("Unknown", func(t *testing.T) {
		// An unknown id must produce an error, never a partially-populated
		// success object.
		resp, err := handler.HandleSession(context.Background(), &SessionRequest{SessionID: "cs_missing"})
		if err == nil {
			t.Fatal("expected error for unknown session id, got nil")
		}
		if resp != nil {
			t.Errorf("expected nil response on error, got %+v", resp)
		}
	})
}
