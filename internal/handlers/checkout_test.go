package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/callowayfam/reunion-api/internal/payments"
)

func newStripeStub(t *testing.T, captured *map[string][]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/v1/checkout/sessions":
			r.ParseForm()
			if captured != nil {
				*captured = r.PostForm
			}
			w.Write([]byte(`{"id":"cs_test_1","url":"https://checkout.stripe.com/c/pay/cs_test_1"}`))
		case r.Method == http.MethodGet && r.URL.Path == "/v1/checkout/sessions/cs_test_1":
			w.Write([]byte(`{
				"id": "cs_test_1",
				"amount_total": 15000,
				"currency": "usd",
				"payment_status": "paid",
				"customer_details": {"email": "a@b.com"},
				"metadata": {"payment_type": "deposit"}
			}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":{"message":"No such checkout session"}}`))
		}
	}))
}

func testPaymentsClient(baseURL string) *payments.Client {
	return payments.NewClient(nil, payments.ClientConfig{
		SecretKey:     "sk_test_123",
		PublicBaseURL: "https://reunion.example.com",
		BaseURL:       baseURL,
	})
}

func checkoutRequest() *CheckoutRequest {
	req := &CheckoutRequest{}
	req.Body.Amount = 150
	req.Body.Currency = "USD"
	req.Body.PaymentType = "deposit"
	req.Body.RegistrationData = payments.RegistrationData{
		FirstName: "A",
		LastName:  "B",
		Email:     "a@b.com",
		Phone:     "555",
		Adults:    2,
		Children:  1,
		Attendees: []payments.AttendeeData{
			{FullName: "A B", Email: "a@b.com", Phone: "555", AgeGroup: "adult"},
		},
	}
	return req
}

func TestHandleCheckout(t *testing.T) {
	var captured map[string][]string
	srv := newStripeStub(t, &captured)
	defer srv.Close()

	handler := NewCheckoutHandler(testPaymentsClient(srv.URL))

	resp, err := handler.HandleCheckout(context.Background(), checkoutRequest())
	if err != nil {
		t.Fatalf("HandleCheckout returned error: %v", err)
	}
	if resp.Body.SessionID != "cs_test_1" {
		t.Errorf("expected session id cs_test_1, got %s", resp.Body.SessionID)
	}
	if resp.Body.URL == "" {
		t.Error("expected non-empty redirect URL")
	}

	// 150 major units becomes 15000 minor units on the wire.
	if got := captured["line_items[0][price_data][unit_amount]"]; len(got) != 1 || got[0] != "15000" {
		t.Errorf("expected unit_amount 15000, got %v", got)
	}
}

func TestHandleCheckoutValidation(t *testing.T) {
	handler := NewCheckoutHandler(testPaymentsClient("http://127.0.0.1:0"))

	t.Run("ZeroAmount", func(t *testing.T) {
		req := checkoutRequest()
		req.Body.Amount = 0
		if _, err := handler.HandleCheckout(context.Background(), req); err == nil {
			t.Fatal("expected error for zero amount, got nil")
		}
	})

	t.Run("NoAttendees", func(t *testing.T) {
		req := checkoutRequest()
		req.Body.RegistrationData.Attendees = nil
		if _, err := handler.HandleCheckout(context.Background(), req); err == nil {
			t.Fatal("expected error for empty attendee list, got nil")
		}
	})
}
