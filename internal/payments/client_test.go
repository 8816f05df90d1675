package payments

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

func validParams() CheckoutParams {
	return CheckoutParams{
		AmountCents: 15000,
		Currency:    "USD",
		PaymentType: "deposit",
		Registration: RegistrationData{
			FirstName: "A",
			LastName:  "B",
			Email:     "a@b.com",
			Phone:     "555",
			Adults:    2,
			Children:  1,
			Attendees: []AttendeeData{
				{FullName: "A B", Email: "a@b.com", Phone: "555", AgeGroup: "adult"},
			},
		},
	}
}

func newTestClient(baseURL string) *Client {
	return NewClient(nil, ClientConfig{
		SecretKey:     "sk_test_123",
		PublicBaseURL: "https://reunion.example.com",
		BaseURL:       baseURL,
	})
}

func TestCreateCheckoutSession(t *testing.T) {
	var gotForm url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/checkout/sessions" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer sk_test_123" {
			t.Errorf("unexpected auth header: %s", auth)
		}
		r.ParseForm()
		gotForm = r.PostForm
		w.Write([]byte(`{"id":"cs_test_1","url":"https://checkout.stripe.com/c/pay/cs_test_1"}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)

	session, err := client.CreateCheckoutSession(context.Background(), validParams())
	if err != nil {
		t.Fatalf("CreateCheckoutSession returned error: %v", err)
	}
	if session.ID != "cs_test_1" {
		t.Errorf("expected session id cs_test_1, got %s", session.ID)
	}
	if session.URL == "" {
		t.Error("expected non-empty redirect URL")
	}

	// The registration payload must be embedded as metadata so the webhook
	// event is self-contained.
	if gotForm.Get("metadata[email]") != "a@b.com" {
		t.Errorf("expected metadata email, got %q", gotForm.Get("metadata[email]"))
	}
	if gotForm.Get("metadata[adults]") != "2" || gotForm.Get("metadata[children]") != "1" {
		t.Errorf("expected adults=2 children=1, got %q/%q", gotForm.Get("metadata[adults]"), gotForm.Get("metadata[children]"))
	}
	if gotForm.Get("metadata[attendees]") == "" {
		t.Error("expected serialized attendees in metadata")
	}
	if gotForm.Get("line_items[0][price_data][unit_amount]") != "15000" {
		t.Errorf("expected unit_amount 15000, got %q", gotForm.Get("line_items[0][price_data][unit_amount]"))
	}
	if gotForm.Get("mode") != "payment" {
		t.Errorf("expected mode payment, got %q", gotForm.Get("mode"))
	}
}

func TestCreateCheckoutSessionValidation(t *testing.T) {
	client := newTestClient("http://127.0.0.1:0")

	t.Run("ZeroAmount", func(t *testing.T) {
		p := validParams()
		p.AmountCents = 0
		_, err := client.CreateCheckoutSession(context.Background(), p)
		if !errors.Is(err, ErrInvalidParams) {
			t.Fatalf("expected ErrInvalidParams, got %v", err)
		}
	})

	t.Run("UnsupportedCurrency", func(t *testing.T) {
		p := validParams()
		p.Currency = "EUR"
		_, err := client.CreateCheckoutSession(context.Background(), p)
		if !errors.Is(err, ErrInvalidParams) {
			t.Fatalf("expected ErrInvalidParams, got %v", err)
		}
	})

	t.Run("NoAttendees", func(t *testing.T) {
		p := validParams()
		p.Registration.Attendees = nil
		_, err := client.CreateCheckoutSession(context.Background(), p)
		if !errors.Is(err, ErrInvalidParams) {
			t.Fatalf("expected ErrInvalidParams, got %v", err)
		}
	})
}

func TestCreateCheckoutSessionUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"type":"invalid_request_error","code":"parameter_invalid_integer","message":"Invalid integer"}}`))
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)

	_, err := client.CreateCheckoutSession(context.Background(), validParams())
	var upstream *UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if upstream.Code != "parameter_invalid_integer" {
		t.Errorf("expected provider code preserved, got %q", upstream.Code)
	}
}

func TestRetrieveSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/checkout/sessions/cs_test_1":
			w.Write([]byte(`{
				"id": "cs_test_1",
				"amount_total": 15000,
				"currency": "usd",
				"payment_status": "paid",
				"customer": "cus_123",
				"customer_details": {"email": "a@b.com"},
				"payment_intent": "pi_123",
				"metadata": {"payment_type": "deposit"}
			}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"No such checkout session"}}`))
		}
	}))
	defer srv.Close()

	client := newTestClient(srv.URL)

	t.Run("Found", func(t *testing.T) {
		session, err := client.RetrieveSession(context.Background(), "cs_test_1")
		if err != nil {
			t.Fatalf("RetrieveSession returned error: %v", err)
		}
		if session.AmountTotal != 15000 {
			t.Errorf("expected amount 15000, got %d", session.AmountTotal)
		}
		if session.Currency != "USD" {
			t.Errorf("expected currency USD, got %s", session.Currency)
		}
		if session.PaymentStatus != "paid" {
			t.Errorf("expected payment status paid, got %s", session.PaymentStatus)
		}
		if session.CustomerEmail != "a@b.com" {
			t.Errorf("expected customer email from customer_details, got %s", session.CustomerEmail)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := client.RetrieveSession(context.Background(), "cs_unknown")
		if !errors.Is(err, ErrSessionNotFound) {
			t.Fatalf("expected ErrSessionNotFound, got %v", err)
		}
	})
}
