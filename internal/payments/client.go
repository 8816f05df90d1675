package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	stripe "github.com/stripe/stripe-go/v82"
)

// stripeAPIBase is the default Stripe API base URL. Overridable in tests
// via ClientConfig.BaseURL.
const stripeAPIBase = "https://api.stripe.com"

// Currencies the reunion accepts payments in.
var supportedCurrencies = map[string]bool{
	"CAD": true,
	"USD": true,
}

// Metadata keys used to embed the registration payload into a checkout
// session. The webhook handler reconstructs the full registration from these
// alone, so no pending-registration row exists before payment.
const (
	metaEmail           = "email"
	metaPhone           = "phone"
	metaAdults          = "adults"
	metaChildren        = "children"
	metaSpecialRequests = "special_requests"
	metaPaymentType     = "payment_type"
	metaAttendees       = "attendees"
)

// ClientConfig holds the configuration for creating a Client.
type ClientConfig struct {
	SecretKey     string
	PublicBaseURL string // redirect target origin for success/cancel URLs
	BaseURL       string // override for testing; defaults to stripeAPIBase
	Logger        *slog.Logger
}

// Client talks to the Stripe REST API directly with form-encoded requests.
// Keeping it plain HTTP makes testing with httptest straightforward and
// avoids coupling handler code to SDK parameter structs.
type Client struct {
	httpClient    *http.Client
	secretKey     string
	baseURL       string
	publicBaseURL string
	logger        *slog.Logger
}

func NewClient(httpClient *http.Client, cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = stripeAPIBase
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 20 * time.Second}
	}

	return &Client{
		httpClient:    httpClient,
		secretKey:     cfg.SecretKey,
		baseURL:       strings.TrimSuffix(baseURL, "/"),
		publicBaseURL: strings.TrimSuffix(cfg.PublicBaseURL, "/"),
		logger:        logger,
	}
}

// AttendeeData is one person on the registration form, carried through the
// session metadata as part of a JSON-serialized list.
type AttendeeData struct {
	FullName              string `json:"fullName"`
	Email                 string `json:"email,omitempty"`
	Phone                 string `json:"phone,omitempty"`
	AgeGroup              string `json:"ageGroup"`
	DietaryRestrictions   string `json:"dietaryRestrictions,omitempty"`
	EmergencyContactName  string `json:"emergencyContactName,omitempty"`
	EmergencyContactPhone string `json:"emergencyContactPhone,omitempty"`
}

// RegistrationData is the form submission embedded into session metadata.
type RegistrationData struct {
	FirstName       string         `json:"firstName"`
	LastName        string         `json:"lastName"`
	Email           string         `json:"email"`
	Phone           string         `json:"phone"`
	Adults          int            `json:"adults"`
	Children        int            `json:"children"`
	SpecialRequests string         `json:"specialRequests,omitempty"`
	Attendees       []AttendeeData `json:"attendees"`
}

// CheckoutParams are the inputs to CreateCheckoutSession. AmountCents is in
// minor units.
type CheckoutParams struct {
	AmountCents  int64
	Currency     string
	PaymentType  string
	Registration RegistrationData
}

func (p *CheckoutParams) Validate() error {
	if p.AmountCents <= 0 {
		return fmt.Errorf("%w: amount must be greater than zero", ErrInvalidParams)
	}
	if !supportedCurrencies[strings.ToUpper(p.Currency)] {
		return fmt.Errorf("%w: unsupported currency %q", ErrInvalidParams, p.Currency)
	}
	if len(p.Registration.Attendees) == 0 {
		return fmt.Errorf("%w: at least one attendee is required", ErrInvalidParams)
	}
	return nil
}

// CheckoutSession is the pending session registered with the provider.
type CheckoutSession struct {
	ID  string
	URL string
}

// SessionDetails is a snapshot of a checkout session fetched by id.
type SessionDetails struct {
	ID              string
	AmountTotal     int64
	Currency        string
	PaymentStatus   string
	CustomerEmail   string
	CustomerID      string
	PaymentIntentID string
	Metadata        map[string]string
}

// CreateCheckoutSession registers a pending session with Stripe, embedding
// the full registration payload (attendee list serialized) as metadata so the
// later webhook event is self-contained.
func (c *Client) CreateCheckoutSession(ctx context.Context, p CheckoutParams) (*CheckoutSession, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	attendeesJSON, err := json.Marshal(p.Registration.Attendees)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize attendees: %w", err)
	}

	productName := "Family Reunion Registration"
	if p.PaymentType == "deposit" {
		productName = "Family Reunion Registration Deposit"
	}

	params := url.Values{}
	params.Set("mode", "payment")
	params.Set("line_items[0][price_data][currency]", strings.ToLower(p.Currency))
	params.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(p.AmountCents, 10))
	params.Set("line_items[0][price_data][product_data][name]", productName)
	params.Set("line_items[0][quantity]", "1")
	params.Set("success_url", c.publicBaseURL+"/payment-success?session_id={CHECKOUT_SESSION_ID}")
	params.Set("cancel_url", c.publicBaseURL+"/payment-cancelled")
	params.Set("customer_email", p.Registration.Email)
	params.Set("metadata["+metaEmail+"]", p.Registration.Email)
	params.Set("metadata["+metaPhone+"]", p.Registration.Phone)
	params.Set("metadata["+metaAdults+"]", strconv.Itoa(p.Registration.Adults))
	params.Set("metadata["+metaChildren+"]", strconv.Itoa(p.Registration.Children))
	params.Set("metadata["+metaSpecialRequests+"]", p.Registration.SpecialRequests)
	params.Set("metadata["+metaPaymentType+"]", p.PaymentType)
	params.Set("metadata["+metaAttendees+"]", string(attendeesJSON))

	resp, err := c.doPost(ctx, "/v1/checkout/sessions", params)
	if err != nil {
		return nil, fmt.Errorf("CreateCheckoutSession: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.handleErrorResponse(resp, "CreateCheckoutSession")
	}

	var session stripeCheckoutSession
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, fmt.Errorf("failed to decode checkout session response: %w", err)
	}

	return &CheckoutSession{ID: session.ID, URL: session.URL}, nil
}

// RetrieveSession fetches a checkout session by id. Returns
// ErrSessionNotFound when the id is unknown to the provider.
func (c *Client) RetrieveSession(ctx context.Context, sessionID string) (*SessionDetails, error) {
	resp, err := c.doGet(ctx, "/v1/checkout/sessions/"+url.PathEscape(sessionID), nil)
	if err != nil {
		return nil, fmt.Errorf("RetrieveSession: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrSessionNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, c.handleErrorResponse(resp, "RetrieveSession")
	}

	var session stripeCheckoutSession
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, fmt.Errorf("failed to decode session response: %w", err)
	}

	return session.details(), nil
}

func (c *Client) doGet(ctx context.Context, path string, params url.Values) (*http.Response, error) {
	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	c.setAuthHeaders(req)

	return c.httpClient.Do(req)
}

func (c *Client) doPost(ctx context.Context, path string, params url.Values) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(params.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	c.setAuthHeaders(req)

	return c.httpClient.Do(req)
}

func (c *Client) setAuthHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Stripe-Version", stripe.APIVersion)
}

// handleErrorResponse reads a Stripe error body and maps it to an
// UpstreamError. Provider detail is logged here, never shown to callers.
func (c *Client) handleErrorResponse(resp *http.Response, operation string) error {
	var stripeErr stripeErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&stripeErr); err != nil {
		c.logger.Error("stripe returned non-JSON error body",
			"operation", operation,
			"status", resp.StatusCode,
		)
		return &UpstreamError{Operation: operation, StatusCode: resp.StatusCode}
	}

	c.logger.Error("stripe request rejected",
		"operation", operation,
		"status", resp.StatusCode,
		"code", stripeErr.Error.Code,
		"message", stripeErr.Error.Message,
	)

	return &UpstreamError{
		Operation:  operation,
		StatusCode: resp.StatusCode,
		Code:       stripeErr.Error.Code,
		Message:    stripeErr.Error.Message,
	}
}

// Stripe response types for JSON deserialization.

type stripeErrorResponse struct {
	Error stripeErrorBody `json:"error"`
}

type stripeErrorBody struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Param   string `json:"param"`
}

type stripeCheckoutSession struct {
	ID              string            `json:"id"`
	URL             string            `json:"url"`
	AmountTotal     int64             `json:"amount_total"`
	Currency        string            `json:"currency"`
	PaymentStatus   string            `json:"payment_status"`
	Customer        string            `json:"customer"`
	CustomerEmail   string            `json:"customer_email"`
	CustomerDetails *stripeCustomer   `json:"customer_details"`
	PaymentIntent   string            `json:"payment_intent"`
	Metadata        map[string]string `json:"metadata"`
}

type stripeCustomer struct {
	Email string `json:"email"`
}

func (s *stripeCheckoutSession) details() *SessionDetails {
	email := s.CustomerEmail
	if email == "" && s.CustomerDetails != nil {
		email = s.CustomerDetails.Email
	}
	return &SessionDetails{
		ID:              s.ID,
		AmountTotal:     s.AmountTotal,
		Currency:        strings.ToUpper(s.Currency),
		PaymentStatus:   s.PaymentStatus,
		CustomerEmail:   email,
		CustomerID:      s.Customer,
		PaymentIntentID: s.PaymentIntent,
		Metadata:        s.Metadata,
	}
}
