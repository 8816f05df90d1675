package reconcile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/callowayfam/reunion-api/internal/config"
	"github.com/callowayfam/reunion-api/internal/models"
	"github.com/callowayfam/reunion-api/internal/notifier"
	"github.com/callowayfam/reunion-api/internal/payments"
	"github.com/google/uuid"
	stripe "github.com/stripe/stripe-go/v82"
	"gorm.io/gorm"
)

// Result classifies a delivery that was acknowledged with 200.
type Result string

const (
	// ResultCompleted means domain rows were written.
	ResultCompleted Result = "completed"
	// ResultDuplicate means the event id was already processed.
	ResultDuplicate Result = "duplicate"
	// ResultIgnored means the event type does not trigger reconciliation.
	ResultIgnored Result = "ignored"
)

const provider = "stripe"

// Reconciler turns a verified checkout.session.completed event into durable
// Registration, Payment and Attendee rows.
type Reconciler struct {
	db       *gorm.DB
	mode     string
	notifier notifier.Notifier
	logger   *slog.Logger
}

func New(db *gorm.DB, mode string, n notifier.Notifier) *Reconciler {
	return &Reconciler{
		db:       db,
		mode:     mode,
		notifier: n,
		logger:   slog.Default(),
	}
}

// sessionPayload is the subset of the checkout session object the
// reconciler reads from the event body.
type sessionPayload struct {
	ID              string            `json:"id"`
	AmountTotal     int64             `json:"amount_total"`
	Currency        string            `json:"currency"`
	PaymentStatus   string            `json:"payment_status"`
	Customer        string            `json:"customer"`
	CustomerEmail   string            `json:"customer_email"`
	CustomerDetails *struct {
		Email string `json:"email"`
	} `json:"customer_details"`
	PaymentIntent string            `json:"payment_intent"`
	Metadata      map[string]string `json:"metadata"`
}

// Process runs the per-delivery state machine. A nil error means the
// delivery must be acknowledged with 200; a non-nil error means 500 so the
// provider redelivers.
func (r *Reconciler) Process(ctx context.Context, event *stripe.Event) (Result, error) {
	record := models.WebhookEvent{
		Provider:        provider,
		ProviderEventID: event.ID,
		EventType:       string(event.Type),
	}

	// Idempotency gate: one row per provider event id. A redelivery finds
	// the earlier row and is acknowledged without domain writes.
	var existing models.WebhookEvent
	err := r.db.WithContext(ctx).
		Where("provider = ? AND provider_event_id = ?", provider, event.ID).
		First(&existing).Error
	if err == nil {
		r.logger.Info("duplicate webhook delivery ignored", "event_id", event.ID, "type", event.Type)
		// A redelivered non-reconciling event is still just ignored, not a
		// deduplicated reconciliation.
		if stripe.EventType(existing.EventType) != stripe.EventTypeCheckoutSessionCompleted {
			return ResultIgnored, nil
		}
		return ResultDuplicate, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("failed to check processed events: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost a race with a concurrent delivery of the same event.
			if event.Type != stripe.EventTypeCheckoutSessionCompleted {
				return ResultIgnored, nil
			}
			return ResultDuplicate, nil
		}
		return "", fmt.Errorf("failed to record webhook event: %w", err)
	}

	if event.Type != stripe.EventTypeCheckoutSessionCompleted {
		r.markProcessed(ctx, &record, "")
		return ResultIgnored, nil
	}

	var session sessionPayload
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		r.releaseRecord(ctx, &record)
		return "", fmt.Errorf("failed to parse session payload: %w", err)
	}

	registration, attendees, err := r.buildRecords(&session)
	if err != nil {
		r.releaseRecord(ctx, &record)
		return "", err
	}

	attendeeCount, err := r.persist(ctx, registration, attendees, &session, &record)
	if err != nil {
		return "", err
	}

	r.logger.Info("registration reconciled",
		"session_id", session.ID,
		"registration_id", registration.ID,
		"attendees", attendeeCount,
		"amount", registration.AmountTotal,
		"currency", registration.Currency,
	)

	if r.notifier != nil {
		if err := r.notifier.NotifyRegistration(*registration, attendeeCount); err != nil {
			r.logger.Error("failed to send registration notification", "error", err)
		}
	}

	return ResultCompleted, nil
}

// buildRecords reconstructs the registration and attendee rows from the
// session object and its embedded metadata. A malformed attendee list is a
// hard failure for the delivery.
func (r *Reconciler) buildRecords(session *sessionPayload) (*models.Registration, []models.Attendee, error) {
	meta := session.Metadata

	var attendeeData []payments.AttendeeData
	if err := json.Unmarshal([]byte(meta["attendees"]), &attendeeData); err != nil {
		return nil, nil, fmt.Errorf("malformed attendee list in session metadata: %w", err)
	}

	email := session.CustomerEmail
	if email == "" && session.CustomerDetails != nil {
		email = session.CustomerDetails.Email
	}
	if email == "" {
		email = meta["email"]
	}

	adults, _ := strconv.Atoi(meta["adults"])
	children, _ := strconv.Atoi(meta["children"])

	registration := &models.Registration{
		ConfirmationCode: uuid.NewString(),
		Email:            email,
		Phone:            meta["phone"],
		Adults:           adults,
		Children:         children,
		AmountTotal:      session.AmountTotal,
		Currency:         strings.ToUpper(session.Currency),
		PaymentType:      meta["payment_type"],
		PaymentStatus:    "completed",
		StripeSessionID:  session.ID,
		StripeCustomerID: session.Customer,
		SpecialRequests:  meta["special_requests"],
	}

	attendees := make([]models.Attendee, 0, len(attendeeData))
	for _, a := range attendeeData {
		attendees = append(attendees, models.Attendee{
			FullName:              a.FullName,
			Email:                 a.Email,
			Phone:                 a.Phone,
			AgeGroup:              a.AgeGroup,
			DietaryRestrictions:   a.DietaryRestrictions,
			EmergencyContactName:  a.EmergencyContactName,
			EmergencyContactPhone: a.EmergencyContactPhone,
		})
	}

	return registration, attendees, nil
}

func (r *Reconciler) persist(ctx context.Context, registration *models.Registration, attendees []models.Attendee, session *sessionPayload, record *models.WebhookEvent) (int, error) {
	if r.mode == config.ReconcileTransactional {
		return r.persistTransactional(ctx, registration, attendees, session, record)
	}
	return r.persistBestEffort(ctx, registration, attendees, session, record)
}

// persistBestEffort favors keeping the completed-payment record over strict
// referential completeness: the registration insert is the only fatal step,
// payment and attendee failures are logged and skipped.
func (r *Reconciler) persistBestEffort(ctx context.Context, registration *models.Registration, attendees []models.Attendee, session *sessionPayload, record *models.WebhookEvent) (int, error) {
	db := r.db.WithContext(ctx)

	if err := db.Create(registration).Error; err != nil {
		r.releaseRecord(ctx, record)
		return 0, fmt.Errorf("failed to create registration: %w", err)
	}

	var partial []string

	payment := paymentFor(registration, session)
	if err := db.Create(&payment).Error; err != nil {
		r.logger.Error("failed to create payment row, registration kept",
			"registration_id", registration.ID,
			"session_id", session.ID,
			"error", err,
		)
		partial = append(partial, "payment insert failed: "+err.Error())
	}

	created := 0
	for i := range attendees {
		attendees[i].RegistrationID = registration.ID
		if err := db.Create(&attendees[i]).Error; err != nil {
			r.logger.Error("failed to create attendee row",
				"registration_id", registration.ID,
				"full_name", attendees[i].FullName,
				"error", err,
			)
			partial = append(partial, fmt.Sprintf("attendee %q insert failed: %v", attendees[i].FullName, err))
			continue
		}
		created++
	}

	r.markProcessed(ctx, record, strings.Join(partial, "; "))
	return created, nil
}

// persistTransactional trades availability for consistency: any failure
// rolls the whole delivery back and the provider retries it.
func (r *Reconciler) persistTransactional(ctx context.Context, registration *models.Registration, attendees []models.Attendee, session *sessionPayload, record *models.WebhookEvent) (int, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(registration).Error; err != nil {
			return fmt.Errorf("failed to create registration: %w", err)
		}

		payment := paymentFor(registration, session)
		if err := tx.Create(&payment).Error; err != nil {
			return fmt.Errorf("failed to create payment: %w", err)
		}

		for i := range attendees {
			attendees[i].RegistrationID = registration.ID
			if err := tx.Create(&attendees[i]).Error; err != nil {
				return fmt.Errorf("failed to create attendee %q: %w", attendees[i].FullName, err)
			}
		}

		return nil
	})
	if err != nil {
		r.releaseRecord(ctx, record)
		return 0, err
	}

	r.markProcessed(ctx, record, "")
	return len(attendees), nil
}

func paymentFor(registration *models.Registration, session *sessionPayload) models.Payment {
	return models.Payment{
		RegistrationID:        registration.ID,
		AmountTotal:           session.AmountTotal,
		Currency:              strings.ToUpper(session.Currency),
		Status:                models.PaymentStatusSucceeded,
		PaymentMethod:         "card",
		StripePaymentIntentID: session.PaymentIntent,
	}
}

func (r *Reconciler) markProcessed(ctx context.Context, record *models.WebhookEvent, processingError string) {
	now := time.Now()
	updates := map[string]any{"processed_at": &now, "processing_error": processingError}
	if err := r.db.WithContext(ctx).Model(record).Updates(updates).Error; err != nil {
		r.logger.Error("failed to mark webhook event processed", "event_id", record.ProviderEventID, "error", err)
	}
}

// releaseRecord removes the idempotency row for a delivery that failed with
// 500, so the provider's retry is reprocessed instead of deduplicated. Hard
// delete: a soft-deleted row would still occupy the unique index.
func (r *Reconciler) releaseRecord(ctx context.Context, record *models.WebhookEvent) {
	if err := r.db.WithContext(ctx).Unscoped().Delete(record).Error; err != nil {
		r.logger.Error("failed to release webhook event record", "event_id", record.ProviderEventID, "error", err)
	}
}
