package models

import (
	"gorm.io/gorm"
)

const PaymentStatusSucceeded = "succeeded"

// Payment records the provider-side payment backing a registration. The
// webhook flow creates exactly one per registration.
type Payment struct {
	gorm.Model
	RegistrationID        uint   `json:"registration_id" gorm:"index"`
	AmountTotal           int64  `json:"amount_total"` // minor units
	Currency              string `json:"currency"`
	Status                string `json:"status"`
	PaymentMethod         string `json:"payment_method"`
	StripePaymentIntentID string `json:"stripe_payment_intent_id"`
}
