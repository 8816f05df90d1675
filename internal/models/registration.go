package models

import (
	"gorm.io/gorm"
)

// Payment types a checkout can be created for.
const (
	PaymentTypeDeposit = "deposit"
	PaymentTypeFull    = "full_payment"
)

// Registration is the durable record of a confirmed reunion attendance
// payment. It is created exactly once per completed checkout session and
// never mutated afterwards.
type Registration struct {
	gorm.Model
	ConfirmationCode string `json:"confirmation_code" gorm:"uniqueIndex"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	Adults           int    `json:"adults"`
	Children         int    `json:"children"`
	AmountTotal      int64  `json:"amount_total"` // minor units
	Currency         string `json:"currency"`
	PaymentType      string `json:"payment_type"`
	PaymentStatus    string `json:"payment_status"`
	StripeSessionID  string `json:"stripe_session_id" gorm:"index"`
	StripeCustomerID string `json:"stripe_customer_id"`
	SpecialRequests  string `json:"special_requests"`
}
