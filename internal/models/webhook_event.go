package models

import (
	"time"

	"gorm.io/gorm"
)

// WebhookEvent stores every verified provider delivery. The unique
// (provider, provider_event_id) index is the idempotency key: a redelivered
// event fails the insert and is acknowledged without touching domain rows.
type WebhookEvent struct {
	gorm.Model
	Provider        string     `json:"provider" gorm:"uniqueIndex:idx_provider_event"`
	ProviderEventID string     `json:"provider_event_id" gorm:"uniqueIndex:idx_provider_event"`
	EventType       string     `json:"event_type" gorm:"index"`
	ProcessedAt     *time.Time `json:"processed_at,omitempty"`
	ProcessingError string     `json:"processing_error,omitempty"`
}
