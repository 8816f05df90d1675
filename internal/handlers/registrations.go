package handlers

import (
	"context"
	"log/slog"
	"sync"

	"github.com/callowayfam/reunion-api/internal/auth"
	"github.com/callowayfam/reunion-api/internal/models"
	"github.com/danielgtaylor/huma/v2"
	"gorm.io/gorm"
)

type RegistrationsHandler struct {
	db          *gorm.DB
	authHandler *auth.AuthHandler
}

func NewRegistrationsHandler(db *gorm.DB, authHandler *auth.AuthHandler) *RegistrationsHandler {
	return &RegistrationsHandler{db: db, authHandler: authHandler}
}

type ListRegistrationsInput struct {
	auth.AuthInput
}

type RegistrationDetail struct {
	models.Registration
	Attendees []models.Attendee `json:"attendees"`
	Payments  []models.Payment  `json:"payments"`
}

type ListRegistrationsOutput struct {
	Body struct {
		Success       bool                 `json:"success"`
		Registrations []RegistrationDetail `json:"registrations"`
		Total         int                  `json:"total"`
	}
}

// HandleList returns every registration with its attendees and payments for
// operator review. The per-registration detail fetches fan out concurrently;
// a failed fetch leaves that list empty rather than failing the request.
// No pagination: this is a low-volume admin view.
func (h *RegistrationsHandler) HandleList(ctx context.Context, input *ListRegistrationsInput) (*ListRegistrationsOutput, error) {
	if err := h.authHandler.Authorize(ctx, input.Cookie); err != nil {
		return nil, err
	}

	var registrations []models.Registration
	if err := h.db.WithContext(ctx).Find(&registrations).Error; err != nil {
		slog.Error("failed to list registrations", "error", err)
		return nil, huma.Error500InternalServerError("Internal server error")
	}

	details := make([]RegistrationDetail, len(registrations))
	var wg sync.WaitGroup
	for i := range registrations {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			details[i] = h.fetchDetail(ctx, registrations[i])
		}(i)
	}
	wg.Wait()

	res := &ListRegistrationsOutput{}
	res.Body.Success = true
	res.Body.Registrations = details
	res.Body.Total = len(details)
	return res, nil
}

func (h *RegistrationsHandler) fetchDetail(ctx context.Context, registration models.Registration) RegistrationDetail {
	detail := RegistrationDetail{
		Registration: registration,
		Attendees:    []models.Attendee{},
		Payments:     []models.Payment{},
	}

	if err := h.db.WithContext(ctx).Where("registration_id = ?", registration.ID).Find(&detail.Attendees).Error; err != nil {
		slog.Error("failed to fetch attendees", "registration_id", registration.ID, "error", err)
	}
	if err := h.db.WithContext(ctx).Where("registration_id = ?", registration.ID).Find(&detail.Payments).Error; err != nil {
		slog.Error("failed to fetch payments", "registration_id", registration.ID, "error", err)
	}

	return detail
}
