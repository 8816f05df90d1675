package handlers

import (
	"context"
	"log/slog"

	"github.com/callowayfam/reunion-api/internal/auth"
	"github.com/callowayfam/reunion-api/internal/models"
	"github.com/danielgtaylor/huma/v2"
	"gorm.io/gorm"
)

// SettingsHandler serves the server-side page-visibility flags. The admin UI
// reads and writes these instead of keeping per-browser copies.
type SettingsHandler struct {
	db          *gorm.DB
	authHandler *auth.AuthHandler
}

func NewSettingsHandler(db *gorm.DB, authHandler *auth.AuthHandler) *SettingsHandler {
	return &SettingsHandler{db: db, authHandler: authHandler}
}

type ListPageSettingsOutput struct {
	Body struct {
		Pages map[string]bool `json:"pages"`
	}
}

func (h *SettingsHandler) HandleList(ctx context.Context, input *struct{}) (*ListPageSettingsOutput, error) {
	var settings []models.PageSetting
	if err := h.db.WithContext(ctx).Find(&settings).Error; err != nil {
		slog.Error("failed to list page settings", "error", err)
		return nil, huma.Error500InternalServerError("Internal server error")
	}

	res := &ListPageSettingsOutput{}
	res.Body.Pages = make(map[string]bool, len(settings))
	for _, s := range settings {
		res.Body.Pages[s.Slug] = s.Visible
	}
	return res, nil
}

type UpdatePageSettingInput struct {
	auth.AuthInput
	Slug string `path:"slug" doc:"Page slug"`
	Body struct {
		Visible bool `json:"visible"`
	}
}

type UpdatePageSettingOutput struct {
	Body struct {
		Slug    string `json:"slug"`
		Visible bool   `json:"visible"`
	}
}

func (h *SettingsHandler) HandleUpdate(ctx context.Context, input *UpdatePageSettingInput) (*UpdatePageSettingOutput, error) {
	if err := h.authHandler.Authorize(ctx, input.Cookie); err != nil {
		return nil, err
	}

	var setting models.PageSetting
	if err := h.db.WithContext(ctx).FirstOrInit(&setting, models.PageSetting{Slug: input.Slug}).Error; err != nil {
		slog.Error("failed to load page setting", "slug", input.Slug, "error", err)
		return nil, huma.Error500InternalServerError("Internal server error")
	}

	setting.Visible = input.Body.Visible
	if err := h.db.WithContext(ctx).Save(&setting).Error; err != nil {
		slog.Error("failed to save page setting", "slug", input.Slug, "error", err)
		return nil, huma.Error500InternalServerError("Internal server error")
	}

	res := &UpdatePageSettingOutput{}
	res.Body.Slug = setting.Slug
	res.Body.Visible = setting.Visible
	return res, nil
}
