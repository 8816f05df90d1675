package models

import (
	"gorm.io/gorm"
)

// PageSetting is the server-side source of truth for which site pages are
// visible. Replaces the per-browser local-storage flags the admin UI used.
type PageSetting struct {
	gorm.Model
	Slug    string `json:"slug" gorm:"uniqueIndex"`
	Visible bool   `json:"visible"`
}
