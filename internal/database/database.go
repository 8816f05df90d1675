package database

import (
	"fmt"

	"github.com/callowayfam/reunion-api/internal/config"
	"github.com/callowayfam/reunion-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func Connect(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{
		// Surface unique-constraint violations as gorm.ErrDuplicatedKey so
		// the reconciler can tell a redelivery race from a real failure.
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.AutoMigrate(
		&models.Registration{},
		&models.Payment{},
		&models.Attendee{},
		&models.WebhookEvent{},
		&models.PageSetting{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to auto migrate: %w", err)
	}

	return db, nil
}
