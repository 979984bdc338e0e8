package database

import (
	"fmt"

	"github.com/joimopro25-dot/myimomate-crm-sub000/internal/models"
)

func (d *Database) RunMigrations() error {
	if err := d.db.AutoMigrate(&models.Deal{}); err != nil {
		return fmt.Errorf("failed to migrate deals table: %w", err)
	}

	// Composite index for the map view
	err := d.db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_deals_coordinates
		ON deals(latitude, longitude);
	`).Error
	if err != nil {
		return fmt.Errorf("failed to create coordinates index: %w", err)
	}

	return nil
}
