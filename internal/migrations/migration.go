package migrations

import (
	"fmt"

	"press_admin/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Models lists every table owned by the application.
func Models() []interface{} {
	return []interface{}{
		&models.Account{},
		&models.StaffProfile{},
		&models.CustomerProfile{},
		&models.ArchivedAccount{},
		&models.IdentifierCounter{},
		&models.Job{},
	}
}

// RunMigrations brings the schema up to date. Existing data is kept.
func RunMigrations(db *gorm.DB, log *zap.Logger) error {
	log.Info("running database migrations")

	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Info("database migrations completed")
	return nil
}
