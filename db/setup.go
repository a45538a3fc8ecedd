package db

import (
	"github.com/Kartik1014/Rentit/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func ConnectDatabase(dsn string) (*gorm.DB, error) {
	var err error

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})

	if err != nil {
		return nil, err
	}

	return DB, nil
}

// activeBookingIndex backs the one-active-booking-per-tenant rule at the
// database level.
const activeBookingIndex = `CREATE UNIQUE INDEX IF NOT EXISTS idx_active_booking
	ON bookings (property_id, tenant_id)
	WHERE status IN ('PENDING', 'APPROVED')`

func MigrateDatabase() error {
	models := []interface{}{
		&models.User{},
		&models.Property{},
		&models.PropertyImage{},
		&models.Booking{},
		&models.Review{},
	}

	migrator := DB.Migrator()

	for _, model := range models {
		if !migrator.HasTable(model) {
			if err := DB.AutoMigrate(model); err != nil {
				return err
			}
		}
	}

	return DB.Exec(activeBookingIndex).Error
}
