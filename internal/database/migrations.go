package database

import (
	"github.com/campuspool/campuspool-backend/internal/models"
	"gorm.io/gorm"
)

func RunMigrations(db *gorm.DB) error {
	// Create tables if they don't exist
	err := db.AutoMigrate(
		&models.User{},
		&models.Ride{},
		&models.Passenger{},
		&models.ChatRoom{},
		&models.ChatRoomUser{},
		&models.Message{},
	)
	if err != nil {
		return err
	}

	if db.Migrator().HasTable(&models.Ride{}) {
		// Seat and status guards at the storage layer
		db.Exec(`ALTER TABLE rides DROP CONSTRAINT IF EXISTS rides_seats_left_check`)
		if err := db.Exec(`ALTER TABLE rides ADD CONSTRAINT rides_seats_left_check CHECK (seats_left >= 0 AND seats_left <= total_seats)`).Error; err != nil {
			return err
		}

		db.Exec(`ALTER TABLE rides DROP CONSTRAINT IF EXISTS rides_status_check`)
		if err := db.Exec(`ALTER TABLE rides ADD CONSTRAINT rides_status_check CHECK (status IN ('ONGOING', 'COMPLETED'))`).Error; err != nil {
			return err
		}

		db.Exec(`ALTER TABLE rides DROP CONSTRAINT IF EXISTS rides_gender_pref_check`)
		if err := db.Exec(`ALTER TABLE rides ADD CONSTRAINT rides_gender_pref_check CHECK (gender_pref IN ('any', 'male', 'female'))`).Error; err != nil {
			return err
		}
	}

	return nil
}
