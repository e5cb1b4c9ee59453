package database

import (
	"log"

	"gorm.io/gorm"

	"github.com/caloriemate/backend/internal/models"
)

// RunMigrations brings the schema up to date. The compound unique index
// on daily_logs (user_id, log_date) is created here via the model tags.
func RunMigrations(db *gorm.DB) error {
	log.Printf("Running migrations (%s)", db.Dialector.Name())
	return db.AutoMigrate(
		&models.User{},
		&models.DailyLog{},
	)
}
