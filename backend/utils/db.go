package utils

import (
	"fmt"

	"gurukul/backend/config"
	"gurukul/backend/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func InitDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates or updates the full schema. Shared with the test setup,
// which runs it against an in-memory database.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Course{},
		&models.Lesson{},
		&models.VideoCheckpoint{},
		&models.ProgressEntry{},
		&models.CompletedLesson{},
		&models.QuizScore{},
		&models.Quiz{},
		&models.QuizQuestion{},
		&models.Discussion{},
		&models.DiscussionReply{},
	)
}
