package testutil

import (
	"smart-assistant-api/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewInMemoryDB creates an in-memory SQLite DB and runs migrations.
func NewInMemoryDB() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Task{},
		&models.ChatMessage{},
		&models.AnalyticsEvent{},
		&models.UserSettings{},
	); err != nil {
		return nil, err
	}
	if err := db.Create(&models.User{
		ID:           models.DemoUserID,
		Username:     "demo",
		Email:        "demo@example.com",
		PasswordHash: "unused",
	}).Error; err != nil {
		return nil, err
	}
	return db, nil
}
