package database

import (
	"fmt"

	"smart-assistant-api/internal/models"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the SQLite database file (created if absent) and runs
// migrations. Using glebarez/sqlite which is a pure Go implementation (no
// CGO required). The returned handle is meant to be injected into services;
// there is no package-level connection.
func Open(path string, log *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Task{},
		&models.ChatMessage{},
		&models.AnalyticsEvent{},
		&models.UserSettings{},
	); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	log.Info("database connected and migrated", zap.String("path", path))
	return db, nil
}
