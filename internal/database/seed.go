package database

import (
	"encoding/json"
	"math/rand"
	"time"

	"smart-assistant-api/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SeedDemoData inserts the demo user, a settings row and a handful of tasks
// and analytics events so a fresh install has something on the dashboard.
// It is a no-op when the tasks table already has rows.
func SeedDemoData(db *gorm.DB, rng *rand.Rand, log *zap.Logger) error {
	if err := db.Where(models.User{ID: models.DemoUserID}).
		Attrs(models.User{
			Username:     "demo",
			Email:        "demo@example.com",
			PasswordHash: "unused",
		}).
		FirstOrCreate(&models.User{}).Error; err != nil {
		return err
	}

	if err := db.Where(models.UserSettings{UserID: models.DemoUserID}).
		Attrs(models.UserSettings{
			Theme:         "light",
			Notifications: true,
			Timezone:      "UTC",
			Language:      "en",
		}).
		FirstOrCreate(&models.UserSettings{}).Error; err != nil {
		return err
	}

	var taskCount int64
	if err := db.Model(&models.Task{}).Count(&taskCount).Error; err != nil {
		return err
	}
	if taskCount > 0 {
		return nil
	}

	log.Info("inserting demo data")

	now := time.Now()
	due := func(d time.Duration) *time.Time {
		t := now.Add(d)
		return &t
	}

	demoTasks := []models.Task{
		{
			UserID:      models.DemoUserID,
			Title:       "Complete project proposal",
			Description: "Finalize the Smart Assistant Dashboard proposal with all requirements",
			Status:      models.StatusCompleted,
			Priority:    models.PriorityHigh,
			DueDate:     due(-24 * time.Hour),
		},
		{
			UserID:      models.DemoUserID,
			Title:       "Review code architecture",
			Description: "Analyze the current codebase and suggest improvements",
			Status:      models.StatusInProgress,
			Priority:    models.PriorityHigh,
			DueDate:     due(24 * time.Hour),
		},
		{
			UserID:      models.DemoUserID,
			Title:       "Design user interface mockups",
			Description: "Create beautiful mockups for the dashboard components",
			Status:      models.StatusPending,
			Priority:    models.PriorityMedium,
			DueDate:     due(48 * time.Hour),
		},
		{
			UserID:      models.DemoUserID,
			Title:       "Set up testing framework",
			Description: "Implement unit and integration tests for the application",
			Status:      models.StatusPending,
			Priority:    models.PriorityMedium,
			DueDate:     due(72 * time.Hour),
		},
		{
			UserID:      models.DemoUserID,
			Title:       "Deploy to production",
			Description: "Configure CI/CD pipeline and deploy to cloud platform",
			Status:      models.StatusPending,
			Priority:    models.PriorityLow,
			DueDate:     due(7 * 24 * time.Hour),
		},
	}
	if err := db.Create(&demoTasks).Error; err != nil {
		return err
	}

	eventTypes := []string{"page_view", "task_created", "task_completed", "chat_message", "login"}
	events := make([]models.AnalyticsEvent, 0, 50)
	for i := 0; i < 50; i++ {
		payload, _ := json.Marshal(map[string]any{
			"timestamp": now.Add(-time.Duration(rng.Float64() * float64(7*24*time.Hour))).Format(time.RFC3339),
			"value":     rng.Intn(100),
		})
		events = append(events, models.AnalyticsEvent{
			UserID:    models.DemoUserID,
			EventType: eventTypes[rng.Intn(len(eventTypes))],
			EventData: string(payload),
		})
	}
	if err := db.Create(&events).Error; err != nil {
		return err
	}

	log.Info("demo data inserted", zap.Int("tasks", len(demoTasks)), zap.Int("events", len(events)))
	return nil
}
