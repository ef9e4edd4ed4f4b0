package main

import (
	"log"
	"time"

	"smart-assistant-api/internal/analytics"
	"smart-assistant-api/internal/chat"
	"smart-assistant-api/internal/config"
	"smart-assistant-api/internal/database"
	"smart-assistant-api/internal/handlers"
	"smart-assistant-api/internal/random"
	"smart-assistant-api/internal/realtime"
	"smart-assistant-api/internal/routes"
	"smart-assistant-api/internal/tasks"
	"smart-assistant-api/internal/weather"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if parsed, err := zapcore.ParseLevel(level); err == nil {
		cfg.Level = zap.NewAtomicLevelAt(parsed)
	}
	return cfg.Build()
}

func main() {
	cfg := config.Load()

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatal("failed to build logger: ", err)
	}
	defer logger.Sync()

	db, err := database.Open(cfg.DatabasePath, logger)
	if err != nil {
		logger.Fatal("failed to open database", zap.Error(err))
	}

	// The rng is shared by request goroutines, so its source must be locked.
	rng := random.NewLockedRand(time.Now().UnixNano())
	if err := database.SeedDemoData(db, rng, logger); err != nil {
		logger.Fatal("failed to seed demo data", zap.Error(err))
	}

	hub := realtime.NewHub()
	taskSvc := tasks.NewService(db)
	analyticsSvc := analytics.NewService(db, rng)
	chatRouter := chat.NewRouter(taskSvc, analyticsSvc, rng, logger)
	weatherSvc := weather.NewService(rng)

	engine := routes.Setup(routes.Deps{
		AllowedOrigin: cfg.AllowedOrigin,
		Tasks:         handlers.NewTaskHandler(taskSvc, hub, logger),
		Chat:          handlers.NewChatHandler(db, chatRouter, logger),
		Analytics:     handlers.NewAnalyticsHandler(analyticsSvc, logger),
		Weather:       handlers.NewWeatherHandler(weatherSvc),
		Settings:      handlers.NewSettingsHandler(db, logger),
		WS:            handlers.NewWSHandler(hub, chatRouter, rng, logger),
	})

	addr := ":" + cfg.Port
	logger.Info("server starting", zap.String("addr", addr))
	if err := engine.Run(addr); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}
