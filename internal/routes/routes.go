package routes

import (
	"net/http"

	"smart-assistant-api/internal/handlers"

	"github.com/gin-gonic/gin"
)

// Deps bundles the constructed handlers and the CORS origin for wiring.
type Deps struct {
	AllowedOrigin string
	Tasks         *handlers.TaskHandler
	Chat          *handlers.ChatHandler
	Analytics     *handlers.AnalyticsHandler
	Weather       *handlers.WeatherHandler
	Settings      *handlers.SettingsHandler
	WS            *handlers.WSHandler
}

// Setup builds the gin engine with all API namespaces.
func Setup(deps Deps) *gin.Engine {
	ginRouter := gin.Default()

	origin := deps.AllowedOrigin
	if origin == "" {
		origin = "*"
	}

	// CORS middleware (for frontend integration)
	ginRouter.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Health check endpoint
	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Smart Assistant API is running",
		})
	})

	api := ginRouter.Group("/api")
	{
		api.GET("/tasks", deps.Tasks.GetTasks)
		api.GET("/tasks/stats", deps.Tasks.GetTaskStats)
		api.GET("/tasks/:id", deps.Tasks.GetTaskByID)
		api.POST("/tasks", deps.Tasks.CreateTask)
		api.PUT("/tasks/:id", deps.Tasks.UpdateTask)
		api.PATCH("/tasks/:id/status", deps.Tasks.UpdateTaskStatus)
		api.DELETE("/tasks/:id", deps.Tasks.DeleteTask)

		api.GET("/chat/history", deps.Chat.GetHistory)
		api.POST("/chat/message", deps.Chat.SendMessage)
		api.DELETE("/chat/history", deps.Chat.ClearHistory)
		api.GET("/chat/stats", deps.Chat.GetStats)

		api.GET("/analytics/overview", deps.Analytics.GetOverview)
		api.GET("/analytics/tasks/trends", deps.Analytics.GetTaskTrends)
		api.GET("/analytics/performance", deps.Analytics.GetPerformance)
		api.GET("/analytics/activity/heatmap", deps.Analytics.GetActivityHeatmap)
		api.POST("/analytics/event", deps.Analytics.LogEvent)
		api.GET("/analytics/export", deps.Analytics.Export)

		api.GET("/weather/current", deps.Weather.GetCurrent)
		api.GET("/weather/forecast", deps.Weather.GetForecast)
		api.GET("/weather/hourly", deps.Weather.GetHourly)
		api.GET("/weather/location/:city", deps.Weather.GetByLocation)
		api.GET("/weather/alerts", deps.Weather.GetAlerts)

		api.GET("/settings", deps.Settings.GetSettings)
		api.PUT("/settings", deps.Settings.UpdateSettings)
	}

	ginRouter.GET("/ws", deps.WS.Handle)

	return ginRouter
}
