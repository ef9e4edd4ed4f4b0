package handlers

import (
	"net/http"
	"time"

	"smart-assistant-api/internal/cache"
	"smart-assistant-api/internal/weather"

	"github.com/gin-gonic/gin"
)

const currentWeatherKey = "current"
const currentWeatherTTL = time.Minute

// WeatherHandler serves the mock weather namespace. Current conditions are
// cached for a minute so the jitter doesn't flicker between widget refreshes.
type WeatherHandler struct {
	svc   *weather.Service
	cache *cache.Cache[string, weather.Current]
}

// NewWeatherHandler constructs a weather handler.
func NewWeatherHandler(svc *weather.Service) *WeatherHandler {
	return &WeatherHandler{svc: svc, cache: cache.New[string, weather.Current]()}
}

// GetCurrent handles GET /api/weather/current
func (h *WeatherHandler) GetCurrent(c *gin.Context) {
	current, ok := h.cache.Get(currentWeatherKey)
	if !ok {
		current = h.svc.Current()
		h.cache.Set(currentWeatherKey, current, currentWeatherTTL)
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "weather": current})
}

// GetForecast handles GET /api/weather/forecast
func (h *WeatherHandler) GetForecast(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"forecast": h.svc.Forecast(),
		"hourly":   h.svc.Hourly(),
	})
}

// GetHourly handles GET /api/weather/hourly
func (h *WeatherHandler) GetHourly(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "hourly": h.svc.Hourly()})
}

// GetByLocation handles GET /api/weather/location/:city
func (h *WeatherHandler) GetByLocation(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "weather": h.svc.ForLocation(c.Param("city"))})
}

// GetAlerts handles GET /api/weather/alerts
func (h *WeatherHandler) GetAlerts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "alerts": h.svc.Alerts()})
}
