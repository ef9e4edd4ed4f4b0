package handlers

import (
	"net/http"

	"smart-assistant-api/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SettingsHandler serves the single-row user preferences.
type SettingsHandler struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewSettingsHandler constructs a settings handler.
func NewSettingsHandler(db *gorm.DB, log *zap.Logger) *SettingsHandler {
	return &SettingsHandler{db: db, log: log}
}

// UpdateSettingsRequest carries the full preference set; settings are
// replaced, not patched.
type UpdateSettingsRequest struct {
	Theme         string `json:"theme" binding:"required"`
	Notifications *bool  `json:"notifications" binding:"required"`
	Timezone      string `json:"timezone" binding:"required"`
	Language      string `json:"language" binding:"required"`
}

func (h *SettingsHandler) load() (*models.UserSettings, error) {
	var settings models.UserSettings
	err := h.db.Where(models.UserSettings{UserID: models.DemoUserID}).
		Attrs(models.UserSettings{
			Theme:         "light",
			Notifications: true,
			Timezone:      "UTC",
			Language:      "en",
		}).
		FirstOrCreate(&settings).Error
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// GetSettings handles GET /api/settings
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	settings, err := h.load()
	if err != nil {
		h.log.Error("failed to load settings", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch settings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "settings": settings})
}

// UpdateSettings handles PUT /api/settings
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	settings, err := h.load()
	if err != nil {
		h.log.Error("failed to load settings", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update settings"})
		return
	}

	settings.Theme = req.Theme
	settings.Notifications = *req.Notifications
	settings.Timezone = req.Timezone
	settings.Language = req.Language

	if err := h.db.Save(settings).Error; err != nil {
		h.log.Error("failed to save settings", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update settings"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "settings": settings})
}
