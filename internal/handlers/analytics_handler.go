package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"smart-assistant-api/internal/analytics"
	"smart-assistant-api/internal/cache"
	"smart-assistant-api/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const overviewCacheKey = "overview"
const overviewCacheTTL = 30 * time.Second

// AnalyticsHandler serves the /api/analytics namespace. The overview payload
// is briefly cached; the dashboard polls it on every view switch.
type AnalyticsHandler struct {
	svc   *analytics.Service
	cache *cache.Cache[string, *analytics.Overview]
	log   *zap.Logger
}

// NewAnalyticsHandler constructs an analytics handler.
func NewAnalyticsHandler(svc *analytics.Service, log *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		svc:   svc,
		cache: cache.New[string, *analytics.Overview](),
		log:   log,
	}
}

// GetOverview handles GET /api/analytics/overview
func (h *AnalyticsHandler) GetOverview(c *gin.Context) {
	overview, ok := h.cache.Get(overviewCacheKey)
	if !ok {
		var err error
		overview, err = h.svc.Overview(models.DemoUserID)
		if err != nil {
			h.log.Error("failed to compute overview", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch analytics overview"})
			return
		}
		h.cache.Set(overviewCacheKey, overview, overviewCacheTTL)
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"overview":  overview,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// GetTaskTrends handles GET /api/analytics/tasks/trends
func (h *AnalyticsHandler) GetTaskTrends(c *gin.Context) {
	period := c.DefaultQuery("period", "7d")

	trends, err := h.svc.TaskTrends(models.DemoUserID, period)
	if err != nil {
		h.log.Error("failed to compute trends", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch task trends"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":               true,
		"trends":                trends.Points,
		"priority_distribution": trends.PriorityDistribution,
		"period":                trends.Period,
		"timestamp":             time.Now().Format(time.RFC3339),
	})
}

// GetPerformance handles GET /api/analytics/performance
func (h *AnalyticsHandler) GetPerformance(c *gin.Context) {
	perf, err := h.svc.Performance(models.DemoUserID)
	if err != nil {
		h.log.Error("failed to compute performance", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch performance metrics"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"performance": perf,
		"timestamp":   time.Now().Format(time.RFC3339),
	})
}

// GetActivityHeatmap handles GET /api/analytics/activity/heatmap
func (h *AnalyticsHandler) GetActivityHeatmap(c *gin.Context) {
	heatmap, err := h.svc.ActivityHeatmap(models.DemoUserID)
	if err != nil {
		h.log.Error("failed to compute heatmap", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch activity heatmap"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"heatmap":   heatmap,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// LogEventRequest is the payload for POST /api/analytics/event.
type LogEventRequest struct {
	EventType string         `json:"event_type"`
	EventData map[string]any `json:"event_data"`
}

// LogEvent handles POST /api/analytics/event
func (h *AnalyticsHandler) LogEvent(c *gin.Context) {
	var req LogEventRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.EventType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Event type is required"})
		return
	}

	if err := h.svc.LogEvent(models.DemoUserID, req.EventType, req.EventData); err != nil {
		h.log.Error("failed to log event", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to log event"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Event logged successfully"})
}

// Export handles GET /api/analytics/export?format=json|csv
func (h *AnalyticsHandler) Export(c *gin.Context) {
	data, err := h.svc.Export(models.DemoUserID)
	if err != nil {
		h.log.Error("failed to export data", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to export data"})
		return
	}

	if c.DefaultQuery("format", "json") == "csv" {
		var b strings.Builder
		b.WriteString("Type,Date,Data\n")
		for _, t := range data.Tasks {
			fmt.Fprintf(&b, "Task,%q,%q\n", t.CreatedAt.Format(time.RFC3339), t.Title)
		}
		for _, m := range data.ChatMessages {
			fmt.Fprintf(&b, "Chat,%q,%q\n", m.CreatedAt.Format(time.RFC3339), m.Message)
		}
		c.Header("Content-Disposition", `attachment; filename="analytics-export.csv"`)
		c.Data(http.StatusOK, "text/csv", []byte(b.String()))
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}
