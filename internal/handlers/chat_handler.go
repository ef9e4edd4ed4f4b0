package handlers

import (
	"net/http"
	"strings"
	"time"

	"smart-assistant-api/internal/chat"
	"smart-assistant-api/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ChatHandler serves the /api/chat namespace: history, conversation turns and
// message statistics.
type ChatHandler struct {
	db     *gorm.DB
	router *chat.Router
	log    *zap.Logger
}

// NewChatHandler constructs a chat handler.
func NewChatHandler(db *gorm.DB, router *chat.Router, log *zap.Logger) *ChatHandler {
	return &ChatHandler{db: db, router: router, log: log}
}

// SendMessageRequest is the conversation-turn payload.
type SendMessageRequest struct {
	Message string `json:"message"`
}

// GetHistory handles GET /api/chat/history
// Returns the last 50 messages in chronological order.
func (h *ChatHandler) GetHistory(c *gin.Context) {
	var messages []models.ChatMessage
	err := h.db.Where("user_id = ?", models.DemoUserID).
		Order("created_at DESC, id DESC").
		Limit(50).
		Find(&messages).Error
	if err != nil {
		h.log.Error("failed to fetch chat history", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch chat history"})
		return
	}

	// Query is newest-first to apply the cap; the client wants oldest-first.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "messages": messages})
}

// SendMessage handles POST /api/chat/message
// Stores the user message, produces the assistant reply and stores it too.
func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Message is required"})
		return
	}
	text := strings.TrimSpace(req.Message)

	userMsg := models.ChatMessage{
		UserID:  models.DemoUserID,
		Message: text,
		Type:    models.MessageTypeUser,
	}
	if err := h.db.Create(&userMsg).Error; err != nil {
		h.log.Error("failed to store user message", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to process message"})
		return
	}

	reply := h.router.Respond(text)

	aiMsg := models.ChatMessage{
		UserID:  models.DemoUserID,
		Message: reply,
		Type:    models.MessageTypeAI,
	}
	if err := h.db.Create(&aiMsg).Error; err != nil {
		h.log.Error("failed to store ai message", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to process message"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"userMessage": gin.H{
			"id":        userMsg.ID,
			"message":   userMsg.Message,
			"type":      userMsg.Type,
			"timestamp": userMsg.CreatedAt.Format(time.RFC3339),
		},
		"aiResponse": gin.H{
			"id":        aiMsg.ID,
			"message":   aiMsg.Message,
			"type":      aiMsg.Type,
			"timestamp": aiMsg.CreatedAt.Format(time.RFC3339),
		},
	})
}

// ClearHistory handles DELETE /api/chat/history
func (h *ChatHandler) ClearHistory(c *gin.Context) {
	err := h.db.Where("user_id = ?", models.DemoUserID).Delete(&models.ChatMessage{}).Error
	if err != nil {
		h.log.Error("failed to clear chat history", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to clear chat history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Chat history cleared"})
}

type chatTotals struct {
	TotalMessages int64   `json:"total_messages"`
	UserMessages  int64   `json:"user_messages"`
	AIMessages    int64   `json:"ai_messages" gorm:"column:ai_messages"`
	LastChatDate  *string `json:"last_chat_date" gorm:"column:last_chat_date"`
}

type dailyActivity struct {
	Date         string `json:"date"`
	MessageCount int64  `json:"message_count"`
}

// GetStats handles GET /api/chat/stats
func (h *ChatHandler) GetStats(c *gin.Context) {
	var totals chatTotals
	err := h.db.Model(&models.ChatMessage{}).
		Select(`COUNT(*) as total_messages,
			COUNT(CASE WHEN type = 'user' THEN 1 END) as user_messages,
			COUNT(CASE WHEN type = 'ai' THEN 1 END) as ai_messages,
			DATE(MAX(created_at)) as last_chat_date`).
		Where("user_id = ?", models.DemoUserID).
		Scan(&totals).Error
	if err != nil {
		h.log.Error("failed to fetch chat stats", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch chat statistics"})
		return
	}

	var recent []dailyActivity
	err = h.db.Model(&models.ChatMessage{}).
		Select("DATE(created_at) as date, COUNT(*) as message_count").
		Where("user_id = ? AND created_at >= ?", models.DemoUserID, time.Now().AddDate(0, 0, -7)).
		Group("DATE(created_at)").
		Order("date DESC").
		Scan(&recent).Error
	if err != nil {
		h.log.Error("failed to fetch chat activity", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch chat statistics"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "stats": totals, "recentActivity": recent})
}
