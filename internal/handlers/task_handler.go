package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"smart-assistant-api/internal/models"
	"smart-assistant-api/internal/realtime"
	"smart-assistant-api/internal/tasks"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TaskHandler serves the /api/tasks namespace over an injected task service.
type TaskHandler struct {
	tasks *tasks.Service
	hub   *realtime.Hub
	log   *zap.Logger
}

// NewTaskHandler constructs a task handler.
func NewTaskHandler(taskSvc *tasks.Service, hub *realtime.Hub, log *zap.Logger) *TaskHandler {
	return &TaskHandler{tasks: taskSvc, hub: hub, log: log}
}

// CreateTaskRequest represents the request payload for creating a task
type CreateTaskRequest struct {
	Title       string              `json:"title" binding:"required"`
	Description string              `json:"description"`
	Priority    models.TaskPriority `json:"priority"`
	DueDate     *time.Time          `json:"due_date"`
}

// UpdateTaskRequest is a full-field replacement payload. Fields left out are
// written as their zero value; callers must supply everything being kept.
type UpdateTaskRequest struct {
	Title       string              `json:"title" binding:"required"`
	Description string              `json:"description"`
	Status      models.TaskStatus   `json:"status" binding:"required"`
	Priority    models.TaskPriority `json:"priority" binding:"required"`
	DueDate     *time.Time          `json:"due_date"`
}

// UpdateTaskStatusRequest represents a minimal request to change status
type UpdateTaskStatusRequest struct {
	Status models.TaskStatus `json:"status" binding:"required"`
}

// GetTasks handles GET /api/tasks
func (h *TaskHandler) GetTasks(c *gin.Context) {
	list, err := h.tasks.List(models.DemoUserID)
	if err != nil {
		h.log.Error("failed to fetch tasks", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch tasks"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "tasks": list})
}

// GetTaskByID handles GET /api/tasks/:id
func (h *TaskHandler) GetTaskByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	task, err := h.tasks.Get(models.DemoUserID, id)
	if errors.Is(err, tasks.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Task not found"})
		return
	}
	if err != nil {
		h.log.Error("failed to fetch task", zap.Uint("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch task"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "task": task})
}

// CreateTask handles POST /api/tasks
func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Title is required"})
		return
	}

	task, err := h.tasks.Create(models.DemoUserID, tasks.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	})
	if errors.Is(err, tasks.ErrTitleRequired) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Title is required"})
		return
	}
	if err != nil {
		h.log.Error("failed to create task", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to create task"})
		return
	}

	h.hub.BroadcastEvent(models.DemoUserID, "task_created", task.ID)
	c.JSON(http.StatusCreated, gin.H{"success": true, "task": task})
}

// UpdateTask handles PUT /api/tasks/:id
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	task, err := h.tasks.Update(models.DemoUserID, id, tasks.UpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	})
	if errors.Is(err, tasks.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Task not found"})
		return
	}
	if errors.Is(err, tasks.ErrTitleRequired) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Title is required"})
		return
	}
	if err != nil {
		h.log.Error("failed to update task", zap.Uint("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update task"})
		return
	}

	h.hub.BroadcastEvent(models.DemoUserID, "task_updated", task.ID)
	c.JSON(http.StatusOK, gin.H{"success": true, "task": task})
}

// UpdateTaskStatus handles PATCH /api/tasks/:id/status
func (h *TaskHandler) UpdateTaskStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateTaskStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	task, err := h.tasks.UpdateStatus(models.DemoUserID, id, req.Status)
	if errors.Is(err, tasks.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Task not found"})
		return
	}
	if err != nil {
		h.log.Error("failed to update status", zap.Uint("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update status"})
		return
	}

	h.hub.BroadcastEvent(models.DemoUserID, "task_updated", task.ID)
	c.JSON(http.StatusOK, gin.H{"success": true, "task": task})
}

// DeleteTask handles DELETE /api/tasks/:id
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	err := h.tasks.Delete(models.DemoUserID, id)
	if errors.Is(err, tasks.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Task not found"})
		return
	}
	if err != nil {
		h.log.Error("failed to delete task", zap.Uint("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to delete task"})
		return
	}

	h.hub.BroadcastEvent(models.DemoUserID, "task_deleted", id)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Task deleted successfully"})
}

// GetTaskStats handles GET /api/tasks/stats
func (h *TaskHandler) GetTaskStats(c *gin.Context) {
	summary, err := h.tasks.Stats(models.DemoUserID, time.Now())
	if err != nil {
		h.log.Error("failed to compute task stats", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch task statistics"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "summary": summary})
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid task id"})
		return 0, false
	}
	return uint(id), true
}
