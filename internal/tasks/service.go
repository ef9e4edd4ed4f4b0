// Package tasks implements CRUD over the tasks table with the dashboard's
// fixed ordering rules, plus the narrow queries the chat assistant needs.
package tasks

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"smart-assistant-api/internal/models"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when an id does not exist or belongs to
	// another user. Callers translate it to a 404-style outcome.
	ErrNotFound = errors.New("task not found")

	// ErrTitleRequired is returned when a create or update carries an
	// empty title.
	ErrTitleRequired = errors.New("title is required")
)

// Lists are ordered by status (pending, in-progress, completed), then
// priority (high, medium, low), then due date ascending.
const listOrder = `CASE status
		WHEN 'pending' THEN 1
		WHEN 'in-progress' THEN 2
		WHEN 'completed' THEN 3
	END,
	CASE priority
		WHEN 'high' THEN 1
		WHEN 'medium' THEN 2
		WHEN 'low' THEN 3
	END,
	due_date ASC`

const priorityOrder = `CASE priority
		WHEN 'high' THEN 1
		WHEN 'medium' THEN 2
		WHEN 'low' THEN 3
	END,
	due_date ASC`

// Service exposes task operations over an injected database handle.
type Service struct {
	db *gorm.DB
}

// NewService constructs a task service.
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// CreateInput carries the client-supplied fields for a new task.
type CreateInput struct {
	Title       string
	Description string
	Priority    models.TaskPriority
	DueDate     *time.Time
}

// List returns all tasks for a user in the fixed dashboard order.
func (s *Service) List(userID uint) ([]models.Task, error) {
	var tasks []models.Task
	err := s.db.Where("user_id = ?", userID).Order(listOrder).Find(&tasks).Error
	return tasks, err
}

// Get returns one task by id scoped to its owner.
func (s *Service) Get(userID, id uint) (*models.Task, error) {
	var task models.Task
	err := s.db.Where("id = ? AND user_id = ?", id, userID).First(&task).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// Create stores a new task. Title is required; priority defaults to medium.
func (s *Service) Create(userID uint, in CreateInput) (*models.Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	priority := in.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}

	task := models.Task{
		UserID:      userID,
		Title:       title,
		Description: in.Description,
		Status:      models.StatusPending,
		Priority:    priority,
		DueDate:     in.DueDate,
	}
	if err := s.db.Create(&task).Error; err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return &task, nil
}

// UpdateInput carries the full replacement fields for an update. Unspecified
// fields are not defaulted; callers must supply every field being kept.
type UpdateInput struct {
	Title       string
	Description string
	Status      models.TaskStatus
	Priority    models.TaskPriority
	DueDate     *time.Time
}

// Update replaces all mutable fields of a task and touches updated_at.
func (s *Service) Update(userID, id uint, in UpdateInput) (*models.Task, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, ErrTitleRequired
	}

	result := s.db.Model(&models.Task{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]any{
			"title":       strings.TrimSpace(in.Title),
			"description": in.Description,
			"status":      in.Status,
			"priority":    in.Priority,
			"due_date":    in.DueDate,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.Get(userID, id)
}

// UpdateStatus changes only the status column of a task.
func (s *Service) UpdateStatus(userID, id uint, status models.TaskStatus) (*models.Task, error) {
	result := s.db.Model(&models.Task{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("status", status)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.Get(userID, id)
}

// Delete hard-deletes a task by id. Deleting an already-deleted id reports
// ErrNotFound, never a crash.
func (s *Service) Delete(userID, id uint) error {
	result := s.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Task{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Summary aggregates headline task counts. Overdue is computed against the
// supplied now, never read from a column.
type Summary struct {
	Total      int64 `json:"total"`
	Completed  int64 `json:"completed"`
	Pending    int64 `json:"pending"`
	InProgress int64 `json:"in_progress"`
	Overdue    int64 `json:"overdue"`
}

// Stats returns the headline counts for a user.
func (s *Service) Stats(userID uint, now time.Time) (*Summary, error) {
	var sum Summary
	err := s.db.Model(&models.Task{}).
		Select(`COUNT(*) as total,
			COUNT(CASE WHEN status = 'completed' THEN 1 END) as completed,
			COUNT(CASE WHEN status = 'pending' THEN 1 END) as pending,
			COUNT(CASE WHEN status = 'in-progress' THEN 1 END) as in_progress,
			COUNT(CASE WHEN due_date < ? AND status != 'completed' THEN 1 END) as overdue`, now).
		Where("user_id = ?", userID).
		Scan(&sum).Error
	if err != nil {
		return nil, err
	}
	return &sum, nil
}

// Pending returns up to limit non-completed tasks ordered by priority then
// due date. limit <= 0 means no cap.
func (s *Service) Pending(userID uint, limit int) ([]models.Task, error) {
	var tasks []models.Task
	query := s.db.Where("user_id = ? AND status != 'completed'", userID).Order(priorityOrder)
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&tasks).Error
	return tasks, err
}

// PendingCount counts non-completed tasks for a user.
func (s *Service) PendingCount(userID uint) (int64, error) {
	var count int64
	err := s.db.Model(&models.Task{}).
		Where("user_id = ? AND status != 'completed'", userID).
		Count(&count).Error
	return count, err
}

// Overdue returns all tasks past their due date and not completed, ordered by
// due date ascending.
func (s *Service) Overdue(userID uint, now time.Time) ([]models.Task, error) {
	var tasks []models.Task
	err := s.db.
		Where("user_id = ? AND due_date < ? AND status != 'completed'", userID, now).
		Order("due_date ASC").
		Find(&tasks).Error
	return tasks, err
}

// DueToday returns non-completed tasks due on the calendar date of now.
func (s *Service) DueToday(userID uint, now time.Time) ([]models.Task, error) {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	end := start.Add(24 * time.Hour)

	var tasks []models.Task
	err := s.db.
		Where("user_id = ? AND due_date >= ? AND due_date < ? AND status != 'completed'", userID, start, end).
		Order(priorityOrder).
		Find(&tasks).Error
	return tasks, err
}

// CompletedTodayCount counts tasks whose last update landed on today's
// calendar date with a completed status.
func (s *Service) CompletedTodayCount(userID uint, now time.Time) (int64, error) {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	end := start.Add(24 * time.Hour)

	var count int64
	err := s.db.Model(&models.Task{}).
		Where("user_id = ? AND status = 'completed' AND updated_at >= ? AND updated_at < ?", userID, start, end).
		Count(&count).Error
	return count, err
}

// FindMatchable locates the highest-priority non-completed task whose title
// contains name, case-insensitively.
func (s *Service) FindMatchable(userID uint, name string) (*models.Task, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(name)) + "%"

	var task models.Task
	err := s.db.
		Where("user_id = ? AND status != 'completed' AND lower(title) LIKE ?", userID, pattern).
		Order(priorityOrder).
		First(&task).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// Complete marks a task completed, touching updated_at.
func (s *Service) Complete(userID, id uint) (*models.Task, error) {
	return s.UpdateStatus(userID, id, models.StatusCompleted)
}
