// Package analytics computes the derived dashboard metrics from stored tasks,
// chat messages and logged events.
package analytics

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"smart-assistant-api/internal/models"

	"gorm.io/gorm"
)

// Service runs aggregate queries scoped to one owner. The clock is a field so
// tests can pin "now"; the rng feeds the synthetic heatmap fill.
type Service struct {
	db  *gorm.DB
	rng *rand.Rand
	now func() time.Time
}

// NewService constructs an analytics service.
func NewService(db *gorm.DB, rng *rand.Rand) *Service {
	return &Service{db: db, rng: rng, now: time.Now}
}

// TaskStats holds headline task counts.
type TaskStats struct {
	TotalTasks      int64 `json:"total_tasks"`
	CompletedTasks  int64 `json:"completed_tasks"`
	PendingTasks    int64 `json:"pending_tasks"`
	InProgressTasks int64 `json:"in_progress_tasks"`
	Overdue         int64 `json:"overdue_tasks" gorm:"column:overdue_tasks"`
}

// ChatStats holds message volume counts.
type ChatStats struct {
	TotalMessages int64 `json:"total_messages"`
	UserMessages  int64 `json:"user_messages"`
	AIResponses   int64 `json:"ai_responses" gorm:"column:ai_responses"`
}

// Productivity is the composite score block shown on the dashboard.
type Productivity struct {
	Score          float64 `json:"score"`
	CompletionRate int     `json:"completion_rate"`
	Trend          string  `json:"trend"`
}

// ActivityBucket is one (day, event type) count from the event log.
type ActivityBucket struct {
	Date          string `json:"date"`
	EventType     string `json:"event_type"`
	ActivityCount int64  `json:"activity_count"`
}

// Overview is the dashboard's top-level analytics payload.
type Overview struct {
	Tasks        TaskStats        `json:"tasks"`
	Chat         ChatStats        `json:"chat"`
	Productivity Productivity     `json:"productivity"`
	Activity     []ActivityBucket `json:"activity"`
}

// CompletionRate is round(100 * completed / total); 0 when there are no tasks.
func CompletionRate(completed, total int64) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

// ProductivityScore combines the completion rate with an overdue penalty,
// clamped to [0,100].
func ProductivityScore(completionRate int, overdue int64) float64 {
	penalty := 40.0
	if overdue > 0 {
		penalty = math.Max(0, 40-float64(overdue)*10)
	}
	score := float64(completionRate)*0.6 + penalty
	return math.Max(0, math.Min(100, score))
}

// TrendLabel buckets a completion rate into a display label.
func TrendLabel(completionRate int) string {
	switch {
	case completionRate > 75:
		return "excellent"
	case completionRate > 50:
		return "good"
	default:
		return "needs_improvement"
	}
}

// Overview aggregates the headline stats, chat volume, last-7-days activity
// and the productivity block for one owner.
func (s *Service) Overview(userID uint) (*Overview, error) {
	now := s.now()

	var taskStats TaskStats
	err := s.db.Model(&models.Task{}).
		Select(`COUNT(*) as total_tasks,
			COUNT(CASE WHEN status = 'completed' THEN 1 END) as completed_tasks,
			COUNT(CASE WHEN status = 'pending' THEN 1 END) as pending_tasks,
			COUNT(CASE WHEN status = 'in-progress' THEN 1 END) as in_progress_tasks,
			COUNT(CASE WHEN due_date < ? AND status != 'completed' THEN 1 END) as overdue_tasks`, now).
		Where("user_id = ?", userID).
		Scan(&taskStats).Error
	if err != nil {
		return nil, fmt.Errorf("task stats: %w", err)
	}

	var chatStats ChatStats
	err = s.db.Model(&models.ChatMessage{}).
		Select(`COUNT(*) as total_messages,
			COUNT(CASE WHEN type = 'user' THEN 1 END) as user_messages,
			COUNT(CASE WHEN type = 'ai' THEN 1 END) as ai_responses`).
		Where("user_id = ?", userID).
		Scan(&chatStats).Error
	if err != nil {
		return nil, fmt.Errorf("chat stats: %w", err)
	}

	var activity []ActivityBucket
	err = s.db.Model(&models.AnalyticsEvent{}).
		Select("DATE(created_at) as date, event_type, COUNT(*) as activity_count").
		Where("user_id = ? AND created_at >= ?", userID, now.AddDate(0, 0, -7)).
		Group("DATE(created_at), event_type").
		Order("date DESC").
		Scan(&activity).Error
	if err != nil {
		return nil, fmt.Errorf("activity: %w", err)
	}

	rate := CompletionRate(taskStats.CompletedTasks, taskStats.TotalTasks)
	return &Overview{
		Tasks: taskStats,
		Chat:  chatStats,
		Productivity: Productivity{
			Score:          ProductivityScore(rate, taskStats.Overdue),
			CompletionRate: rate,
			Trend:          TrendLabel(rate),
		},
		Activity: activity,
	}, nil
}

// TrendPoint is one day of status counts in a trend series.
type TrendPoint struct {
	Date       string `json:"date"`
	Completed  int64  `json:"completed"`
	Pending    int64  `json:"pending"`
	InProgress int64  `json:"in_progress"`
}

// PriorityStat is the per-priority slice of the task distribution.
type PriorityStat struct {
	Priority       string `json:"priority"`
	Count          int64  `json:"count"`
	CompletedCount int64  `json:"completed_count"`
}

// Trends holds the per-day status series plus the priority distribution.
type Trends struct {
	Points               []TrendPoint   `json:"trends"`
	PriorityDistribution []PriorityStat `json:"priority_distribution"`
	Period               string         `json:"period"`
}

// TaskTrends groups task updates per day over the requested period
// (24h, 7d or 30d; anything else falls back to 7d).
func (s *Service) TaskTrends(userID uint, period string) (*Trends, error) {
	now := s.now()

	var since time.Time
	switch period {
	case "24h":
		since = now.AddDate(0, 0, -1)
	case "30d":
		since = now.AddDate(0, 0, -30)
	default:
		period = "7d"
		since = now.AddDate(0, 0, -7)
	}

	var points []TrendPoint
	err := s.db.Model(&models.Task{}).
		Select(`DATE(updated_at) as date,
			COUNT(CASE WHEN status = 'completed' THEN 1 END) as completed,
			COUNT(CASE WHEN status = 'pending' THEN 1 END) as pending,
			COUNT(CASE WHEN status = 'in-progress' THEN 1 END) as in_progress`).
		Where("user_id = ? AND updated_at >= ?", userID, since).
		Group("DATE(updated_at)").
		Order("date ASC").
		Scan(&points).Error
	if err != nil {
		return nil, fmt.Errorf("trends: %w", err)
	}

	var priorities []PriorityStat
	err = s.db.Model(&models.Task{}).
		Select(`priority,
			COUNT(*) as count,
			COUNT(CASE WHEN status = 'completed' THEN 1 END) as completed_count`).
		Where("user_id = ?", userID).
		Group("priority").
		Scan(&priorities).Error
	if err != nil {
		return nil, fmt.Errorf("priority distribution: %w", err)
	}

	return &Trends{Points: points, PriorityDistribution: priorities, Period: period}, nil
}

// CompletionMetric is the average completion time for one priority band.
type CompletionMetric struct {
	Priority          string  `json:"priority"`
	AvgCompletionDays float64 `json:"avg_completion_days"`
	TotalCompleted    int64   `json:"total_completed"`
}

// WeekBucket is one ISO-week slice of the trailing performance window.
type WeekBucket struct {
	Week      string `json:"week"`
	Year      string `json:"year"`
	Completed int64  `json:"completed"`
	Total     int64  `json:"total"`
}

// Insight is an advisory string with a display category.
type Insight struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Icon    string `json:"icon"`
}

// Performance bundles completion metrics, weekly buckets and insights.
type Performance struct {
	CompletionMetrics []CompletionMetric `json:"completion_metrics"`
	WeeklyPerformance []WeekBucket       `json:"weekly_performance"`
	Insights          []Insight          `json:"insights"`
}

// Performance computes per-priority completion times, the trailing 8 ISO-week
// buckets in chronological order, and the ordered insight list.
func (s *Service) Performance(userID uint) (*Performance, error) {
	now := s.now()

	var metrics []CompletionMetric
	err := s.db.Model(&models.Task{}).
		Select(`priority,
			AVG(JULIANDAY(updated_at) - JULIANDAY(created_at)) as avg_completion_days,
			COUNT(*) as total_completed`).
		Where("user_id = ? AND status = 'completed'", userID).
		Group("priority").
		Scan(&metrics).Error
	if err != nil {
		return nil, fmt.Errorf("completion metrics: %w", err)
	}

	var weekly []WeekBucket
	err = s.db.Model(&models.Task{}).
		Select(`strftime('%W', created_at) as week,
			strftime('%Y', created_at) as year,
			COUNT(CASE WHEN status = 'completed' THEN 1 END) as completed,
			COUNT(*) as total`).
		Where("user_id = ? AND created_at >= ?", userID, now.AddDate(0, 0, -8*7)).
		Group("strftime('%Y-%W', created_at)").
		Order("year DESC, week DESC").
		Limit(8).
		Scan(&weekly).Error
	if err != nil {
		return nil, fmt.Errorf("weekly performance: %w", err)
	}
	// Query runs newest-first to apply the limit; callers want chronological.
	sort.SliceStable(weekly, func(i, j int) bool {
		if weekly[i].Year != weekly[j].Year {
			return weekly[i].Year < weekly[j].Year
		}
		return weekly[i].Week < weekly[j].Week
	})

	var overdue int64
	err = s.db.Model(&models.Task{}).
		Where("user_id = ? AND due_date < ? AND status != 'completed'", userID, now).
		Count(&overdue).Error
	if err != nil {
		return nil, fmt.Errorf("overdue count: %w", err)
	}

	return &Performance{
		CompletionMetrics: metrics,
		WeeklyPerformance: weekly,
		Insights:          buildInsights(metrics, overdue),
	}, nil
}

// buildInsights emits the completion-time insight (when any tasks completed)
// followed by the overdue/no-overdue insight. Order is part of the contract.
func buildInsights(metrics []CompletionMetric, overdue int64) []Insight {
	insights := []Insight{}

	if len(metrics) > 0 {
		// Mean of the per-priority averages, matching the reference math.
		var sum float64
		for _, m := range metrics {
			sum += m.AvgCompletionDays
		}
		avg := sum / float64(len(metrics))

		if avg < 2 {
			insights = append(insights, Insight{
				Type:    "positive",
				Message: "Great job! You complete tasks quickly on average.",
				Icon:    "🚀",
			})
		} else if avg > 5 {
			insights = append(insights, Insight{
				Type:    "suggestion",
				Message: "Consider breaking down larger tasks into smaller, manageable chunks.",
				Icon:    "💡",
			})
		}
	}

	if overdue > 0 {
		suffix := ""
		if overdue > 1 {
			suffix = "s"
		}
		insights = append(insights, Insight{
			Type:    "warning",
			Message: fmt.Sprintf("You have %d overdue task%s. Consider prioritizing them.", overdue, suffix),
			Icon:    "⚠️",
		})
	} else {
		insights = append(insights, Insight{
			Type:    "positive",
			Message: "Excellent! No overdue tasks. Keep up the great work!",
			Icon:    "✅",
		})
	}

	return insights
}

// HeatmapCell is one (day, hour) activity count.
type HeatmapCell struct {
	Date          string `json:"date"`
	Hour          int    `json:"hour"`
	ActivityCount int64  `json:"activity_count"`
}

const heatmapCellCap = 200

// ActivityHeatmap returns hour-bucketed event counts for the last 30 days,
// padded with synthetic demo activity and capped at 200 cells.
func (s *Service) ActivityHeatmap(userID uint) ([]HeatmapCell, error) {
	var cells []HeatmapCell
	err := s.db.Model(&models.AnalyticsEvent{}).
		Select(`DATE(created_at) as date,
			CAST(strftime('%H', created_at) AS INTEGER) as hour,
			COUNT(*) as activity_count`).
		Where("user_id = ? AND created_at >= ?", userID, s.now().AddDate(0, 0, -30)).
		Group("DATE(created_at), CAST(strftime('%H', created_at) AS INTEGER)").
		Order("date DESC, hour ASC").
		Scan(&cells).Error
	if err != nil {
		return nil, err
	}

	// Demo filler so the widget never renders empty; only busier hours show.
	now := s.now()
	for d := 29; d >= 0; d-- {
		date := now.AddDate(0, 0, -d).Format("2006-01-02")
		for h := 0; h < 24; h++ {
			activity := s.rng.Intn(20)
			if activity > 5 {
				cells = append(cells, HeatmapCell{Date: date, Hour: h, ActivityCount: int64(activity)})
			}
		}
	}

	if len(cells) > heatmapCellCap {
		cells = cells[:heatmapCellCap]
	}
	return cells, nil
}

// LogEvent appends one row to the analytics event log.
func (s *Service) LogEvent(userID uint, eventType string, eventData map[string]any) error {
	if eventType == "" {
		return fmt.Errorf("event type is required")
	}
	payload := "{}"
	if eventData != nil {
		raw, err := json.Marshal(eventData)
		if err != nil {
			return fmt.Errorf("encode event data: %w", err)
		}
		payload = string(raw)
	}
	return s.db.Create(&models.AnalyticsEvent{
		UserID:    userID,
		EventType: eventType,
		EventData: payload,
	}).Error
}

// ExportData is a full dump of one owner's stored rows.
type ExportData struct {
	Tasks        []models.Task           `json:"tasks"`
	ChatMessages []models.ChatMessage    `json:"chat_messages"`
	Analytics    []models.AnalyticsEvent `json:"analytics"`
	ExportedAt   time.Time               `json:"exported_at"`
}

// Export collects every row belonging to the owner.
func (s *Service) Export(userID uint) (*ExportData, error) {
	data := &ExportData{ExportedAt: s.now()}

	if err := s.db.Where("user_id = ?", userID).Find(&data.Tasks).Error; err != nil {
		return nil, err
	}
	if err := s.db.Where("user_id = ?", userID).Find(&data.ChatMessages).Error; err != nil {
		return nil, err
	}
	if err := s.db.Where("user_id = ?", userID).Find(&data.Analytics).Error; err != nil {
		return nil, err
	}
	return data, nil
}
