package chat

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"
	"time"

	"smart-assistant-api/internal/analytics"
	"smart-assistant-api/internal/models"
	"smart-assistant-api/internal/tasks"
	"smart-assistant-api/internal/testutil"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestRouter(t *testing.T) (*Router, *gorm.DB) {
	t.Helper()
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)

	r := NewRouter(
		tasks.NewService(db),
		analytics.NewService(db, rand.New(rand.NewSource(1))),
		rand.New(rand.NewSource(1)),
		zap.NewNop(),
	)
	return r, db
}

func seedTask(t *testing.T, db *gorm.DB, task models.Task) models.Task {
	t.Helper()
	task.UserID = models.DemoUserID
	require.NoError(t, db.Create(&task).Error)
	return task
}

func due(d time.Duration) *time.Time {
	ts := time.Now().Add(d)
	return &ts
}

func TestRespond_ShowTasks_Empty(t *testing.T) {
	r, _ := newTestRouter(t)
	reply := r.Respond("show my tasks")
	require.Contains(t, reply, "no pending tasks")
}

func TestRespond_ShowTasks_CappedAndOrdered(t *testing.T) {
	r, db := newTestRouter(t)

	for i := 0; i < 4; i++ {
		seedTask(t, db, models.Task{
			Title:    fmt.Sprintf("Low task %d", i),
			Status:   models.StatusPending,
			Priority: models.PriorityLow,
		})
	}
	seedTask(t, db, models.Task{Title: "Mid task", Status: models.StatusPending, Priority: models.PriorityMedium})
	seedTask(t, db, models.Task{Title: "Top task", Status: models.StatusInProgress, Priority: models.PriorityHigh})
	seedTask(t, db, models.Task{Title: "Done task", Status: models.StatusCompleted, Priority: models.PriorityHigh})

	reply := r.Respond("show my tasks")

	require.NotContains(t, reply, "Done task")
	lines := strings.Split(reply, "\n")
	require.Len(t, lines, 6) // header + 5 entries
	require.Contains(t, lines[1], "Top task")
	require.Contains(t, lines[2], "Mid task")
}

func TestRespond_CompleteTask(t *testing.T) {
	r, db := newTestRouter(t)
	seedTask(t, db, models.Task{Title: "Buy milk", Status: models.StatusPending, Priority: models.PriorityMedium})

	reply := r.Respond("complete buy milk")
	require.Contains(t, reply, "Buy milk")
	require.Contains(t, reply, "completed")

	var task models.Task
	require.NoError(t, db.Where("title = ?", "Buy milk").First(&task).Error)
	require.Equal(t, models.StatusCompleted, task.Status)
}

func TestRespond_CompleteTask_PrefersHigherPriority(t *testing.T) {
	r, db := newTestRouter(t)
	seedTask(t, db, models.Task{Title: "Report draft", Status: models.StatusPending, Priority: models.PriorityLow})
	seedTask(t, db, models.Task{Title: "Report review", Status: models.StatusPending, Priority: models.PriorityHigh})

	reply := r.Respond("finish report")
	require.Contains(t, reply, "Report review")
}

func TestRespond_CompleteTask_NotFoundMutatesNothing(t *testing.T) {
	r, db := newTestRouter(t)
	seedTask(t, db, models.Task{Title: "Buy milk", Status: models.StatusPending})

	reply := r.Respond("complete write novel")
	require.Contains(t, reply, "couldn't find")

	var count int64
	require.NoError(t, db.Model(&models.Task{}).Where("status = ?", models.StatusCompleted).Count(&count).Error)
	require.Zero(t, count)
}

func TestRespond_CreateTask(t *testing.T) {
	r, db := newTestRouter(t)

	reply := r.Respond("remind me to buy milk tomorrow urgent")
	require.Contains(t, reply, "Task created")
	require.Contains(t, reply, "Buy milk")
	require.Contains(t, reply, "high")

	var task models.Task
	require.NoError(t, db.Where("title = ?", "Buy milk").First(&task).Error)
	require.Equal(t, models.PriorityHigh, task.Priority)
	require.Equal(t, models.StatusPending, task.Status)
	require.NotNil(t, task.DueDate)
}

// Creation outranks every other rule, so a task phrase mentioning weather
// still creates a task.
func TestRespond_RuleOrder_CreationFirst(t *testing.T) {
	r, db := newTestRouter(t)

	reply := r.Respond("add task to check the weather forecast")
	require.Contains(t, reply, "Task created")

	var count int64
	require.NoError(t, db.Model(&models.Task{}).Count(&count).Error)
	require.Equal(t, int64(1), count)
}

// A creation phrase that strips down to nothing falls back to the raw
// fragment instead of persisting an untitled task.
func TestRespond_CreateTask_EmptyTitleFallsBackToPhrase(t *testing.T) {
	r, db := newTestRouter(t)

	reply := r.Respond("remind me to urgent tomorrow")
	require.Contains(t, reply, "Task created")

	var task models.Task
	require.NoError(t, db.First(&task).Error)
	require.Equal(t, "urgent tomorrow", task.Title)
}

func TestRespond_Overdue(t *testing.T) {
	r, db := newTestRouter(t)
	seedTask(t, db, models.Task{Title: "Late report", Status: models.StatusPending, DueDate: due(-72 * time.Hour)})
	seedTask(t, db, models.Task{Title: "Done late", Status: models.StatusCompleted, DueDate: due(-72 * time.Hour)})

	reply := r.Respond("what's overdue?")
	require.Contains(t, reply, "Late report")
	require.Contains(t, reply, "3 days overdue")
	require.NotContains(t, reply, "Done late")
}

func TestRespond_Overdue_NoneIsPositive(t *testing.T) {
	r, _ := newTestRouter(t)
	reply := r.Respond("any overdue tasks?")
	require.Contains(t, reply, "Nothing is overdue")
}

func TestRespond_TodayTasks(t *testing.T) {
	r, db := newTestRouter(t)
	noon := time.Now()
	noon = time.Date(noon.Year(), noon.Month(), noon.Day(), 12, 0, 0, 0, noon.Location())
	seedTask(t, db, models.Task{Title: "Standup notes", Status: models.StatusPending, DueDate: &noon})
	seedTask(t, db, models.Task{Title: "Next week thing", Status: models.StatusPending, DueDate: due(7 * 24 * time.Hour)})

	reply := r.Respond("what tasks are due today?")
	require.Contains(t, reply, "Standup notes")
	require.NotContains(t, reply, "Next week thing")
}

func TestRespond_Stress_ManyPendingGivesCopingSteps(t *testing.T) {
	r, db := newTestRouter(t)
	for i := 0; i < 6; i++ {
		seedTask(t, db, models.Task{Title: fmt.Sprintf("Task %d", i), Status: models.StatusPending})
	}

	reply := r.Respond("I'm so stressed")
	require.Contains(t, reply, "6 open tasks")
	require.Contains(t, reply, "1️⃣")
}

func TestRespond_Stress_FewPendingReassures(t *testing.T) {
	r, db := newTestRouter(t)
	seedTask(t, db, models.Task{Title: "Only one", Status: models.StatusPending})

	reply := r.Respond("feeling overwhelmed")
	require.Contains(t, reply, "1 open task")
}

func TestRespond_Motivation(t *testing.T) {
	r, db := newTestRouter(t)
	seedTask(t, db, models.Task{Title: "Done today", Status: models.StatusCompleted})

	reply := r.Respond("I'm feeling motivated!")
	require.Contains(t, reply, "1 task")
}

func TestRespond_Weather_FromPool(t *testing.T) {
	r, _ := newTestRouter(t)
	reply := r.Respond("what's the weather like?")
	require.Contains(t, weatherReplies, reply)
}

func TestRespond_Analytics_Snapshot(t *testing.T) {
	r, db := newTestRouter(t)
	seedTask(t, db, models.Task{Title: "A", Status: models.StatusCompleted})
	seedTask(t, db, models.Task{Title: "B", Status: models.StatusCompleted})
	seedTask(t, db, models.Task{Title: "C", Status: models.StatusCompleted})
	seedTask(t, db, models.Task{Title: "D", Status: models.StatusPending})

	reply := r.Respond("how is my productivity?")
	require.Contains(t, reply, "Completion rate: 75%")
	require.Contains(t, reply, "Trend: good")
}

func TestRespond_Help(t *testing.T) {
	r, _ := newTestRouter(t)
	reply := r.Respond("help")
	require.Contains(t, reply, "Task Management")
	require.Contains(t, reply, "show tasks")
}

func TestRespond_Greeting_ReportsCounts(t *testing.T) {
	r, db := newTestRouter(t)
	seedTask(t, db, models.Task{Title: "Open thing", Status: models.StatusPending})

	reply := r.Respond("hello there")
	require.Contains(t, reply, "👋")
	require.Contains(t, reply, "1 open task")
	require.Contains(t, reply, "nothing overdue")
}

func TestRespond_Greeting_DoesNotMatchInsideWords(t *testing.T) {
	r, _ := newTestRouter(t)
	// "this" must not trip the "hi" greeting; with no other rule matching the
	// reply comes from the fallback pool.
	reply := r.Respond("think about this")
	require.NotContains(t, reply, "👋")
}

func TestRespond_Fallback_DeterministicWithSeededRand(t *testing.T) {
	r1, _ := newTestRouter(t)
	r2, _ := newTestRouter(t)

	msg := "something entirely unrelated"
	require.Equal(t, r1.Respond(msg), r2.Respond(msg))
}

func TestRespond_StorageErrorYieldsApology(t *testing.T) {
	r, db := newTestRouter(t)
	require.NoError(t, db.Exec("DROP TABLE tasks").Error)

	reply := r.Respond("show my tasks")
	require.Equal(t, apologyReply, reply)
}
