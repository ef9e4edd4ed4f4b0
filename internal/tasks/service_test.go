package tasks

import (
	"testing"
	"time"

	"smart-assistant-api/internal/models"
	"smart-assistant-api/internal/testutil"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db, err := testutil.NewInMemoryDB()
	require.NoError(t, err)
	return NewService(db), db
}

func TestCreate_DefaultsAndRoundTrip(t *testing.T) {
	svc, _ := newTestService(t)

	dueDate := time.Now().Add(48 * time.Hour)
	created, err := svc.Create(models.DemoUserID, CreateInput{
		Title:       "Write report",
		Description: "Quarterly numbers",
		DueDate:     &dueDate,
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	require.Equal(t, models.PriorityMedium, created.Priority)
	require.Equal(t, models.StatusPending, created.Status)

	list, err := svc.List(models.DemoUserID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	got := list[0]
	require.Equal(t, created.ID, got.ID)
	require.Equal(t, "Write report", got.Title)
	require.Equal(t, "Quarterly numbers", got.Description)
	require.NotNil(t, got.DueDate)
	require.WithinDuration(t, dueDate, *got.DueDate, time.Second)
	require.False(t, got.CreatedAt.IsZero())
}

func TestCreate_TitleRequired(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Create(models.DemoUserID, CreateInput{Title: "   "})
	require.ErrorIs(t, err, ErrTitleRequired)
}

func TestList_Ordering(t *testing.T) {
	svc, _ := newTestService(t)

	early := time.Now().Add(24 * time.Hour)
	late := time.Now().Add(96 * time.Hour)

	mk := func(title string, status models.TaskStatus, priority models.TaskPriority, due *time.Time) {
		task, err := svc.Create(models.DemoUserID, CreateInput{Title: title, Priority: priority, DueDate: due})
		require.NoError(t, err)
		if status != models.StatusPending {
			_, err = svc.UpdateStatus(models.DemoUserID, task.ID, status)
			require.NoError(t, err)
		}
	}

	mk("done-high", models.StatusCompleted, models.PriorityHigh, nil)
	mk("pending-low", models.StatusPending, models.PriorityLow, nil)
	mk("pending-high-late", models.StatusPending, models.PriorityHigh, &late)
	mk("pending-high-early", models.StatusPending, models.PriorityHigh, &early)
	mk("progress-medium", models.StatusInProgress, models.PriorityMedium, nil)

	list, err := svc.List(models.DemoUserID)
	require.NoError(t, err)

	titles := make([]string, len(list))
	for i, task := range list {
		titles[i] = task.Title
	}
	require.Equal(t, []string{
		"pending-high-early",
		"pending-high-late",
		"pending-low",
		"progress-medium",
		"done-high",
	}, titles)
}

func TestUpdate_FullReplace(t *testing.T) {
	svc, _ := newTestService(t)

	task, err := svc.Create(models.DemoUserID, CreateInput{Title: "Original", Description: "Desc"})
	require.NoError(t, err)

	updated, err := svc.Update(models.DemoUserID, task.ID, UpdateInput{
		Title:    "Renamed",
		Status:   models.StatusInProgress,
		Priority: models.PriorityHigh,
	})
	require.NoError(t, err)
	require.Equal(t, "Renamed", updated.Title)
	require.Equal(t, models.StatusInProgress, updated.Status)
	require.Equal(t, models.PriorityHigh, updated.Priority)
	// full replace: the description was not supplied and is gone
	require.Empty(t, updated.Description)
	require.Nil(t, updated.DueDate)
}

func TestUpdate_NotFound(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Update(models.DemoUserID, 9999, UpdateInput{
		Title:    "X",
		Status:   models.StatusPending,
		Priority: models.PriorityLow,
	})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateStatus_TouchesUpdatedAt(t *testing.T) {
	svc, _ := newTestService(t)

	task, err := svc.Create(models.DemoUserID, CreateInput{Title: "Flip me"})
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	updated, err := svc.UpdateStatus(models.DemoUserID, task.ID, models.StatusCompleted)
	require.NoError(t, err)
	require.Equal(t, models.StatusCompleted, updated.Status)
	require.True(t, updated.UpdatedAt.After(task.UpdatedAt))
}

func TestDelete_Idempotence(t *testing.T) {
	svc, _ := newTestService(t)

	task, err := svc.Create(models.DemoUserID, CreateInput{Title: "Ephemeral"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(models.DemoUserID, task.ID))
	// second delete reports not-found, not a crash
	require.ErrorIs(t, svc.Delete(models.DemoUserID, task.ID), ErrNotFound)
}

func TestDelete_ForeignOwner(t *testing.T) {
	svc, _ := newTestService(t)

	task, err := svc.Create(models.DemoUserID, CreateInput{Title: "Mine"})
	require.NoError(t, err)

	require.ErrorIs(t, svc.Delete(models.DemoUserID+1, task.ID), ErrNotFound)
}

func TestIsOverdue_DerivedPredicate(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	overdue := models.Task{Status: models.StatusPending, DueDate: &past}
	require.True(t, overdue.IsOverdue(now))

	completedLate := models.Task{Status: models.StatusCompleted, DueDate: &past}
	require.False(t, completedLate.IsOverdue(now))

	upcoming := models.Task{Status: models.StatusPending, DueDate: &future}
	require.False(t, upcoming.IsOverdue(now))

	noDue := models.Task{Status: models.StatusPending}
	require.False(t, noDue.IsOverdue(now))
}

func TestFindMatchable_CaseInsensitiveHighestPriority(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Create(models.DemoUserID, CreateInput{Title: "Draft report", Priority: models.PriorityLow})
	require.NoError(t, err)
	want, err := svc.Create(models.DemoUserID, CreateInput{Title: "Review REPORT", Priority: models.PriorityHigh})
	require.NoError(t, err)

	got, err := svc.FindMatchable(models.DemoUserID, "report")
	require.NoError(t, err)
	require.Equal(t, want.ID, got.ID)

	_, err = svc.FindMatchable(models.DemoUserID, "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestFindMatchable_SkipsCompleted(t *testing.T) {
	svc, _ := newTestService(t)

	task, err := svc.Create(models.DemoUserID, CreateInput{Title: "Buy milk"})
	require.NoError(t, err)
	_, err = svc.Complete(models.DemoUserID, task.ID)
	require.NoError(t, err)

	_, err = svc.FindMatchable(models.DemoUserID, "milk")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStats_OverdueComputedNotStored(t *testing.T) {
	svc, _ := newTestService(t)

	past := time.Now().Add(-time.Hour)
	_, err := svc.Create(models.DemoUserID, CreateInput{Title: "Late", DueDate: &past})
	require.NoError(t, err)
	done, err := svc.Create(models.DemoUserID, CreateInput{Title: "Late but done", DueDate: &past})
	require.NoError(t, err)
	_, err = svc.Complete(models.DemoUserID, done.ID)
	require.NoError(t, err)

	stats, err := svc.Stats(models.DemoUserID, time.Now())
	require.NoError(t, err)
	require.Equal(t, int64(2), stats.Total)
	require.Equal(t, int64(1), stats.Overdue)
	require.Equal(t, int64(1), stats.Completed)
}
