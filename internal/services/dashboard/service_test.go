package dashboard

import (
	"context"
	"testing"

	"github.com/deepgram/assistant/internal/domain/dashboard"
	"github.com/deepgram/assistant/pkg/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	fixtures, err := dashboard.LoadFixtures()
	require.NoError(t, err)
	return NewServiceWithStore(fixtures, NewMemoryStore())
}

func titles(tasks []dashboard.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Title)
	}
	return out
}

func TestListTasksSeedsFromFixtures(t *testing.T) {
	svc := newTestService(t)

	tasks, err := svc.ListTasks(context.Background(), "s1", "")
	require.NoError(t, err)
	require.Len(t, tasks, 4)
	assert.Equal(t, "Prepare quarterly report", tasks[0].Title)
	assert.Equal(t, dashboard.StatusInProgress, tasks[0].Status)
}

func TestListTasksSearch(t *testing.T) {
	svc := newTestService(t)

	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"Prepare quarterly report", "Schedule team meeting", "Research AI trends", "Review marketing materials"}},
		{"REPORT", []string{"Prepare quarterly report"}},
		{"campaign", []string{"Review marketing materials"}},
		{"nothing matches this", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			tasks, err := svc.ListTasks(context.Background(), "s1", tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, titles(tasks))
		})
	}
}

func TestCreateTask(t *testing.T) {
	svc := newTestService(t)

	task, err := svc.CreateTask(context.Background(), "s1", dashboard.NewTask{
		Title:    "Book flights",
		DueDate:  "2025-04-02",
		Priority: dashboard.PriorityHigh,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, task.ID)
	assert.Equal(t, dashboard.StatusNotStarted, task.Status)

	tasks, err := svc.ListTasks(context.Background(), "s1", "")
	require.NoError(t, err)
	require.Len(t, tasks, 5)
	assert.Equal(t, task, tasks[4])

	// Other sessions still see the fixtures.
	other, err := svc.ListTasks(context.Background(), "s2", "")
	require.NoError(t, err)
	assert.Len(t, other, 4)
}

func TestCreateTaskValidation(t *testing.T) {
	svc := newTestService(t)

	tests := []struct {
		name  string
		input dashboard.NewTask
		field string
	}{
		{"blank title", dashboard.NewTask{Title: " ", DueDate: "2025-04-02", Priority: "low"}, "title"},
		{"bad date", dashboard.NewTask{Title: "x", DueDate: "April 2", Priority: "low"}, "due_date"},
		{"bad priority", dashboard.NewTask{Title: "x", DueDate: "2025-04-02", Priority: "urgent"}, "priority"},
		{"bad status", dashboard.NewTask{Title: "x", DueDate: "2025-04-02", Priority: "low", Status: "blocked"}, "status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateTask(context.Background(), "s1", tt.input)
			require.Error(t, err)

			ve, ok := err.(*validation.Error)
			require.True(t, ok)
			assert.Equal(t, tt.field, ve.Field)
		})
	}

	tasks, err := svc.ListTasks(context.Background(), "s1", "")
	require.NoError(t, err)
	assert.Len(t, tasks, 4)
}

func TestDeleteTask(t *testing.T) {
	svc := newTestService(t)

	require.NoError(t, svc.DeleteTask(context.Background(), "s1", 2))

	tasks, err := svc.ListTasks(context.Background(), "s1", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Prepare quarterly report", "Research AI trends", "Review marketing materials"}, titles(tasks))

	err = svc.DeleteTask(context.Background(), "s1", 2)
	assert.ErrorIs(t, err, ErrTaskNotFound)

	// New ids follow the highest remaining id.
	require.NoError(t, svc.DeleteTask(context.Background(), "s1", 4))
	task, err := svc.CreateTask(context.Background(), "s1", dashboard.NewTask{Title: "New", DueDate: "2025-04-02", Priority: "low"})
	require.NoError(t, err)
	assert.Equal(t, 4, task.ID)
}

func TestListRemindersAndEmails(t *testing.T) {
	svc := newTestService(t)

	assert.Len(t, svc.ListReminders(""), 4)

	calls := svc.ListReminders("call")
	require.Len(t, calls, 1)
	assert.Equal(t, dashboard.ReminderCall, calls[0].Type)

	assert.Len(t, svc.ListEmails(""), 4)

	emails := svc.ListEmails("sarah")
	require.Len(t, emails, 1)
	assert.Equal(t, "Sarah Johnson", emails[0].Sender)
	assert.True(t, emails[0].Unread)
}
