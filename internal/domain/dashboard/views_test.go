package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFixtures(t *testing.T) {
	f, err := LoadFixtures()
	require.NoError(t, err)

	require.Len(t, f.Tasks, 4)
	require.Len(t, f.Reminders, 4)
	require.Len(t, f.Emails, 4)

	assert.Equal(t, Task{
		ID:          1,
		Title:       "Prepare quarterly report",
		DueDate:     "2025-03-25",
		Priority:    PriorityHigh,
		Status:      StatusInProgress,
		Description: "Compile data and create presentation for Q1 results",
	}, f.Tasks[0])
	assert.Equal(t, ReminderDeadline, f.Reminders[3].Type)
	assert.Equal(t, "All day", f.Reminders[3].Time)
	assert.True(t, f.Emails[0].Unread)
}

func TestParseFixturesRejectsGarbage(t *testing.T) {
	_, err := ParseFixtures([]byte("tasks: [this is: not valid"))
	assert.Error(t, err)
}

func TestNewTaskView(t *testing.T) {
	view := NewTaskView(Task{
		ID:       3,
		Title:    "Research AI trends",
		DueDate:  "2025-03-30",
		Priority: PriorityLow,
		Status:   StatusNotStarted,
	})

	assert.Equal(t, "Low Priority", view.PriorityLabel)
	assert.Equal(t, "Not Started", view.StatusLabel)
	assert.Equal(t, "Mar 30, 2025", view.DueLabel)
	assert.Equal(t, "Research AI trends", view.Title)
}

func TestDueLabelKeepsUnparseableInput(t *testing.T) {
	assert.Equal(t, "next week", DueLabel("next week"))
}

func TestReminderAndEmailViews(t *testing.T) {
	r := NewReminderView(Reminder{Title: "Team standup", Time: "09:00 AM", Date: "Today", Type: ReminderMeeting})
	assert.Equal(t, "09:00 AM, Today", r.When)
	assert.Equal(t, "calendar", r.Icon.Name)

	e := NewEmailView(Email{Sender: "Alex Chen"})
	assert.Equal(t, "AC", e.Initials)
}

func TestSearch(t *testing.T) {
	f, err := LoadFixtures()
	require.NoError(t, err)

	var titles []string
	for _, task := range f.Tasks {
		if MatchTask(task, "  REPORT ") {
			titles = append(titles, task.Title)
		}
	}
	assert.Equal(t, []string{"Prepare quarterly report"}, titles)

	assert.True(t, MatchTask(f.Tasks[0], ""))
	assert.True(t, MatchReminder(f.Reminders[1], "client"))
	assert.True(t, MatchEmail(f.Emails[2], "product strategy"))
	assert.False(t, MatchEmail(f.Emails[2], "invoice"))
}
