package dashboard

import "time"

const dueDateLayout = "2006-01-02"

// TaskView is a task with its display attributes resolved.
type TaskView struct {
	Task
	PriorityLabel string `json:"priority_label"`
	PriorityStyle string `json:"priority_style"`
	StatusLabel   string `json:"status_label"`
	StatusStyle   string `json:"status_style"`
	DueLabel      string `json:"due_label"`
}

type ReminderView struct {
	Reminder
	Icon Icon   `json:"icon"`
	When string `json:"when"`
}

type EmailView struct {
	Email
	Initials string `json:"initials"`
}

func NewTaskView(t Task) TaskView {
	return TaskView{
		Task:          t,
		PriorityLabel: PriorityLabel(t.Priority),
		PriorityStyle: PriorityStyle(t.Priority),
		StatusLabel:   StatusLabel(t.Status),
		StatusStyle:   StatusStyle(t.Status),
		DueLabel:      DueLabel(t.DueDate),
	}
}

func NewReminderView(r Reminder) ReminderView {
	return ReminderView{
		Reminder: r,
		Icon:     ReminderIcon(r.Type),
		When:     r.Time + ", " + r.Date,
	}
}

func NewEmailView(e Email) EmailView {
	return EmailView{
		Email:    e,
		Initials: Initials(e.Sender),
	}
}

// DueLabel formats an ISO date as "Mar 25, 2025". Unparseable dates are
// shown as given.
func DueLabel(date string) string {
	t, err := time.Parse(dueDateLayout, date)
	if err != nil {
		return date
	}
	return t.Format("Jan 2, 2006")
}

func TaskViews(tasks []Task) []TaskView {
	out := make([]TaskView, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, NewTaskView(t))
	}
	return out
}

func ReminderViews(reminders []Reminder) []ReminderView {
	out := make([]ReminderView, 0, len(reminders))
	for _, r := range reminders {
		out = append(out, NewReminderView(r))
	}
	return out
}

func EmailViews(emails []Email) []EmailView {
	out := make([]EmailView, 0, len(emails))
	for _, e := range emails {
		out = append(out, NewEmailView(e))
	}
	return out
}
