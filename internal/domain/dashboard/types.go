package dashboard

// Priority of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Status of a task. Values are kebab-case as they appear on the wire.
type Status string

const (
	StatusNotStarted Status = "not-started"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

// ReminderType classifies a reminder for its icon.
type ReminderType string

const (
	ReminderMeeting  ReminderType = "meeting"
	ReminderCall     ReminderType = "call"
	ReminderTask     ReminderType = "task"
	ReminderDeadline ReminderType = "deadline"
)

type Task struct {
	ID          int      `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	DueDate     string   `json:"due_date" yaml:"due_date"`
	Priority    Priority `json:"priority" yaml:"priority"`
	Status      Status   `json:"status" yaml:"status"`
	Description string   `json:"description" yaml:"description"`
}

type Reminder struct {
	ID    int          `json:"id" yaml:"id"`
	Title string       `json:"title" yaml:"title"`
	Time  string       `json:"time" yaml:"time"`
	Date  string       `json:"date" yaml:"date"`
	Type  ReminderType `json:"type" yaml:"type"`
}

type Email struct {
	ID      int    `json:"id" yaml:"id"`
	Sender  string `json:"sender" yaml:"sender"`
	Subject string `json:"subject" yaml:"subject"`
	Preview string `json:"preview" yaml:"preview"`
	Time    string `json:"time" yaml:"time"`
	Unread  bool   `json:"unread" yaml:"unread"`
}

// NewTask is the user input for creating a task.
type NewTask struct {
	Title       string   `json:"title" validate:"notblank,max=200"`
	DueDate     string   `json:"due_date" validate:"required,datetime=2006-01-02"`
	Priority    Priority `json:"priority" validate:"required,oneof=low medium high"`
	Status      Status   `json:"status" validate:"omitempty,oneof=not-started in-progress completed"`
	Description string   `json:"description" validate:"max=2000"`
}
