package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/deepgram/assistant/internal/domain/dashboard"
	"github.com/deepgram/assistant/internal/infrastructure/redis"
	"github.com/deepgram/assistant/pkg/validation"
	"github.com/rs/zerolog/log"
)

// ErrTaskNotFound is returned when deleting a task the session does not have.
var ErrTaskNotFound = errors.New("task not found")

const tasksLifetime = 24 * time.Hour

type Service struct {
	fixtures *dashboard.Fixtures
	store    TaskStore

	// mu serializes read-modify-write of task lists.
	mu sync.Mutex
}

func NewService(redisService *redis.Service) (*Service, error) {
	var store TaskStore
	if redisService != nil {
		log.Info().Msg("Using Redis for task storage")
		store = NewRedisStore(redisService, tasksLifetime)
	} else {
		log.Info().Msg("Using in-memory task storage")
		store = NewMemoryStore()
	}

	fixtures, err := dashboard.LoadFixtures()
	if err != nil {
		return nil, err
	}
	return NewServiceWithStore(fixtures, store), nil
}

func NewServiceWithStore(fixtures *dashboard.Fixtures, store TaskStore) *Service {
	return &Service{fixtures: fixtures, store: store}
}

// tasks returns the session's tasks, seeding them from the fixtures the
// first time the session looks.
func (s *Service) tasks(ctx context.Context, sessionID string) ([]dashboard.Task, error) {
	tasks, ok, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	if ok {
		return tasks, nil
	}

	tasks = append([]dashboard.Task(nil), s.fixtures.Tasks...)
	if err := s.store.Save(ctx, sessionID, tasks); err != nil {
		return nil, fmt.Errorf("seed tasks: %w", err)
	}
	return tasks, nil
}

// ListTasks returns the session's tasks matching query, in insertion order.
func (s *Service) ListTasks(ctx context.Context, sessionID, query string) ([]dashboard.Task, error) {
	s.mu.Lock()
	tasks, err := s.tasks(ctx, sessionID)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	out := make([]dashboard.Task, 0, len(tasks))
	for _, t := range tasks {
		if dashboard.MatchTask(t, query) {
			out = append(out, t)
		}
	}
	return out, nil
}

// CreateTask validates input and appends a new task with the next free id.
func (s *Service) CreateTask(ctx context.Context, sessionID string, input dashboard.NewTask) (dashboard.Task, error) {
	if err := validation.Struct(input); err != nil {
		return dashboard.Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.tasks(ctx, sessionID)
	if err != nil {
		return dashboard.Task{}, err
	}

	status := input.Status
	if status == "" {
		status = dashboard.StatusNotStarted
	}

	task := dashboard.Task{
		ID:          nextID(tasks),
		Title:       input.Title,
		DueDate:     input.DueDate,
		Priority:    input.Priority,
		Status:      status,
		Description: input.Description,
	}
	if err := s.store.Save(ctx, sessionID, append(tasks, task)); err != nil {
		return dashboard.Task{}, fmt.Errorf("save tasks: %w", err)
	}

	log.Info().
		Str("session_id", sessionID).
		Int("task_id", task.ID).
		Str("priority", string(task.Priority)).
		Msg("Task created")

	return task, nil
}

func (s *Service) DeleteTask(ctx context.Context, sessionID string, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.tasks(ctx, sessionID)
	if err != nil {
		return err
	}

	for i, t := range tasks {
		if t.ID != id {
			continue
		}
		remaining := append(tasks[:i:i], tasks[i+1:]...)
		if err := s.store.Save(ctx, sessionID, remaining); err != nil {
			return fmt.Errorf("save tasks: %w", err)
		}
		log.Info().Str("session_id", sessionID).Int("task_id", id).Msg("Task deleted")
		return nil
	}
	return ErrTaskNotFound
}

func (s *Service) ListReminders(query string) []dashboard.Reminder {
	out := make([]dashboard.Reminder, 0, len(s.fixtures.Reminders))
	for _, r := range s.fixtures.Reminders {
		if dashboard.MatchReminder(r, query) {
			out = append(out, r)
		}
	}
	return out
}

func (s *Service) ListEmails(query string) []dashboard.Email {
	out := make([]dashboard.Email, 0, len(s.fixtures.Emails))
	for _, e := range s.fixtures.Emails {
		if dashboard.MatchEmail(e, query) {
			out = append(out, e)
		}
	}
	return out
}

func nextID(tasks []dashboard.Task) int {
	highest := 0
	for _, t := range tasks {
		if t.ID > highest {
			highest = t.ID
		}
	}
	return highest + 1
}
