package dashboard

import (
	"context"
	"time"

	"github.com/deepgram/assistant/internal/domain/dashboard"
	"github.com/deepgram/assistant/internal/infrastructure/redis"
	"github.com/deepgram/assistant/pkg/expiring"
)

// TaskStore keeps each session's task list.
type TaskStore interface {
	// Load reports ok=false for a session that has no list yet.
	Load(ctx context.Context, sessionID string) (tasks []dashboard.Task, ok bool, err error)
	Save(ctx context.Context, sessionID string, tasks []dashboard.Task) error
}

type RedisStore struct {
	redisService *redis.Service
	ttl          time.Duration
}

type MemoryStore struct {
	tasks *expiring.Map[[]dashboard.Task]
}

func NewRedisStore(redisService *redis.Service, ttl time.Duration) *RedisStore {
	return &RedisStore{redisService: redisService, ttl: ttl}
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tasks: expiring.New[[]dashboard.Task](tasksLifetime)}
}

func tasksKey(sessionID string) string {
	return "tasks:" + sessionID
}

func (rs *RedisStore) Load(ctx context.Context, sessionID string) ([]dashboard.Task, bool, error) {
	var tasks []dashboard.Task
	ok, err := rs.redisService.GetJSON(ctx, tasksKey(sessionID), &tasks)
	if err != nil || !ok {
		return nil, false, err
	}
	return tasks, true, nil
}

func (rs *RedisStore) Save(ctx context.Context, sessionID string, tasks []dashboard.Task) error {
	return rs.redisService.SetJSON(ctx, tasksKey(sessionID), tasks, rs.ttl)
}

// Memory Store implementation
func (ms *MemoryStore) Load(ctx context.Context, sessionID string) ([]dashboard.Task, bool, error) {
	tasks, ok := ms.tasks.Get(sessionID)
	if !ok {
		return nil, false, nil
	}
	return append([]dashboard.Task(nil), tasks...), true, nil
}

func (ms *MemoryStore) Save(ctx context.Context, sessionID string, tasks []dashboard.Task) error {
	ms.tasks.Set(sessionID, append([]dashboard.Task(nil), tasks...))
	return nil
}
