package generation

import (
	"context"
	"time"

	"github.com/deepgram/assistant/internal/infrastructure/redis"
	"github.com/deepgram/assistant/pkg/expiring"
)

// OutputStore holds the single output buffer of each session.
type OutputStore interface {
	// Get returns nil and no error when the session has no output yet.
	Get(ctx context.Context, sessionID string) (*Result, error)
	Set(ctx context.Context, sessionID string, result *Result) error
}

type RedisStore struct {
	redisService *redis.Service
	ttl          time.Duration
}

type MemoryStore struct {
	outputs *expiring.Map[Result]
}

func NewRedisStore(redisService *redis.Service, ttl time.Duration) *RedisStore {
	return &RedisStore{redisService: redisService, ttl: ttl}
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{outputs: expiring.New[Result](outputLifetime)}
}

func outputKey(sessionID string) string {
	return "generation:" + sessionID
}

func (rs *RedisStore) Get(ctx context.Context, sessionID string) (*Result, error) {
	var result Result
	ok, err := rs.redisService.GetJSON(ctx, outputKey(sessionID), &result)
	if err != nil || !ok {
		return nil, err
	}
	return &result, nil
}

func (rs *RedisStore) Set(ctx context.Context, sessionID string, result *Result) error {
	return rs.redisService.SetJSON(ctx, outputKey(sessionID), result, rs.ttl)
}

// Memory Store implementation
func (ms *MemoryStore) Get(ctx context.Context, sessionID string) (*Result, error) {
	result, ok := ms.outputs.Get(sessionID)
	if !ok {
		return nil, nil
	}
	return &result, nil
}

func (ms *MemoryStore) Set(ctx context.Context, sessionID string, result *Result) error {
	ms.outputs.Set(sessionID, *result)
	return nil
}
