package conversation

import (
	"context"
	"time"

	domain "github.com/deepgram/assistant/internal/domain/conversation"
	"github.com/deepgram/assistant/internal/infrastructure/redis"
	"github.com/deepgram/assistant/pkg/expiring"
)

// Store persists the committed messages of each conversation.
type Store interface {
	// Load returns nil and no error for an unknown conversation.
	Load(ctx context.Context, id string) ([]domain.Message, error)
	Save(ctx context.Context, id string, messages []domain.Message) error
	Delete(ctx context.Context, id string) error
}

type RedisStore struct {
	redisService *redis.Service
	ttl          time.Duration
}

type MemoryStore struct {
	conversations *expiring.Map[[]domain.Message]
}

func NewRedisStore(redisService *redis.Service, ttl time.Duration) *RedisStore {
	return &RedisStore{redisService: redisService, ttl: ttl}
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{conversations: expiring.New[[]domain.Message](conversationLifetime)}
}

func conversationKey(id string) string {
	return "conversation:" + id
}

func (rs *RedisStore) Load(ctx context.Context, id string) ([]domain.Message, error) {
	var messages []domain.Message
	if _, err := rs.redisService.GetJSON(ctx, conversationKey(id), &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

func (rs *RedisStore) Save(ctx context.Context, id string, messages []domain.Message) error {
	return rs.redisService.SetJSON(ctx, conversationKey(id), messages, rs.ttl)
}

func (rs *RedisStore) Delete(ctx context.Context, id string) error {
	return rs.redisService.Delete(ctx, conversationKey(id))
}

// Memory Store implementation
func (ms *MemoryStore) Load(ctx context.Context, id string) ([]domain.Message, error) {
	messages, ok := ms.conversations.Get(id)
	if !ok {
		return nil, nil
	}
	return append([]domain.Message(nil), messages...), nil
}

func (ms *MemoryStore) Save(ctx context.Context, id string, messages []domain.Message) error {
	ms.conversations.Set(id, append([]domain.Message(nil), messages...))
	return nil
}

func (ms *MemoryStore) Delete(ctx context.Context, id string) error {
	ms.conversations.Delete(id)
	return nil
}
