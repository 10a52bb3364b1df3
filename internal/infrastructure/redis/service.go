package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/deepgram/assistant/internal/config"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

type Service struct {
	client *redis.Client
}

// NewService connects to Redis. It returns nil when Redis is not configured
// or unreachable; callers fall back to in-memory storage.
func NewService(cfg config.RedisConfig) *Service {
	if cfg.URL == "" {
		log.Warn().Msg("Redis URL not configured - using in-memory storage")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.URL,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Error().
			Err(err).
			Str("addr", cfg.URL).
			Msg("Failed to establish Redis connection")
		_ = client.Close()
		return nil
	}

	log.Info().Str("addr", cfg.URL).Msg("Connected to Redis")
	return NewServiceWithClient(client)
}

// NewServiceWithClient wraps an existing client.
func NewServiceWithClient(client *redis.Client) *Service {
	return &Service{client: client}
}

// SetJSON stores v encoded as JSON under key. A zero ttl keeps the key
// until it is deleted.
func (s *Service) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	if err := s.client.Set(ctx, key, data, ttl).Err(); err != nil {
		log.Error().
			Err(err).
			Str("key", key).
			Dur("ttl", ttl).
			Msg("Redis SET operation failed")
		return err
	}
	return nil
}

// GetJSON decodes the value under key into dst. It reports false, with no
// error, when the key does not exist.
func (s *Service) GetJSON(ctx context.Context, key string, dst any) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		log.Error().
			Err(err).
			Str("key", key).
			Msg("Redis GET operation failed")
		return false, err
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (s *Service) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}

func (s *Service) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Service) Close() error {
	return s.client.Close()
}
