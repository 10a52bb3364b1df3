package generation

import (
	"context"
	"fmt"
	"time"

	"github.com/deepgram/assistant/internal/domain/generation"
	"github.com/deepgram/assistant/internal/infrastructure/redis"
	"github.com/deepgram/assistant/internal/services/chat"
	"github.com/deepgram/assistant/pkg/validation"
	"github.com/rs/zerolog/log"
)

const outputLifetime = 24 * time.Hour

// Result is the content produced by one submission of the generation form.
type Result struct {
	Params    generation.Params `json:"params"`
	Prompt    string            `json:"prompt"`
	Content   string            `json:"content"`
	CreatedAt time.Time         `json:"created_at"`
}

type Service struct {
	chat  chat.Service
	store OutputStore
	now   func() time.Time
}

func NewService(chatService chat.Service, redisService *redis.Service) *Service {
	var store OutputStore
	if redisService != nil {
		log.Info().Msg("Using Redis for generated content storage")
		store = NewRedisStore(redisService, outputLifetime)
	} else {
		log.Info().Msg("Using in-memory generated content storage")
		store = NewMemoryStore()
	}
	return NewServiceWithStore(chatService, store)
}

func NewServiceWithStore(chatService chat.Service, store OutputStore) *Service {
	return &Service{
		chat:  chatService,
		store: store,
		now:   time.Now,
	}
}

// Prepare applies defaults and validates params, returning the prompt that
// would be sent.
func Prepare(params generation.Params) (generation.Params, string, error) {
	params = params.WithDefaults()
	if err := validation.Struct(params); err != nil {
		return params, "", err
	}
	return params, params.Prompt(), nil
}

// Generate issues one completion for params and replaces the session's
// output with the result. Failed attempts leave the previous output intact.
func (s *Service) Generate(ctx context.Context, sessionID string, params generation.Params) (*Result, error) {
	params, prompt, err := Prepare(params)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("session_id", sessionID).
		Str("content_type", string(params.ContentType)).
		Str("tone", string(params.Tone)).
		Int("length", params.Length).
		Bool("keywords", params.HasKeywords()).
		Msg("Generating content")

	content, err := s.chat.Complete(ctx, prompt)
	if err != nil {
		log.Error().Err(err).Str("session_id", sessionID).Msg("Content generation failed")
		return nil, err
	}

	result := &Result{
		Params:    params,
		Prompt:    prompt,
		Content:   content,
		CreatedAt: s.now(),
	}
	if err := s.store.Set(ctx, sessionID, result); err != nil {
		return nil, fmt.Errorf("store generated content: %w", err)
	}

	return result, nil
}

// Output returns the session's current output, or nil before the first
// successful generation.
func (s *Service) Output(ctx context.Context, sessionID string) (*Result, error) {
	return s.store.Get(ctx, sessionID)
}
