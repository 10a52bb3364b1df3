package services

import (
	"fmt"
	"sync"

	"github.com/deepgram/assistant/internal/config"
	"github.com/deepgram/assistant/internal/connections"
	"github.com/deepgram/assistant/internal/infrastructure/openai"
	"github.com/deepgram/assistant/internal/infrastructure/redis"
	"github.com/deepgram/assistant/internal/services/chat"
	"github.com/deepgram/assistant/internal/services/conversation"
	"github.com/deepgram/assistant/internal/services/dashboard"
	"github.com/deepgram/assistant/internal/services/generation"
	"github.com/deepgram/assistant/internal/services/session"
	"github.com/rs/zerolog/log"
)

var (
	// Mutex for thread-safe initialization
	servicesMu sync.RWMutex
)

type Services struct {
	chatService         chat.Service
	connectionManager   *connections.Manager
	conversationService *conversation.Service
	dashboardService    *dashboard.Service
	generationService   *generation.Service
	redisService        *redis.Service
	sessionService      *session.Service
	rateLimits          config.RateLimitsConfig
}

// InitializeServices initializes all required services
func InitializeServices(cfg *config.Config) (*Services, error) {
	servicesMu.Lock()
	defer servicesMu.Unlock()

	log.Info().Msg("Initializing core services")

	// Initialize Redis service (optional)
	redisService := redis.NewService(cfg.Redis)

	// Initialize OpenAI service (required)
	openAIService := openai.NewService(cfg.OpenAI)
	if openAIService == nil {
		return nil, fmt.Errorf("failed to initialize OpenAI service: OPENAI_KEY not set")
	}

	chatService, err := chat.NewService(openAIService)
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize chat service - required for message processing")
		return nil, fmt.Errorf("failed to initialize chat service: %w", err)
	}
	log.Info().Str("model", cfg.OpenAI.Model).Msg("Initializing chat service")

	return NewServices(cfg, chatService, redisService)
}

// NewServices wires the application services around an existing completion
// client. A nil redisService keeps all state in memory.
func NewServices(cfg *config.Config, chatService chat.Service, redisService *redis.Service) (*Services, error) {
	dashboardService, err := dashboard.NewService(redisService)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize dashboard service: %w", err)
	}

	log.Info().Msg("All services initialized successfully")

	return &Services{
		chatService:         chatService,
		connectionManager:   connections.NewManager(connections.DefaultTimeouts),
		conversationService: conversation.NewService(chatService, redisService),
		dashboardService:    dashboardService,
		generationService:   generation.NewService(chatService, redisService),
		redisService:        redisService,
		sessionService:      session.NewService(cfg.Session, redisService),
		rateLimits:          cfg.RateLimit,
	}, nil
}

// Close releases external connections.
func (s *Services) Close() error {
	s.connectionManager.CloseAll()
	if s.redisService != nil {
		return s.redisService.Close()
	}
	return nil
}

// GetChatService returns the completion client
func (s *Services) GetChatService() chat.Service {
	return s.chatService
}

// GetConnectionManager returns the websocket connection manager
func (s *Services) GetConnectionManager() *connections.Manager {
	return s.connectionManager
}

// GetConversationService returns the conversation service
func (s *Services) GetConversationService() *conversation.Service {
	return s.conversationService
}

// GetDashboardService returns the dashboard service
func (s *Services) GetDashboardService() *dashboard.Service {
	return s.dashboardService
}

// GetGenerationService returns the content generation service
func (s *Services) GetGenerationService() *generation.Service {
	return s.generationService
}

// GetSessionService returns the session service
func (s *Services) GetSessionService() *session.Service {
	return s.sessionService
}

// GetRateLimits returns the per-route-group request budgets
func (s *Services) GetRateLimits() config.RateLimitsConfig {
	return s.rateLimits
}
