package openai

import (
	"github.com/deepgram/assistant/internal/config"
	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"
)

type Service struct {
	client *openai.Client
	cfg    config.OpenAIConfig
}

// NewService builds the provider client. It returns nil when no key is
// configured.
func NewService(cfg config.OpenAIConfig) *Service {
	if cfg.Key == "" {
		log.Warn().Msg("OpenAI service not configured - OPENAI_KEY missing")
		return nil
	}

	clientCfg := openai.DefaultConfig(cfg.Key)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	log.Info().
		Str("model", cfg.Model).
		Bool("custom_base_url", cfg.BaseURL != "").
		Msg("Initialising OpenAI service")

	return &Service{
		client: openai.NewClientWithConfig(clientCfg),
		cfg:    cfg,
	}
}

func (s *Service) GetClient() *openai.Client {
	return s.client
}

func (s *Service) Config() config.OpenAIConfig {
	return s.cfg
}
