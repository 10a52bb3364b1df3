package config

// OpenAIConfig configures the external completion provider.
type OpenAIConfig struct {
	Key         string  `env:"OPENAI_KEY"`
	Model       string  `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	BaseURL     string  `env:"OPENAI_BASE_URL"`
	Temperature float32 `env:"OPENAI_TEMPERATURE" envDefault:"0.7"`
	MaxTokens   int     `env:"OPENAI_MAX_TOKENS" envDefault:"1000"`

	// Instructions are appended to the assistant's system prompt.
	Instructions string `env:"ASSISTANT_INSTRUCTIONS"`
}
