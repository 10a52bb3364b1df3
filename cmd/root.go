package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/deepgram/assistant/internal/config"
	"github.com/deepgram/assistant/internal/infrastructure/openai"
	"github.com/deepgram/assistant/internal/services"
	"github.com/deepgram/assistant/internal/services/chat"
	"github.com/deepgram/assistant/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var version = "dev"

// app carries what every subcommand needs once the environment is loaded.
type app struct {
	cfg     *config.Config
	envFile string

	// Constructors for the completion client and the service graph. Tests
	// swap them for fakes.
	newChat     func(cfg *config.Config) (chat.Service, error)
	newServices func(cfg *config.Config) (*services.Services, error)
}

func newApp() *app {
	return &app{
		newChat:     openAIChat,
		newServices: services.InitializeServices,
	}
}

func openAIChat(cfg *config.Config) (chat.Service, error) {
	openAIService := openai.NewService(cfg.OpenAI)
	if openAIService == nil {
		return nil, errors.New("OPENAI_KEY environment variable not set")
	}
	return chat.NewService(openAIService)
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "assistant",
		Short:         "AI assistant web app and command line tools",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "Path to an optional .env file")

	root.AddCommand(
		newServeCmd(a),
		newPromptCmd(a),
		newGenerateCmd(a),
		newAskCmd(a),
	)
	return root
}

// load reads the .env file (if any) and the environment, then configures
// logging. A cfg set beforehand is kept as is.
func (a *app) load(cmd *cobra.Command) error {
	if a.cfg == nil {
		if err := godotenv.Load(a.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", a.envFile, err)
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		a.cfg = cfg
	}

	logger.SetupWithWriter(cmd.ErrOrStderr(), a.cfg.LogLevel, a.cfg.LogPretty)
	log.Debug().Str("command", cmd.Name()).Msg("Configuration loaded")
	return nil
}
