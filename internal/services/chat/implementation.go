package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/deepgram/assistant/internal/domain/conversation"
	infraopenai "github.com/deepgram/assistant/internal/infrastructure/openai"
	"github.com/deepgram/assistant/internal/services/chat/models"
	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"
)

type Implementation struct {
	client       *openai.Client
	model        string
	temperature  float32
	maxTokens    int
	systemPrompt *models.SystemPrompt
}

func NewService(openAIService *infraopenai.Service) (*Implementation, error) {
	if openAIService == nil {
		return nil, fmt.Errorf("OpenAI service is required")
	}

	cfg := openAIService.Config()
	systemPrompt := models.DefaultSystemPrompt()
	systemPrompt.SetCustom(cfg.Instructions)

	return &Implementation{
		client:       openAIService.GetClient(),
		model:        cfg.Model,
		temperature:  cfg.Temperature,
		maxTokens:    cfg.MaxTokens,
		systemPrompt: systemPrompt,
	}, nil
}

func (s *Implementation) StreamChat(ctx context.Context, history []conversation.Message) (Stream, error) {
	if len(history) == 0 {
		return nil, fmt.Errorf("empty messages array")
	}

	req := s.request(s.toOpenAIMessages(history))
	req.Stream = true

	log.Debug().
		Int("message_count", len(history)).
		Str("model", req.Model).
		Msg("Opening completion stream")

	stream, err := s.client.CreateChatCompletionStream(ctx, req)
	if err != nil {
		return nil, &ProviderError{Op: "stream", Err: err}
	}

	return &deltaStream{stream: stream}, nil
}

func (s *Implementation) Complete(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("empty prompt")
	}

	req := s.request(s.toOpenAIMessages([]conversation.Message{{
		Role:    conversation.RoleUser,
		Content: prompt,
	}}))

	resp, err := s.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", &ProviderError{Op: "completion", Err: err}
	}

	if len(resp.Choices) == 0 {
		return "", &ProviderError{Op: "completion", Err: ErrEmptyResponse}
	}

	message := resp.Choices[0].Message
	if _, err := conversation.ParseRole(message.Role); err != nil {
		return "", &ProviderError{Op: "completion", Err: err}
	}

	log.Debug().
		Int("prompt_tokens", resp.Usage.PromptTokens).
		Int("completion_tokens", resp.Usage.CompletionTokens).
		Msg("Completion received")

	return message.Content, nil
}

func (s *Implementation) request(messages []openai.ChatCompletionMessage) openai.ChatCompletionRequest {
	return openai.ChatCompletionRequest{
		Model:       s.model,
		Messages:    messages,
		Temperature: s.temperature,
		MaxTokens:   s.maxTokens,
	}
}

func (s *Implementation) toOpenAIMessages(history []conversation.Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(history)+1)
	out = append(out, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: s.systemPrompt.String(),
	})
	for _, msg := range history {
		out = append(out, openai.ChatCompletionMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		})
	}
	return out
}

// deltaStream adapts the provider's chunk stream into plain text deltas,
// validating the role of each chunk on the way in.
type deltaStream struct {
	stream *openai.ChatCompletionStream
}

func (d *deltaStream) Recv() (string, error) {
	for {
		chunk, err := d.stream.Recv()
		if errors.Is(err, io.EOF) {
			return "", io.EOF
		}
		if err != nil {
			return "", &ProviderError{Op: "stream", Err: err}
		}
		if len(chunk.Choices) == 0 {
			continue
		}

		delta := chunk.Choices[0].Delta
		if delta.Role != "" {
			role, err := conversation.ParseRole(delta.Role)
			if err != nil || role != conversation.RoleAssistant {
				return "", &ProviderError{Op: "stream", Err: fmt.Errorf("unexpected role %q in stream", delta.Role)}
			}
		}
		if delta.Content == "" {
			continue
		}
		return delta.Content, nil
	}
}

func (d *deltaStream) Close() error {
	return d.stream.Close()
}
