package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deepgram/assistant/internal/config"
	"github.com/deepgram/assistant/internal/domain/conversation"
	infraopenai "github.com/deepgram/assistant/internal/infrastructure/openai"
	"github.com/deepgram/assistant/internal/services/chat/models"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newProvider starts a fake OpenAI-compatible endpoint.
func newProvider(t *testing.T, handler http.HandlerFunc) *Implementation {
	t.Helper()
	return newProviderWithInstructions(t, "", handler)
}

func newProviderWithInstructions(t *testing.T, instructions string, handler http.HandlerFunc) *Implementation {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	svc, err := NewService(infraopenai.NewService(config.OpenAIConfig{
		Key:          "sk-test",
		Model:        "gpt-4o-mini",
		BaseURL:      srv.URL + "/v1",
		Temperature:  0.7,
		MaxTokens:    1000,
		Instructions: instructions,
	}))
	require.NoError(t, err)
	return svc
}

func writeChunk(w http.ResponseWriter, role, content string) {
	chunk := openai.ChatCompletionStreamResponse{
		ID:    "chatcmpl-test",
		Model: "gpt-4o-mini",
		Choices: []openai.ChatCompletionStreamChoice{{
			Delta: openai.ChatCompletionStreamChoiceDelta{Role: role, Content: content},
		}},
	}
	data, _ := json.Marshal(chunk)
	fmt.Fprintf(w, "data: %s\n\n", data)
	w.(http.Flusher).Flush()
}

func TestStreamChat(t *testing.T) {
	var received openai.ChatCompletionRequest
	svc := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/chat/completions", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.Header().Set("Content-Type", "text/event-stream")
		writeChunk(w, "assistant", "")
		writeChunk(w, "", "Quantum ")
		writeChunk(w, "", "computing ")
		writeChunk(w, "", "uses qubits.")
		fmt.Fprint(w, "data: [DONE]\n\n")
	})

	stream, err := svc.StreamChat(context.Background(), []conversation.Message{
		{Role: conversation.RoleUser, Content: "Explain quantum computing"},
	})
	require.NoError(t, err)
	defer stream.Close()

	var deltas []string
	for {
		d, err := stream.Recv()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		deltas = append(deltas, d)
	}

	assert.Equal(t, []string{"Quantum ", "computing ", "uses qubits."}, deltas)

	assert.True(t, received.Stream)
	assert.Equal(t, "gpt-4o-mini", received.Model)
	require.Len(t, received.Messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, received.Messages[0].Role)
	assert.Equal(t, "user", received.Messages[1].Role)
	assert.Equal(t, "Explain quantum computing", received.Messages[1].Content)
}

func TestStreamChatRejectsUnexpectedRole(t *testing.T) {
	svc := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		writeChunk(w, "tool", "{}")
		fmt.Fprint(w, "data: [DONE]\n\n")
	})

	stream, err := svc.StreamChat(context.Background(), []conversation.Message{
		{Role: conversation.RoleUser, Content: "hi"},
	})
	require.NoError(t, err)
	defer stream.Close()

	_, err = stream.Recv()
	require.Error(t, err)
	assert.True(t, IsProviderError(err))
}

func TestStreamChatProviderFailure(t *testing.T) {
	svc := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"error":{"message":"boom","type":"server_error"}}`)
	})

	_, err := svc.StreamChat(context.Background(), []conversation.Message{
		{Role: conversation.RoleUser, Content: "hi"},
	})
	require.Error(t, err)
	assert.True(t, IsProviderError(err))
}

func TestStreamChatRequiresHistory(t *testing.T) {
	svc := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("provider must not be called")
	})

	_, err := svc.StreamChat(context.Background(), nil)
	assert.Error(t, err)
}

func TestComplete(t *testing.T) {
	var received openai.ChatCompletionRequest
	svc := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			ID: "chatcmpl-test",
			Choices: []openai.ChatCompletionChoice{{
				Message: openai.ChatCompletionMessage{Role: "assistant", Content: "# AI trends\n\nThings are moving fast."},
			}},
			Usage: openai.Usage{PromptTokens: 20, CompletionTokens: 10, TotalTokens: 30},
		})
	})

	out, err := svc.Complete(context.Background(), `Write a blog about "AI trends" in a casual tone.`)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "# AI trends"))
	assert.False(t, received.Stream)
	require.Len(t, received.Messages, 2)
	assert.Equal(t, `Write a blog about "AI trends" in a casual tone.`, received.Messages[1].Content)
}

func TestCompleteWithoutChoices(t *testing.T) {
	svc := newProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"x","choices":[]}`)
	})

	_, err := svc.Complete(context.Background(), "prompt")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestSystemPromptCustomInstructions(t *testing.T) {
	tests := []struct {
		name         string
		instructions string
		want         string
	}{
		{"default", "", models.DefaultSystemPrompt().String()},
		{"configured", "  Always answer in haiku.\n", "Always answer in haiku."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var received openai.ChatCompletionRequest
			svc := newProviderWithInstructions(t, tt.instructions, func(w http.ResponseWriter, r *http.Request) {
				require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
				w.Header().Set("Content-Type", "application/json")
				fmt.Fprint(w, `{"id":"x","choices":[{"message":{"role":"assistant","content":"ok"}}]}`)
			})

			_, err := svc.Complete(context.Background(), "prompt")
			require.NoError(t, err)

			require.NotEmpty(t, received.Messages)
			assert.Equal(t, openai.ChatMessageRoleSystem, received.Messages[0].Role)
			assert.Contains(t, received.Messages[0].Content, tt.want)
		})
	}
}

func TestNewServiceRequiresProvider(t *testing.T) {
	_, err := NewService(nil)
	assert.Error(t, err)
}
