package generation

import (
	"context"
	"errors"
	"testing"

	"github.com/deepgram/assistant/internal/domain/generation"
	"github.com/deepgram/assistant/internal/services/chat"
	"github.com/deepgram/assistant/internal/services/chat/chattest"
	"github.com/deepgram/assistant/pkg/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	fake := &chattest.Fake{Completion: "# AI trends\n\nA post."}
	svc := NewServiceWithStore(fake, NewMemoryStore())

	result, err := svc.Generate(context.Background(), "s1", generation.Params{
		ContentType: generation.ContentBlog,
		Topic:       "AI trends",
		Tone:        generation.ToneCasual,
		Length:      500,
	})
	require.NoError(t, err)

	want := `Write a blog about "AI trends" in a casual tone. The content should be approximately 500 words long.`
	assert.Equal(t, want, result.Prompt)
	assert.Equal(t, "# AI trends\n\nA post.", result.Content)
	assert.Equal(t, []string{want}, fake.Prompts())
	assert.Equal(t, 1, fake.CompleteCalls())

	output, err := svc.Output(context.Background(), "s1")
	require.NoError(t, err)
	require.NotNil(t, output)
	assert.Equal(t, result.Content, output.Content)
}

func TestGenerateAppliesDefaults(t *testing.T) {
	fake := &chattest.Fake{Completion: "ok"}
	svc := NewServiceWithStore(fake, NewMemoryStore())

	result, err := svc.Generate(context.Background(), "s1", generation.Params{Topic: "Launch"})
	require.NoError(t, err)

	assert.Equal(t, generation.ContentBlog, result.Params.ContentType)
	assert.Equal(t, generation.ToneProfessional, result.Params.Tone)
	assert.Equal(t, generation.DefaultLength, result.Params.Length)
}

func TestGenerateRejectsInvalidParams(t *testing.T) {
	tests := []struct {
		name   string
		params generation.Params
		field  string
	}{
		{"blank topic", generation.Params{Topic: "  "}, "topic"},
		{"unknown type", generation.Params{Topic: "x", ContentType: "poem"}, "content_type"},
		{"unknown tone", generation.Params{Topic: "x", Tone: "angry"}, "tone"},
		{"too short", generation.Params{Topic: "x", Length: 50}, "length"},
		{"too long", generation.Params{Topic: "x", Length: 2500}, "length"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &chattest.Fake{Completion: "unused"}
			svc := NewServiceWithStore(fake, NewMemoryStore())

			_, err := svc.Generate(context.Background(), "s1", tt.params)
			require.Error(t, err)

			var ve *validation.Error
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.field, ve.Field)
			assert.Equal(t, 0, fake.CompleteCalls())
		})
	}
}

func TestGenerateReplacesOutput(t *testing.T) {
	fake := &chattest.Fake{Completion: "first"}
	svc := NewServiceWithStore(fake, NewMemoryStore())

	_, err := svc.Generate(context.Background(), "s1", generation.Params{Topic: "one"})
	require.NoError(t, err)

	fake.Completion = "second"
	_, err = svc.Generate(context.Background(), "s1", generation.Params{Topic: "two"})
	require.NoError(t, err)

	output, err := svc.Output(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "second", output.Content)
	assert.Equal(t, "two", output.Params.Topic)
}

func TestGenerateFailureKeepsPreviousOutput(t *testing.T) {
	fake := &chattest.Fake{Completion: "first"}
	svc := NewServiceWithStore(fake, NewMemoryStore())

	_, err := svc.Generate(context.Background(), "s1", generation.Params{Topic: "one"})
	require.NoError(t, err)

	fake.CompleteErr = &chat.ProviderError{Op: "completion", Err: errors.New("timeout")}
	_, err = svc.Generate(context.Background(), "s1", generation.Params{Topic: "two"})
	require.Error(t, err)
	assert.True(t, chat.IsProviderError(err))
	assert.Equal(t, 2, fake.CompleteCalls())

	output, err := svc.Output(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "first", output.Content)
}

func TestOutputBeforeGenerate(t *testing.T) {
	svc := NewServiceWithStore(&chattest.Fake{}, NewMemoryStore())

	output, err := svc.Output(context.Background(), "s1")
	require.NoError(t, err)
	assert.Nil(t, output)
}

func TestPrepareWithKeywords(t *testing.T) {
	_, prompt, err := Prepare(generation.Params{
		ContentType:     generation.ContentEmail,
		Topic:           "Newsletter",
		Tone:            generation.ToneFriendly,
		Length:          300,
		IncludeKeywords: true,
		Keywords:        "updates, events",
	})
	require.NoError(t, err)
	assert.Equal(t, `Write a email about "Newsletter" in a friendly tone including the following keywords: updates, events. The content should be approximately 300 words long.`, prompt)
}
