package llm

import (
	"context"
	"errors"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockChatClient struct {
	resp    openai.ChatCompletionResponse
	err     error
	lastReq openai.ChatCompletionRequest
}

func (m *mockChatClient) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	m.lastReq = req
	return m.resp, m.err
}

func (m *mockChatClient) ListModels(_ context.Context) (openai.ModelsList, error) {
	return openai.ModelsList{}, m.err
}

func TestOllamaGenerate(t *testing.T) {
	mock := &mockChatClient{
		resp: openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Content: "<response><new_name>x</new_name></response>"}},
			},
		},
	}
	o := &Ollama{client: mock, model: "llama3.2"}

	raw, err := o.Generate(context.Background(), "prompt text", 200)
	require.NoError(t, err)
	assert.Contains(t, raw, "<new_name>x</new_name>")
	assert.Equal(t, "llama3.2", mock.lastReq.Model)
	assert.Equal(t, 200, mock.lastReq.MaxTokens)
	require.Len(t, mock.lastReq.Messages, 2)
	assert.Equal(t, openai.ChatMessageRoleUser, mock.lastReq.Messages[1].Role)
	assert.Equal(t, "prompt text", mock.lastReq.Messages[1].Content)
}

func TestOllamaCarriesChatHistory(t *testing.T) {
	mock := &mockChatClient{
		resp: openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Content: "first reply"}},
			},
		},
	}
	o := &Ollama{client: mock, model: "llama3.2"}

	_, err := o.Generate(context.Background(), "first prompt", 100)
	require.NoError(t, err)

	_, err = o.Generate(context.Background(), "second prompt", 100)
	require.NoError(t, err)

	msgs := mock.lastReq.Messages
	require.Len(t, msgs, 4)
	assert.Equal(t, openai.ChatMessageRoleSystem, msgs[0].Role)
	assert.Equal(t, "first prompt", msgs[1].Content)
	assert.Equal(t, openai.ChatMessageRoleAssistant, msgs[2].Role)
	assert.Equal(t, "first reply", msgs[2].Content)
	assert.Equal(t, "second prompt", msgs[3].Content)
}

func TestOllamaFailedCallLeavesNoHistory(t *testing.T) {
	mock := &mockChatClient{err: errors.New("dial tcp 127.0.0.1:11434: connect: connection refused")}
	o := &Ollama{client: mock, model: "llama3.2"}

	_, err := o.Generate(context.Background(), "doomed prompt", 100)
	require.Error(t, err)

	mock.err = nil
	mock.resp = openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: "ok"}},
		},
	}
	_, err = o.Generate(context.Background(), "fresh prompt", 100)
	require.NoError(t, err)

	msgs := mock.lastReq.Messages
	require.Len(t, msgs, 2, "failed round trip must not linger in the conversation")
	assert.Equal(t, "fresh prompt", msgs[1].Content)
}

func TestOllamaContentFilterIsGuardrail(t *testing.T) {
	mock := &mockChatClient{
		resp: openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{
				{FinishReason: openai.FinishReasonContentFilter},
			},
		},
	}
	o := &Ollama{client: mock, model: "llama3.2"}

	_, err := o.Generate(context.Background(), "prompt", 100)
	require.Error(t, err)
	assert.True(t, IsGuardrail(err))
}

func TestOllamaConnectionRefusedIsUnavailable(t *testing.T) {
	mock := &mockChatClient{err: errors.New("dial tcp 127.0.0.1:11434: connect: connection refused")}
	o := &Ollama{client: mock, model: "llama3.2"}

	_, err := o.Generate(context.Background(), "prompt", 100)
	require.Error(t, err)
	assert.True(t, IsUnavailable(err))
	assert.False(t, o.Available())
}

func TestOllamaEmptyChoicesIsMalformed(t *testing.T) {
	mock := &mockChatClient{resp: openai.ChatCompletionResponse{}}
	o := &Ollama{client: mock, model: "llama3.2"}

	_, err := o.Generate(context.Background(), "prompt", 100)
	require.Error(t, err)
	assert.True(t, IsMalformed(err))
}
