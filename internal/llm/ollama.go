package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const (
	defaultOllamaModel  = "llama3.2"
	availabilityTimeout = 3 * time.Second

	// ollamaHistoryLimit bounds how many past turns are replayed per request.
	ollamaHistoryLimit = 20
)

const ollamaSystemPrompt = "You are a careful file-organization assistant. Answer only in the requested XML format."

// chatCompleter is the slice of the OpenAI client the Ollama backend uses,
// kept minimal so tests can substitute a mock.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
	ListModels(ctx context.Context) (openai.ModelsList, error)
}

// Ollama talks to a local Ollama server through its OpenAI-compatible API.
// It carries an ordered chat history across calls, so a short follow-up
// prompt (like a format-fix retry) still lands in the context of the task
// and the model's previous reply.
type Ollama struct {
	client  chatCompleter
	model   string
	history []openai.ChatCompletionMessage
}

// NewOllama points an OpenAI client at the server's /v1 surface. Ollama
// ignores the API key but the client library requires one.
func NewOllama(host, model string) *Ollama {
	if host == "" {
		host = "http://localhost:11434"
	}
	if model == "" {
		model = defaultOllamaModel
	}
	cfg := openai.DefaultConfig("ollama")
	cfg.BaseURL = strings.TrimRight(host, "/") + "/v1"
	return &Ollama{client: openai.NewClientWithConfig(cfg), model: model}
}

func (o *Ollama) Name() string { return "ollama" }

// Available probes the server with a model listing; a refused connection
// means no local server is running.
func (o *Ollama) Available() bool {
	ctx, cancel := context.WithTimeout(context.Background(), availabilityTimeout)
	defer cancel()
	_, err := o.client.ListModels(ctx)
	return err == nil
}

func (o *Ollama) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	o.history = append(o.history, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})

	messages := make([]openai.ChatCompletionMessage, 0, len(o.history)+1)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: ollamaSystemPrompt,
	})
	messages = append(messages, o.recentHistory()...)

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.model,
		MaxTokens:   maxTokens,
		Temperature: 0.2,
		Messages:    messages,
	})
	if err != nil {
		// A failed round trip leaves no assistant turn; drop the user turn
		// so the history stays an alternating conversation.
		o.history = o.history[:len(o.history)-1]
		if isConnectionError(err) {
			return "", &UnavailableError{Backend: o.Name(), Detail: err.Error()}
		}
		return "", fmt.Errorf("ollama completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		o.history = o.history[:len(o.history)-1]
		return "", &MalformedError{Detail: "ollama returned no choices"}
	}
	choice := resp.Choices[0]
	if choice.FinishReason == openai.FinishReasonContentFilter {
		o.history = o.history[:len(o.history)-1]
		return "", &GuardrailError{Backend: o.Name(), Detail: "content filter"}
	}

	o.history = append(o.history, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleAssistant,
		Content: choice.Message.Content,
	})
	return choice.Message.Content, nil
}

func (o *Ollama) recentHistory() []openai.ChatCompletionMessage {
	if len(o.history) <= ollamaHistoryLimit {
		return o.history
	}
	return o.history[len(o.history)-ollamaHistoryLimit:]
}

func isConnectionError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "no such host") ||
		strings.Contains(msg, "connect: ")
}

var _ Backend = (*Ollama)(nil)
