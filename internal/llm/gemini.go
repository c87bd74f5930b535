package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const defaultGeminiModel = "gemini-1.5-flash"

// Gemini is the hosted backend, used only when an API key is configured. The
// client is built once at construction and lives for the process.
type Gemini struct {
	client *genai.Client
	model  string
}

func NewGemini(apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: no API key configured")
	}
	if model == "" {
		model = defaultGeminiModel
	}
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &Gemini{client: client, model: model}, nil
}

func (g *Gemini) Name() string { return "gemini" }

func (g *Gemini) Available() bool { return g.client != nil }

func (g *Gemini) Close() error {
	if g.client == nil {
		return nil
	}
	return g.client.Close()
}

func (g *Gemini) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if g.client == nil {
		return "", &UnavailableError{Backend: g.Name(), Detail: "client not initialized"}
	}
	model := g.client.GenerativeModel(g.model)
	model.SetMaxOutputTokens(int32(maxTokens))
	model.SetTemperature(0.2)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "blocked") {
			return "", &GuardrailError{Backend: g.Name(), Detail: err.Error()}
		}
		return "", fmt.Errorf("gemini completion: %w", err)
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockReasonUnspecified {
		return "", &GuardrailError{Backend: g.Name(), Detail: resp.PromptFeedback.BlockReason.String()}
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", &MalformedError{Detail: "gemini returned no candidates"}
	}
	if resp.Candidates[0].FinishReason == genai.FinishReasonSafety {
		return "", &GuardrailError{Backend: g.Name(), Detail: "safety finish reason"}
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String(), nil
}

var _ Backend = (*Gemini)(nil)
