package ai

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/arturoeanton/knowledge-chat/internal/port"
	openai "github.com/sashabaranov/go-openai"
)

// OpenAIConfig configures an OpenAI-compatible chat completion endpoint (Groq by default).
type OpenAIConfig struct {
	APIKey  string
	BaseURL string // e.g. https://api.groq.com/openai/v1
	Model   string // e.g. llama-3.3-70b-versatile
	Timeout time.Duration
}

// OpenAICompleter implements port.Completer with go-openai.
type OpenAICompleter struct {
	client *openai.Client
	model  string
}

// NewOpenAICompleter creates a completer bound to a single model.
func NewOpenAICompleter(cfg OpenAIConfig) *OpenAICompleter {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &OpenAICompleter{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
	}
}

// ModelName returns the chat model identifier.
func (o *OpenAICompleter) ModelName() string {
	return o.model
}

// Complete sends the system prompt and user turn and returns the first choice's content.
// A response without choices yields an empty string, not an error.
func (o *OpenAICompleter) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: chat completion: %w", port.ErrCompletionProvider, err)
	}

	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}
