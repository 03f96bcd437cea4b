package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/arturoeanton/knowledge-chat/internal/adapter/httpjson"
	"github.com/arturoeanton/knowledge-chat/internal/port"
)

// OllamaEndpointConfig holds the configuration for a single Ollama endpoint.
type OllamaEndpointConfig struct {
	BaseURL   string // e.g. http://localhost:11434 or https://api.ollama.com
	Model     string // e.g. all-minilm, bge-m3
	Token     string // Bearer token for Ollama Cloud (empty = no auth)
	Dimension int    // expected vector length, 0 = unchecked
	Timeout   time.Duration
}

// OllamaEmbedder implements port.Embedder using the Ollama REST API.
type OllamaEmbedder struct {
	embed      OllamaEndpointConfig
	httpClient *http.Client
}

// NewOllamaEmbedder creates a new Ollama-backed embedder.
func NewOllamaEmbedder(embed OllamaEndpointConfig) *OllamaEmbedder {
	return &OllamaEmbedder{
		embed:      embed,
		httpClient: &http.Client{Timeout: embed.Timeout},
	}
}

// ModelName returns the embedding model identifier.
func (o *OllamaEmbedder) ModelName() string {
	return o.embed.Model
}

// Embed generates a vector embedding for the given text.
// /api/embed always answers with a list of vectors; the first one is returned.
func (o *OllamaEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	payload := map[string]interface{}{
		"model": o.embed.Model,
		"input": text,
	}

	url := strings.TrimRight(o.embed.BaseURL, "/") + "/api/embed"
	body, err := httpjson.Post(ctx, o.httpClient, url, httpjson.Bearer(o.embed.Token), payload)
	if err != nil {
		return nil, fmt.Errorf("%w: ollama embed: %w", port.ErrEmbeddingProvider, err)
	}

	var resp struct {
		Embeddings json.RawMessage `json:"embeddings"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: ollama embed decode: %w", port.ErrEmbeddingProvider, err)
	}
	if len(resp.Embeddings) == 0 {
		return nil, fmt.Errorf("%w: ollama embed: empty response", port.ErrEmbeddingProvider)
	}

	vec, err := flattenEmbedding(resp.Embeddings)
	if err != nil {
		return nil, fmt.Errorf("%w: ollama embed decode: %w", port.ErrEmbeddingProvider, err)
	}
	if err := checkDimension(vec, o.embed.Dimension); err != nil {
		return nil, fmt.Errorf("%w: ollama embed: %w", port.ErrEmbeddingProvider, err)
	}
	return vec, nil
}
