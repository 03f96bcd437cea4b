package ai

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/arturoeanton/knowledge-chat/internal/adapter/httpjson"
	"github.com/arturoeanton/knowledge-chat/internal/port"
)

// HuggingFaceConfig configures the Hugging Face feature-extraction endpoint.
type HuggingFaceConfig struct {
	BaseURL   string // e.g. https://router.huggingface.co/hf-inference
	Model     string // e.g. sentence-transformers/all-MiniLM-L6-v2
	Token     string
	Dimension int // expected vector length, 0 = unchecked
	Timeout   time.Duration
}

// HuggingFaceEmbedder implements port.Embedder with the HF inference feature-extraction pipeline.
type HuggingFaceEmbedder struct {
	cfg        HuggingFaceConfig
	httpClient *http.Client
}

// NewHuggingFaceEmbedder creates an embedder for a fixed model.
func NewHuggingFaceEmbedder(cfg HuggingFaceConfig) *HuggingFaceEmbedder {
	return &HuggingFaceEmbedder{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// ModelName returns the embedding model identifier.
func (h *HuggingFaceEmbedder) ModelName() string {
	return h.cfg.Model
}

// Embed generates a flat vector embedding for the given text.
func (h *HuggingFaceEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	url := strings.TrimRight(h.cfg.BaseURL, "/") + "/models/" + h.cfg.Model + "/pipeline/feature-extraction"

	body, err := httpjson.Post(ctx, h.httpClient, url, httpjson.Bearer(h.cfg.Token), map[string]interface{}{
		"inputs": text,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: huggingface embed: %w", port.ErrEmbeddingProvider, err)
	}

	vec, err := flattenEmbedding(body)
	if err != nil {
		return nil, fmt.Errorf("%w: huggingface embed decode: %w", port.ErrEmbeddingProvider, err)
	}
	if err := checkDimension(vec, h.cfg.Dimension); err != nil {
		return nil, fmt.Errorf("%w: huggingface embed: %w", port.ErrEmbeddingProvider, err)
	}
	return vec, nil
}
