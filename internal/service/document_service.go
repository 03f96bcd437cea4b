package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/arturoeanton/knowledge-chat/internal/domain"
	"github.com/arturoeanton/knowledge-chat/internal/observability"
	"github.com/arturoeanton/knowledge-chat/internal/port"
	"go.opentelemetry.io/otel/attribute"
)

// sampleText is embedded by TestEmbedding.
const sampleText = "Hello world"

// EmbeddingReport describes a diagnostic embedding call.
type EmbeddingReport struct {
	Model  string    `json:"model"`
	Length int       `json:"length"`
	Sample []float32 `json:"sample"`
}

// DocumentService writes new passages into the knowledge base.
type DocumentService struct {
	embedder port.Embedder
	writer   port.PassageWriter
	timeout  time.Duration
}

// NewDocumentService creates a new ingestion service.
func NewDocumentService(embedder port.Embedder, writer port.PassageWriter, timeout time.Duration) *DocumentService {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &DocumentService{embedder: embedder, writer: writer, timeout: timeout}
}

// Ingest embeds content and stores it as a new passage.
func (s *DocumentService) Ingest(ctx context.Context, content string) error {
	content = strings.TrimSpace(content)
	if content == "" {
		return port.ErrEmptyContent
	}

	ctx, span := observability.StartStageSpan(ctx, observability.StageIngest,
		attribute.Int("rag.content_len", len(content)))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	vec, err := s.embedder.Embed(ctx, content)
	if err != nil {
		err = classify(err, port.ErrEmbeddingProvider)
		observability.RecordError(span, err)
		return fmt.Errorf("ingest: %w", err)
	}

	if err := s.writer.InsertPassage(ctx, domain.Passage{Content: content, Embedding: vec}); err != nil {
		observability.RecordError(span, err)
		return fmt.Errorf("ingest: %w", err)
	}

	slog.Info("document ingested", "content_len", len(content), "dimension", len(vec))
	return nil
}

// TestEmbedding embeds a fixed text and reports the vector length and its first values.
func (s *DocumentService) TestEmbedding(ctx context.Context) (*EmbeddingReport, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	vec, err := s.embedder.Embed(ctx, sampleText)
	if err != nil {
		return nil, classify(err, port.ErrEmbeddingProvider)
	}

	n := 5
	if len(vec) < n {
		n = len(vec)
	}
	return &EmbeddingReport{
		Model:  s.embedder.ModelName(),
		Length: len(vec),
		Sample: append([]float32(nil), vec[:n]...),
	}, nil
}
