package port

import (
	"context"

	"github.com/arturoeanton/knowledge-chat/internal/domain"
)

// Retriever runs the similarity search over stored passages.
type Retriever interface {
	// Match returns at most limit passages whose similarity is >= threshold,
	// ordered by descending similarity. No match is not an error.
	Match(ctx context.Context, embedding []float32, threshold float64, limit int) ([]domain.RetrievalMatch, error)
}

// PassageWriter persists new passages for later retrieval.
type PassageWriter interface {
	InsertPassage(ctx context.Context, p domain.Passage) error
}

// VectorBackend is a store that can both read and write passages.
type VectorBackend interface {
	Retriever
	PassageWriter
}
