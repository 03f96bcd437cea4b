package store

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/arturoeanton/knowledge-chat/internal/domain"
	"github.com/arturoeanton/knowledge-chat/internal/port"
)

// VectorStore handles pgvector-specific operations over the documents table.
type VectorStore struct {
	store     *PostgresStore
	dimension int
}

// NewVectorStore creates a vector store backed by the given Postgres store.
func NewVectorStore(store *PostgresStore, dimension int) *VectorStore {
	return &VectorStore{store: store, dimension: dimension}
}

// Match calls the match_documents SQL function and returns the ranked rows.
func (v *VectorStore) Match(ctx context.Context, embedding []float32, threshold float64, limit int) ([]domain.RetrievalMatch, error) {
	if v.dimension > 0 && len(embedding) != v.dimension {
		return nil, fmt.Errorf("%w: query embedding has dimension %d, want %d", port.ErrRetrieval, len(embedding), v.dimension)
	}

	query := `SELECT content, similarity FROM match_documents($1::vector, $2, $3)`

	rows, err := v.store.db.QueryContext(ctx, query, vectorToString(embedding), threshold, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: match documents: %w", port.ErrRetrieval, err)
	}
	defer rows.Close()

	var matches []domain.RetrievalMatch
	for rows.Next() {
		var m domain.RetrievalMatch
		if err := rows.Scan(&m.Content, &m.Similarity); err != nil {
			return nil, fmt.Errorf("%w: scan match: %w", port.ErrRetrieval, err)
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate matches: %w", port.ErrRetrieval, err)
	}

	return RankMatches(matches, threshold, limit), nil
}

// InsertPassage persists a single passage with its vector.
func (v *VectorStore) InsertPassage(ctx context.Context, p domain.Passage) error {
	if v.dimension > 0 && len(p.Embedding) != v.dimension {
		return fmt.Errorf("insert passage: embedding has dimension %d, want %d", len(p.Embedding), v.dimension)
	}

	query := `INSERT INTO documents (content, embedding) VALUES ($1, $2::vector)`
	if _, err := v.store.db.ExecContext(ctx, query, p.Content, vectorToString(p.Embedding)); err != nil {
		return fmt.Errorf("insert passage: %w", err)
	}
	return nil
}

// RankMatches enforces the retrieval contract on rows coming back from a store:
// rows below threshold are dropped, the rest are stably sorted by descending
// similarity and truncated to limit. The result is never nil.
func RankMatches(matches []domain.RetrievalMatch, threshold float64, limit int) []domain.RetrievalMatch {
	ranked := make([]domain.RetrievalMatch, 0, len(matches))
	for _, m := range matches {
		if m.Similarity >= threshold {
			ranked = append(ranked, m)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Similarity > ranked[j].Similarity
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// vectorToString converts a float32 slice to pgvector string format: [0.1,0.2,0.3].
func vectorToString(v []float32) string {
	parts := make([]string, len(v))
	for i, val := range v {
		parts[i] = strconv.FormatFloat(float64(val), 'g', -1, 32)
	}
	return "[" + strings.Join(parts, ",") + "]"
}
