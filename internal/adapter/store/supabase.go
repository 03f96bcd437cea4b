package store

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/arturoeanton/knowledge-chat/internal/adapter/httpjson"
	"github.com/arturoeanton/knowledge-chat/internal/domain"
	"github.com/arturoeanton/knowledge-chat/internal/port"
)

// SupabaseConfig configures access to a Supabase project's PostgREST API.
type SupabaseConfig struct {
	URL            string // e.g. https://xyzcompany.supabase.co
	ServiceRoleKey string
	Timeout        time.Duration
}

// SupabaseStore talks to the documents table and the match_documents RPC through PostgREST.
type SupabaseStore struct {
	baseURL    string
	key        string
	httpClient *http.Client
}

// NewSupabaseStore creates a PostgREST-backed store.
func NewSupabaseStore(cfg SupabaseConfig) *SupabaseStore {
	return &SupabaseStore{
		baseURL:    strings.TrimRight(cfg.URL, "/") + "/rest/v1",
		key:        cfg.ServiceRoleKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// Match calls rpc/match_documents and returns the ranked rows.
func (s *SupabaseStore) Match(ctx context.Context, embedding []float32, threshold float64, limit int) ([]domain.RetrievalMatch, error) {
	payload := map[string]interface{}{
		"query_embedding": embedding,
		"match_threshold": threshold,
		"match_count":     limit,
	}

	body, err := s.post(ctx, "/rpc/match_documents", payload, "")
	if err != nil {
		return nil, fmt.Errorf("%w: supabase match_documents: %w", port.ErrRetrieval, err)
	}

	var rows []domain.RetrievalMatch
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("%w: supabase match_documents decode: %w", port.ErrRetrieval, err)
	}

	return RankMatches(rows, threshold, limit), nil
}

// InsertPassage inserts a row into the documents table.
func (s *SupabaseStore) InsertPassage(ctx context.Context, p domain.Passage) error {
	payload := map[string]interface{}{
		"content":   p.Content,
		"embedding": p.Embedding,
	}
	if _, err := s.post(ctx, "/documents", payload, "return=minimal"); err != nil {
		return fmt.Errorf("supabase insert document: %w", err)
	}
	return nil
}

func (s *SupabaseStore) post(ctx context.Context, path string, payload interface{}, prefer string) ([]byte, error) {
	headers := map[string]string{
		"apikey":        s.key,
		"Authorization": "Bearer " + s.key,
	}
	if prefer != "" {
		headers["Prefer"] = prefer
	}
	body, err := httpjson.Post(ctx, s.httpClient, s.baseURL+path, headers, payload)
	if err != nil {
		return nil, fmt.Errorf("supabase: %w", err)
	}
	return body, nil
}
