package store

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/arturoeanton/knowledge-chat/internal/domain"
	"github.com/arturoeanton/knowledge-chat/internal/port"
)

func TestSupabaseStore_Match(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/v1/rpc/match_documents" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("apikey") != "service-key" || r.Header.Get("Authorization") != "Bearer service-key" {
			t.Errorf("missing auth headers: %v", r.Header)
		}

		var req struct {
			QueryEmbedding []float32 `json:"query_embedding"`
			MatchThreshold float64   `json:"match_threshold"`
			MatchCount     int       `json:"match_count"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(req.QueryEmbedding) != 3 || req.MatchThreshold != 0.3 || req.MatchCount != 5 {
			t.Errorf("unexpected rpc args: %+v", req)
		}

		// Unordered and with one row under the threshold.
		w.Write([]byte(`[
			{"id": 2, "content": "second", "similarity": 0.41},
			{"id": 1, "content": "first", "similarity": 0.87},
			{"id": 3, "content": "noise", "similarity": 0.12}
		]`))
	}))
	defer server.Close()

	s := NewSupabaseStore(SupabaseConfig{URL: server.URL + "/", ServiceRoleKey: "service-key", Timeout: time.Second})
	matches, err := s.Match(context.Background(), []float32{0.1, 0.2, 0.3}, 0.3, 5)
	if err != nil {
		t.Fatalf("match failed: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[0].Content != "first" || matches[1].Content != "second" {
		t.Errorf("unexpected order: %+v", matches)
	}
}

func TestSupabaseStore_MatchEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	s := NewSupabaseStore(SupabaseConfig{URL: server.URL, ServiceRoleKey: "k", Timeout: time.Second})
	matches, err := s.Match(context.Background(), []float32{0.1}, 0.3, 5)
	if err != nil {
		t.Fatalf("empty result must not be an error: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("expected no matches, got %d", len(matches))
	}
}

func TestSupabaseStore_MatchError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message": "Could not find the function public.match_documents"}`))
	}))
	defer server.Close()

	s := NewSupabaseStore(SupabaseConfig{URL: server.URL, ServiceRoleKey: "k", Timeout: time.Second})
	_, err := s.Match(context.Background(), []float32{0.1}, 0.3, 5)
	if !errors.Is(err, port.ErrRetrieval) {
		t.Errorf("expected ErrRetrieval, got %v", err)
	}
}

func TestSupabaseStore_InsertPassage(t *testing.T) {
	var got map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/v1/documents" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Prefer") != "return=minimal" {
			t.Errorf("Prefer = %q", r.Header.Get("Prefer"))
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	s := NewSupabaseStore(SupabaseConfig{URL: server.URL, ServiceRoleKey: "k", Timeout: time.Second})
	err := s.InsertPassage(context.Background(), domain.Passage{Content: "hello", Embedding: []float32{0.5, 0.25}})
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if got["content"] != "hello" {
		t.Errorf("content = %v", got["content"])
	}
	if emb, ok := got["embedding"].([]interface{}); !ok || len(emb) != 2 {
		t.Errorf("embedding = %v", got["embedding"])
	}
}
