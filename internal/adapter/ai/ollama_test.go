package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/arturoeanton/knowledge-chat/internal/port"
)

func TestOllamaEmbedder_Embed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embed" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		var req map[string]interface{}
		json.NewDecoder(r.Body).Decode(&req)
		if req["model"] != "all-minilm" || req["input"] != "hello" {
			t.Errorf("unexpected request: %v", req)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"embeddings": [][]float32{{0.1, 0.2, 0.3}},
		})
	}))
	defer server.Close()

	emb := NewOllamaEmbedder(OllamaEndpointConfig{BaseURL: server.URL, Model: "all-minilm", Dimension: 3})
	vec, err := emb.Embed(context.Background(), "hello")
	if err != nil {
		t.Fatalf("embed failed: %v", err)
	}
	if len(vec) != 3 {
		t.Errorf("expected 3 dims, got %d", len(vec))
	}
	if emb.ModelName() != "all-minilm" {
		t.Errorf("ModelName = %s", emb.ModelName())
	}
}

func TestOllamaEmbedder_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, ""},
		{"no embeddings", http.StatusOK, `{}`},
		{"empty list", http.StatusOK, `{"embeddings": []}`},
		{"null element", http.StatusOK, `{"embeddings": [[null, 0.2]]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			emb := NewOllamaEmbedder(OllamaEndpointConfig{BaseURL: server.URL, Model: "m"})
			_, err := emb.Embed(context.Background(), "hello")
			if !errors.Is(err, port.ErrEmbeddingProvider) {
				t.Errorf("expected ErrEmbeddingProvider, got %v", err)
			}
		})
	}
}
