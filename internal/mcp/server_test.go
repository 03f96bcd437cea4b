package mcp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/arturoeanton/knowledge-chat/internal/domain"
	"github.com/arturoeanton/knowledge-chat/internal/service"
	"github.com/mark3labs/mcp-go/mcp"
)

type fakeEmbedder struct{ err error }

func (f *fakeEmbedder) ModelName() string { return "fake-embed" }

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return []float32{1, 0}, f.err
}

type fakeStore struct{ inserted []domain.Passage }

func (f *fakeStore) Match(ctx context.Context, embedding []float32, threshold float64, limit int) ([]domain.RetrievalMatch, error) {
	return []domain.RetrievalMatch{{Content: "Go 1.0 was released in 2012.", Similarity: 0.9}}, nil
}

func (f *fakeStore) InsertPassage(ctx context.Context, p domain.Passage) error {
	f.inserted = append(f.inserted, p)
	return nil
}

type fakeCompleter struct {
	response string
	err      error
}

func (f *fakeCompleter) ModelName() string { return "fake-llm" }

func (f *fakeCompleter) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return f.response, f.err
}

func newTestServer(emb *fakeEmbedder, st *fakeStore, comp *fakeCompleter) *Server {
	chat := service.NewChatService(emb, st, comp, service.DefaultChatOptions())
	docs := service.NewDocumentService(emb, st, time.Second)
	return NewServer(chat, docs, "knowledge-chat", "test", "0")
}

func callRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) != 1 {
		t.Fatalf("content items = %d", len(res.Content))
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content type = %T", res.Content[0])
	}
	return text.Text
}

func TestAskKnowledgeBase(t *testing.T) {
	s := newTestServer(&fakeEmbedder{}, &fakeStore{}, &fakeCompleter{response: "It was released in 2012."})

	res, err := s.AskKnowledgeBase(context.Background(), callRequest("ask_knowledge_base",
		map[string]interface{}{"question": "When was Go 1.0 released?"}))
	if err != nil {
		t.Fatalf("AskKnowledgeBase: %v", err)
	}
	if res.IsError {
		t.Fatal("unexpected tool error")
	}
	if got := resultText(t, res); got != "It was released in 2012." {
		t.Errorf("text = %q", got)
	}
}

func TestAskKnowledgeBase_Errors(t *testing.T) {
	tests := []struct {
		name      string
		args      map[string]interface{}
		completer *fakeCompleter
		want      string
	}{
		{"missing question", map[string]interface{}{}, &fakeCompleter{}, "question argument is required and must be a string"},
		{"blank question", map[string]interface{}{"question": "  "}, &fakeCompleter{}, "question must not be blank"},
		{"pipeline failure", map[string]interface{}{"question": "q"}, &fakeCompleter{err: errors.New("503")}, domain.ApologyText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(&fakeEmbedder{}, &fakeStore{}, tt.completer)

			res, err := s.AskKnowledgeBase(context.Background(), callRequest("ask_knowledge_base", tt.args))
			if err != nil {
				t.Fatalf("AskKnowledgeBase: %v", err)
			}
			if !res.IsError {
				t.Error("expected tool error result")
			}
			if got := resultText(t, res); got != tt.want {
				t.Errorf("text = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAddDocument(t *testing.T) {
	st := &fakeStore{}
	s := newTestServer(&fakeEmbedder{}, st, &fakeCompleter{})

	res, err := s.AddDocument(context.Background(), callRequest("add_document",
		map[string]interface{}{"content": " Go has goroutines. "}))
	if err != nil {
		t.Fatalf("AddDocument: %v", err)
	}
	if res.IsError || len(st.inserted) != 1 || st.inserted[0].Content != "Go has goroutines." {
		t.Errorf("result = %+v, inserted = %+v", res, st.inserted)
	}

	res, _ = s.AddDocument(context.Background(), callRequest("add_document",
		map[string]interface{}{"content": ""}))
	if !res.IsError {
		t.Error("blank content should be a tool error")
	}
}
