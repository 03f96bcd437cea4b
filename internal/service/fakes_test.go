package service

import (
	"context"
	"sync"

	"github.com/arturoeanton/knowledge-chat/internal/domain"
)

// fakeEmbedder implements port.Embedder for testing.
type fakeEmbedder struct {
	vec   []float32
	err   error
	calls int
	texts []string
}

func (f *fakeEmbedder) ModelName() string { return "fake-embed" }

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	f.calls++
	f.texts = append(f.texts, text)
	if f.err != nil {
		return nil, f.err
	}
	if f.vec != nil {
		return f.vec, nil
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

// fakeRetriever implements port.Retriever and port.PassageWriter for testing.
type fakeRetriever struct {
	matches   []domain.RetrievalMatch
	err       error
	calls     int
	threshold float64
	limit     int
	inserted  []domain.Passage
	insertErr error
}

func (f *fakeRetriever) Match(ctx context.Context, embedding []float32, threshold float64, limit int) ([]domain.RetrievalMatch, error) {
	f.calls++
	f.threshold = threshold
	f.limit = limit
	if f.err != nil {
		return nil, f.err
	}
	return f.matches, nil
}

func (f *fakeRetriever) InsertPassage(ctx context.Context, p domain.Passage) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, p)
	return nil
}

// fakeCompleter implements port.Completer for testing.
type fakeCompleter struct {
	mu        sync.Mutex
	response  string
	err       error
	block     bool
	panicWith interface{}
	calls     int
	system    string
	user      string
}

func (f *fakeCompleter) ModelName() string { return "fake-llm" }

func (f *fakeCompleter) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	f.mu.Lock()
	f.calls++
	f.system = systemPrompt
	f.user = userPrompt
	f.mu.Unlock()

	if f.panicWith != nil {
		panic(f.panicWith)
	}
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}
