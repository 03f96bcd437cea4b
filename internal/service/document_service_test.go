package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/arturoeanton/knowledge-chat/internal/port"
)

func TestDocumentService_Ingest(t *testing.T) {
	embedder := &fakeEmbedder{vec: []float32{0.5, 0.25}}
	writer := &fakeRetriever{}
	svc := NewDocumentService(embedder, writer, time.Second)

	if err := svc.Ingest(context.Background(), "  Go is a statically typed language.\n"); err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	if len(writer.inserted) != 1 {
		t.Fatalf("inserted = %d, want 1", len(writer.inserted))
	}
	p := writer.inserted[0]
	if p.Content != "Go is a statically typed language." {
		t.Errorf("content = %q", p.Content)
	}
	if len(p.Embedding) != 2 || p.Embedding[0] != 0.5 {
		t.Errorf("embedding = %v", p.Embedding)
	}
	if embedder.texts[0] != "Go is a statically typed language." {
		t.Errorf("embedded %q", embedder.texts[0])
	}
}

func TestDocumentService_IngestRejectsBlank(t *testing.T) {
	embedder := &fakeEmbedder{}
	writer := &fakeRetriever{}
	svc := NewDocumentService(embedder, writer, time.Second)

	for _, content := range []string{"", "   ", "\n\t"} {
		err := svc.Ingest(context.Background(), content)
		if !errors.Is(err, port.ErrEmptyContent) {
			t.Errorf("Ingest(%q) = %v, want ErrEmptyContent", content, err)
		}
	}
	if embedder.calls != 0 || len(writer.inserted) != 0 {
		t.Error("blank content must not reach the providers")
	}
}

func TestDocumentService_IngestFailures(t *testing.T) {
	boom := errors.New("boom")

	t.Run("embedding", func(t *testing.T) {
		writer := &fakeRetriever{}
		svc := NewDocumentService(&fakeEmbedder{err: boom}, writer, time.Second)

		err := svc.Ingest(context.Background(), "text")
		if !errors.Is(err, port.ErrEmbeddingProvider) {
			t.Errorf("err = %v", err)
		}
		if len(writer.inserted) != 0 {
			t.Error("nothing should be stored when embedding fails")
		}
	})

	t.Run("insert", func(t *testing.T) {
		svc := NewDocumentService(&fakeEmbedder{}, &fakeRetriever{insertErr: boom}, time.Second)

		err := svc.Ingest(context.Background(), "text")
		if !errors.Is(err, boom) {
			t.Errorf("err = %v", err)
		}
	})
}

func TestDocumentService_EmbeddingSelfTest(t *testing.T) {
	embedder := &fakeEmbedder{vec: []float32{1, 2, 3, 4, 5, 6, 7}}
	svc := NewDocumentService(embedder, &fakeRetriever{}, 0)

	res, err := svc.TestEmbedding(context.Background())
	if err != nil {
		t.Fatalf("TestEmbedding: %v", err)
	}
	if res.Model != "fake-embed" || res.Length != 7 {
		t.Errorf("result = %+v", res)
	}
	if len(res.Sample) != 5 || res.Sample[4] != 5 {
		t.Errorf("sample = %v", res.Sample)
	}
	if embedder.texts[0] != "Hello world" {
		t.Errorf("sample text = %q", embedder.texts[0])
	}
}

func TestDocumentService_EmbeddingSelfTestShortVector(t *testing.T) {
	svc := NewDocumentService(&fakeEmbedder{vec: []float32{9, 8}}, &fakeRetriever{}, time.Second)

	res, err := svc.TestEmbedding(context.Background())
	if err != nil {
		t.Fatalf("TestEmbedding: %v", err)
	}
	if res.Length != 2 || len(res.Sample) != 2 {
		t.Errorf("result = %+v", res)
	}
}

func TestDocumentService_EmbeddingSelfTestFailure(t *testing.T) {
	svc := NewDocumentService(&fakeEmbedder{err: errors.New("401")}, &fakeRetriever{}, time.Second)

	if _, err := svc.TestEmbedding(context.Background()); !errors.Is(err, port.ErrEmbeddingProvider) {
		t.Errorf("err = %v", err)
	}
}
