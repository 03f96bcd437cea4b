package port

import "context"

// Embedder turns text into a fixed-length vector.
// Implementations wrap a remote feature-extraction model and always return a flat vector.
type Embedder interface {
	// ModelName returns the identifier of the embedding model.
	ModelName() string

	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Completer abstracts the chat completion backend.
// The model is fixed by the implementation's configuration; callers cannot choose it.
type Completer interface {
	// ModelName returns the identifier of the chat model being used.
	ModelName() string

	// Complete sends a system prompt and a single user turn and returns the first choice's content.
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}
