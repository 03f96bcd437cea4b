package port

import (
	"errors"
	"fmt"
)

// Sentinel errors used across ports.
// Adapters wrap them with fmt.Errorf("%w: ...") so callers can classify with errors.Is.
var (
	ErrValidation         = errors.New("invalid request")
	ErrEmbeddingProvider  = errors.New("embedding provider failed")
	ErrRetrieval          = errors.New("retrieval failed")
	ErrCompletionProvider = errors.New("completion provider failed")

	ErrEmptyContent = fmt.Errorf("%w: content is required", ErrValidation)

	// ErrNoMessage marks a request body without a usable user message. It is not a
	// pipeline failure; only the legacy protocol turns it into a 400.
	ErrNoMessage = fmt.Errorf("%w: message is required", ErrValidation)
)
