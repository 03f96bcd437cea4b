package port

import (
	"errors"
	"testing"
)

func TestValidationErrors(t *testing.T) {
	for _, err := range []error{ErrEmptyContent, ErrNoMessage} {
		if !errors.Is(err, ErrValidation) {
			t.Errorf("%v does not match ErrValidation", err)
		}
	}
	for _, err := range []error{ErrEmbeddingProvider, ErrRetrieval, ErrCompletionProvider} {
		if errors.Is(err, ErrValidation) {
			t.Errorf("%v must not be a validation error", err)
		}
	}
}
