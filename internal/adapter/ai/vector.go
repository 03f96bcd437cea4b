package ai

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var errMalformedEmbedding = errors.New("malformed embedding payload")

// flattenEmbedding decodes a feature-extraction payload that is either a flat
// vector [f, ...] or a singleton-wrapped one [[f, ...]], and returns the flat vector.
func flattenEmbedding(body []byte) ([]float32, error) {
	var outer []json.RawMessage
	if err := json.Unmarshal(body, &outer); err != nil {
		return nil, fmt.Errorf("%w: %v", errMalformedEmbedding, err)
	}
	if len(outer) == 0 {
		return nil, fmt.Errorf("%w: empty vector", errMalformedEmbedding)
	}

	target := body
	if first := bytes.TrimSpace(outer[0]); len(first) > 0 && first[0] == '[' {
		target = first
	}

	// Pointers so that null elements can be told apart from 0.
	var raw []*float32
	if err := json.Unmarshal(target, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", errMalformedEmbedding, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty vector", errMalformedEmbedding)
	}

	vec := make([]float32, len(raw))
	for i, v := range raw {
		if v == nil {
			return nil, fmt.Errorf("%w: null at index %d", errMalformedEmbedding, i)
		}
		vec[i] = *v
	}
	return vec, nil
}

// checkDimension rejects vectors whose length differs from want. want <= 0 disables the check.
func checkDimension(vec []float32, want int) error {
	if want > 0 && len(vec) != want {
		return fmt.Errorf("%w: got dimension %d, want %d", errMalformedEmbedding, len(vec), want)
	}
	return nil
}
