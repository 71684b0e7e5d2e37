package llm

import (
	"context"
	"errors"
)

// ReasoningProvider abstracts single-turn text completion backends.
// Implementations treat any transport failure, timeout, or malformed
// output uniformly as an error; callers decide how to degrade.
type ReasoningProvider interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ErrNotConfigured is returned by the placeholder provider.
var ErrNotConfigured = errors.New("reasoning provider not configured")

// Placeholder is a stub implementation used when no backend is wired.
type Placeholder struct{}

// Complete returns ErrNotConfigured.
func (Placeholder) Complete(ctx context.Context, prompt string) (string, error) {
	_ = ctx
	_ = prompt
	return "", ErrNotConfigured
}
