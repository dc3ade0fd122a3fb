// Package ai shapes spending analyses into prompts for a chat-completion
// backend and parses the replies into fixed insight and categorization
// schemas. Failures never escape: callers always get a usable result.
package ai

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned by a Completer without credentials.
var ErrNotConfigured = errors.New("ai: completion backend not configured")

// CompletionRequest is a single system+user exchange.
type CompletionRequest struct {
	System      string
	User        string
	MaxTokens   int
	Temperature float32
}

// Completer sends a prompt and returns the raw text of the first choice.
// Implementations must honor ctx cancellation.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// CompleterFunc adapts a function to Completer.
type CompleterFunc func(ctx context.Context, req CompletionRequest) (string, error)

// Complete calls f.
func (f CompleterFunc) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	return f(ctx, req)
}

type disabledCompleter struct{}

func (disabledCompleter) Complete(context.Context, CompletionRequest) (string, error) {
	return "", ErrNotConfigured
}
