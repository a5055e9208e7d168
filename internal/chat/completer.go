// Package chat implements the restaurant assistant: a transcript that
// forwards customer messages to a completion service and never surfaces its
// failures to the caller.
package chat

import (
	"context"
	"errors"

	"gourmet/internal/models"
	"gourmet/internal/models/providers"
)

// ErrCompletion wraps every failure to obtain a reply
var ErrCompletion = errors.New("chat completion failed")

// Completer produces the assistant reply to message given the prior history
type Completer interface {
	Complete(ctx context.Context, history []models.ChatMessage, message string) (string, error)
}

// CompleterFunc adapts a function to the Completer interface
type CompleterFunc func(ctx context.Context, history []models.ChatMessage, message string) (string, error)

// Complete calls f
func (f CompleterFunc) Complete(ctx context.Context, history []models.ChatMessage, message string) (string, error) {
	return f(ctx, history, message)
}

// ToMessages converts a transcript plus the new user message into role/content
// pairs as sent to completion endpoints.
func ToMessages(history []models.ChatMessage, message string) []providers.Message {
	out := make([]providers.Message, 0, len(history)+1)
	for _, m := range history {
		out = append(out, providers.Message{Role: m.Role(), Content: m.Content})
	}
	return append(out, providers.Message{Role: "user", Content: message})
}
