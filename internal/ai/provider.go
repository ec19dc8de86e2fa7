// Package ai adapts hosted text-generation models to one small interface.
package ai

import "context"

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Provider produces the assistant's next message for a conversation.
type Provider interface {
	Chat(ctx context.Context, messages []Message) (string, error)
}

// Generate sends a single prompt as one user message and returns the first continuation.
func Generate(ctx context.Context, p Provider, prompt string) (string, error) {
	return p.Chat(ctx, []Message{{Role: "user", Content: prompt}})
}
