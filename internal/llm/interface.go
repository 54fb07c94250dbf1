// Package llm provides an abstraction for the external generation capability.
package llm

import "context"

// ChatMessage is one message of a generation prompt.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// StreamFunc receives one generated fragment. Returning an error stops the
// stream.
type StreamFunc func(fragment string) error

// Generator defines the two shapes of the generation capability.
type Generator interface {
	// Generate blocks until the full response is available.
	Generate(ctx context.Context, messages []ChatMessage) (string, error)

	// GenerateStream invokes the callback for each produced fragment in
	// emission order.
	GenerateStream(ctx context.Context, messages []ChatMessage, fn StreamFunc) error
}

// Ensure Client implements Generator.
var _ Generator = (*Client)(nil)
