package llm

import (
	"context"
	"fmt"
	"strings"
)

// MockClient is a scriptable Generator for tests. Fragments are emitted one
// by one; FailAfter >= 0 injects a failure after that many fragments.
type MockClient struct {
	Fragments []string
	FailAfter int
	Err       error
}

// NewMockClient creates a mock that echoes the last user message.
func NewMockClient() *MockClient {
	return &MockClient{FailAfter: -1}
}

// Ensure MockClient implements Generator.
var _ Generator = (*MockClient)(nil)

// Generate returns the scripted fragments joined, or a canned echo.
func (m *MockClient) Generate(ctx context.Context, messages []ChatMessage) (string, error) {
	if m.Err != nil && m.FailAfter < 0 {
		return "", m.Err
	}
	if len(m.Fragments) > 0 {
		return strings.Join(m.Fragments, ""), nil
	}
	return m.echo(messages), nil
}

// GenerateStream emits the scripted fragments, failing mid-stream when
// configured.
func (m *MockClient) GenerateStream(ctx context.Context, messages []ChatMessage, fn StreamFunc) error {
	fragments := m.Fragments
	if len(fragments) == 0 {
		fragments = splitIntoChunks(m.echo(messages), 10)
	}
	if m.Err != nil && m.FailAfter < 0 {
		return m.Err
	}
	for i, fragment := range fragments {
		if m.Err != nil && i == m.FailAfter {
			return m.Err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := fn(fragment); err != nil {
			return err
		}
	}
	if m.Err != nil && m.FailAfter >= len(fragments) {
		return m.Err
	}
	return nil
}

func (m *MockClient) echo(messages []ChatMessage) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == "user" {
			return fmt.Sprintf("[MOCK] Received your message: %q.", messages[i].Content)
		}
	}
	return "[MOCK] This is a mock response."
}

func splitIntoChunks(s string, chunkSize int) []string {
	if len(s) == 0 {
		return []string{""}
	}
	var chunks []string
	for i := 0; i < len(s); i += chunkSize {
		end := i + chunkSize
		if end > len(s) {
			end = len(s)
		}
		chunks = append(chunks, s[i:end])
	}
	return chunks
}
