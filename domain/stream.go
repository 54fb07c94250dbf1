package domain

// StreamEventType discriminates StreamEvent variants.
type StreamEventType string

const (
	StreamEventChunk StreamEventType = "chunk"
	StreamEventDone  StreamEventType = "done"
	StreamEventError StreamEventType = "error"
)

// StreamEvent is one frame of a streaming response. A stream carries any
// number of chunk events followed by exactly one terminal event (done or
// error), which is always last.
type StreamEvent struct {
	Type       StreamEventType `json:"type"`
	Content    string          `json:"content,omitempty"`
	Intent     Intent          `json:"intent,omitempty"`
	Confidence *float64        `json:"confidence,omitempty"`
	SessionID  string          `json:"session_id,omitempty"`
}

// Terminal reports whether the event closes the stream.
func (e StreamEvent) Terminal() bool {
	return e.Type == StreamEventDone || e.Type == StreamEventError
}

// Chunk builds a chunk event.
func Chunk(content string) StreamEvent {
	return StreamEvent{Type: StreamEventChunk, Content: content}
}

// Done builds the successful terminal event.
func Done(intent Intent, confidence float64, sessionID string) StreamEvent {
	return StreamEvent{
		Type:       StreamEventDone,
		Intent:     intent,
		Confidence: &confidence,
		SessionID:  sessionID,
	}
}

// ErrorEvent builds the failure terminal event.
func ErrorEvent(message string) StreamEvent {
	return StreamEvent{Type: StreamEventError, Content: message}
}
