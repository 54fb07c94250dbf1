// Package domain defines the core domain models for the chatbot service.
package domain

import "time"

// Session represents a conversation session.
type Session struct {
	SessionID    string    `json:"session_id"`
	UserID       string    `json:"user_id"`
	CreatedAt    time.Time `json:"created_at"`
	LastActiveAt time.Time `json:"last_active_at"`
}

// Message represents a single message in a session. Messages are immutable
// once appended.
type Message struct {
	MessageID  string    `json:"message_id"`
	SessionID  string    `json:"session_id"`
	Role       string    `json:"role"` // user, assistant
	Content    string    `json:"content"`
	Intent     Intent    `json:"intent,omitempty"`
	Confidence float64   `json:"confidence,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// RetrievedDocument is a document returned from similarity search.
// Similarity is cosine-derived and lies in [0,1].
type RetrievedDocument struct {
	ID         string         `json:"id"`
	Content    string         `json:"content"`
	SourceType string         `json:"source_type"`
	Similarity float64        `json:"similarity"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// Film is an entry in the film catalog, used by the film_details pipeline.
type Film struct {
	ID          int64   `json:"id"`
	TmdbID      int64   `json:"tmdb_id"`
	Title       string  `json:"title"`
	ReleaseYear int     `json:"release_year,omitempty"`
	VoteAverage float64 `json:"vote_average,omitempty"`
	RuntimeMin  int     `json:"runtime_min,omitempty"`
	Overview    string  `json:"overview,omitempty"`
	Tagline     string  `json:"tagline,omitempty"`
}

// ChatResult is the synchronous response of a completed exchange.
type ChatResult struct {
	Text       string  `json:"response"`
	Intent     Intent  `json:"intent"`
	Confidence float64 `json:"confidence"`
	SessionID  string  `json:"session_id"`
}
