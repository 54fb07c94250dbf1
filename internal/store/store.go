// Package store provides persistence for sessions, messages, the film
// catalog and the indexed document corpus.
package store

import (
	"context"
	"time"

	"github.com/DahliaNoir71/chatbot-horror-movies/domain"
)

// Document is one indexed corpus entry with its embedding vector. The corpus
// is populated by the external ETL pipeline; this service only reads it.
type Document struct {
	ID         string
	Content    string
	SourceType string
	Metadata   map[string]any
	Embedding  []float64
}

// Store defines persistence operations.
type Store interface {
	// Sessions
	CreateSession(ctx context.Context, session *domain.Session) error
	GetSession(ctx context.Context, sessionID string) (*domain.Session, error)
	TouchSession(ctx context.Context, sessionID string, at time.Time) error

	// Messages
	CreateExchange(ctx context.Context, user, assistant *domain.Message) error
	GetMessages(ctx context.Context, sessionID string, limit int) ([]domain.Message, error)
	DeleteMessages(ctx context.Context, sessionID string) error

	// Film catalog
	SearchFilmsByTitle(ctx context.Context, title string, limit int) ([]domain.Film, error)

	// Document corpus
	ListDocuments(ctx context.Context) ([]Document, error)
	UpsertDocument(ctx context.Context, doc *Document) error

	Close() error
}
