package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/DahliaNoir71/chatbot-horror-movies/domain"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store and runs migrations.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// For in-memory SQLite, multiple connections create separate databases.
	// Keep a single connection to avoid schema/data disappearing across goroutines.
	if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	if err := s.seedFilms(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to seed films: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			session_id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			last_active_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS messages (
			message_id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			intent TEXT,
			confidence REAL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (session_id) REFERENCES sessions(session_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_session ON messages(session_id, created_at)`,
		`CREATE TABLE IF NOT EXISTS films (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			tmdb_id INTEGER NOT NULL UNIQUE,
			title TEXT NOT NULL,
			release_year INTEGER,
			vote_average REAL,
			runtime_min INTEGER,
			overview TEXT,
			tagline TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_films_title ON films(title)`,
		`CREATE TABLE IF NOT EXISTS documents (
			doc_id TEXT PRIMARY KEY,
			content TEXT NOT NULL,
			source_type TEXT NOT NULL,
			metadata TEXT,
			embedding TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_documents_source ON documents(source_type)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\n%s", err, m)
		}
	}
	return nil
}

// seedFilms inserts a small starter catalog so the film_details pipeline
// works on a fresh database. The real catalog is loaded by the ETL importer.
func (s *SQLiteStore) seedFilms() error {
	seed := []domain.Film{
		{TmdbID: 694, Title: "The Shining", ReleaseYear: 1980, VoteAverage: 8.2, RuntimeMin: 144, Overview: "Jack Torrance accepte un poste de gardien d'hiver a l'hotel Overlook.", Tagline: "He came as the caretaker."},
		{TmdbID: 948, Title: "Halloween", ReleaseYear: 1978, VoteAverage: 7.6, RuntimeMin: 91, Overview: "Michael Myers s'echappe et retourne a Haddonfield la nuit d'Halloween."},
		{TmdbID: 348, Title: "Alien", ReleaseYear: 1979, VoteAverage: 8.1, RuntimeMin: 117, Overview: "L'equipage du Nostromo repond a un signal de detresse inconnu.", Tagline: "In space no one can hear you scream."},
		{TmdbID: 9552, Title: "The Exorcist", ReleaseYear: 1973, VoteAverage: 7.7, RuntimeMin: 122, Overview: "Une jeune fille possedee, deux pretres, un combat contre le demon."},
		{TmdbID: 419430, Title: "Get Out", ReleaseYear: 2017, VoteAverage: 7.6, RuntimeMin: 104, Overview: "Chris rencontre la famille de sa compagne pour un week-end qui tourne au cauchemar."},
		{TmdbID: 530385, Title: "Midsommar", ReleaseYear: 2019, VoteAverage: 7.1, RuntimeMin: 148, Overview: "Un festival suedois qui n'a lieu qu'une fois tous les 90 ans."},
	}
	for _, f := range seed {
		_, err := s.db.Exec(
			`INSERT OR IGNORE INTO films (tmdb_id, title, release_year, vote_average, runtime_min, overview, tagline)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			f.TmdbID, f.Title, f.ReleaseYear, f.VoteAverage, f.RuntimeMin, f.Overview, f.Tagline,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateSession inserts a new session.
func (s *SQLiteStore) CreateSession(ctx context.Context, session *domain.Session) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (session_id, user_id, created_at, last_active_at) VALUES (?, ?, ?, ?)`,
		session.SessionID, session.UserID, session.CreatedAt, session.LastActiveAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// GetSession returns a session by ID, or nil when it does not exist.
func (s *SQLiteStore) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT session_id, user_id, created_at, last_active_at FROM sessions WHERE session_id = ?`,
		sessionID,
	)
	var sess domain.Session
	err := row.Scan(&sess.SessionID, &sess.UserID, &sess.CreatedAt, &sess.LastActiveAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &sess, nil
}

// TouchSession updates the last-activity timestamp.
func (s *SQLiteStore) TouchSession(ctx context.Context, sessionID string, at time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET last_active_at = ? WHERE session_id = ?`, at, sessionID)
	if err != nil {
		return fmt.Errorf("failed to touch session: %w", err)
	}
	return nil
}

// CreateExchange inserts the user/assistant message pair of one completed
// exchange in a single transaction and bumps the session's last activity.
func (s *SQLiteStore) CreateExchange(ctx context.Context, user, assistant *domain.Message) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	insert := `INSERT INTO messages (message_id, session_id, role, content, intent, confidence, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	for _, m := range []*domain.Message{user, assistant} {
		if _, err := tx.ExecContext(ctx, insert,
			m.MessageID, m.SessionID, m.Role, m.Content, string(m.Intent), m.Confidence, m.CreatedAt,
		); err != nil {
			return fmt.Errorf("failed to insert message: %w", err)
		}
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE sessions SET last_active_at = ? WHERE session_id = ?`,
		assistant.CreatedAt, assistant.SessionID,
	); err != nil {
		return fmt.Errorf("failed to touch session: %w", err)
	}
	return tx.Commit()
}

// GetMessages returns the most recent messages of a session in insertion
// order. limit <= 0 returns the full history.
func (s *SQLiteStore) GetMessages(ctx context.Context, sessionID string, limit int) ([]domain.Message, error) {
	query := `SELECT message_id, session_id, role, content, intent, confidence, created_at
		FROM messages WHERE session_id = ? ORDER BY created_at DESC, message_id DESC`
	args := []any{sessionID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var m domain.Message
		var intent sql.NullString
		var confidence sql.NullFloat64
		if err := rows.Scan(&m.MessageID, &m.SessionID, &m.Role, &m.Content, &intent, &confidence, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		m.Intent = domain.Intent(intent.String)
		m.Confidence = confidence.Float64
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Restore insertion order.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// DeleteMessages removes all messages of a session.
func (s *SQLiteStore) DeleteMessages(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM messages WHERE session_id = ?`, sessionID)
	if err != nil {
		return fmt.Errorf("failed to delete messages: %w", err)
	}
	return nil
}

// SearchFilmsByTitle returns films whose title matches the query,
// best-rated first.
func (s *SQLiteStore) SearchFilmsByTitle(ctx context.Context, title string, limit int) ([]domain.Film, error) {
	if limit <= 0 {
		limit = 3
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, tmdb_id, title, release_year, vote_average, runtime_min, overview, tagline
		 FROM films WHERE title LIKE ? COLLATE NOCASE
		 ORDER BY vote_average DESC LIMIT ?`,
		"%"+title+"%", limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search films: %w", err)
	}
	defer rows.Close()

	var films []domain.Film
	for rows.Next() {
		var f domain.Film
		var year, runtime sql.NullInt64
		var vote sql.NullFloat64
		var overview, tagline sql.NullString
		if err := rows.Scan(&f.ID, &f.TmdbID, &f.Title, &year, &vote, &runtime, &overview, &tagline); err != nil {
			return nil, fmt.Errorf("failed to scan film: %w", err)
		}
		f.ReleaseYear = int(year.Int64)
		f.VoteAverage = vote.Float64
		f.RuntimeMin = int(runtime.Int64)
		f.Overview = overview.String
		f.Tagline = tagline.String
		films = append(films, f)
	}
	return films, rows.Err()
}

// ListDocuments loads the full indexed corpus.
func (s *SQLiteStore) ListDocuments(ctx context.Context) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT doc_id, content, source_type, metadata, embedding FROM documents ORDER BY doc_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var d Document
		var metadata, embedding sql.NullString
		if err := rows.Scan(&d.ID, &d.Content, &d.SourceType, &metadata, &embedding); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		if metadata.Valid && metadata.String != "" {
			if err := json.Unmarshal([]byte(metadata.String), &d.Metadata); err != nil {
				return nil, fmt.Errorf("failed to decode document metadata: %w", err)
			}
		}
		if err := json.Unmarshal([]byte(embedding.String), &d.Embedding); err != nil {
			return nil, fmt.Errorf("failed to decode document embedding: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// UpsertDocument writes one corpus document.
func (s *SQLiteStore) UpsertDocument(ctx context.Context, doc *Document) error {
	metadata, err := json.Marshal(doc.Metadata)
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}
	embedding, err := json.Marshal(doc.Embedding)
	if err != nil {
		return fmt.Errorf("failed to encode embedding: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO documents (doc_id, content, source_type, metadata, embedding)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(doc_id) DO UPDATE SET
			content = excluded.content,
			source_type = excluded.source_type,
			metadata = excluded.metadata,
			embedding = excluded.embedding`,
		doc.ID, doc.Content, doc.SourceType, string(metadata), string(embedding),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert document: %w", err)
	}
	return nil
}
