// Package session owns per-conversation state.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/DahliaNoir71/chatbot-horror-movies/domain"
	"github.com/DahliaNoir71/chatbot-horror-movies/internal/store"
)

// Manager resolves sessions and serializes per-session mutations. Operations
// on different sessions run fully in parallel; two concurrent exchanges on
// the same session are serialized by a per-key mutex.
type Manager struct {
	store      store.Store
	maxHistory int

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewManager creates a session manager. maxHistory bounds the history
// passed downstream; the full history stays in the store.
func NewManager(st store.Store, maxHistory int) *Manager {
	return &Manager{
		store:      st,
		maxHistory: maxHistory,
		locks:      make(map[string]*sync.Mutex),
	}
}

func (m *Manager) lockFor(sessionID string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.locks[sessionID]
	if !ok {
		l = &sync.Mutex{}
		m.locks[sessionID] = l
	}
	return l
}

// Resolve returns the session for the given identifier, creating one when
// the identifier is empty or unknown. A malformed identifier is an
// invalid_argument error; an unknown one is never an error.
func (m *Manager) Resolve(ctx context.Context, sessionID, userID string) (*domain.Session, error) {
	if sessionID != "" {
		if _, err := uuid.Parse(sessionID); err != nil {
			return nil, domain.E(domain.KindInvalidArgument, "invalid session_id format: %s", sessionID)
		}
		sess, err := m.store.GetSession(ctx, sessionID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve session: %w", err)
		}
		if sess != nil {
			if err := m.store.TouchSession(ctx, sessionID, time.Now()); err != nil {
				return nil, err
			}
			return sess, nil
		}
	}

	now := time.Now()
	sess := &domain.Session{
		SessionID:    sessionID,
		UserID:       userID,
		CreatedAt:    now,
		LastActiveAt: now,
	}
	if sess.SessionID == "" {
		sess.SessionID = uuid.New().String()
	}

	lock := m.lockFor(sess.SessionID)
	lock.Lock()
	defer lock.Unlock()

	// A concurrent request may have created the same session meanwhile.
	existing, err := m.store.GetSession(ctx, sess.SessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve session: %w", err)
	}
	if existing != nil {
		return existing, nil
	}
	if err := m.store.CreateSession(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return sess, nil
}

// History returns the most recent maxHistory messages in insertion order.
func (m *Manager) History(ctx context.Context, sessionID string) ([]domain.Message, error) {
	return m.store.GetMessages(ctx, sessionID, m.maxHistory)
}

// Messages returns up to limit recent messages in insertion order, for
// callers that page beyond the generation window.
func (m *Manager) Messages(ctx context.Context, sessionID string, limit int) ([]domain.Message, error) {
	if _, err := uuid.Parse(sessionID); err != nil {
		return nil, domain.E(domain.KindInvalidArgument, "invalid session_id format: %s", sessionID)
	}
	return m.store.GetMessages(ctx, sessionID, limit)
}

// AppendExchange records one completed exchange: the user message and the
// assistant response, tagged with the routed intent. Called only after a
// successful terminal event; failed or canceled exchanges never reach the
// store.
func (m *Manager) AppendExchange(ctx context.Context, sessionID, userMessage, assistantMessage string, intent domain.Intent, confidence float64) error {
	lock := m.lockFor(sessionID)
	lock.Lock()
	defer lock.Unlock()

	now := time.Now()
	user := &domain.Message{
		MessageID: "msg_" + uuid.New().String()[:8],
		SessionID: sessionID,
		Role:      "user",
		Content:   userMessage,
		Intent:    intent,
		CreatedAt: now,
	}
	assistant := &domain.Message{
		MessageID:  "msg_" + uuid.New().String()[:8],
		SessionID:  sessionID,
		Role:       "assistant",
		Content:    assistantMessage,
		Intent:     intent,
		Confidence: confidence,
		CreatedAt:  now.Add(time.Microsecond),
	}
	if err := m.store.CreateExchange(ctx, user, assistant); err != nil {
		return fmt.Errorf("failed to append exchange: %w", err)
	}
	return nil
}

// Reset clears a session's history. The identifier keeps resolving to the
// same (now empty) session.
func (m *Manager) Reset(ctx context.Context, sessionID string) error {
	if _, err := uuid.Parse(sessionID); err != nil {
		return domain.E(domain.KindInvalidArgument, "invalid session_id format: %s", sessionID)
	}
	lock := m.lockFor(sessionID)
	lock.Lock()
	defer lock.Unlock()
	return m.store.DeleteMessages(ctx, sessionID)
}
