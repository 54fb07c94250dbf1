// Package client is the Go client for the chat service: authentication,
// automatic credential renewal, and the sync and streaming chat calls.
package client

import (
	"sync"
	"time"
)

// Credential is one issued bearer token with its validity window.
type Credential struct {
	Token     string
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// CredentialStore holds the active credential behind a lock so renewal can
// swap it atomically while requests read it concurrently. A request sees
// either the old credential or the new one, never a partial state.
type CredentialStore struct {
	mu      sync.RWMutex
	cred    Credential
	set     bool
	invalid chan struct{}
}

// NewCredentialStore creates an empty store.
func NewCredentialStore() *CredentialStore {
	return &CredentialStore{invalid: make(chan struct{})}
}

// Set swaps in a new credential.
func (s *CredentialStore) Set(cred Credential) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cred = cred
	s.set = true
}

// Current returns the active credential, if any.
func (s *CredentialStore) Current() (Credential, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cred, s.set
}

// Remaining returns the credential's remaining validity at the given time.
// Zero when no credential is set or the credential has expired.
func (s *CredentialStore) Remaining(now time.Time) time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.set {
		return 0
	}
	d := s.cred.ExpiresAt.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

// Clear drops the active credential and notifies invalidation watchers.
func (s *CredentialStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cred = Credential{}
	s.set = false
	close(s.invalid)
	s.invalid = make(chan struct{})
}

// Invalidated returns a channel closed when the current credential is
// cleared. Callers re-arm by calling Invalidated again after it fires.
func (s *CredentialStore) Invalidated() <-chan struct{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.invalid
}
