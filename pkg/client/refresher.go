package client

import (
	"context"
	"log"
	"time"
)

// RenewFunc obtains a fresh credential from the server.
type RenewFunc func(ctx context.Context) (Credential, error)

const (
	defaultCheckInterval = time.Second
	defaultRenewalMargin = 30 * time.Second
)

// Refresher keeps a credential store populated: it checks the remaining
// validity on every tick and renews ahead of expiry. Renewal is best effort;
// a failed attempt keeps the current credential and retries on the next tick.
type Refresher struct {
	store    *CredentialStore
	renew    RenewFunc
	interval time.Duration
	margin   time.Duration
	nowFn    func() time.Time
}

// NewRefresher creates a refresher that renews when less than margin remains.
// Non-positive interval or margin fall back to the defaults (1s, 30s).
func NewRefresher(store *CredentialStore, renew RenewFunc, interval, margin time.Duration) *Refresher {
	if interval <= 0 {
		interval = defaultCheckInterval
	}
	if margin <= 0 {
		margin = defaultRenewalMargin
	}
	return &Refresher{
		store:    store,
		renew:    renew,
		interval: interval,
		margin:   margin,
		nowFn:    time.Now,
	}
}

// Run blocks until the context is canceled, renewing as needed.
func (r *Refresher) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Tick(ctx)
		}
	}
}

// Tick performs one renewal check. Exposed so callers with their own clock
// can drive the schedule directly.
func (r *Refresher) Tick(ctx context.Context) {
	if r.store.Remaining(r.nowFn()) >= r.margin {
		return
	}
	cred, err := r.renew(ctx)
	if err != nil {
		log.Printf("WARN: credential renewal failed, will retry: %v", err)
		return
	}
	r.store.Set(cred)
}
