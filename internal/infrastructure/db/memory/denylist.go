// Package memory provides the in-process token deny-list used when no Redis
// instance is configured (development and tests).
package memory

import (
	"context"
	"sync"
	"time"
)

// Denylist keeps revoked token ids with their expiry. Entries are pruned
// lazily on access; the set stays tiny because entries live at most one
// token lifetime.
type Denylist struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

func NewDenylist() *Denylist {
	return &Denylist{revoked: make(map[string]time.Time)}
}

func (d *Denylist) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.revoked[tokenID] = time.Now().Add(ttl)
	return nil
}

func (d *Denylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := time.Now()
	for id, expiry := range d.revoked {
		if expiry.Before(now) {
			delete(d.revoked, id)
		}
	}

	_, ok := d.revoked[tokenID]
	return ok, nil
}
