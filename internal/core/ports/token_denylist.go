package ports

import (
	"context"
	"time"
)

// TokenDenylist records revoked token ids until their natural expiry.
// Tokens themselves stay stateless; only explicit logout writes here.
type TokenDenylist interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
