package memory

import (
	"context"
	"testing"
	"time"
)

func TestDenylist_RevokeAndExpire(t *testing.T) {
	d := NewDenylist()
	ctx := context.Background()

	revoked, err := d.IsRevoked(ctx, "jti-1")
	if err != nil || revoked {
		t.Fatalf("fresh id reported revoked (err %v)", err)
	}

	if err := d.Revoke(ctx, "jti-1", time.Hour); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	revoked, err = d.IsRevoked(ctx, "jti-1")
	if err != nil || !revoked {
		t.Fatalf("expected jti-1 revoked (err %v)", err)
	}

	// An entry whose TTL has passed is pruned and no longer counts.
	if err := d.Revoke(ctx, "jti-2", -time.Second); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	revoked, err = d.IsRevoked(ctx, "jti-2")
	if err != nil || revoked {
		t.Fatalf("expired entry still revoked (err %v)", err)
	}
}
