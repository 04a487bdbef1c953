package password

import (
	"strings"
	"testing"
)

func TestHashVerify_RoundTrip(t *testing.T) {
	h := NewHasher(4, 2) // minimum cost keeps the test fast

	hash, salt, err := h.Hash("password1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "" || hash == "password1" {
		t.Fatalf("hash must not be empty or echo the plaintext")
	}
	if !strings.HasPrefix(hash, salt) {
		t.Fatalf("salt %q is not the prefix of hash %q", salt, hash)
	}
	if len(salt) != saltLen {
		t.Fatalf("expected %d-char salt, got %d", saltLen, len(salt))
	}

	if !h.Verify("password1", hash) {
		t.Fatalf("verify with correct password failed")
	}
	if h.Verify("password2", hash) {
		t.Fatalf("verify with wrong password succeeded")
	}
}

func TestHash_FreshSaltPerCall(t *testing.T) {
	h := NewHasher(4, 2)

	h1, s1, err := h.Hash("same-password")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	h2, s2, err := h.Hash("same-password")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if s1 == s2 {
		t.Fatalf("salt reused across calls: %q", s1)
	}
	if h1 == h2 {
		t.Fatalf("identical hashes for separate calls")
	}
}

func TestVerify_MalformedStoredHash(t *testing.T) {
	h := NewHasher(4, 2)

	for _, stored := range []string{"", "not-a-bcrypt-hash", "$2a$10$tooshort"} {
		if h.Verify("whatever", stored) {
			t.Fatalf("verify succeeded against malformed hash %q", stored)
		}
	}
}

func TestNewHasher_Defaults(t *testing.T) {
	h := NewHasher(0, 0)
	if h.cost != DefaultCost {
		t.Fatalf("expected default cost %d, got %d", DefaultCost, h.cost)
	}
	if cap(h.gate) < 1 {
		t.Fatalf("gate must admit at least one worker")
	}
}
