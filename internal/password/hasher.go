// Package password derives and verifies salted one-way password hashes.
package password

import (
	"fmt"
	"runtime"

	"golang.org/x/crypto/bcrypt"

	"github.com/taskbox/todo-api/internal/api/metrics"
)

// DefaultCost matches the work factor the service has always used.
const DefaultCost = 10

// saltLen is the length of the "$2a$NN$" prefix plus the 22-character
// encoded salt inside a bcrypt hash.
const saltLen = 29

// maxInputLen is bcrypt's input limit. Longer passwords are truncated, the
// same way the C implementation behaves, instead of being rejected.
const maxInputLen = 72

// Hasher computes bcrypt hashes with a configurable work factor. Hashing is
// deliberately expensive, so a bounded gate caps how many computations run
// at once; requests beyond the cap queue instead of saturating every CPU.
type Hasher struct {
	cost int
	gate chan struct{}
}

// NewHasher returns a Hasher with the given bcrypt cost. maxConcurrent <= 0
// defaults to the number of CPUs.
func NewHasher(cost, maxConcurrent int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	if maxConcurrent <= 0 {
		maxConcurrent = runtime.NumCPU()
	}
	return &Hasher{
		cost: cost,
		gate: make(chan struct{}, maxConcurrent),
	}
}

// Hash derives a salted hash from plaintext. A fresh random salt is generated
// on every call; the returned salt is the cost-and-salt prefix that bcrypt
// embeds in the hash itself, kept separately for the credential store.
func (h *Hasher) Hash(plaintext string) (hash, salt string, err error) {
	h.acquire()
	defer h.release()

	b, err := bcrypt.GenerateFromPassword(truncate(plaintext), h.cost)
	if err != nil {
		return "", "", fmt.Errorf("hash password: %w", err)
	}

	hash = string(b)
	if len(hash) < saltLen {
		return "", "", fmt.Errorf("hash password: unexpected hash length %d", len(hash))
	}
	return hash, hash[:saltLen], nil
}

// Verify reports whether plaintext matches the stored hash. The comparison
// recomputes the hash from the salt embedded in the stored encoding; any
// mismatch or malformed stored hash yields false, never an error.
func (h *Hasher) Verify(plaintext, hash string) bool {
	h.acquire()
	defer h.release()

	return bcrypt.CompareHashAndPassword([]byte(hash), truncate(plaintext)) == nil
}

func truncate(plaintext string) []byte {
	b := []byte(plaintext)
	if len(b) > maxInputLen {
		b = b[:maxInputLen]
	}
	return b
}

func (h *Hasher) acquire() {
	h.gate <- struct{}{}
	metrics.HashOpsInFlight.Inc()
}

func (h *Hasher) release() {
	metrics.HashOpsInFlight.Dec()
	<-h.gate
}
