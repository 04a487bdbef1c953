// Package token issues and resolves opaque bearer tokens.
//
// A token is built in two layers: the claims payload is encrypted with
// AES-256-GCM under a server-held secret, and the ciphertext is then carried
// inside an HS256-signed JWT under a second secret. Verification runs in the
// opposite order, so tampering is detected on the cheap signature check
// before any decryption is attempted, and holders of only one of the two
// secrets cannot read or forge claims.
package token

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/taskbox/todo-api/internal/core/domain"
)

// PurposeAuthentication is the purpose claim stamped on login tokens.
const PurposeAuthentication = "authentication"

const defaultTTL = 24 * time.Hour

// Claims is the decoded content of a resolved token.
type Claims struct {
	SubjectID int64
	Purpose   string
	TokenID   string
	ExpiresAt time.Time
}

// payload is the inner, encrypted part of a token.
type payload struct {
	ID      int64  `json:"id"`
	Purpose string `json:"purpose"`
}

// envelope is the signed JWT wrapping the encrypted payload.
type envelope struct {
	jwt.RegisteredClaims
	Payload string `json:"token"`
}

// Codec issues and resolves tokens against a keyring.
type Codec struct {
	keyring Keyring
	ttl     time.Duration
	now     func() time.Time
}

// NewCodec returns a Codec issuing tokens valid for ttl. ttl <= 0 falls back
// to 24 hours.
func NewCodec(keyring Keyring, ttl time.Duration) *Codec {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Codec{keyring: keyring, ttl: ttl, now: time.Now}
}

// Issue serializes {subjectID, purpose}, encrypts it under the active key's
// encryption secret and signs the envelope under its signing secret. The
// envelope carries the key id, a unique token id, issued-at and expiry.
func (c *Codec) Issue(subjectID int64, purpose string) (string, error) {
	raw, err := json.Marshal(payload{ID: subjectID, Purpose: purpose})
	if err != nil {
		return "", err
	}

	key := c.keyring.Active()
	ciphertext, err := encrypt(raw, key.Encrypt)
	if err != nil {
		return "", err
	}

	now := c.now().UTC()
	env := envelope{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
		Payload: ciphertext,
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, env)
	t.Header["kid"] = c.keyring.ActiveKID()
	return t.SignedString([]byte(key.Sign))
}

// Resolve verifies the signed envelope, then decrypts and parses the claims.
// Every failure mode collapses to domain.ErrInvalidToken; callers learn
// nothing about which stage rejected the token.
func (c *Codec) Resolve(tokenString string) (Claims, error) {
	var key Key
	env := &envelope{}

	parsed, err := jwt.ParseWithClaims(tokenString, env, func(t *jwt.Token) (any, error) {
		kid, _ := t.Header["kid"].(string)
		k, ok := c.keyring.Lookup(kid)
		if !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		key = k
		return []byte(k.Sign), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		return Claims{}, domain.ErrInvalidToken
	}

	raw, err := decrypt(env.Payload, key.Encrypt)
	if err != nil {
		return Claims{}, domain.ErrInvalidToken
	}

	var p payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return Claims{}, domain.ErrInvalidToken
	}
	if p.ID <= 0 || p.Purpose == "" {
		return Claims{}, domain.ErrInvalidToken
	}

	return Claims{
		SubjectID: p.ID,
		Purpose:   p.Purpose,
		TokenID:   env.ID,
		ExpiresAt: env.ExpiresAt.Time,
	}, nil
}

func encrypt(plain []byte, secret string) (string, error) {
	gcm, err := newGCM(secret)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	sealed := gcm.Seal(nonce, nonce, plain, nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

func decrypt(encoded, secret string) ([]byte, error) {
	gcm, err := newGCM(secret)
	if err != nil {
		return nil, err
	}

	sealed, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, err
	}
	if len(sealed) < gcm.NonceSize() {
		return nil, domain.ErrInvalidToken
	}

	return gcm.Open(nil, sealed[:gcm.NonceSize()], sealed[gcm.NonceSize():], nil)
}

// newGCM derives a 32-byte AES key from the configured secret.
func newGCM(secret string) (cipher.AEAD, error) {
	sum := sha256.Sum256([]byte(secret))
	block, err := aes.NewCipher(sum[:])
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
