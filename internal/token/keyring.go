package token

import "fmt"

// Key is one signing/encryption secret pair. Both secrets are required: a
// holder of only one of them can neither read nor forge a token.
type Key struct {
	Sign    string
	Encrypt string
}

// Keyring holds every currently accepted key pair, identified by key id.
// Tokens are issued under the active kid; any configured kid is accepted on
// resolve, which allows key rotation without invalidating outstanding tokens.
type Keyring struct {
	active string
	keys   map[string]Key
}

// NewKeyring validates and builds a keyring. The active kid must be present
// and every key must carry both secrets.
func NewKeyring(activeKID string, keys map[string]Key) (Keyring, error) {
	if len(keys) == 0 {
		return Keyring{}, fmt.Errorf("keyring: no keys configured")
	}
	for kid, k := range keys {
		if k.Sign == "" || k.Encrypt == "" {
			return Keyring{}, fmt.Errorf("keyring: key %q is missing a secret", kid)
		}
	}
	if _, ok := keys[activeKID]; !ok {
		return Keyring{}, fmt.Errorf("keyring: active kid %q not configured", activeKID)
	}

	copied := make(map[string]Key, len(keys))
	for kid, k := range keys {
		copied[kid] = k
	}
	return Keyring{active: activeKID, keys: copied}, nil
}

// ActiveKID returns the key id used for newly issued tokens.
func (r Keyring) ActiveKID() string { return r.active }

// Active returns the key pair used for newly issued tokens.
func (r Keyring) Active() Key { return r.keys[r.active] }

// Lookup returns the key pair for kid, if configured.
func (r Keyring) Lookup(kid string) (Key, bool) {
	k, ok := r.keys[kid]
	return k, ok
}
