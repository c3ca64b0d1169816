package token

import (
	"maps"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/kochabx/paseto/core/paseto"
)

type entry struct {
	local  *paseto.SymmetricEncryptionKey
	secret *paseto.AsymmetricSecretKey
	public *paseto.AsymmetricPublicKey
}

// Keyring maps key ids to keys. New tokens are issued under the current key;
// older keys stay available for verification until removed.
type Keyring struct {
	mu      sync.RWMutex
	current string
	entries map[string]entry
}

// NewKeyring returns an empty keyring.
func NewKeyring() *Keyring {
	return &Keyring{entries: make(map[string]entry)}
}

// AddLocal adds a symmetric encryption key. An empty id gets a random uuid.
// The first key added becomes current.
func (k *Keyring) AddLocal(id string, key *paseto.SymmetricEncryptionKey) (string, error) {
	if key == nil {
		return "", paseto.ErrInvalidKey
	}
	return k.add(id, entry{local: key})
}

// AddSecret adds a signing key together with its public half.
func (k *Keyring) AddSecret(id string, key *paseto.AsymmetricSecretKey) (string, error) {
	if key == nil {
		return "", paseto.ErrInvalidKey
	}
	return k.add(id, entry{secret: key, public: key.Public()})
}

// AddPublic adds a verification-only key.
func (k *Keyring) AddPublic(id string, key *paseto.AsymmetricPublicKey) (string, error) {
	if key == nil {
		return "", paseto.ErrInvalidKey
	}
	return k.add(id, entry{public: key})
}

func (k *Keyring) add(id string, e entry) (string, error) {
	if id == "" {
		id = uuid.NewString()
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	if _, ok := k.entries[id]; ok {
		return "", ErrDuplicateKey.WithMetadata(kidMetadata(id))
	}
	k.entries[id] = e
	if k.current == "" {
		k.current = id
	}
	return id, nil
}

// SetCurrent selects the key new tokens are issued under.
func (k *Keyring) SetCurrent(id string) error {
	k.mu.Lock()
	defer k.mu.Unlock()

	if _, ok := k.entries[id]; !ok {
		return ErrUnknownKey.WithMetadata(kidMetadata(id))
	}
	k.current = id
	return nil
}

// Current returns the current key id, empty when the keyring is empty.
func (k *Keyring) Current() string {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.current
}

// IDs returns the key ids in sorted order.
func (k *Keyring) IDs() []string {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return slices.Sorted(maps.Keys(k.entries))
}

// Remove drops a key and wipes its secret material. Removing the current key
// leaves the keyring without a current key.
func (k *Keyring) Remove(id string) bool {
	k.mu.Lock()
	e, ok := k.entries[id]
	if ok {
		delete(k.entries, id)
		if k.current == id {
			k.current = ""
		}
	}
	k.mu.Unlock()

	if !ok {
		return false
	}
	if e.local != nil {
		e.local.Destroy()
	}
	if e.secret != nil {
		e.secret.Destroy()
	}
	return true
}

// lookup resolves id, or the current key when id is empty.
func (k *Keyring) lookup(id string) (string, entry, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()

	if id == "" {
		id = k.current
		if id == "" {
			return "", entry{}, ErrNoCurrentKey
		}
	}
	e, ok := k.entries[id]
	if !ok {
		return "", entry{}, ErrUnknownKey.WithMetadata(kidMetadata(id))
	}
	return id, e, nil
}
