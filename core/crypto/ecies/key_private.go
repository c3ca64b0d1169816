package ecies

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha512"
	"encoding/hex"

	"github.com/cloudflare/circl/dh/x25519"

	"github.com/kochabx/paseto/core/crypto/ct"
)

// PrivateKey is an X25519 private key together with its public key.
type PrivateKey struct {
	publicKey *PublicKey
	secret    x25519.Key
}

// Public returns the public key corresponding to this private key.
func (priv *PrivateKey) Public() *PublicKey {
	return priv.publicKey
}

// Bytes returns a copy of the clamped private scalar.
func (priv *PrivateKey) Bytes() []byte {
	b := make([]byte, KeySize)
	copy(b, priv.secret[:])
	return b
}

// Hex returns the private key in hexadecimal encoding.
func (priv *PrivateKey) Hex() string {
	return hex.EncodeToString(priv.secret[:])
}

// ECDH computes the raw X25519 shared secret with pub. It fails with
// ErrKeyUnwrap when pub is a low order point.
func (priv *PrivateKey) ECDH(pub *PublicKey) ([]byte, error) {
	if pub == nil {
		return nil, ErrPublicKeyEmpty
	}

	var shared x25519.Key
	if !x25519.Shared(&shared, &priv.secret, &pub.key) {
		return nil, ErrKeyUnwrap
	}
	return shared[:], nil
}

// Equals compares two private keys in constant time.
func (priv *PrivateKey) Equals(other *PrivateKey) bool {
	if priv == nil || other == nil {
		return priv == other
	}
	return ct.Equal(priv.secret[:], other.secret[:])
}

// Destroy clears the private key material. The key must not be used afterwards.
func (priv *PrivateKey) Destroy() {
	ct.Zero(priv.secret[:])
}

// GenerateKey generates a new X25519 key pair.
func GenerateKey() (*PrivateKey, error) {
	var secret x25519.Key
	if _, err := rand.Read(secret[:]); err != nil {
		return nil, err
	}
	clamp(secret[:])

	return newPrivateKey(secret), nil
}

// NewPrivateKey builds a private key from 32 raw bytes. The scalar is clamped.
func NewPrivateKey(b []byte) (*PrivateKey, error) {
	if len(b) != KeySize {
		return nil, ErrInvalidPrivateKey
	}

	var secret x25519.Key
	copy(secret[:], b)
	clamp(secret[:])
	return newPrivateKey(secret), nil
}

// ImportEd25519 converts an Ed25519 private key to the X25519 private key
// holding the same scalar. The result's public key equals
// ImportEd25519Public applied to the Ed25519 public key.
func ImportEd25519(key ed25519.PrivateKey) (*PrivateKey, error) {
	if len(key) == 0 {
		return nil, ErrPrivateKeyEmpty
	}
	if len(key) != ed25519.PrivateKeySize {
		return nil, ErrInvalidPrivateKey
	}

	h := sha512.Sum512(key.Seed())
	defer ct.Zero(h[:])

	var secret x25519.Key
	copy(secret[:], h[:KeySize])
	clamp(secret[:])

	return newPrivateKey(secret), nil
}

func newPrivateKey(secret x25519.Key) *PrivateKey {
	var pub x25519.Key
	x25519.KeyGen(&pub, &secret)
	return &PrivateKey{
		publicKey: &PublicKey{key: pub},
		secret:    secret,
	}
}

func clamp(k []byte) {
	k[0] &= 248
	k[31] &= 127
	k[31] |= 64
}
