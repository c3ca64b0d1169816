package ecies

import (
	"crypto/ed25519"
	"encoding/hex"

	"filippo.io/edwards25519"
	"github.com/cloudflare/circl/dh/x25519"

	"github.com/kochabx/paseto/core/crypto/ct"
)

// PublicKey is an X25519 public key (a Montgomery u-coordinate).
type PublicKey struct {
	key x25519.Key
}

// Bytes returns a copy of the 32-byte public key.
func (pub *PublicKey) Bytes() []byte {
	b := make([]byte, KeySize)
	copy(b, pub.key[:])
	return b
}

// Hex returns the public key in hexadecimal encoding.
func (pub *PublicKey) Hex() string {
	return hex.EncodeToString(pub.key[:])
}

// Equals compares two public keys in constant time.
func (pub *PublicKey) Equals(other *PublicKey) bool {
	if pub == nil || other == nil {
		return pub == other
	}
	return ct.Equal(pub.key[:], other.key[:])
}

// NewPublicKey parses a 32-byte X25519 public key.
func NewPublicKey(b []byte) (*PublicKey, error) {
	if len(b) != KeySize {
		return nil, ErrInvalidPublicKey
	}

	pub := &PublicKey{}
	copy(pub.key[:], b)
	return pub, nil
}

// ImportEd25519Public maps an Ed25519 public key to its X25519 form through
// the birational map between edwards25519 and Curve25519.
func ImportEd25519Public(key ed25519.PublicKey) (*PublicKey, error) {
	if len(key) == 0 {
		return nil, ErrPublicKeyEmpty
	}
	if len(key) != ed25519.PublicKeySize {
		return nil, ErrInvalidPublicKey
	}

	p, err := new(edwards25519.Point).SetBytes(key)
	if err != nil {
		return nil, ErrInvalidPublicKey
	}

	return NewPublicKey(p.BytesMontgomery())
}
