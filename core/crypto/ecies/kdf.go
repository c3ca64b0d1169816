package ecies

import (
	"golang.org/x/crypto/blake2b"
)

// sessionKeys holds the values derived from one X25519 exchange.
type sessionKeys struct {
	encKey     []byte
	commitment []byte
	nonce      []byte
}

// deriveSessionKeys runs the BLAKE2b derivations over the shared secret and
// both public keys. The nonce depends only on the public keys, which is safe
// because the ephemeral key is fresh for every seal.
func deriveSessionKeys(shared, epk, pk []byte) (*sessionKeys, error) {
	encKey, err := keyedHash(shared, encryptionKeyInfo, epk, pk)
	if err != nil {
		return nil, err
	}
	commitment, err := keyedHash(shared, commitmentInfo, epk, pk)
	if err != nil {
		return nil, err
	}

	h, err := blake2b.New(NonceSize, nil)
	if err != nil {
		return nil, err
	}
	h.Write(epk)
	h.Write(pk)

	return &sessionKeys{
		encKey:     encKey,
		commitment: commitment,
		nonce:      h.Sum(nil),
	}, nil
}

func keyedHash(key []byte, info string, epk, pk []byte) ([]byte, error) {
	h, err := blake2b.New256(key)
	if err != nil {
		return nil, err
	}
	h.Write([]byte(info))
	h.Write(epk)
	h.Write(pk)
	return h.Sum(nil), nil
}

// destroy clears the symmetric material.
func (s *sessionKeys) destroy() {
	clear(s.encKey)
	clear(s.commitment)
}
