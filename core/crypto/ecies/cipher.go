package ecies

import (
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"

	"github.com/kochabx/paseto/core/crypto/ct"
)

// AADFunc builds the additional data from the ephemeral public key and the key
// commitment. A nil AADFunc means no additional data.
type AADFunc func(epk, commitment []byte) []byte

// Seal encrypts plaintext to the recipient.
//
// The process:
// 1. Generate an ephemeral key pair
// 2. X25519 with the recipient's public key
// 3. Derive the encryption key, key commitment and nonce with BLAKE2b
// 4. Encrypt with XChaCha20-Poly1305 under aad(epk, kc)
// 5. Return: [epk || kc || ciphertext || tag]
func Seal(recipient *PublicKey, plaintext []byte, aad AADFunc) ([]byte, error) {
	if recipient == nil {
		return nil, ErrPublicKeyEmpty
	}

	ephemeral, err := GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncryptionFailed, err)
	}
	defer ephemeral.Destroy()

	shared, err := ephemeral.ECDH(recipient)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncryptionFailed, err)
	}
	defer ct.Zero(shared)

	epk := ephemeral.Public().Bytes()
	keys, err := deriveSessionKeys(shared, epk, recipient.key[:])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncryptionFailed, err)
	}
	defer keys.destroy()

	aead, err := chacha20poly1305.NewX(keys.encKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncryptionFailed, err)
	}

	out := make([]byte, offsetCiphertext, offsetCiphertext+len(plaintext)+TagSize)
	copy(out[offsetEphemeralKey:], epk)
	copy(out[offsetCommitment:], keys.commitment)

	return aead.Seal(out, keys.nonce, plaintext, additionalData(aad, epk, keys.commitment)), nil
}

// Open decrypts a sealed box produced by Seal. aad must build the same
// additional data the sender used.
func Open(priv *PrivateKey, sealed []byte, aad AADFunc) ([]byte, error) {
	if priv == nil {
		return nil, ErrPrivateKeyEmpty
	}
	if len(sealed) < MinSealedSize {
		return nil, ErrCiphertextTooShort
	}

	epk := sealed[offsetEphemeralKey:offsetCommitment]
	commitment := sealed[offsetCommitment:offsetCiphertext]
	ciphertext := sealed[offsetCiphertext:]

	ephemeral, err := NewPublicKey(epk)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyUnwrap, err)
	}

	shared, err := priv.ECDH(ephemeral)
	if err != nil {
		return nil, err
	}
	defer ct.Zero(shared)

	keys, err := deriveSessionKeys(shared, epk, priv.publicKey.key[:])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyUnwrap, err)
	}
	defer keys.destroy()

	if !ct.Equal(keys.commitment, commitment) {
		return nil, ErrKeyUnwrap
	}

	aead, err := chacha20poly1305.NewX(keys.encKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecryptionFailed, err)
	}

	plaintext, err := aead.Open(nil, keys.nonce, ciphertext, additionalData(aad, epk, commitment))
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	return plaintext, nil
}

func additionalData(aad AADFunc, epk, commitment []byte) []byte {
	if aad == nil {
		return nil
	}
	return aad(epk, commitment)
}
