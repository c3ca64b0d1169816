package ecies

import "golang.org/x/crypto/chacha20poly1305"

// Key sizes
const (
	// KeySize is the size of an X25519 public or private key
	KeySize = 32

	// CommitmentSize is the size of the key commitment
	CommitmentSize = 32

	// NonceSize is the XChaCha20-Poly1305 nonce size
	NonceSize = chacha20poly1305.NonceSizeX

	// TagSize is the Poly1305 tag size
	TagSize = chacha20poly1305.Overhead
)

// Sealed box layout: [epk:32][kc:32][ciphertext||tag:>=16]
const (
	offsetEphemeralKey = 0
	offsetCommitment   = offsetEphemeralKey + KeySize
	offsetCiphertext   = offsetCommitment + CommitmentSize

	// MinSealedSize is the size of a sealed empty message
	MinSealedSize = offsetCiphertext + TagSize
)

// Domain separation strings for the BLAKE2b derivations
const (
	encryptionKeyInfo = "paseto-seal-encryption-key"
	commitmentInfo    = "paseto-seal-key-commitment"
)
