package ecies

import "errors"

// Key-related errors
var (
	// ErrInvalidPrivateKey indicates that the private key is invalid or malformed
	ErrInvalidPrivateKey = errors.New("ecies: invalid private key")

	// ErrInvalidPublicKey indicates that the public key is invalid or malformed
	ErrInvalidPublicKey = errors.New("ecies: invalid public key")

	// ErrPrivateKeyEmpty indicates that the private key is nil or empty
	ErrPrivateKeyEmpty = errors.New("ecies: private key is empty")

	// ErrPublicKeyEmpty indicates that the public key is nil or empty
	ErrPublicKeyEmpty = errors.New("ecies: public key is empty")
)

// Seal/Open errors
var (
	// ErrEncryptionFailed indicates a general encryption failure
	ErrEncryptionFailed = errors.New("ecies: encryption failed")

	// ErrKeyUnwrap indicates that the envelope could not be opened: low order
	// ephemeral key or key commitment mismatch
	ErrKeyUnwrap = errors.New("ecies: key unwrap failed")

	// ErrDecryptionFailed indicates that the body did not authenticate
	ErrDecryptionFailed = errors.New("ecies: decryption failed")

	// ErrCiphertextTooShort indicates that the sealed box is shorter than the minimum size
	ErrCiphertextTooShort = errors.New("ecies: ciphertext too short")
)
