package paseto

import (
	"crypto/ed25519"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/chacha20poly1305"

	"github.com/kochabx/paseto/core/crypto/ecies"
	"github.com/kochabx/paseto/core/crypto/hmac"
	"github.com/kochabx/paseto/errors"
)

// v2 sizes
const (
	v2NonceSize     = chacha20poly1305.NonceSizeX
	v2TagSize       = chacha20poly1305.Overhead
	v2MACSize       = hmac.SHA512256Size
	v2SignatureSize = ed25519.SignatureSize
)

type version2 struct{}

func (version2) Version() Version { return V2 }
func (version2) Header() string   { return V2.String() }

func (version2) Auth(msg []byte, key *SymmetricAuthenticationKey, footer []byte) (string, error) {
	return authenticate(V2, hmac.SHA512256, msg, key, footer)
}

func (version2) AuthVerify(token string, key *SymmetricAuthenticationKey, footer []byte) ([]byte, error) {
	return verifyAuthentication(V2, hmac.SHA512256, v2MACSize, token, key, footer)
}

// Encrypt uses XChaCha20-Poly1305 with nonce = BLAKE2b-192(key=random(24), msg).
func (version2) Encrypt(msg []byte, key *SymmetricEncryptionKey, footer []byte) (string, error) {
	if err := checkKey(key, V2); err != nil {
		return "", err
	}

	b, err := randomBytes(v2NonceSize)
	if err != nil {
		return "", err
	}
	nh, err := blake2b.New(v2NonceSize, b)
	if err != nil {
		return "", err
	}
	nh.Write(msg)
	n := nh.Sum(nil)

	aead, err := chacha20poly1305.NewX(key.material)
	if err != nil {
		return "", ErrInvalidKey.WithCause(err)
	}

	h := Header(V2, PurposeEncrypt)
	payload := make([]byte, v2NonceSize, v2NonceSize+len(msg)+v2TagSize)
	copy(payload, n)
	payload = aead.Seal(payload, n, msg, PAE([]byte(h), n, footer))

	return Encode(h, payload, footer), nil
}

func (version2) Decrypt(token string, key *SymmetricEncryptionKey, footer []byte) ([]byte, error) {
	if err := checkKey(key, V2); err != nil {
		return nil, err
	}

	h := Header(V2, PurposeEncrypt)
	payload, err := open(token, h, footer)
	if err != nil {
		return nil, err
	}
	if minSize := v2NonceSize + v2TagSize; len(payload) < minSize {
		return nil, lengthError(ErrTruncatedPayload, minSize, len(payload))
	}

	aead, err := chacha20poly1305.NewX(key.material)
	if err != nil {
		return nil, ErrInvalidKey.WithCause(err)
	}

	n, c := payload[:v2NonceSize], payload[v2NonceSize:]
	msg, err := aead.Open(nil, n, c, PAE([]byte(h), n, footer))
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	return msg, nil
}

func (version2) Sign(msg []byte, key *AsymmetricSecretKey, footer []byte) (string, error) {
	if err := checkKey(key, V2); err != nil {
		return "", err
	}
	priv, ok := key.key.(ed25519.PrivateKey)
	if !ok {
		return "", ErrInvalidKey
	}

	h := Header(V2, PurposeSign)
	sig := ed25519.Sign(priv, PAE([]byte(h), msg, footer))
	return Encode(h, concat(msg, sig), footer), nil
}

func (version2) SignVerify(token string, key *AsymmetricPublicKey, footer []byte) ([]byte, error) {
	if err := checkKey(key, V2); err != nil {
		return nil, err
	}
	pub, ok := key.key.(ed25519.PublicKey)
	if !ok {
		return nil, ErrInvalidKey
	}

	h := Header(V2, PurposeSign)
	payload, err := open(token, h, footer)
	if err != nil {
		return nil, err
	}
	msg, sig, err := splitTail(payload, v2SignatureSize)
	if err != nil {
		return nil, err
	}

	if !ed25519.Verify(pub, PAE([]byte(h), msg, footer), sig) {
		return nil, ErrSignatureVerificationFailed
	}
	return msg, nil
}

// Seal encrypts to the X25519 form of the recipient's Ed25519 key. The
// envelope (ephemeral key and key commitment) and the footer are bound as
// associated data.
func (version2) Seal(msg []byte, key *AsymmetricPublicKey, footer []byte) (string, error) {
	if err := checkKey(key, V2); err != nil {
		return "", err
	}
	edPub, ok := key.key.(ed25519.PublicKey)
	if !ok {
		return "", ErrInvalidKey
	}

	pub, err := ecies.ImportEd25519Public(edPub)
	if err != nil {
		return "", ErrInvalidKey.WithCause(err)
	}

	h := Header(V2, PurposeSeal)
	payload, err := ecies.Seal(pub, msg, v2SealAAD(h, footer))
	if err != nil {
		return "", err
	}
	return Encode(h, payload, footer), nil
}

func (version2) Unseal(token string, key *AsymmetricSecretKey, footer []byte) ([]byte, error) {
	if err := checkKey(key, V2); err != nil {
		return nil, err
	}
	edPriv, ok := key.key.(ed25519.PrivateKey)
	if !ok {
		return nil, ErrInvalidKey
	}

	h := Header(V2, PurposeSeal)
	payload, err := open(token, h, footer)
	if err != nil {
		return nil, err
	}
	if len(payload) < ecies.MinSealedSize {
		return nil, lengthError(ErrTruncatedPayload, ecies.MinSealedSize, len(payload))
	}

	priv, err := ecies.ImportEd25519(edPriv)
	if err != nil {
		return nil, ErrInvalidKey.WithCause(err)
	}
	defer priv.Destroy()

	msg, err := ecies.Open(priv, payload, v2SealAAD(h, footer))
	switch {
	case err == nil:
		return msg, nil
	case errors.Is(err, ecies.ErrDecryptionFailed):
		return nil, ErrDecryptionFailed
	default:
		return nil, ErrKeyUnsealFailed
	}
}

func v2SealAAD(h string, footer []byte) ecies.AADFunc {
	return func(epk, commitment []byte) []byte {
		return PAE([]byte(h), epk, commitment, footer)
	}
}
