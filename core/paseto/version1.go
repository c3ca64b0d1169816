package paseto

import (
	"crypto"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha512"
	"io"

	"golang.org/x/crypto/hkdf"

	"github.com/kochabx/paseto/core/crypto/ct"
	"github.com/kochabx/paseto/core/crypto/hmac"
)

// v1 sizes
const (
	v1NonceSize     = 32
	v1MACSize       = hmac.SHA384Size
	v1SignatureSize = RSAKeyBits / 8
	v1EnvelopeSize  = RSAKeyBits / 8
	v1SubkeySize    = 32
)

const (
	infoEncryptionKey = "paseto-encryption-key"
	infoAuthKey       = "paseto-auth-key-for-aead"
)

var v1PSSOptions = &rsa.PSSOptions{
	SaltLength: sha512.Size384,
	Hash:       crypto.SHA384,
}

type version1 struct{}

func (version1) Version() Version { return V1 }
func (version1) Header() string   { return V1.String() }

func (version1) Auth(msg []byte, key *SymmetricAuthenticationKey, footer []byte) (string, error) {
	return authenticate(V1, hmac.SHA384, msg, key, footer)
}

func (version1) AuthVerify(token string, key *SymmetricAuthenticationKey, footer []byte) ([]byte, error) {
	return verifyAuthentication(V1, hmac.SHA384, v1MACSize, token, key, footer)
}

// Encrypt derives the nonce from a random value and the message, so a weak
// random source does not repeat nonces across different messages.
func (version1) Encrypt(msg []byte, key *SymmetricEncryptionKey, footer []byte) (string, error) {
	if err := checkKey(key, V1); err != nil {
		return "", err
	}

	h := Header(V1, PurposeEncrypt)
	payload, err := v1Encrypt(key.material, h, msg, footer, nil)
	if err != nil {
		return "", err
	}
	return Encode(h, payload, footer), nil
}

func (version1) Decrypt(token string, key *SymmetricEncryptionKey, footer []byte) ([]byte, error) {
	if err := checkKey(key, V1); err != nil {
		return nil, err
	}

	h := Header(V1, PurposeEncrypt)
	payload, err := open(token, h, footer)
	if err != nil {
		return nil, err
	}
	return v1Decrypt(key.material, h, payload, footer, nil)
}

func (version1) Sign(msg []byte, key *AsymmetricSecretKey, footer []byte) (string, error) {
	if err := checkKey(key, V1); err != nil {
		return "", err
	}
	priv, ok := key.key.(*rsa.PrivateKey)
	if !ok {
		return "", ErrInvalidKey
	}

	h := Header(V1, PurposeSign)
	digest := sha512.Sum384(PAE([]byte(h), msg, footer))
	sig, err := rsa.SignPSS(rand.Reader, priv, crypto.SHA384, digest[:], v1PSSOptions)
	if err != nil {
		return "", ErrInvalidKey.WithCause(err)
	}

	return Encode(h, concat(msg, sig), footer), nil
}

func (version1) SignVerify(token string, key *AsymmetricPublicKey, footer []byte) ([]byte, error) {
	if err := checkKey(key, V1); err != nil {
		return nil, err
	}
	pub, ok := key.key.(*rsa.PublicKey)
	if !ok {
		return nil, ErrInvalidKey
	}

	h := Header(V1, PurposeSign)
	payload, err := open(token, h, footer)
	if err != nil {
		return nil, err
	}
	msg, sig, err := splitTail(payload, v1SignatureSize)
	if err != nil {
		return nil, err
	}

	digest := sha512.Sum384(PAE([]byte(h), msg, footer))
	if err := rsa.VerifyPSS(pub, crypto.SHA384, digest[:], sig, v1PSSOptions); err != nil {
		return nil, ErrSignatureVerificationFailed
	}
	return msg, nil
}

// Seal wraps a fresh symmetric key with RSA-OAEP and encrypts the message
// under it. The wrapped key is bound into the body MAC.
func (version1) Seal(msg []byte, key *AsymmetricPublicKey, footer []byte) (string, error) {
	if err := checkKey(key, V1); err != nil {
		return "", err
	}
	pub, ok := key.key.(*rsa.PublicKey)
	if !ok {
		return "", ErrInvalidKey
	}

	h := Header(V1, PurposeSeal)

	k, err := randomBytes(SymmetricKeySize)
	if err != nil {
		return "", err
	}
	defer ct.Zero(k)

	envelope, err := rsa.EncryptOAEP(sha512.New384(), rand.Reader, pub, k, []byte(h))
	if err != nil {
		return "", ErrInvalidKey.WithCause(err)
	}

	body, err := v1Encrypt(k, h, msg, footer, envelope)
	if err != nil {
		return "", err
	}
	return Encode(h, concat(envelope, body), footer), nil
}

func (version1) Unseal(token string, key *AsymmetricSecretKey, footer []byte) ([]byte, error) {
	if err := checkKey(key, V1); err != nil {
		return nil, err
	}
	priv, ok := key.key.(*rsa.PrivateKey)
	if !ok {
		return nil, ErrInvalidKey
	}

	h := Header(V1, PurposeSeal)
	payload, err := open(token, h, footer)
	if err != nil {
		return nil, err
	}
	if minSize := v1EnvelopeSize + v1NonceSize + v1MACSize; len(payload) < minSize {
		return nil, lengthError(ErrTruncatedPayload, minSize, len(payload))
	}

	envelope, body := payload[:v1EnvelopeSize], payload[v1EnvelopeSize:]
	k, err := rsa.DecryptOAEP(sha512.New384(), nil, priv, envelope, []byte(h))
	if err != nil {
		return nil, ErrKeyUnsealFailed
	}
	defer ct.Zero(k)

	return v1Decrypt(k, h, body, footer, envelope)
}

// v1Encrypt returns n || c || t where
//
//	n = HMAC-SHA384(random(32), msg)[:32]
//	c = AES-256-CTR(ek, n[16:], msg)
//	t = HMAC-SHA384(ak, PAE(h, [envelope,] n, c, f))
func v1Encrypt(key []byte, h string, msg, footer, envelope []byte) ([]byte, error) {
	b, err := randomBytes(v1NonceSize)
	if err != nil {
		return nil, err
	}
	n := hmac.SHA384(b, msg)[:v1NonceSize]

	ek, ak, err := v1Subkeys(key, n)
	if err != nil {
		return nil, err
	}
	defer ct.Zero(ek)
	defer ct.Zero(ak)

	c, err := aesCTR(ek, n[16:], msg)
	if err != nil {
		return nil, err
	}
	t := hmac.SHA384(ak, v1MACInput(h, envelope, n, c, footer))

	out := make([]byte, 0, len(n)+len(c)+len(t))
	out = append(out, n...)
	out = append(out, c...)
	return append(out, t...), nil
}

func v1Decrypt(key []byte, h string, payload, footer, envelope []byte) ([]byte, error) {
	if minSize := v1NonceSize + v1MACSize; len(payload) < minSize {
		return nil, lengthError(ErrTruncatedPayload, minSize, len(payload))
	}

	n := payload[:v1NonceSize]
	c := payload[v1NonceSize : len(payload)-v1MACSize]
	t := payload[len(payload)-v1MACSize:]

	ek, ak, err := v1Subkeys(key, n)
	if err != nil {
		return nil, err
	}
	defer ct.Zero(ek)
	defer ct.Zero(ak)

	if !hmac.Equal(t, hmac.SHA384(ak, v1MACInput(h, envelope, n, c, footer))) {
		return nil, ErrDecryptionFailed
	}
	return aesCTR(ek, n[16:], c)
}

func v1MACInput(h string, envelope, n, c, footer []byte) []byte {
	if envelope == nil {
		return PAE([]byte(h), n, c, footer)
	}
	return PAE([]byte(h), envelope, n, c, footer)
}

// v1Subkeys derives the encryption and authentication keys with
// HKDF-SHA384 salted by the first half of the nonce.
func v1Subkeys(key, n []byte) (ek, ak []byte, err error) {
	salt := n[:16]
	ek, err = hkdfSHA384(key, salt, []byte(infoEncryptionKey), v1SubkeySize)
	if err != nil {
		return nil, nil, err
	}
	ak, err = hkdfSHA384(key, salt, []byte(infoAuthKey), v1SubkeySize)
	if err != nil {
		ct.Zero(ek)
		return nil, nil, err
	}
	return ek, ak, nil
}

func hkdfSHA384(secret, salt, info []byte, size int) ([]byte, error) {
	out := make([]byte, size)
	if _, err := io.ReadFull(hkdf.New(sha512.New384, secret, salt, info), out); err != nil {
		return nil, err
	}
	return out, nil
}

// aesCTR is its own inverse.
func aesCTR(key, iv, in []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(in))
	cipher.NewCTR(block, iv).XORKeyStream(out, in)
	return out, nil
}

func concat(a, b []byte) []byte {
	out := make([]byte, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}
