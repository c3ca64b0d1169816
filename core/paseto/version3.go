package paseto

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha512"
	"math/big"

	"github.com/kochabx/paseto/core/crypto/ct"
	"github.com/kochabx/paseto/core/crypto/hmac"
)

// v3 sizes
const (
	v3NonceSize      = 32
	v3MACSize        = hmac.SHA384Size
	v3ScalarSize     = 48
	v3SignatureSize  = 2 * v3ScalarSize
	v3DerivedKeySize = 48
)

type version3 struct{}

func (version3) Version() Version { return V3 }
func (version3) Header() string   { return V3.String() }

func (version3) Auth(msg []byte, key *SymmetricAuthenticationKey, footer []byte) (string, error) {
	return authenticate(V3, hmac.SHA384, msg, key, footer)
}

func (version3) AuthVerify(token string, key *SymmetricAuthenticationKey, footer []byte) ([]byte, error) {
	return verifyAuthentication(V3, hmac.SHA384, v3MACSize, token, key, footer)
}

// Encrypt binds the random nonce into both HKDF derivations, so subkeys and
// the CTR counter block are unique per token.
func (version3) Encrypt(msg []byte, key *SymmetricEncryptionKey, footer []byte) (string, error) {
	if err := checkKey(key, V3); err != nil {
		return "", err
	}

	n, err := randomBytes(v3NonceSize)
	if err != nil {
		return "", err
	}

	ek, n2, ak, err := v3Subkeys(key.material, n)
	if err != nil {
		return "", err
	}
	defer ct.Zero(ek)
	defer ct.Zero(ak)

	c, err := aesCTR(ek, n2, msg)
	if err != nil {
		return "", err
	}

	h := Header(V3, PurposeEncrypt)
	t := hmac.SHA384(ak, PAE([]byte(h), n, c, footer, nil))

	payload := make([]byte, 0, len(n)+len(c)+len(t))
	payload = append(payload, n...)
	payload = append(payload, c...)
	payload = append(payload, t...)
	return Encode(h, payload, footer), nil
}

func (version3) Decrypt(token string, key *SymmetricEncryptionKey, footer []byte) ([]byte, error) {
	if err := checkKey(key, V3); err != nil {
		return nil, err
	}

	h := Header(V3, PurposeEncrypt)
	payload, err := open(token, h, footer)
	if err != nil {
		return nil, err
	}
	if minSize := v3NonceSize + v3MACSize; len(payload) < minSize {
		return nil, lengthError(ErrTruncatedPayload, minSize, len(payload))
	}

	n := payload[:v3NonceSize]
	c := payload[v3NonceSize : len(payload)-v3MACSize]
	t := payload[len(payload)-v3MACSize:]

	ek, n2, ak, err := v3Subkeys(key.material, n)
	if err != nil {
		return nil, err
	}
	defer ct.Zero(ek)
	defer ct.Zero(ak)

	if !hmac.Equal(t, hmac.SHA384(ak, PAE([]byte(h), n, c, footer, nil))) {
		return nil, ErrDecryptionFailed
	}
	return aesCTR(ek, n2, c)
}

// Sign signs PAE(compressed public key, h, m, f, i) so a signature cannot be
// replayed under another key.
func (version3) Sign(msg []byte, key *AsymmetricSecretKey, footer []byte) (string, error) {
	if err := checkKey(key, V3); err != nil {
		return "", err
	}
	priv, ok := key.key.(*ecdsa.PrivateKey)
	if !ok {
		return "", ErrInvalidKey
	}

	h := Header(V3, PurposeSign)
	pk := elliptic.MarshalCompressed(priv.Curve, priv.X, priv.Y)
	digest := sha512.Sum384(PAE(pk, []byte(h), msg, footer, nil))

	r, s, err := ecdsa.Sign(rand.Reader, priv, digest[:])
	if err != nil {
		return "", ErrInvalidKey.WithCause(err)
	}

	sig := make([]byte, v3SignatureSize)
	r.FillBytes(sig[:v3ScalarSize])
	s.FillBytes(sig[v3ScalarSize:])

	return Encode(h, concat(msg, sig), footer), nil
}

func (version3) SignVerify(token string, key *AsymmetricPublicKey, footer []byte) ([]byte, error) {
	if err := checkKey(key, V3); err != nil {
		return nil, err
	}
	pub, ok := key.key.(*ecdsa.PublicKey)
	if !ok {
		return nil, ErrInvalidKey
	}

	h := Header(V3, PurposeSign)
	payload, err := open(token, h, footer)
	if err != nil {
		return nil, err
	}
	msg, sig, err := splitTail(payload, v3SignatureSize)
	if err != nil {
		return nil, err
	}

	pk := elliptic.MarshalCompressed(pub.Curve, pub.X, pub.Y)
	digest := sha512.Sum384(PAE(pk, []byte(h), msg, footer, nil))

	r := new(big.Int).SetBytes(sig[:v3ScalarSize])
	s := new(big.Int).SetBytes(sig[v3ScalarSize:])
	if !ecdsa.Verify(pub, digest[:], r, s) {
		return nil, ErrSignatureVerificationFailed
	}
	return msg, nil
}

func (version3) Seal([]byte, *AsymmetricPublicKey, []byte) (string, error) {
	return "", unsupported(V3, "seal")
}

func (version3) Unseal(string, *AsymmetricSecretKey, []byte) ([]byte, error) {
	return nil, unsupported(V3, "unseal")
}

// v3Subkeys returns
//
//	ek || n2 = HKDF-SHA384(key, info="paseto-encryption-key" || n, 48)
//	ak       = HKDF-SHA384(key, info="paseto-auth-key-for-aead" || n, 48)
func v3Subkeys(key, n []byte) (ek, n2, ak []byte, err error) {
	tmp, err := hkdfSHA384(key, nil, concat([]byte(infoEncryptionKey), n), v3DerivedKeySize)
	if err != nil {
		return nil, nil, nil, err
	}
	ak, err = hkdfSHA384(key, nil, concat([]byte(infoAuthKey), n), v3DerivedKeySize)
	if err != nil {
		ct.Zero(tmp)
		return nil, nil, nil, err
	}
	return tmp[:32], tmp[32:], ak, nil
}
