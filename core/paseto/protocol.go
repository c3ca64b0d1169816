package paseto

import (
	"github.com/kochabx/paseto/core/crypto/hmac"
)

// Protocol is one protocol version. Implementations are stateless and safe
// for concurrent use. Every method checks that the key belongs to the
// protocol's version before doing any work.
type Protocol interface {
	// Version returns the protocol version.
	Version() Version
	// Header returns the version prefix, e.g. "v2".
	Header() string

	Auth(msg []byte, key *SymmetricAuthenticationKey, footer []byte) (string, error)
	AuthVerify(token string, key *SymmetricAuthenticationKey, footer []byte) ([]byte, error)

	Encrypt(msg []byte, key *SymmetricEncryptionKey, footer []byte) (string, error)
	Decrypt(token string, key *SymmetricEncryptionKey, footer []byte) ([]byte, error)

	Sign(msg []byte, key *AsymmetricSecretKey, footer []byte) (string, error)
	SignVerify(token string, key *AsymmetricPublicKey, footer []byte) ([]byte, error)

	Seal(msg []byte, key *AsymmetricPublicKey, footer []byte) (string, error)
	Unseal(token string, key *AsymmetricSecretKey, footer []byte) ([]byte, error)
}

// Protocol singletons
var (
	Version1 Protocol = version1{}
	Version2 Protocol = version2{}
	Version3 Protocol = version3{}
)

type versioned interface {
	Version() Version
}

// checkKey rejects nil keys and keys bound to another version.
func checkKey[T any, K interface {
	*T
	versioned
}](key K, want Version) error {
	if key == nil {
		return ErrInvalidKey
	}
	if got := key.Version(); got != want {
		return ErrKeyVersionMismatch.WithMetadata(map[string]string{
			"want": want.String(),
			"got":  got.String(),
		})
	}
	return nil
}

// open decodes a token with the expected header and checks its footer. No
// cryptographic check runs when the footer differs.
func open(token, header string, footer []byte) ([]byte, error) {
	payload, tokenFooter, err := Decode(token, header)
	if err != nil {
		return nil, err
	}
	if err := checkFooter(tokenFooter, footer); err != nil {
		return nil, err
	}
	return payload, nil
}

// splitTail splits payload into a head and a fixed size tail.
func splitTail(payload []byte, size int) (head, tail []byte, err error) {
	if len(payload) < size {
		return nil, nil, lengthError(ErrTruncatedPayload, size, len(payload))
	}
	n := len(payload) - size
	return payload[:n], payload[n:], nil
}

type macFunc func(key []byte, data ...[]byte) []byte

// authenticate builds an auth token: msg || MAC(key, PAE(h, msg, f)).
func authenticate(v Version, mac macFunc, msg []byte, key *SymmetricAuthenticationKey, footer []byte) (string, error) {
	if err := checkKey(key, v); err != nil {
		return "", err
	}

	h := Header(v, PurposeAuth)
	tag := mac(key.material, PAE([]byte(h), msg, footer))

	payload := make([]byte, 0, len(msg)+len(tag))
	payload = append(payload, msg...)
	payload = append(payload, tag...)
	return Encode(h, payload, footer), nil
}

func verifyAuthentication(v Version, mac macFunc, size int, token string, key *SymmetricAuthenticationKey, footer []byte) ([]byte, error) {
	if err := checkKey(key, v); err != nil {
		return nil, err
	}

	h := Header(v, PurposeAuth)
	payload, err := open(token, h, footer)
	if err != nil {
		return nil, err
	}

	msg, tag, err := splitTail(payload, size)
	if err != nil {
		return nil, err
	}

	expected := mac(key.material, PAE([]byte(h), msg, footer))
	if !hmac.Equal(tag, expected) {
		return nil, ErrAuthenticationFailed
	}
	return msg, nil
}

func unsupported(v Version, op string) error {
	return ErrUnsupportedOperation.WithMetadata(map[string]string{
		"version":   v.String(),
		"operation": op,
	})
}
