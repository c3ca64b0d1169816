package batch

import (
	"github.com/kochabx/paseto/core/paseto"
)

// AuthVerify returns an Operation running p.AuthVerify.
func AuthVerify(p paseto.Protocol, key *paseto.SymmetricAuthenticationKey, footer []byte) Operation {
	return func(token string) ([]byte, error) {
		return p.AuthVerify(token, key, footer)
	}
}

// Decrypt returns an Operation running p.Decrypt.
func Decrypt(p paseto.Protocol, key *paseto.SymmetricEncryptionKey, footer []byte) Operation {
	return func(token string) ([]byte, error) {
		return p.Decrypt(token, key, footer)
	}
}

// SignVerify returns an Operation running p.SignVerify.
func SignVerify(p paseto.Protocol, key *paseto.AsymmetricPublicKey, footer []byte) Operation {
	return func(token string) ([]byte, error) {
		return p.SignVerify(token, key, footer)
	}
}

// Unseal returns an Operation running p.Unseal.
func Unseal(p paseto.Protocol, key *paseto.AsymmetricSecretKey, footer []byte) Operation {
	return func(token string) ([]byte, error) {
		return p.Unseal(token, key, footer)
	}
}

// WithFooter returns an Operation that reads each token's own footer and
// passes it to next. The footer is still authenticated by next; this only
// removes the need to know it in advance.
func WithFooter(next func(token string, footer []byte) ([]byte, error)) Operation {
	return func(token string) ([]byte, error) {
		footer, err := paseto.ExtractFooter(token)
		if err != nil {
			return nil, err
		}
		return next(token, footer)
	}
}
