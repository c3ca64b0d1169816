package paseto

import (
	"github.com/kochabx/paseto/errors"
)

// Key errors
var (
	ErrInvalidKeyLength   = errors.BadRequest("paseto: invalid key length")
	ErrKeyVersionMismatch = errors.BadRequest("paseto: key version mismatch")
	ErrInvalidKey         = errors.BadRequest("paseto: invalid key")
)

// Registry errors
var (
	ErrUnsupportedVersion   = errors.NotImplemented("paseto: unsupported version")
	ErrUnsupportedOperation = errors.NotImplemented("paseto: unsupported operation")
)

// Parse errors. These never involve a cryptographic comparison.
var (
	ErrInvalidHeader    = errors.BadRequest("paseto: invalid header")
	ErrMalformedToken   = errors.BadRequest("paseto: malformed token")
	ErrEncoding         = errors.BadRequest("paseto: invalid base64url encoding")
	ErrTruncatedPayload = errors.BadRequest("paseto: truncated payload")
)

// Verification errors
var (
	ErrFooterMismatch              = errors.Unauthorized("paseto: footer mismatch")
	ErrAuthenticationFailed        = errors.Unauthorized("paseto: authentication failed")
	ErrDecryptionFailed            = errors.Unauthorized("paseto: decryption failed")
	ErrSignatureVerificationFailed = errors.Unauthorized("paseto: signature verification failed")
	ErrKeyUnsealFailed             = errors.Unauthorized("paseto: key unseal failed")
)

var (
	parseErrors = []error{
		ErrInvalidHeader,
		ErrMalformedToken,
		ErrEncoding,
		ErrTruncatedPayload,
	}
	verificationErrors = []error{
		ErrFooterMismatch,
		ErrAuthenticationFailed,
		ErrDecryptionFailed,
		ErrSignatureVerificationFailed,
		ErrKeyUnsealFailed,
	}
)

// IsParseError reports whether err is a structural token error.
func IsParseError(err error) bool {
	return errors.IsAny(err, parseErrors...)
}

// IsVerificationError reports whether err is a failed cryptographic check.
func IsVerificationError(err error) bool {
	return errors.IsAny(err, verificationErrors...)
}

func lengthError(sentinel *errors.Error, want, got int) error {
	return sentinel.WithMetadata(map[string]string{
		"want": itoa(want),
		"got":  itoa(got),
	})
}
