// Package hmac wraps the keyed MACs used by the token protocols.
package hmac

import (
	"crypto/hmac"
	"crypto/sha512"
	"hash"

	"github.com/kochabx/paseto/core/crypto/ct"
)

const (
	// SHA384Size is the HMAC-SHA384 output length.
	SHA384Size = sha512.Size384
	// SHA512256Size is the length of HMAC-SHA512 after truncation.
	SHA512256Size = 32
)

// SHA384 returns HMAC-SHA384(key, data[0] || data[1] || ...).
func SHA384(key []byte, data ...[]byte) []byte {
	return sum(sha512.New384, key, data)
}

// SHA512256 returns HMAC-SHA512(key, data) truncated to its first 32 bytes.
// This is not HMAC with the SHA-512/256 hash function.
func SHA512256(key []byte, data ...[]byte) []byte {
	return sum(sha512.New, key, data)[:SHA512256Size]
}

// Equal compares two MACs in constant time.
func Equal(mac, expected []byte) bool {
	return ct.Equal(mac, expected)
}

func sum(fn func() hash.Hash, key []byte, data [][]byte) []byte {
	h := hmac.New(fn, key)
	for _, d := range data {
		h.Write(d)
	}
	return h.Sum(nil)
}
