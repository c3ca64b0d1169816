package paseto

import (
	"encoding/base64"
	"strings"
)

// b64 is unpadded base64url that rejects non-canonical trailing bits.
var b64 = base64.RawURLEncoding.Strict()

func encode(b []byte) string {
	return b64.EncodeToString(b)
}

// decode rejects padding, non-alphabet bytes and line breaks. The standard
// decoder silently skips CR and LF, so they are checked first.
func decode(s string) ([]byte, error) {
	if strings.ContainsAny(s, "\r\n=") {
		return nil, ErrEncoding
	}
	b, err := b64.DecodeString(s)
	if err != nil {
		return nil, ErrEncoding.WithCause(err)
	}
	return b, nil
}
