package paseto

import (
	"strings"

	"github.com/kochabx/paseto/core/crypto/ct"
)

// Token is a parsed token. Payload and Footer are raw bytes.
type Token struct {
	Version Version
	Purpose Purpose
	Payload []byte
	Footer  []byte
}

// Header returns "version.purpose.".
func (t *Token) Header() string {
	return Header(t.Version, t.Purpose)
}

// String serializes the token.
func (t *Token) String() string {
	return Encode(t.Header(), t.Payload, t.Footer)
}

// Encode serializes header, payload and footer. The footer segment is only
// emitted when the footer is non-empty.
func Encode(header string, payload, footer []byte) string {
	var sb strings.Builder
	sb.Grow(len(header) + b64.EncodedLen(len(payload)) + 1 + b64.EncodedLen(len(footer)))

	sb.WriteString(header)
	sb.WriteString(encode(payload))
	if len(footer) > 0 {
		sb.WriteByte('.')
		sb.WriteString(encode(footer))
	}
	return sb.String()
}

// Decode splits a token, checks that it carries expectedHeader and decodes
// payload and footer. A missing footer decodes to nil.
func Decode(token, expectedHeader string) (payload, footer []byte, err error) {
	parts, err := split(token)
	if err != nil {
		return nil, nil, err
	}

	if parts[0]+"."+parts[1]+"." != expectedHeader {
		return nil, nil, ErrInvalidHeader
	}

	return decodeSegments(parts)
}

// Parse decodes a token of any known version and purpose.
func Parse(token string) (*Token, error) {
	parts, err := split(token)
	if err != nil {
		return nil, err
	}

	v, err := ParseVersion(parts[0])
	if err != nil {
		return nil, err
	}
	p, err := ParsePurpose(parts[1])
	if err != nil {
		return nil, err
	}

	payload, footer, err := decodeSegments(parts)
	if err != nil {
		return nil, err
	}

	return &Token{
		Version: v,
		Purpose: p,
		Payload: payload,
		Footer:  footer,
	}, nil
}

// ExtractFooter returns the footer of a token without verifying anything.
// It exists for key lookup before verification; the result is untrusted.
func ExtractFooter(token string) ([]byte, error) {
	parts, err := split(token)
	if err != nil {
		return nil, err
	}
	if len(parts) == 3 {
		return nil, nil
	}
	return decode(parts[3])
}

func split(token string) ([]string, error) {
	parts := strings.Split(token, ".")
	switch {
	case len(parts) != 3 && len(parts) != 4:
		return nil, ErrMalformedToken
	case parts[0] == "" || parts[1] == "" || parts[2] == "":
		return nil, ErrMalformedToken
	case len(parts) == 4 && parts[3] == "":
		return nil, ErrMalformedToken
	}
	return parts, nil
}

func decodeSegments(parts []string) (payload, footer []byte, err error) {
	payload, err = decode(parts[2])
	if err != nil {
		return nil, nil, err
	}
	if len(parts) == 4 {
		footer, err = decode(parts[3])
		if err != nil {
			return nil, nil, err
		}
	}
	return payload, footer, nil
}

// checkFooter compares the token footer with the caller's footer in
// constant time.
func checkFooter(actual, expected []byte) error {
	if !ct.Equal(actual, expected) {
		return ErrFooterMismatch
	}
	return nil
}
