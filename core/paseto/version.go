package paseto

import (
	"strconv"
)

// Version identifies a protocol version.
type Version uint8

const (
	V1 Version = iota + 1
	V2
	V3
)

// String renders the version as it appears in a token, e.g. "v2".
func (v Version) String() string {
	return "v" + strconv.Itoa(int(v))
}

// Valid reports whether v is a known version.
func (v Version) Valid() bool {
	return v >= V1 && v <= V3
}

// ParseVersion parses "v1", "v2" or "v3".
func ParseVersion(s string) (Version, error) {
	switch s {
	case "v1":
		return V1, nil
	case "v2":
		return V2, nil
	case "v3":
		return V3, nil
	}
	return 0, ErrUnsupportedVersion.WithMetadata(map[string]string{"version": truncate(s)})
}

// MarshalText implements encoding.TextMarshaler.
func (v Version) MarshalText() ([]byte, error) {
	if !v.Valid() {
		return nil, ErrUnsupportedVersion.WithMetadata(map[string]string{"version": v.String()})
	}
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Version) UnmarshalText(text []byte) error {
	parsed, err := ParseVersion(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// Purpose identifies the operation family of a token.
type Purpose string

const (
	PurposeAuth    Purpose = "auth"
	PurposeEncrypt Purpose = "enc"
	PurposeSeal    Purpose = "seal"
	PurposeSign    Purpose = "sign"
)

// Valid reports whether p is a known purpose.
func (p Purpose) Valid() bool {
	switch p {
	case PurposeAuth, PurposeEncrypt, PurposeSeal, PurposeSign:
		return true
	}
	return false
}

// ParsePurpose parses "auth", "enc", "seal" or "sign".
func ParsePurpose(s string) (Purpose, error) {
	p := Purpose(s)
	if !p.Valid() {
		return "", ErrInvalidHeader.WithMetadata(map[string]string{"purpose": truncate(s)})
	}
	return p, nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Purpose) UnmarshalText(text []byte) error {
	parsed, err := ParsePurpose(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Header returns the token prefix for a version and purpose, e.g. "v2.enc.".
func Header(v Version, p Purpose) string {
	return v.String() + "." + string(p) + "."
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

// truncate bounds attacker controlled strings copied into error metadata.
func truncate(s string) string {
	const limit = 16
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}
