package paseto

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"math/big"
	"slices"

	"github.com/kochabx/paseto/core/crypto/ct"
)

const (
	// SymmetricKeySize is the key size of auth and enc keys for every version.
	SymmetricKeySize = 32

	// RSAKeyBits is the only modulus size accepted by v1.
	RSAKeyBits = 2048
)

// SymmetricKey is implemented by both symmetric key types.
type SymmetricKey interface {
	Version() Version
	Purpose() Purpose
	Bytes() []byte
	Destroy()
}

type symmetricKey struct {
	version  Version
	material []byte
}

func newSymmetricKey(v Version, material []byte) (symmetricKey, error) {
	if !v.Valid() {
		return symmetricKey{}, ErrUnsupportedVersion
	}
	if len(material) != SymmetricKeySize {
		return symmetricKey{}, lengthError(ErrInvalidKeyLength, SymmetricKeySize, len(material))
	}

	b := make([]byte, SymmetricKeySize)
	copy(b, material)
	return symmetricKey{version: v, material: b}, nil
}

// Version returns the version the key is bound to.
func (k *symmetricKey) Version() Version {
	return k.version
}

// Bytes returns a copy of the key material.
func (k *symmetricKey) Bytes() []byte {
	b := make([]byte, len(k.material))
	copy(b, k.material)
	return b
}

// Destroy zeroes the key material.
func (k *symmetricKey) Destroy() {
	ct.Zero(k.material)
}

// SymmetricAuthenticationKey is used by Auth and AuthVerify only.
type SymmetricAuthenticationKey struct {
	symmetricKey
}

// NewSymmetricAuthenticationKey copies material into a key bound to v.
func NewSymmetricAuthenticationKey(v Version, material []byte) (*SymmetricAuthenticationKey, error) {
	k, err := newSymmetricKey(v, material)
	if err != nil {
		return nil, err
	}
	return &SymmetricAuthenticationKey{k}, nil
}

// GenerateSymmetricAuthenticationKey returns a random key bound to v.
func GenerateSymmetricAuthenticationKey(v Version) (*SymmetricAuthenticationKey, error) {
	b, err := randomBytes(SymmetricKeySize)
	if err != nil {
		return nil, err
	}
	defer ct.Zero(b)
	return NewSymmetricAuthenticationKey(v, b)
}

// Purpose returns PurposeAuth.
func (k *SymmetricAuthenticationKey) Purpose() Purpose {
	return PurposeAuth
}

// SymmetricEncryptionKey is used by Encrypt and Decrypt only.
type SymmetricEncryptionKey struct {
	symmetricKey
}

// NewSymmetricEncryptionKey copies material into a key bound to v.
func NewSymmetricEncryptionKey(v Version, material []byte) (*SymmetricEncryptionKey, error) {
	k, err := newSymmetricKey(v, material)
	if err != nil {
		return nil, err
	}
	return &SymmetricEncryptionKey{k}, nil
}

// GenerateSymmetricEncryptionKey returns a random key bound to v.
func GenerateSymmetricEncryptionKey(v Version) (*SymmetricEncryptionKey, error) {
	b, err := randomBytes(SymmetricKeySize)
	if err != nil {
		return nil, err
	}
	defer ct.Zero(b)
	return NewSymmetricEncryptionKey(v, b)
}

// Purpose returns PurposeEncrypt.
func (k *SymmetricEncryptionKey) Purpose() Purpose {
	return PurposeEncrypt
}

// AsymmetricSecretKey is the private half used by Sign and Unseal.
//
//	v1  *rsa.PrivateKey, 2048-bit modulus
//	v2  ed25519.PrivateKey
//	v3  *ecdsa.PrivateKey on P-384
type AsymmetricSecretKey struct {
	version Version
	key     crypto.PrivateKey
}

// NewAsymmetricSecretKey validates key for v and stores a copy of it.
func NewAsymmetricSecretKey(v Version, key crypto.PrivateKey) (*AsymmetricSecretKey, error) {
	var copied crypto.PrivateKey

	switch v {
	case V1:
		k, ok := key.(*rsa.PrivateKey)
		if !ok || k == nil || !validRSAPublic(&k.PublicKey) || k.D == nil || len(k.Primes) < 2 || slices.Contains(k.Primes, nil) {
			return nil, ErrInvalidKey
		}
		if k.N.BitLen() != RSAKeyBits {
			return nil, lengthError(ErrInvalidKeyLength, RSAKeyBits, k.N.BitLen())
		}
		c, err := copyRSAPrivateKey(k)
		if err != nil {
			return nil, err
		}
		copied = c
	case V2:
		k, ok := key.(ed25519.PrivateKey)
		if !ok {
			return nil, ErrInvalidKey
		}
		if len(k) != ed25519.PrivateKeySize {
			return nil, lengthError(ErrInvalidKeyLength, ed25519.PrivateKeySize, len(k))
		}
		c := make(ed25519.PrivateKey, ed25519.PrivateKeySize)
		copy(c, k)
		copied = c
	case V3:
		k, ok := key.(*ecdsa.PrivateKey)
		if !ok || k == nil {
			return nil, ErrInvalidKey
		}
		if k.Curve != elliptic.P384() {
			return nil, ErrInvalidKey.WithMetadata(map[string]string{"curve": curveName(k.Curve)})
		}
		if !validP384Point(&k.PublicKey) || !validP384Scalar(k) {
			return nil, ErrInvalidKey
		}
		copied = &ecdsa.PrivateKey{
			PublicKey: ecdsa.PublicKey{
				Curve: k.Curve,
				X:     new(big.Int).Set(k.X),
				Y:     new(big.Int).Set(k.Y),
			},
			D: new(big.Int).Set(k.D),
		}
	default:
		return nil, ErrUnsupportedVersion
	}

	return &AsymmetricSecretKey{version: v, key: copied}, nil
}

// NewV2AsymmetricSecretKey builds a v2 key from a 64-byte Ed25519 private key.
func NewV2AsymmetricSecretKey(b []byte) (*AsymmetricSecretKey, error) {
	if len(b) != ed25519.PrivateKeySize {
		return nil, lengthError(ErrInvalidKeyLength, ed25519.PrivateKeySize, len(b))
	}
	return NewAsymmetricSecretKey(V2, ed25519.PrivateKey(b))
}

// GenerateAsymmetricSecretKey generates a key pair for v.
func GenerateAsymmetricSecretKey(v Version) (*AsymmetricSecretKey, error) {
	var key crypto.PrivateKey

	switch v {
	case V1:
		k, err := rsa.GenerateKey(rand.Reader, RSAKeyBits)
		if err != nil {
			return nil, err
		}
		key = k
	case V2:
		_, k, err := ed25519.GenerateKey(rand.Reader)
		if err != nil {
			return nil, err
		}
		key = k
	case V3:
		k, err := ecdsa.GenerateKey(elliptic.P384(), rand.Reader)
		if err != nil {
			return nil, err
		}
		key = k
	default:
		return nil, ErrUnsupportedVersion
	}

	return &AsymmetricSecretKey{version: v, key: key}, nil
}

// Version returns the version the key is bound to.
func (k *AsymmetricSecretKey) Version() Version {
	return k.version
}

// Key returns the underlying private key. It is shared, not copied.
func (k *AsymmetricSecretKey) Key() crypto.PrivateKey {
	return k.key
}

// Public returns the matching public key.
func (k *AsymmetricSecretKey) Public() *AsymmetricPublicKey {
	var pub crypto.PublicKey

	switch key := k.key.(type) {
	case *rsa.PrivateKey:
		pub = &rsa.PublicKey{N: new(big.Int).Set(key.N), E: key.E}
	case ed25519.PrivateKey:
		p := make(ed25519.PublicKey, ed25519.PublicKeySize)
		copy(p, key[ed25519.SeedSize:])
		pub = p
	case *ecdsa.PrivateKey:
		pub = &ecdsa.PublicKey{
			Curve: key.Curve,
			X:     new(big.Int).Set(key.X),
			Y:     new(big.Int).Set(key.Y),
		}
	}

	return &AsymmetricPublicKey{version: k.version, key: pub}
}

// Destroy clears the private material. RSA precomputed values held inside
// the standard library cannot be reached and are only released.
func (k *AsymmetricSecretKey) Destroy() {
	switch key := k.key.(type) {
	case *rsa.PrivateKey:
		zeroInts(key.D, key.Precomputed.Dp, key.Precomputed.Dq, key.Precomputed.Qinv)
		zeroInts(key.Primes...)
	case ed25519.PrivateKey:
		ct.Zero(key)
	case *ecdsa.PrivateKey:
		zeroInts(key.D)
	}
}

// AsymmetricPublicKey is the public half used by SignVerify and Seal.
type AsymmetricPublicKey struct {
	version Version
	key     crypto.PublicKey
}

// NewAsymmetricPublicKey validates key for v and stores a copy of it.
func NewAsymmetricPublicKey(v Version, key crypto.PublicKey) (*AsymmetricPublicKey, error) {
	var copied crypto.PublicKey

	switch v {
	case V1:
		k, ok := key.(*rsa.PublicKey)
		if !ok || k == nil || !validRSAPublic(k) {
			return nil, ErrInvalidKey
		}
		if k.N.BitLen() != RSAKeyBits {
			return nil, lengthError(ErrInvalidKeyLength, RSAKeyBits, k.N.BitLen())
		}
		copied = &rsa.PublicKey{N: new(big.Int).Set(k.N), E: k.E}
	case V2:
		k, ok := key.(ed25519.PublicKey)
		if !ok {
			return nil, ErrInvalidKey
		}
		if len(k) != ed25519.PublicKeySize {
			return nil, lengthError(ErrInvalidKeyLength, ed25519.PublicKeySize, len(k))
		}
		c := make(ed25519.PublicKey, ed25519.PublicKeySize)
		copy(c, k)
		copied = c
	case V3:
		k, ok := key.(*ecdsa.PublicKey)
		if !ok || k == nil {
			return nil, ErrInvalidKey
		}
		if k.Curve != elliptic.P384() {
			return nil, ErrInvalidKey.WithMetadata(map[string]string{"curve": curveName(k.Curve)})
		}
		if !validP384Point(k) {
			return nil, ErrInvalidKey
		}
		copied = &ecdsa.PublicKey{Curve: k.Curve, X: new(big.Int).Set(k.X), Y: new(big.Int).Set(k.Y)}
	default:
		return nil, ErrUnsupportedVersion
	}

	return &AsymmetricPublicKey{version: v, key: copied}, nil
}

// NewV2AsymmetricPublicKey builds a v2 key from 32 Ed25519 public key bytes.
func NewV2AsymmetricPublicKey(b []byte) (*AsymmetricPublicKey, error) {
	if len(b) != ed25519.PublicKeySize {
		return nil, lengthError(ErrInvalidKeyLength, ed25519.PublicKeySize, len(b))
	}
	return NewAsymmetricPublicKey(V2, ed25519.PublicKey(b))
}

// Version returns the version the key is bound to.
func (k *AsymmetricPublicKey) Version() Version {
	return k.version
}

// Key returns the underlying public key.
func (k *AsymmetricPublicKey) Key() crypto.PublicKey {
	return k.key
}

// Bytes returns a compact encoding: the Ed25519 key for v2, the compressed
// point for v3 and the big-endian modulus for v1.
func (k *AsymmetricPublicKey) Bytes() []byte {
	switch key := k.key.(type) {
	case *rsa.PublicKey:
		return key.N.Bytes()
	case ed25519.PublicKey:
		b := make([]byte, len(key))
		copy(b, key)
		return b
	case *ecdsa.PublicKey:
		return elliptic.MarshalCompressed(key.Curve, key.X, key.Y)
	}
	return nil
}

func copyRSAPrivateKey(k *rsa.PrivateKey) (*rsa.PrivateKey, error) {
	primes := make([]*big.Int, len(k.Primes))
	for i, p := range k.Primes {
		primes[i] = new(big.Int).Set(p)
	}

	c := &rsa.PrivateKey{
		PublicKey: rsa.PublicKey{N: new(big.Int).Set(k.N), E: k.E},
		D:         new(big.Int).Set(k.D),
		Primes:    primes,
	}
	if err := c.Validate(); err != nil {
		return nil, ErrInvalidKey.WithCause(err)
	}
	c.Precompute()
	return c, nil
}

func validRSAPublic(k *rsa.PublicKey) bool {
	return k.N != nil && k.N.Sign() > 0 && k.E >= 3 && k.E%2 == 1
}

// validP384Point reports whether the affine point is set and lies on P-384.
func validP384Point(k *ecdsa.PublicKey) bool {
	if k.X == nil || k.Y == nil {
		return false
	}
	return k.Curve.IsOnCurve(k.X, k.Y)
}

// validP384Scalar reports whether D is in [1, n-1] and matches the public point.
func validP384Scalar(k *ecdsa.PrivateKey) bool {
	if k.D == nil || k.D.Sign() <= 0 || k.D.Cmp(k.Curve.Params().N) >= 0 {
		return false
	}
	x, y := k.Curve.ScalarBaseMult(k.D.Bytes())
	return x.Cmp(k.X) == 0 && y.Cmp(k.Y) == 0
}

func zeroInts(ints ...*big.Int) {
	for _, n := range ints {
		if n != nil {
			n.SetInt64(0)
		}
	}
}

func curveName(c elliptic.Curve) string {
	if c == nil || c.Params() == nil {
		return "unknown"
	}
	return c.Params().Name
}

func randomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}
