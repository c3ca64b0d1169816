package paseto

import (
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kochabx/paseto/core/crypto/ct"
	"github.com/kochabx/paseto/core/tag"
)

// PEM block types and headers
const (
	pemSymmetricKey = "PASETO SYMMETRIC KEY"
	pemPrivateKey   = "PRIVATE KEY"
	pemPublicKey    = "PUBLIC KEY"

	headerVersion = "Version"
	headerPurpose = "Purpose"
)

// KeyOption contains options for key generation and file I/O.
type KeyOption struct {
	Dirpath           string `json:"dirpath" default:"."`
	SecretKeyFilename string `json:"secret_key_filename" default:"secret.pem"`
	PublicKeyFilename string `json:"public_key_filename" default:"public.pem"`
	LocalKeyFilename  string `json:"local_key_filename" default:"local.key"`
}

// WithDirpath sets the directory path for key file operations.
func WithDirpath(dirpath string) func(*KeyOption) {
	return func(o *KeyOption) {
		o.Dirpath = dirpath
	}
}

// WithSecretKeyFilename sets the filename for the secret key.
func WithSecretKeyFilename(filename string) func(*KeyOption) {
	return func(o *KeyOption) {
		o.SecretKeyFilename = filename
	}
}

// WithPublicKeyFilename sets the filename for the public key.
func WithPublicKeyFilename(filename string) func(*KeyOption) {
	return func(o *KeyOption) {
		o.PublicKeyFilename = filename
	}
}

// WithLocalKeyFilename sets the filename for a symmetric key.
func WithLocalKeyFilename(filename string) func(*KeyOption) {
	return func(o *KeyOption) {
		o.LocalKeyFilename = filename
	}
}

func newKeyOption(opts []func(*KeyOption)) (*KeyOption, error) {
	option := &KeyOption{}
	if err := tag.ApplyDefaults(option); err != nil {
		return nil, fmt.Errorf("failed to apply defaults: %w", err)
	}
	for _, opt := range opts {
		opt(option)
	}
	return option, nil
}

// GenerateKeyFiles generates a key pair for v and writes the secret and public
// halves as PEM files. It returns the written paths.
func GenerateKeyFiles(v Version, opts ...func(*KeyOption)) (secretPath, publicPath string, err error) {
	option, err := newKeyOption(opts)
	if err != nil {
		return "", "", err
	}

	key, err := GenerateAsymmetricSecretKey(v)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate key: %w", err)
	}
	defer key.Destroy()

	secretPath = filepath.Join(option.Dirpath, option.SecretKeyFilename)
	if err := SaveSecretKey(key, secretPath); err != nil {
		return "", "", err
	}

	publicPath = filepath.Join(option.Dirpath, option.PublicKeyFilename)
	if err := SavePublicKey(key.Public(), publicPath); err != nil {
		return "", "", err
	}
	return secretPath, publicPath, nil
}

// GenerateSymmetricKeyFile generates a symmetric key for v and purpose and
// writes it to the configured directory.
func GenerateSymmetricKeyFile(v Version, p Purpose, opts ...func(*KeyOption)) (string, error) {
	option, err := newKeyOption(opts)
	if err != nil {
		return "", err
	}

	var key SymmetricKey
	switch p {
	case PurposeAuth:
		k, err := GenerateSymmetricAuthenticationKey(v)
		if err != nil {
			return "", err
		}
		key = k
	case PurposeEncrypt:
		k, err := GenerateSymmetricEncryptionKey(v)
		if err != nil {
			return "", err
		}
		key = k
	default:
		return "", ErrInvalidKey.WithMetadata(map[string]string{"purpose": string(p)})
	}
	defer key.Destroy()

	path := filepath.Join(option.Dirpath, option.LocalKeyFilename)
	return path, SaveSymmetricKey(key, path)
}

// MarshalSymmetricKey encodes a symmetric key as a PEM block carrying its
// version and purpose. The body is the hex encoded key.
func MarshalSymmetricKey(key SymmetricKey) []byte {
	material := key.Bytes()
	defer ct.Zero(material)

	return pem.EncodeToMemory(&pem.Block{
		Type: pemSymmetricKey,
		Headers: map[string]string{
			headerVersion: key.Version().String(),
			headerPurpose: string(key.Purpose()),
		},
		Bytes: []byte(hex.EncodeToString(material)),
	})
}

// ParseSymmetricKey decodes a key written by MarshalSymmetricKey.
func ParseSymmetricKey(data []byte) (SymmetricKey, error) {
	block, v, err := decodePEM(data, pemSymmetricKey)
	if err != nil {
		return nil, err
	}

	material, err := hex.DecodeString(strings.TrimSpace(string(block.Bytes)))
	if err != nil {
		return nil, ErrInvalidKey.WithCause(err)
	}
	defer ct.Zero(material)

	switch Purpose(block.Headers[headerPurpose]) {
	case PurposeAuth:
		key, err := NewSymmetricAuthenticationKey(v, material)
		if err != nil {
			return nil, err
		}
		return key, nil
	case PurposeEncrypt:
		key, err := NewSymmetricEncryptionKey(v, material)
		if err != nil {
			return nil, err
		}
		return key, nil
	}
	return nil, ErrInvalidKey.WithMetadata(map[string]string{"purpose": truncate(block.Headers[headerPurpose])})
}

// SaveSymmetricKey writes a symmetric key file readable by the owner only.
func SaveSymmetricKey(key SymmetricKey, path string) error {
	return writeKeyFile(path, MarshalSymmetricKey(key), 0o600)
}

// LoadSymmetricKey reads a symmetric key file.
func LoadSymmetricKey(path string) (SymmetricKey, error) {
	data, err := readKeyFile(path)
	if err != nil {
		return nil, err
	}
	return ParseSymmetricKey(data)
}

// LoadSymmetricAuthenticationKey reads a symmetric key file and requires an
// auth key.
func LoadSymmetricAuthenticationKey(path string) (*SymmetricAuthenticationKey, error) {
	key, err := LoadSymmetricKey(path)
	if err != nil {
		return nil, err
	}
	k, ok := key.(*SymmetricAuthenticationKey)
	if !ok {
		key.Destroy()
		return nil, ErrInvalidKey.WithMetadata(map[string]string{"purpose": string(key.Purpose())})
	}
	return k, nil
}

// LoadSymmetricEncryptionKey reads a symmetric key file and requires an
// enc key.
func LoadSymmetricEncryptionKey(path string) (*SymmetricEncryptionKey, error) {
	key, err := LoadSymmetricKey(path)
	if err != nil {
		return nil, err
	}
	k, ok := key.(*SymmetricEncryptionKey)
	if !ok {
		key.Destroy()
		return nil, ErrInvalidKey.WithMetadata(map[string]string{"purpose": string(key.Purpose())})
	}
	return k, nil
}

// MarshalSecretKey encodes a secret key as PKCS#8 PEM with a Version header.
func MarshalSecretKey(key *AsymmetricSecretKey) ([]byte, error) {
	der, err := x509.MarshalPKCS8PrivateKey(key.key)
	if err != nil {
		return nil, ErrInvalidKey.WithCause(err)
	}
	defer ct.Zero(der)

	return pem.EncodeToMemory(&pem.Block{
		Type:    pemPrivateKey,
		Headers: map[string]string{headerVersion: key.version.String()},
		Bytes:   der,
	}), nil
}

// ParseSecretKey decodes a key written by MarshalSecretKey.
func ParseSecretKey(data []byte) (*AsymmetricSecretKey, error) {
	block, v, err := decodePEM(data, pemPrivateKey)
	if err != nil {
		return nil, err
	}

	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, ErrInvalidKey.WithCause(err)
	}
	return NewAsymmetricSecretKey(v, key)
}

// MarshalPublicKey encodes a public key as PKIX PEM with a Version header.
func MarshalPublicKey(key *AsymmetricPublicKey) ([]byte, error) {
	der, err := x509.MarshalPKIXPublicKey(key.key)
	if err != nil {
		return nil, ErrInvalidKey.WithCause(err)
	}

	return pem.EncodeToMemory(&pem.Block{
		Type:    pemPublicKey,
		Headers: map[string]string{headerVersion: key.version.String()},
		Bytes:   der,
	}), nil
}

// ParsePublicKey decodes a key written by MarshalPublicKey.
func ParsePublicKey(data []byte) (*AsymmetricPublicKey, error) {
	block, v, err := decodePEM(data, pemPublicKey)
	if err != nil {
		return nil, err
	}

	key, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, ErrInvalidKey.WithCause(err)
	}
	return NewAsymmetricPublicKey(v, key)
}

// SaveSecretKey writes a secret key file readable by the owner only.
func SaveSecretKey(key *AsymmetricSecretKey, path string) error {
	data, err := MarshalSecretKey(key)
	if err != nil {
		return err
	}
	defer ct.Zero(data)
	return writeKeyFile(path, data, 0o600)
}

// LoadSecretKey reads a secret key file.
func LoadSecretKey(path string) (*AsymmetricSecretKey, error) {
	data, err := readKeyFile(path)
	if err != nil {
		return nil, err
	}
	defer ct.Zero(data)
	return ParseSecretKey(data)
}

// SavePublicKey writes a public key file.
func SavePublicKey(key *AsymmetricPublicKey, path string) error {
	data, err := MarshalPublicKey(key)
	if err != nil {
		return err
	}
	return writeKeyFile(path, data, 0o644)
}

// LoadPublicKey reads a public key file.
func LoadPublicKey(path string) (*AsymmetricPublicKey, error) {
	data, err := readKeyFile(path)
	if err != nil {
		return nil, err
	}
	return ParsePublicKey(data)
}

func decodePEM(data []byte, blockType string) (*pem.Block, Version, error) {
	block, _ := pem.Decode(data)
	if block == nil || block.Type != blockType {
		return nil, 0, ErrInvalidKey.WithMetadata(map[string]string{"pem": blockType})
	}

	v, err := ParseVersion(block.Headers[headerVersion])
	if err != nil {
		return nil, 0, err
	}
	return block, v, nil
}

func writeKeyFile(path string, data []byte, mode os.FileMode) error {
	if err := os.WriteFile(path, data, mode); err != nil {
		return ErrInvalidKey.WithMetadata(map[string]string{"path": path}).WithCause(err)
	}
	return nil
}

func readKeyFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ErrInvalidKey.WithMetadata(map[string]string{"path": path}).WithCause(err)
	}
	return data, nil
}
