// Package paseto implements versioned, platform-agnostic security tokens.
//
// A token has the textual form
//
//	version "." purpose "." base64url(payload) ["." base64url(footer)]
//
// Each protocol version fixes one combination of primitives:
//
//	v1  auth  HMAC-SHA384
//	    enc   AES-256-CTR + HMAC-SHA384, HKDF-SHA384 subkeys, nonce = HMAC(rand, msg)
//	    sign  RSASSA-PSS SHA-384, 2048-bit keys
//	    seal  RSA-OAEP SHA-384 envelope around the v1 enc body
//	v2  auth  HMAC-SHA512 truncated to 32 bytes
//	    enc   XChaCha20-Poly1305, nonce = BLAKE2b(rand, msg)
//	    sign  Ed25519
//	    seal  X25519 sealed box to the Ed25519 key pair
//	v3  auth  HMAC-SHA384
//	    enc   AES-256-CTR + HMAC-SHA384, nonce bound HKDF-SHA384 subkeys
//	    sign  ECDSA P-384 SHA-384
//
// Every MAC, associated data and signature input is built with PAE so that
// header, nonce, message and footer cannot be confused with one another.
// The footer is authenticated but never encrypted.
//
// Protocols are stateless values:
//
//	key, err := paseto.GenerateSymmetricEncryptionKey(paseto.V2)
//	if err != nil {
//	    return err
//	}
//	defer key.Destroy()
//
//	token, err := paseto.Version2.Encrypt([]byte(`{"sub":"alice"}`), key, []byte(`{"kid":"k1"}`))
//	msg, err := paseto.Version2.Decrypt(token, key, []byte(`{"kid":"k1"}`))
//
// A token of unknown version is dispatched through the registry:
//
//	p, err := paseto.ResolveToken(token)
package paseto
