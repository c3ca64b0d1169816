// Package ecies implements an X25519 sealed box: anonymous public key
// encryption with a key commitment.
//
// Each Seal generates an ephemeral X25519 key pair and derives, from the shared
// secret, an XChaCha20-Poly1305 key and a 32-byte key commitment:
//
//	ss = X25519(esk, pk)
//	ek = BLAKE2b-256(key=ss, "paseto-seal-encryption-key" || epk || pk)
//	kc = BLAKE2b-256(key=ss, "paseto-seal-key-commitment" || epk || pk)
//	n  = BLAKE2b-192(epk || pk)
//	c  = XChaCha20-Poly1305(ek, n, plaintext, aad)
//
// The sealed output is epk || kc || c. Open distinguishes envelope failures
// (ErrKeyUnwrap) from body failures (ErrDecryptionFailed).
//
// Recipient keys can be derived from an Ed25519 key pair, so one signing key
// also receives sealed messages:
//
//	priv, err := ecies.ImportEd25519(edPriv)
//	if err != nil {
//	    return err
//	}
//	defer priv.Destroy()
//
//	sealed, err := ecies.Seal(priv.Public(), []byte("hello"), nil)
//	plaintext, err := ecies.Open(priv, sealed, nil)
package ecies
