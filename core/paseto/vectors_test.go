package paseto

import (
	"crypto"
	"crypto/aes"
	"crypto/cipher"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/hmac"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha512"
	"encoding/base64"
	"encoding/binary"
	"io"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

// The helpers below rebuild each construction from primitives so that the
// tests fail when a derivation changes on both the sealing and opening side.

func expectPAE(pieces ...[]byte) []byte {
	le := func(n int) []byte {
		b := make([]byte, 8)
		binary.LittleEndian.PutUint64(b, uint64(n)&^(1<<63))
		return b
	}
	out := le(len(pieces))
	for _, p := range pieces {
		out = append(out, le(len(p))...)
		out = append(out, p...)
	}
	return out
}

func expectToken(h string, payload, footer []byte) string {
	s := h + base64.RawURLEncoding.EncodeToString(payload)
	if len(footer) > 0 {
		s += "." + base64.RawURLEncoding.EncodeToString(footer)
	}
	return s
}

func expectHKDF(t *testing.T, key, salt, info []byte, size int) []byte {
	t.Helper()
	out := make([]byte, size)
	_, err := io.ReadFull(hkdf.New(sha512.New384, key, salt, info), out)
	require.NoError(t, err)
	return out
}

func expectCTR(t *testing.T, key, iv, in []byte) []byte {
	t.Helper()
	block, err := aes.NewCipher(key)
	require.NoError(t, err)
	out := make([]byte, len(in))
	cipher.NewCTR(block, iv).XORKeyStream(out, in)
	return out
}

func mac384(key []byte, data []byte) []byte {
	m := hmac.New(sha512.New384, key)
	m.Write(data)
	return m.Sum(nil)
}

func sequence(n int, start byte) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = start + byte(i)
	}
	return b
}

func TestPAEVectors(t *testing.T) {
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0, 0}, PAE())
	assert.Equal(t, []byte{1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}, PAE([]byte{}))
	assert.Equal(t, append([]byte{1, 0, 0, 0, 0, 0, 0, 0, 4, 0, 0, 0, 0, 0, 0, 0}, "test"...), PAE([]byte("test")))
}

func TestAuthKnownAnswer(t *testing.T) {
	msg := []byte("test")
	zero := make([]byte, 32)

	macs := map[Version]func(data []byte) []byte{
		V1: func(data []byte) []byte { return mac384(zero, data) },
		V2: func(data []byte) []byte {
			m := hmac.New(sha512.New, zero)
			m.Write(data)
			return m.Sum(nil)[:32]
		},
		V3: func(data []byte) []byte { return mac384(zero, data) },
	}

	for _, p := range protocols {
		for _, footer := range [][]byte{nil, []byte(`{"kid":"k1"}`)} {
			t.Run(p.Header()+"/"+string(footer), func(t *testing.T) {
				key, err := NewSymmetricAuthenticationKey(p.Version(), zero)
				require.NoError(t, err)

				h := p.Header() + ".auth."
				tag := macs[p.Version()](expectPAE([]byte(h), msg, footer))
				want := expectToken(h, append(append([]byte{}, msg...), tag...), footer)

				got, err := p.Auth(msg, key, footer)
				require.NoError(t, err)
				assert.Equal(t, want, got)

				out, err := p.AuthVerify(want, key, footer)
				require.NoError(t, err)
				assert.Equal(t, msg, out)
			})
		}
	}
}

func TestV1DecryptKnownAnswer(t *testing.T) {
	key := sequence(32, 0x10)
	n := sequence(32, 0xa0)
	msg := []byte(`{"data":"this is a signed message"}`)
	footer := []byte("v1 footer")
	h := "v1.enc."

	ek := expectHKDF(t, key, n[:16], []byte("paseto-encryption-key"), 32)
	ak := expectHKDF(t, key, n[:16], []byte("paseto-auth-key-for-aead"), 32)
	c := expectCTR(t, ek, n[16:], msg)
	tag := mac384(ak, expectPAE([]byte(h), n, c, footer))

	payload := append(append(append([]byte{}, n...), c...), tag...)
	token := expectToken(h, payload, footer)

	k, err := NewSymmetricEncryptionKey(V1, key)
	require.NoError(t, err)

	out, err := Version1.Decrypt(token, k, footer)
	require.NoError(t, err)
	assert.Equal(t, msg, out)

	// salt over the whole nonce must not verify
	badAK := expectHKDF(t, key, n, []byte("paseto-auth-key-for-aead"), 32)
	bad := append(append(append([]byte{}, n...), c...), mac384(badAK, expectPAE([]byte(h), n, c, footer))...)
	_, err = Version1.Decrypt(expectToken(h, bad, footer), k, footer)
	assert.ErrorIs(t, err, ErrDecryptionFailed)
}

func TestV2DecryptKnownAnswer(t *testing.T) {
	key := sequence(32, 0x70)
	n := sequence(chacha20poly1305.NonceSizeX, 0x01)
	msg := []byte("xchacha message")
	footer := []byte(`{"kid":"v2"}`)
	h := "v2.enc."

	aead, err := chacha20poly1305.NewX(key)
	require.NoError(t, err)
	payload := aead.Seal(append([]byte{}, n...), n, msg, expectPAE([]byte(h), n, footer))

	k, err := NewSymmetricEncryptionKey(V2, key)
	require.NoError(t, err)

	out, err := Version2.Decrypt(expectToken(h, payload, footer), k, footer)
	require.NoError(t, err)
	assert.Equal(t, msg, out)
}

func TestV3DecryptKnownAnswer(t *testing.T) {
	key := sequence(32, 0x40)
	n := sequence(32, 0xc0)
	msg := []byte("aes-ctr with nonce bound subkeys")
	h := "v3.enc."

	for _, footer := range [][]byte{nil, []byte("v3 footer")} {
		tmp := expectHKDF(t, key, nil, append([]byte("paseto-encryption-key"), n...), 48)
		ak := expectHKDF(t, key, nil, append([]byte("paseto-auth-key-for-aead"), n...), 48)
		c := expectCTR(t, tmp[:32], tmp[32:], msg)
		tag := mac384(ak, expectPAE([]byte(h), n, c, footer, []byte{}))

		payload := append(append(append([]byte{}, n...), c...), tag...)

		k, err := NewSymmetricEncryptionKey(V3, key)
		require.NoError(t, err)

		out, err := Version3.Decrypt(expectToken(h, payload, footer), k, footer)
		require.NoError(t, err)
		assert.Equal(t, msg, out)

		// without the implicit assertion slot the tag differs
		short := mac384(ak, expectPAE([]byte(h), n, c, footer))
		bad := append(append(append([]byte{}, n...), c...), short...)
		_, err = Version3.Decrypt(expectToken(h, bad, footer), k, footer)
		assert.ErrorIs(t, err, ErrDecryptionFailed)
	}
}

func TestV1SignKnownAnswer(t *testing.T) {
	sk := testSecretKey(t, V1)
	priv := sk.Key().(*rsa.PrivateKey)
	msg := []byte("rsa pss")
	footer := []byte("f")
	h := "v1.sign."
	pss := &rsa.PSSOptions{SaltLength: 48, Hash: crypto.SHA384}

	digest := sha512.Sum384(expectPAE([]byte(h), msg, footer))
	sig, err := rsa.SignPSS(rand.Reader, priv, crypto.SHA384, digest[:], pss)
	require.NoError(t, err)

	out, err := Version1.SignVerify(expectToken(h, append(append([]byte{}, msg...), sig...), footer), sk.Public(), footer)
	require.NoError(t, err)
	assert.Equal(t, msg, out)

	token, err := Version1.Sign(msg, sk, footer)
	require.NoError(t, err)
	parsed, err := Parse(token)
	require.NoError(t, err)
	got := parsed.Payload[len(parsed.Payload)-256:]
	assert.NoError(t, rsa.VerifyPSS(&priv.PublicKey, crypto.SHA384, digest[:], got, pss))
}

func TestV2SignKnownAnswer(t *testing.T) {
	seed := sequence(ed25519.SeedSize, 0x33)
	priv := ed25519.NewKeyFromSeed(seed)
	sk, err := NewV2AsymmetricSecretKey(priv)
	require.NoError(t, err)

	msg := []byte("ed25519")
	h := "v2.sign."
	sig := ed25519.Sign(priv, expectPAE([]byte(h), msg, nil))
	want := expectToken(h, append(append([]byte{}, msg...), sig...), nil)

	// Ed25519 is deterministic, so the token is fixed
	got, err := Version2.Sign(msg, sk, nil)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestV3SignKnownAnswer(t *testing.T) {
	sk := testSecretKey(t, V3)
	priv := sk.Key().(*ecdsa.PrivateKey)
	msg := []byte("p-384")
	footer := []byte(`{"kid":"p384"}`)
	h := "v3.sign."

	pk := elliptic.MarshalCompressed(elliptic.P384(), priv.X, priv.Y)
	require.Len(t, pk, 49)
	assert.Contains(t, []byte{0x02, 0x03}, pk[0])

	digest := sha512.Sum384(expectPAE(pk, []byte(h), msg, footer, []byte{}))
	r, s, err := ecdsa.Sign(rand.Reader, priv, digest[:])
	require.NoError(t, err)
	sig := make([]byte, 96)
	r.FillBytes(sig[:48])
	s.FillBytes(sig[48:])

	out, err := Version3.SignVerify(expectToken(h, append(append([]byte{}, msg...), sig...), footer), sk.Public(), footer)
	require.NoError(t, err)
	assert.Equal(t, msg, out)

	token, err := Version3.Sign(msg, sk, footer)
	require.NoError(t, err)
	parsed, err := Parse(token)
	require.NoError(t, err)
	got := parsed.Payload[len(parsed.Payload)-96:]
	assert.True(t, ecdsa.Verify(&priv.PublicKey, digest[:], new(big.Int).SetBytes(got[:48]), new(big.Int).SetBytes(got[48:])))
}
