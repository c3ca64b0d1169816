package ecies

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"testing"
)

func TestSealOpen(t *testing.T) {
	privateKey, err := GenerateKey()
	if err != nil {
		t.Fatalf("Failed to generate key: %v", err)
	}
	defer privateKey.Destroy()

	tests := []struct {
		name      string
		plaintext []byte
	}{
		{"empty", nil},
		{"short", []byte("Hello, sealed box!")},
		{"large", bytes.Repeat([]byte("Hello, world! "), 100)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sealed, err := Seal(privateKey.Public(), tt.plaintext, nil)
			if err != nil {
				t.Fatalf("Seal failed: %v", err)
			}
			if len(sealed) != MinSealedSize+len(tt.plaintext) {
				t.Fatalf("unexpected sealed size %d", len(sealed))
			}

			opened, err := Open(privateKey, sealed, nil)
			if err != nil {
				t.Fatalf("Open failed: %v", err)
			}
			if !bytes.Equal(opened, tt.plaintext) {
				t.Errorf("Opened data doesn't match.\nExpected: %s\nGot: %s", tt.plaintext, opened)
			}
		})
	}
}

func TestSealIsRandomized(t *testing.T) {
	privateKey, _ := GenerateKey()
	a, _ := Seal(privateKey.Public(), []byte("same"), nil)
	b, _ := Seal(privateKey.Public(), []byte("same"), nil)
	if bytes.Equal(a, b) {
		t.Fatal("two seals of the same message must differ")
	}
}

func TestOpenAdditionalData(t *testing.T) {
	privateKey, _ := GenerateKey()

	var seenEPK, seenKC []byte
	aad := func(epk, kc []byte) []byte {
		seenEPK, seenKC = bytes.Clone(epk), bytes.Clone(kc)
		return append(append([]byte("header"), epk...), kc...)
	}

	sealed, err := Seal(privateKey.Public(), []byte("bound"), aad)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(seenEPK, sealed[:KeySize]) || !bytes.Equal(seenKC, sealed[KeySize:2*KeySize]) {
		t.Fatal("aad callback did not receive the envelope")
	}

	if _, err := Open(privateKey, sealed, aad); err != nil {
		t.Fatalf("Open with matching aad failed: %v", err)
	}

	other := func(epk, kc []byte) []byte { return []byte("other") }
	if _, err := Open(privateKey, sealed, other); !errors.Is(err, ErrDecryptionFailed) {
		t.Fatalf("expected ErrDecryptionFailed, got %v", err)
	}
}

func TestOpenFailures(t *testing.T) {
	privateKey, _ := GenerateKey()
	sealed, err := Seal(privateKey.Public(), []byte("secret"), nil)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("too short", func(t *testing.T) {
		if _, err := Open(privateKey, sealed[:MinSealedSize-1], nil); !errors.Is(err, ErrCiphertextTooShort) {
			t.Fatalf("expected ErrCiphertextTooShort, got %v", err)
		}
	})

	t.Run("wrong recipient", func(t *testing.T) {
		other, _ := GenerateKey()
		if _, err := Open(other, sealed, nil); !errors.Is(err, ErrKeyUnwrap) {
			t.Fatalf("expected ErrKeyUnwrap, got %v", err)
		}
	})

	t.Run("commitment", func(t *testing.T) {
		tampered := bytes.Clone(sealed)
		tampered[offsetCommitment] ^= 1
		if _, err := Open(privateKey, tampered, nil); !errors.Is(err, ErrKeyUnwrap) {
			t.Fatalf("expected ErrKeyUnwrap, got %v", err)
		}
	})

	t.Run("body", func(t *testing.T) {
		tampered := bytes.Clone(sealed)
		tampered[len(tampered)-1] ^= 1
		if _, err := Open(privateKey, tampered, nil); !errors.Is(err, ErrDecryptionFailed) {
			t.Fatalf("expected ErrDecryptionFailed, got %v", err)
		}
	})

	t.Run("low order ephemeral", func(t *testing.T) {
		tampered := bytes.Clone(sealed)
		// u = 0 is a low order point
		clear(tampered[:KeySize])
		if _, err := Open(privateKey, tampered, nil); !errors.Is(err, ErrKeyUnwrap) {
			t.Fatalf("expected ErrKeyUnwrap, got %v", err)
		}
	})

	t.Run("nil key", func(t *testing.T) {
		if _, err := Open(nil, sealed, nil); !errors.Is(err, ErrPrivateKeyEmpty) {
			t.Fatalf("expected ErrPrivateKeyEmpty, got %v", err)
		}
		if _, err := Seal(nil, sealed, nil); !errors.Is(err, ErrPublicKeyEmpty) {
			t.Fatalf("expected ErrPublicKeyEmpty, got %v", err)
		}
	})
}

func TestSealToEd25519Key(t *testing.T) {
	edPub, edPriv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}

	priv, err := ImportEd25519(edPriv)
	if err != nil {
		t.Fatal(err)
	}
	pub, err := ImportEd25519Public(edPub)
	if err != nil {
		t.Fatal(err)
	}

	if !pub.Equals(priv.Public()) {
		t.Fatalf("converted public keys differ: %s != %s", pub.Hex(), priv.Public().Hex())
	}

	sealed, err := Seal(pub, []byte("one key pair for sign and seal"), nil)
	if err != nil {
		t.Fatal(err)
	}
	opened, err := Open(priv, sealed, nil)
	if err != nil {
		t.Fatal(err)
	}
	if string(opened) != "one key pair for sign and seal" {
		t.Fatalf("unexpected plaintext %q", opened)
	}
}

func BenchmarkSeal(b *testing.B) {
	privateKey, _ := GenerateKey()
	plaintext := bytes.Repeat([]byte("a"), 1024)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Seal(privateKey.Public(), plaintext, nil); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkOpen(b *testing.B) {
	privateKey, _ := GenerateKey()
	sealed, _ := Seal(privateKey.Public(), bytes.Repeat([]byte("a"), 1024), nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Open(privateKey, sealed, nil); err != nil {
			b.Fatal(err)
		}
	}
}
