package paseto

import (
	"bytes"
	"encoding/hex"
	"testing"
)

func TestPAE(t *testing.T) {
	tests := []struct {
		name   string
		pieces [][]byte
		want   string
	}{
		{"no pieces", nil, "0000000000000000"},
		{"one empty piece", [][]byte{{}}, "01000000000000000000000000000000"},
		{"two empty pieces", [][]byte{{}, {}}, "020000000000000000000000000000000000000000000000"},
		{"test", [][]byte{[]byte("test")}, "0100000000000000040000000000000074657374"},
		{"nil piece", [][]byte{nil}, "01000000000000000000000000000000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := hex.EncodeToString(PAE(tt.pieces...))
			if got != tt.want {
				t.Errorf("PAE() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestPAEInjective(t *testing.T) {
	cases := [][][]byte{
		{[]byte("ab"), []byte("c")},
		{[]byte("a"), []byte("bc")},
		{[]byte("abc")},
		{[]byte("abc"), nil},
		{nil, []byte("abc")},
	}

	seen := make(map[string]int)
	for i, pieces := range cases {
		enc := string(PAE(pieces...))
		if j, ok := seen[enc]; ok {
			t.Fatalf("cases %d and %d encode identically", i, j)
		}
		seen[enc] = i
	}
}

func TestPAEDeterministic(t *testing.T) {
	a := PAE([]byte("v2.enc."), []byte("nonce"), []byte("footer"))
	b := PAE([]byte("v2.enc."), []byte("nonce"), []byte("footer"))
	if !bytes.Equal(a, b) {
		t.Fatal("PAE is not deterministic")
	}
	if len(a) != 8+3*8+len("v2.enc.")+len("nonce")+len("footer") {
		t.Fatalf("unexpected length %d", len(a))
	}
}

func TestLE64ClearsMSB(t *testing.T) {
	got := le64(nil, -1)
	if got[7]&0x80 != 0 {
		t.Fatalf("most significant bit set: %x", got)
	}
}
